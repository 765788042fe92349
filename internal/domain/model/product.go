package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID     string          `gorm:"type:uuid;not null;index" json:"storeId"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"categoryId"`
	ColorID     string          `gorm:"type:uuid;not null;index" json:"colorId"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	//在庫は支払い確定時にだけ減らす
	Stock      int64     `gorm:"not null;default:0" json:"stock"`
	IsFeatured bool      `gorm:"not null;default:false" json:"isFeatured"`
	IsArchived bool      `gorm:"not null;default:false;index" json:"isArchived"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Color      *Color    `gorm:"foreignKey:ColorID" json:"color,omitempty"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
