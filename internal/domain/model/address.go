package model

import (
	"time"

	"gorm.io/gorm"
)

// 配送先住所
type CustomerAddress struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string `gorm:"type:uuid;not null;index" json:"customerId"`

	//宛名
	FullName string `gorm:"type:varchar(255);not null" json:"fullName"`

	//電話番号
	Mobile string `gorm:"type:varchar(30);not null" json:"mobile"`

	//部屋番号・建物
	HouseFlat string `gorm:"type:varchar(255);not null" json:"houseFlat"`

	Locality string `gorm:"type:varchar(255);not null" json:"locality"`

	AreaStreet string `gorm:"type:varchar(255);not null" json:"areaStreet"`

	//目印（任意）
	Landmark *string `gorm:"type:varchar(255)" json:"landmark"`

	City string `gorm:"type:varchar(255);not null" json:"city"`

	//この顧客のデフォルト住所か（顧客内で1つだけ）
	IsDefault bool `gorm:"not null;default:false" json:"isDefault"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (a *CustomerAddress) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
