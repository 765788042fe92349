package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID                  string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID             string          `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID           string          `gorm:"type:uuid;not null;index" json:"productId"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"productName"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unitPrice"`
	Quantity            int64           `gorm:"not null;default:1" json:"quantity"`
	Product             *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// 単価 × 数量
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPriceSnapshot.Mul(decimal.NewFromInt(i.Quantity))
}
