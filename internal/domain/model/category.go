package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID   string    `gorm:"type:uuid;not null;index" json:"storeId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
