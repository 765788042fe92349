package model

import (
	"time"

	"gorm.io/gorm"
)

type Color struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID string `gorm:"type:uuid;not null;index" json:"storeId"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	//#RRGGBB など
	Value     string    `gorm:"type:varchar(50);not null" json:"value"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (c *Color) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
