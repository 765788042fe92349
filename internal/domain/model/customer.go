package model

import (
	"time"

	"gorm.io/gorm"
)

// ストアフロントの顧客。IDプロバイダのsubに紐づき、初回の認証済みリクエストで作られる。
type Customer struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
	//IDプロバイダのsub
	ClerkID   string            `gorm:"type:varchar(255);not null;uniqueIndex" json:"clerkId"`
	FullName  string            `gorm:"type:varchar(255);not null;default:''" json:"fullName"`
	Email     string            `gorm:"type:varchar(255);not null;default:''" json:"email"`
	Mobile    string            `gorm:"type:varchar(30);not null;default:''" json:"mobile"`
	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID" json:"addresses"`
	CreatedAt time.Time         `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
