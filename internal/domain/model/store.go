package model

import (
	"time"

	"gorm.io/gorm"
)

// ストア（テナントの境界）。他のエンティティはすべてStoreIDで区切る。
type Store struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	//オーナー（IDプロバイダのsub）
	UserID    string    `gorm:"type:varchar(255);not null;index" json:"userId"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
