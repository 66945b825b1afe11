package models

import (
	"time"

	"gorm.io/gorm"
)

type APIToken struct {
	gorm.Model
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Name       string     `gorm:"size:64" json:"name"`
	Token      string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}
