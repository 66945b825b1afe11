package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	Type       string     `gorm:"size:32;not null;index" json:"type"`
	Title      string     `gorm:"not null" json:"title"`
	Message    string     `gorm:"type:text" json:"message"`
	Severity   string     `gorm:"size:16;not null;default:info" json:"severity"`
	EntityType string     `gorm:"size:32" json:"entity_type,omitempty"`
	EntityID   uint       `json:"entity_id,omitempty"`
	Link       string     `json:"link,omitempty"`
	ReadAt     *time.Time `gorm:"index" json:"read_at,omitempty"`
}
