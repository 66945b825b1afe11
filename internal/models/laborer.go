package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RateType string

const (
	RatePerDay  RateType = "per_day"
	RatePerTask RateType = "per_task"
)

type LaborerStatus string

const (
	LaborerActive   LaborerStatus = "active"
	LaborerInactive LaborerStatus = "inactive"
)

type Laborer struct {
	gorm.Model
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Name       string          `gorm:"not null" json:"name"`
	Phone      string          `json:"phone,omitempty"`
	SkillLevel string          `json:"skill_level,omitempty"`
	Rate       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rate"`
	RateType   RateType        `gorm:"size:16;not null;default:per_day" json:"rate_type"`
	Status     LaborerStatus   `gorm:"size:16;not null;default:active" json:"status"`
}

type LaborerGroup struct {
	gorm.Model
	UserID      uint                 `gorm:"not null;index" json:"user_id"`
	Name        string               `gorm:"not null" json:"name"`
	Description string               `gorm:"type:text" json:"description"`
	Color       string               `gorm:"size:16" json:"color,omitempty"`
	Members     []LaborerGroupMember `gorm:"foreignKey:LaborerGroupID" json:"members,omitempty"`
}

// LaborerGroupMember is the membership join row. Its ID orders members by
// the time they joined the group.
type LaborerGroupMember struct {
	ID             uint    `gorm:"primarykey" json:"id"`
	LaborerGroupID uint    `gorm:"not null;uniqueIndex:idx_group_laborer" json:"laborer_group_id"`
	LaborerID      uint    `gorm:"not null;uniqueIndex:idx_group_laborer" json:"laborer_id"`
	Laborer        Laborer `gorm:"foreignKey:LaborerID" json:"laborer"`
}
