package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	UnitKg    = "kg"
	UnitTons  = "tons"
	UnitBags  = "bags"
	UnitSacks = "sacks"
)

type RiceProduct struct {
	gorm.Model
	FarmerID          uint            `gorm:"not null;index" json:"farmer_id"`
	Farmer            User            `gorm:"foreignKey:FarmerID" json:"-"`
	Name              string          `gorm:"not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description"`
	Unit              string          `gorm:"size:16;not null;default:kg" json:"unit"`
	PricePerUnit      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_unit"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"quantity_available"`
	QualityGrade      string          `gorm:"size:32" json:"quality_grade,omitempty"`
	IsAvailable       bool            `gorm:"default:true;index" json:"is_available"`
}
