package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Sale struct {
	gorm.Model
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	BuyerID       uint            `gorm:"not null;index" json:"buyer_id"`
	Buyer         User            `gorm:"foreignKey:BuyerID" json:"-"`
	RiceOrderID   uint            `gorm:"not null;uniqueIndex" json:"rice_order_id"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	SaleDate      time.Time       `gorm:"not null;index" json:"sale_date"`
	PaymentMethod string          `gorm:"size:32" json:"payment_method"`
	PaymentStatus string          `gorm:"size:16" json:"payment_status"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
}
