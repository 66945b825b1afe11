package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderAccepted       OrderStatus = "accepted"
	OrderReadyForPickup OrderStatus = "ready_for_pickup"
	OrderPickedUp       OrderStatus = "picked_up"
	OrderCancelled      OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderAccepted, OrderCancelled},
	OrderAccepted:       {OrderReadyForPickup, OrderCancelled},
	OrderReadyForPickup: {OrderPickedUp},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAccepted, OrderReadyForPickup, OrderPickedUp, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderPickedUp || s == OrderCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Progress is the percentage shown on order tracking screens.
func (s OrderStatus) Progress() int {
	switch s {
	case OrderPending:
		return 25
	case OrderAccepted:
		return 50
	case OrderReadyForPickup:
		return 75
	case OrderPickedUp:
		return 100
	}
	return 0
}

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	DeliveryPickup = "pickup"
)

type RiceOrder struct {
	gorm.Model
	ReferenceCode        string          `gorm:"uniqueIndex;size:36;not null" json:"reference_code"`
	BuyerID              uint            `gorm:"not null;index" json:"buyer_id"`
	Buyer                User            `gorm:"foreignKey:BuyerID" json:"-"`
	FarmerID             uint            `gorm:"not null;index" json:"farmer_id"`
	RiceProductID        uint            `gorm:"not null;index" json:"rice_product_id"`
	RiceProduct          RiceProduct     `gorm:"foreignKey:RiceProductID" json:"-"`
	Quantity             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status               OrderStatus     `gorm:"size:24;not null;default:pending;index" json:"status"`
	PaymentStatus        string          `gorm:"size:16;not null;default:pending" json:"payment_status"`
	PaymentMethod        string          `gorm:"size:32" json:"payment_method,omitempty"`
	DeliveryMethod       string          `gorm:"size:16;not null;default:pickup" json:"delivery_method"`
	DeliveryAddress      string          `gorm:"type:text" json:"delivery_address"`
	BuyerNotes           string          `gorm:"type:text" json:"buyer_notes,omitempty"`
	FarmerNotes          string          `gorm:"type:text" json:"farmer_notes,omitempty"`
	OrderDate            time.Time       `gorm:"not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	AcceptedAt           *time.Time      `json:"accepted_at,omitempty"`
	ReadyAt              *time.Time      `json:"ready_at,omitempty"`
	AutoConfirmAt        *time.Time      `json:"auto_confirm_at,omitempty"`
	PickedUpAt           *time.Time      `json:"picked_up_at,omitempty"`
	CancelledAt          *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason         string          `gorm:"type:text" json:"cancel_reason,omitempty"`
}
