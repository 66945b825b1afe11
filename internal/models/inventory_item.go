package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InventorySeeds      = "seeds"
	InventoryFertilizer = "fertilizer"
	InventoryPesticide  = "pesticide"
	InventoryEquipment  = "equipment"
	InventoryProduce    = "produce"
	InventoryFuel       = "fuel"
	InventoryOther      = "other"
)

const (
	StockInStock    = "in_stock"
	StockLow        = "low_stock"
	StockOutOfStock = "out_of_stock"
)

type InventoryTxType string

const (
	InventoryIn         InventoryTxType = "in"
	InventoryOut        InventoryTxType = "out"
	InventoryAdjustment InventoryTxType = "adjustment"
)

// InventoryItem is a farm supply the farmer keeps on hand: seed, fertilizer,
// fuel and the like. It is not listed on the marketplace.
type InventoryItem struct {
	gorm.Model
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Name         string          `gorm:"not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Category     string          `gorm:"size:32;not null;index" json:"category"`
	Unit         string          `gorm:"size:32;not null" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"current_stock"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"minimum_stock"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	Supplier     string          `json:"supplier,omitempty"`
	Location     string          `json:"location,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`

	StockStatus string `gorm:"-" json:"stock_status"`
}

// IsLowStock reports whether stock has reached the reorder level.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinimumStock)
}

func (i *InventoryItem) IsOutOfStock() bool {
	return !i.CurrentStock.IsPositive()
}

func (i *InventoryItem) AfterFind(tx *gorm.DB) error {
	switch {
	case i.IsOutOfStock():
		i.StockStatus = StockOutOfStock
	case i.IsLowStock():
		i.StockStatus = StockLow
	default:
		i.StockStatus = StockInStock
	}
	return nil
}

// InventoryTransaction is one stock movement. Rows are append-only.
type InventoryTransaction struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	InventoryItemID uint            `gorm:"not null;index" json:"inventory_item_id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Type            InventoryTxType `gorm:"size:16;not null" json:"transaction_type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cost"`
	StockAfter      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"stock_after"`
	ReferenceType   string          `gorm:"size:32" json:"reference_type"`
	ExpenseID       *uint           `json:"expense_id,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
}
