package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ExpenseCategoryLabor             = "labor"
	ExpenseCategorySeeds             = "seeds"
	ExpenseCategoryFertilizer        = "fertilizer"
	ExpenseCategoryPesticide         = "pesticide"
	ExpenseCategoryEquipment         = "equipment"
	ExpenseCategoryUtilities         = "utilities"
	ExpenseCategoryInventoryPurchase = "inventory_purchase"
	ExpenseCategoryOther             = "other"
)

const (
	ExpenseEntityTask          = "task"
	ExpenseEntityInventoryItem = "inventory_item"
)

type Expense struct {
	gorm.Model
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	Category          string          `gorm:"size:32;not null;index" json:"category"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date              time.Time       `gorm:"not null" json:"date"`
	PaymentMethod     string          `gorm:"size:32" json:"payment_method"`
	RelatedEntityType string          `gorm:"size:32;index:idx_expense_entity" json:"related_entity_type"`
	RelatedEntityID   uint            `gorm:"index:idx_expense_entity" json:"related_entity_id"`
	LaborWageID       *uint           `gorm:"index" json:"labor_wage_id,omitempty"`
}
