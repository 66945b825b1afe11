package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxTransactionHistory = 50

type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

type InventoryItemInput struct {
	Name         string
	Description  string
	Category     string
	Unit         string
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal
	UnitPrice    decimal.Decimal
	Supplier     string
	Location     string
	ExpiryDate   *time.Time
	Notes        string
}

// RestockInput describes a purchase. UnitCost defaults to the item's unit
// price; the cost is booked as an expense unless SkipExpense is set.
type RestockInput struct {
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	SkipExpense bool
	Notes       string
}

type InventoryStats struct {
	TotalItems      int             `json:"total_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockItems   int             `json:"low_stock_items"`
	OutOfStockItems int             `json:"out_of_stock_items"`
}

// categoryAliases folds the spellings farmers use into stored categories.
var categoryAliases = map[string]string{
	"seed":           models.InventorySeeds,
	"seeds":          models.InventorySeeds,
	"fertilizer":     models.InventoryFertilizer,
	"fertilizers":    models.InventoryFertilizer,
	"pesticide":      models.InventoryPesticide,
	"pesticides":     models.InventoryPesticide,
	"equipment":      models.InventoryEquipment,
	"tools":          models.InventoryEquipment,
	"produce":        models.InventoryProduce,
	"harvest":        models.InventoryProduce,
	"harvested_rice": models.InventoryProduce,
	"fuel":           models.InventoryFuel,
	"other":          models.InventoryOther,
}

var expenseCategoryFor = map[string]string{
	models.InventorySeeds:      models.ExpenseCategorySeeds,
	models.InventoryFertilizer: models.ExpenseCategoryFertilizer,
	models.InventoryPesticide:  models.ExpenseCategoryPesticide,
	models.InventoryEquipment:  models.ExpenseCategoryEquipment,
	models.InventoryFuel:       models.ExpenseCategoryUtilities,
	models.InventoryOther:      models.ExpenseCategoryOther,
}

func restockExpenseCategory(category string) string {
	if c, ok := expenseCategoryFor[category]; ok {
		return c
	}
	return models.ExpenseCategoryInventoryPurchase
}

type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	expenseRepo   *repository.ExpenseRepository
	notifier      Notifier
	db            *gorm.DB
}

func NewInventoryService(
	inventoryRepo *repository.InventoryRepository,
	expenseRepo *repository.ExpenseRepository,
	notifier Notifier,
	db *gorm.DB,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		expenseRepo:   expenseRepo,
		notifier:      notifier,
		db:            db,
	}
}

func (s *InventoryService) CreateItem(ownerID uint, input InventoryItemInput) (*models.InventoryItem, error) {
	if err := validateItemInput(&input); err != nil {
		return nil, err
	}
	stock := input.CurrentStock.Round(2)
	if stock.IsNegative() {
		return nil, newError(KindValidation, "current_stock cannot be negative")
	}

	item := &models.InventoryItem{UserID: ownerID, CurrentStock: stock}
	applyItemInput(item, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inventoryRepo.CreateInTx(tx, item); err != nil {
			return err
		}
		if !stock.IsPositive() {
			return nil
		}
		_, err := s.recordTransaction(tx, item, ownerID, models.InventoryIn, stock, item.UnitPrice, "opening", nil, "Opening stock")
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.inventoryRepo.FindByID(item.ID)
}

// UpdateItem changes the item's details. Stock is left alone; it moves
// only through UpdateStock and AddStock so every change is in the ledger.
func (s *InventoryService) UpdateItem(ownerID, itemID uint, input InventoryItemInput) (*models.InventoryItem, error) {
	item, err := s.GetItem(ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if err := validateItemInput(&input); err != nil {
		return nil, err
	}

	applyItemInput(item, input)
	if err := s.inventoryRepo.UpdateDetails(item); err != nil {
		return nil, err
	}
	return s.inventoryRepo.FindByID(itemID)
}

func (s *InventoryService) DeleteItem(ownerID, itemID uint) error {
	if _, err := s.GetItem(ownerID, itemID); err != nil {
		return err
	}
	return s.inventoryRepo.Delete(itemID)
}

func (s *InventoryService) GetItem(ownerID, itemID uint) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return item, nil
}

func (s *InventoryService) ListItems(ownerID uint, category string, lowOnly bool) ([]models.InventoryItem, error) {
	if category != "" {
		normalized, ok := categoryAliases[strings.ToLower(category)]
		if !ok {
			return nil, ErrInvalidCategory
		}
		category = normalized
	}
	return s.inventoryRepo.ListByOwner(ownerID, category, lowOnly)
}

func (s *InventoryService) LowStock(ownerID uint) ([]models.InventoryItem, error) {
	return s.inventoryRepo.ListByOwner(ownerID, "", true)
}

func (s *InventoryService) Stats(ownerID uint) (*InventoryStats, error) {
	items, err := s.inventoryRepo.ListByOwner(ownerID, "", false)
	if err != nil {
		return nil, err
	}

	stats := &InventoryStats{TotalItems: len(items), TotalValue: decimal.Zero}
	for i := range items {
		stats.TotalValue = stats.TotalValue.Add(items[i].CurrentStock.Mul(items[i].UnitPrice))
		if items[i].IsLowStock() {
			stats.LowStockItems++
		}
		if items[i].IsOutOfStock() {
			stats.OutOfStockItems++
		}
	}
	stats.TotalValue = stats.TotalValue.Round(2)
	return stats, nil
}

// UpdateStock applies a manual stock change and records it in the ledger.
// Subtracting more than is on hand fails and changes nothing.
func (s *InventoryService) UpdateStock(ownerID, itemID uint, op StockOperation, quantity decimal.Decimal, notes string) (*models.InventoryItem, error) {
	quantity = quantity.Round(2)
	switch op {
	case StockAdd, StockSubtract:
		if !quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
	case StockSet:
		if quantity.IsNegative() {
			return nil, newError(KindValidation, "stock cannot be set below zero")
		}
	default:
		return nil, newError(KindValidation, "operation must be add, subtract or set")
	}
	if _, err := s.GetItem(ownerID, itemID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.inventoryRepo.FindByIDForUpdate(tx, itemID)
		if err != nil {
			return err
		}

		txType := models.InventoryAdjustment
		switch op {
		case StockAdd:
			txType = models.InventoryIn
			err = s.inventoryRepo.IncrementStockInTx(tx, itemID, quantity)
		case StockSubtract:
			txType = models.InventoryOut
			var ok bool
			ok, err = s.inventoryRepo.DecrementStockInTx(tx, itemID, quantity)
			if err == nil && !ok {
				err = ErrInsufficientInventory
			}
		case StockSet:
			err = s.inventoryRepo.SetStockInTx(tx, itemID, quantity)
		}
		if err != nil {
			return err
		}

		if notes == "" {
			notes = fmt.Sprintf("Stock %s", op)
		}
		_, err = s.recordTransaction(tx, item, ownerID, txType, quantity, item.UnitPrice, "manual", nil, notes)
		return err
	})
	if err != nil {
		return nil, err
	}

	item, err := s.inventoryRepo.FindByID(itemID)
	if err != nil {
		return nil, err
	}
	log.Printf("[InventoryService] %s %s on item %d, stock now %s", op, quantity.StringFixed(2), itemID, item.CurrentStock.StringFixed(2))
	if op != StockAdd {
		s.checkLowStock(item)
	}
	return item, nil
}

// RemoveStock takes stock out, failing when not enough is on hand.
func (s *InventoryService) RemoveStock(ownerID, itemID uint, quantity decimal.Decimal, notes string) (*models.InventoryItem, error) {
	return s.UpdateStock(ownerID, itemID, StockSubtract, quantity, notes)
}

// AddStock records a purchase of more stock. The stock increase, its ledger
// row and the restock expense commit together.
func (s *InventoryService) AddStock(ownerID, itemID uint, input RestockInput) (*models.InventoryItem, *models.Expense, error) {
	quantity := input.Quantity.Round(2)
	if !quantity.IsPositive() {
		return nil, nil, ErrInvalidQuantity
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return nil, nil, newError(KindValidation, "unit_cost cannot be negative")
	}
	if _, err := s.GetItem(ownerID, itemID); err != nil {
		return nil, nil, err
	}

	var expense *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.inventoryRepo.FindByIDForUpdate(tx, itemID)
		if err != nil {
			return err
		}

		unitCost := item.UnitPrice
		if input.UnitCost != nil {
			unitCost = input.UnitCost.Round(2)
		}
		totalCost := quantity.Mul(unitCost).Round(2)

		if err := s.inventoryRepo.IncrementStockInTx(tx, itemID, quantity); err != nil {
			return err
		}

		var expenseID *uint
		if !input.SkipExpense && totalCost.IsPositive() {
			expense = &models.Expense{
				UserID:            ownerID,
				Category:          restockExpenseCategory(item.Category),
				Description:       fmt.Sprintf("Restock: %s (%s %s)", item.Name, quantity.String(), item.Unit),
				Amount:            totalCost,
				Date:              time.Now(),
				PaymentMethod:     "cash",
				RelatedEntityType: models.ExpenseEntityInventoryItem,
				RelatedEntityID:   item.ID,
			}
			if err := s.expenseRepo.CreateInTx(tx, expense); err != nil {
				return fmt.Errorf("failed to record restock expense: %w", err)
			}
			expenseID = &expense.ID
		}

		notes := input.Notes
		if notes == "" {
			notes = "Restock"
		}
		_, err = s.recordTransaction(tx, item, ownerID, models.InventoryIn, quantity, unitCost, "restock", expenseID, notes)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	item, err := s.inventoryRepo.FindByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[InventoryService] Restocked item %d with %s %s", itemID, quantity.StringFixed(2), item.Unit)
	return item, expense, nil
}

func (s *InventoryService) Transactions(ownerID, itemID uint) ([]models.InventoryTransaction, error) {
	if _, err := s.GetItem(ownerID, itemID); err != nil {
		return nil, err
	}
	return s.inventoryRepo.ListTransactions(itemID, maxTransactionHistory)
}

func (s *InventoryService) recordTransaction(
	tx *gorm.DB,
	item *models.InventoryItem,
	userID uint,
	txType models.InventoryTxType,
	quantity, unitCost decimal.Decimal,
	reference string,
	expenseID *uint,
	notes string,
) (*models.InventoryTransaction, error) {
	stockAfter, err := s.inventoryRepo.StockInTx(tx, item.ID)
	if err != nil {
		return nil, err
	}

	txn := &models.InventoryTransaction{
		InventoryItemID: item.ID,
		UserID:          userID,
		Type:            txType,
		Quantity:        quantity,
		UnitCost:        unitCost,
		TotalCost:       quantity.Mul(unitCost).Round(2),
		StockAfter:      stockAfter,
		ReferenceType:   reference,
		ExpenseID:       expenseID,
		Notes:           notes,
		TransactionDate: time.Now(),
	}
	if err := s.inventoryRepo.CreateTransactionInTx(tx, txn); err != nil {
		return nil, fmt.Errorf("failed to record inventory transaction: %w", err)
	}
	return txn, nil
}

func (s *InventoryService) checkLowStock(item *models.InventoryItem) {
	if !item.IsLowStock() {
		return
	}

	severity := SeverityWarning
	title := "Low inventory"
	if item.IsOutOfStock() {
		severity = SeverityCritical
		title = "Out of stock"
	}

	s.notifier.Publish(EventLowStock, NotificationPayload{
		UserID:     item.UserID,
		Title:      title,
		Message:    printer.Sprintf("Low stock alert: %s is running low (%s %s remaining).", item.Name, formatAmount(item.CurrentStock), item.Unit),
		Severity:   severity,
		EntityType: models.ExpenseEntityInventoryItem,
		EntityID:   item.ID,
		Link:       fmt.Sprintf("/inventory/%d", item.ID),
	})
}

func validateItemInput(input *InventoryItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return newError(KindValidation, "name is required")
	}
	input.Unit = strings.TrimSpace(input.Unit)
	if input.Unit == "" {
		return newError(KindValidation, "unit is required")
	}
	category, ok := categoryAliases[strings.ToLower(strings.TrimSpace(input.Category))]
	if !ok {
		return ErrInvalidCategory
	}
	input.Category = category
	if input.MinimumStock.IsNegative() {
		return newError(KindValidation, "minimum_stock cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return newError(KindValidation, "unit_price cannot be negative")
	}
	return nil
}

func applyItemInput(item *models.InventoryItem, input InventoryItemInput) {
	item.Name = input.Name
	item.Description = input.Description
	item.Category = input.Category
	item.Unit = input.Unit
	item.MinimumStock = input.MinimumStock.Round(2)
	item.UnitPrice = input.UnitPrice.Round(2)
	item.Supplier = input.Supplier
	item.Location = input.Location
	item.ExpiryDate = input.ExpiryDate
	item.Notes = input.Notes
}
