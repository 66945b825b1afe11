package repository

import (
	"github.com/h4ks-com/palay/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) CreateInTx(tx *gorm.DB, item *models.InventoryItem) error {
	return tx.Create(item).Error
}

func (r *InventoryRepository) FindByID(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateDetails writes everything except current_stock, which only moves
// through the stock methods below.
func (r *InventoryRepository) UpdateDetails(item *models.InventoryItem) error {
	return r.db.Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":          item.Name,
			"description":   item.Description,
			"category":      item.Category,
			"unit":          item.Unit,
			"minimum_stock": item.MinimumStock,
			"unit_price":    item.UnitPrice,
			"supplier":      item.Supplier,
			"location":      item.Location,
			"expiry_date":   item.ExpiryDate,
			"notes":         item.Notes,
		}).Error
}

func (r *InventoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.InventoryItem{}, id).Error
}

func (r *InventoryRepository) ListByOwner(userID uint, category string, lowOnly bool) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	q := r.db.Where("user_id = ?", userID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if lowOnly {
		q = q.Where("current_stock <= minimum_stock")
	}
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *InventoryRepository) IncrementStockInTx(tx *gorm.DB, id uint, quantity decimal.Decimal) error {
	return tx.Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", quantity)).Error
}

// DecrementStockInTx subtracts quantity only when enough stock remains.
// It reports false when the guard rejected the update.
func (r *InventoryRepository) DecrementStockInTx(tx *gorm.DB, id uint, quantity decimal.Decimal) (bool, error) {
	result := tx.Model(&models.InventoryItem{}).
		Where("id = ? AND current_stock >= ?", id, quantity).
		Update("current_stock", gorm.Expr("current_stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *InventoryRepository) SetStockInTx(tx *gorm.DB, id uint, quantity decimal.Decimal) error {
	return tx.Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Update("current_stock", quantity).Error
}

func (r *InventoryRepository) StockInTx(tx *gorm.DB, id uint) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := tx.Model(&models.InventoryItem{}).
		Select("current_stock").
		Where("id = ?", id).
		Row().Scan(&stock)
	return stock, err
}

func (r *InventoryRepository) CreateTransactionInTx(tx *gorm.DB, txn *models.InventoryTransaction) error {
	return tx.Create(txn).Error
}

func (r *InventoryRepository) ListTransactions(itemID uint, limit int) ([]models.InventoryTransaction, error) {
	var txns []models.InventoryTransaction
	err := r.db.Where("inventory_item_id = ?", itemID).
		Order("transaction_date DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}
