package repository

import (
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) CreateBatch(tx *gorm.DB, expenses []models.Expense) error {
	return tx.Create(&expenses).Error
}

func (r *ExpenseRepository) CreateInTx(tx *gorm.DB, expense *models.Expense) error {
	return tx.Create(expense).Error
}

func (r *ExpenseRepository) FindByEntity(entityType string, entityID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("related_entity_type = ? AND related_entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) FindByTaskID(taskID uint) ([]models.Expense, error) {
	return r.FindByEntity(models.ExpenseEntityTask, taskID)
}

func (r *ExpenseRepository) SumByCategory(userID uint, category string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category = ? AND date >= ? AND date < ?", userID, category, from, to).
		Row().Scan(&total)
	return total, err
}
