package repository

import (
	"github.com/h4ks-com/palay/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LaborWageRepository struct {
	db *gorm.DB
}

func NewLaborWageRepository(db *gorm.DB) *LaborWageRepository {
	return &LaborWageRepository{db: db}
}

func (r *LaborWageRepository) CreateBatch(tx *gorm.DB, wages []models.LaborWage) error {
	return tx.Create(&wages).Error
}

func (r *LaborWageRepository) FindByTaskID(taskID uint) ([]models.LaborWage, error) {
	var wages []models.LaborWage
	err := r.db.Where("task_id = ?", taskID).Order("id ASC").Find(&wages).Error
	return wages, err
}

func (r *LaborWageRepository) FindByLaborerID(laborerID uint) ([]models.LaborWage, error) {
	var wages []models.LaborWage
	err := r.db.Where("laborer_id = ?", laborerID).Order("date DESC").Find(&wages).Error
	return wages, err
}

type LaborerEarnings struct {
	LaborerID   uint            `json:"laborer_id"`
	Name        string          `json:"name"`
	TaskCount   int64           `json:"task_count"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	TotalWages  decimal.Decimal `json:"total_wages"`
}

func (r *LaborWageRepository) EarningsByOwner(userID uint) ([]LaborerEarnings, error) {
	var rows []LaborerEarnings
	err := r.db.Model(&models.LaborWage{}).
		Select("labor_wages.laborer_id, laborers.name, COUNT(labor_wages.id) AS task_count, "+
			"COALESCE(SUM(labor_wages.hours_worked), 0) AS hours_worked, "+
			"COALESCE(SUM(labor_wages.wage_amount), 0) AS total_wages").
		Joins("JOIN laborers ON laborers.id = labor_wages.laborer_id").
		Where("labor_wages.user_id = ?", userID).
		Group("labor_wages.laborer_id, laborers.name").
		Order("laborers.name ASC").
		Scan(&rows).Error
	return rows, err
}
