package repository

import (
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) Create(tx *gorm.DB, sale *models.Sale) error {
	return tx.Omit("Buyer").Create(sale).Error
}

func (r *SaleRepository) CountByOrderInTx(tx *gorm.DB, orderID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Sale{}).Where("rice_order_id = ?", orderID).Count(&count).Error
	return count, err
}

func (r *SaleRepository) FindByOrderID(orderID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.Where("rice_order_id = ?", orderID).Find(&sales).Error
	return sales, err
}

func (r *SaleRepository) ListByFarmer(farmerID uint, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.Preload("Buyer").
		Where("user_id = ? AND sale_date >= ? AND sale_date < ?", farmerID, from, to).
		Order("sale_date ASC").
		Find(&sales).Error
	return sales, err
}

type SalesTotals struct {
	Count    int64
	Quantity decimal.Decimal
	Revenue  decimal.Decimal
}

func (r *SaleRepository) TotalsByFarmer(farmerID uint, from, to time.Time) (*SalesTotals, error) {
	var totals SalesTotals
	err := r.db.Model(&models.Sale{}).
		Select("COUNT(id), COALESCE(SUM(quantity), 0), COALESCE(SUM(total_amount), 0)").
		Where("user_id = ? AND sale_date >= ? AND sale_date < ?", farmerID, from, to).
		Row().Scan(&totals.Count, &totals.Quantity, &totals.Revenue)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
