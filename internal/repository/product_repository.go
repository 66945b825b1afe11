package repository

import (
	"github.com/h4ks-com/palay/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(product *models.RiceProduct) error {
	return r.db.Create(product).Error
}

func (r *ProductRepository) FindByID(id uint) (*models.RiceProduct, error) {
	var product models.RiceProduct
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByIDInTx(tx *gorm.DB, id uint) (*models.RiceProduct, error) {
	var product models.RiceProduct
	err := tx.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.RiceProduct, error) {
	var product models.RiceProduct
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(product *models.RiceProduct) error {
	return r.db.Omit(clause.Associations).Save(product).Error
}

// UpdateDetails writes the listing fields without touching stock columns.
func (r *ProductRepository) UpdateDetails(product *models.RiceProduct) error {
	return r.db.Model(&models.RiceProduct{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":           product.Name,
			"description":    product.Description,
			"unit":           product.Unit,
			"price_per_unit": product.PricePerUnit,
			"quality_grade":  product.QualityGrade,
		}).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.RiceProduct{}, id).Error
}

// DecrementStockInTx subtracts quantity only when enough stock remains.
// It reports false when the guard rejected the update.
func (r *ProductRepository) DecrementStockInTx(tx *gorm.DB, id uint, quantity decimal.Decimal) (bool, error) {
	result := tx.Model(&models.RiceProduct{}).
		Where("id = ? AND quantity_available >= ?", id, quantity).
		Update("quantity_available", gorm.Expr("quantity_available - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	return true, tx.Model(&models.RiceProduct{}).
		Where("id = ? AND quantity_available <= ?", id, 0).
		Update("is_available", false).Error
}

func (r *ProductRepository) RestoreStockInTx(tx *gorm.DB, id uint, quantity decimal.Decimal) error {
	err := tx.Model(&models.RiceProduct{}).
		Where("id = ?", id).
		Update("quantity_available", gorm.Expr("quantity_available + ?", quantity)).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.RiceProduct{}).
		Where("id = ? AND quantity_available > ?", id, 0).
		Update("is_available", true).Error
}

func availableProducts(db *gorm.DB, query string) *gorm.DB {
	db = db.Where("is_available = ? AND quantity_available > ?", true, 0)
	if query != "" {
		searchPattern := "%" + query + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", searchPattern, searchPattern)
	}
	return db
}

func (r *ProductRepository) ListAvailable(query string, page, limit int) ([]models.RiceProduct, error) {
	var products []models.RiceProduct
	offset := (page - 1) * limit

	err := availableProducts(r.db, query).
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error

	return products, err
}

func (r *ProductRepository) CountAvailable(query string) (int64, error) {
	var count int64
	err := availableProducts(r.db.Model(&models.RiceProduct{}), query).Count(&count).Error
	return count, err
}

func (r *ProductRepository) ListByFarmer(farmerID uint) ([]models.RiceProduct, error) {
	var products []models.RiceProduct
	err := r.db.Where("farmer_id = ?", farmerID).Order("name ASC").Find(&products).Error
	return products, err
}
