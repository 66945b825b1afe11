package repository

import (
	"github.com/h4ks-com/palay/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(tx *gorm.DB, order *models.RiceOrder) error {
	return tx.Omit(clause.Associations).Create(order).Error
}

func (r *OrderRepository) FindByID(id uint) (*models.RiceOrder, error) {
	var order models.RiceOrder
	err := r.db.Preload("RiceProduct").Preload("Buyer").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.RiceOrder, error) {
	var order models.RiceOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TransitionInTx applies updates only while the order is still in the
// expected status. Zero rows affected means a concurrent request won.
func (r *OrderRepository) TransitionInTx(tx *gorm.DB, id uint, from, to models.OrderStatus, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := tx.Model(&models.RiceOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *OrderRepository) MarkPaid(id uint) (int64, error) {
	result := r.db.Model(&models.RiceOrder{}).
		Where("id = ? AND payment_status <> ?", id, models.PaymentStatusPaid).
		Update("payment_status", models.PaymentStatusPaid)
	return result.RowsAffected, result.Error
}

func (r *OrderRepository) ListByBuyer(buyerID uint, status models.OrderStatus) ([]models.RiceOrder, error) {
	var orders []models.RiceOrder
	db := r.db.Preload("RiceProduct").Where("buyer_id = ?", buyerID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByFarmer(farmerID uint, status models.OrderStatus) ([]models.RiceOrder, error) {
	var orders []models.RiceOrder
	db := r.db.Preload("RiceProduct").Preload("Buyer").Where("farmer_id = ?", farmerID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}
