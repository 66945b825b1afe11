package repository

import (
	"github.com/h4ks-com/palay/internal/models"
	"gorm.io/gorm"
)

type LaborerRepository struct {
	db *gorm.DB
}

func NewLaborerRepository(db *gorm.DB) *LaborerRepository {
	return &LaborerRepository{db: db}
}

func (r *LaborerRepository) Create(laborer *models.Laborer) error {
	return r.db.Create(laborer).Error
}

func (r *LaborerRepository) FindByID(id uint) (*models.Laborer, error) {
	var laborer models.Laborer
	err := r.db.First(&laborer, id).Error
	if err != nil {
		return nil, err
	}
	return &laborer, nil
}

func (r *LaborerRepository) FindByIDInTx(tx *gorm.DB, id uint) (*models.Laborer, error) {
	var laborer models.Laborer
	err := tx.First(&laborer, id).Error
	if err != nil {
		return nil, err
	}
	return &laborer, nil
}

func (r *LaborerRepository) ListByOwner(userID uint) ([]models.Laborer, error) {
	var laborers []models.Laborer
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&laborers).Error
	return laborers, err
}

func (r *LaborerRepository) Update(laborer *models.Laborer) error {
	return r.db.Save(laborer).Error
}

func (r *LaborerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Laborer{}, id).Error
}
