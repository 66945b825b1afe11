package repository

import (
	"github.com/h4ks-com/palay/internal/models"
	"gorm.io/gorm"
)

type LaborerGroupRepository struct {
	db *gorm.DB
}

func NewLaborerGroupRepository(db *gorm.DB) *LaborerGroupRepository {
	return &LaborerGroupRepository{db: db}
}

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("laborer_group_members.id ASC")
}

func (r *LaborerGroupRepository) Create(group *models.LaborerGroup) error {
	return r.db.Create(group).Error
}

func (r *LaborerGroupRepository) FindByID(id uint) (*models.LaborerGroup, error) {
	var group models.LaborerGroup
	err := r.db.Preload("Members", orderedMembers).
		Preload("Members.Laborer").
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *LaborerGroupRepository) ListByOwner(userID uint) ([]models.LaborerGroup, error) {
	var groups []models.LaborerGroup
	err := r.db.Preload("Members", orderedMembers).
		Preload("Members.Laborer").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *LaborerGroupRepository) Update(group *models.LaborerGroup) error {
	return r.db.Omit("Members").Save(group).Error
}

func (r *LaborerGroupRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("laborer_group_id = ?", id).Delete(&models.LaborerGroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LaborerGroup{}, id).Error
	})
}

func (r *LaborerGroupRepository) AddMember(groupID, laborerID uint) error {
	return r.db.Create(&models.LaborerGroupMember{
		LaborerGroupID: groupID,
		LaborerID:      laborerID,
	}).Error
}

func (r *LaborerGroupRepository) IsMember(groupID, laborerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.LaborerGroupMember{}).
		Where("laborer_group_id = ? AND laborer_id = ?", groupID, laborerID).
		Count(&count).Error
	return count > 0, err
}

func (r *LaborerGroupRepository) RemoveMember(groupID, laborerID uint) (int64, error) {
	result := r.db.Where("laborer_group_id = ? AND laborer_id = ?", groupID, laborerID).
		Delete(&models.LaborerGroupMember{})
	return result.RowsAffected, result.Error
}

// MembersInTx resolves the group's laborers in the order they joined.
func (r *LaborerGroupRepository) MembersInTx(tx *gorm.DB, groupID uint) ([]models.Laborer, error) {
	var laborers []models.Laborer
	err := tx.Joins("JOIN laborer_group_members ON laborer_group_members.laborer_id = laborers.id").
		Where("laborer_group_members.laborer_group_id = ?", groupID).
		Order("laborer_group_members.id ASC").
		Find(&laborers).Error
	return laborers, err
}
