package repository

import (
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *TaskRepository) FindByID(id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Laborer").
		Preload("LaborerGroup").
		Preload("LaborWages").
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdatePending rewrites the editable fields of a task that is still pending.
func (r *TaskRepository) UpdatePending(task *models.Task) (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", task.ID, models.TaskPending).
		Updates(map[string]interface{}{
			"task_type":        task.TaskType,
			"description":      task.Description,
			"due_date":         task.DueDate,
			"payment_type":     task.PaymentType,
			"unit":             task.Unit,
			"quantity":         task.Quantity,
			"unit_price":       task.UnitPrice,
			"assigned_to":      task.AssignedTo,
			"laborer_group_id": task.LaborerGroupID,
			"wage_amount":      task.WageAmount,
		})
	return result.RowsAffected, result.Error
}

func (r *TaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CompleteInTx flips a pending task to completed. Zero rows affected means
// another request already moved the task out of pending.
func (r *TaskRepository) CompleteInTx(tx *gorm.DB, id uint, at time.Time) (int64, error) {
	result := tx.Model(&models.Task{}).
		Where("id = ? AND status = ?", id, models.TaskPending).
		Updates(map[string]interface{}{
			"status":       models.TaskCompleted,
			"completed_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *TaskRepository) Cancel(id uint) (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", id, models.TaskPending).
		Update("status", models.TaskCancelled)
	return result.RowsAffected, result.Error
}

func (r *TaskRepository) ListByOwner(userID uint, status models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	db := r.db.Preload("Laborer").Preload("LaborerGroup").Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("due_date ASC").Order("id ASC").Find(&tasks).Error
	return tasks, err
}
