package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskLandPreparation TaskType = "land_preparation"
	TaskTransplanting   TaskType = "transplanting"
	TaskWatering        TaskType = "watering"
	TaskFertilizing     TaskType = "fertilizing"
	TaskWeeding         TaskType = "weeding"
	TaskPestControl     TaskType = "pest_control"
	TaskHarvesting      TaskType = "harvesting"
	TaskMaintenance     TaskType = "maintenance"
)

var taskTypes = map[TaskType]bool{
	TaskLandPreparation: true,
	TaskTransplanting:   true,
	TaskWatering:        true,
	TaskFertilizing:     true,
	TaskWeeding:         true,
	TaskPestControl:     true,
	TaskHarvesting:      true,
	TaskMaintenance:     true,
}

func (t TaskType) Valid() bool {
	return taskTypes[t]
}

type PaymentType string

const (
	PaymentWage      PaymentType = "wage"
	PaymentPieceRate PaymentType = "piece_rate"
)

func (p PaymentType) Valid() bool {
	return p == PaymentWage || p == PaymentPieceRate
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskCancelled TaskStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

type Task struct {
	gorm.Model
	UserID         uint             `gorm:"not null;index" json:"user_id"`
	TaskType       TaskType         `gorm:"size:32;not null" json:"task_type"`
	Description    string           `gorm:"type:text" json:"description"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	PaymentType    PaymentType      `gorm:"size:16;not null;default:wage" json:"payment_type"`
	Unit           string           `gorm:"size:32" json:"unit,omitempty"`
	Quantity       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"quantity,omitempty"`
	UnitPrice      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price,omitempty"`
	AssignedTo     *uint            `gorm:"index" json:"assigned_to,omitempty"`
	Laborer        *Laborer         `gorm:"foreignKey:AssignedTo" json:"laborer,omitempty"`
	LaborerGroupID *uint            `gorm:"index" json:"laborer_group_id,omitempty"`
	LaborerGroup   *LaborerGroup    `gorm:"foreignKey:LaborerGroupID" json:"laborer_group,omitempty"`
	Status         TaskStatus       `gorm:"size:16;not null;default:pending;index" json:"status"`
	WageAmount     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"wage_amount"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	LaborWages     []LaborWage      `gorm:"foreignKey:TaskID" json:"labor_wages,omitempty"`
}

// LaborWage is one ledger line per laborer per completed task.
type LaborWage struct {
	gorm.Model
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	LaborerID   uint            `gorm:"not null;uniqueIndex:idx_wage_laborer_task" json:"laborer_id"`
	Laborer     Laborer         `gorm:"foreignKey:LaborerID" json:"-"`
	TaskID      uint            `gorm:"not null;uniqueIndex:idx_wage_laborer_task" json:"task_id"`
	HoursWorked decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"hours_worked"`
	WageAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"wage_amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}
