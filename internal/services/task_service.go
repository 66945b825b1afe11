package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type TaskInput struct {
	TaskType       models.TaskType
	Description    string
	DueDate        *time.Time
	PaymentType    models.PaymentType
	Unit           string
	Quantity       *decimal.Decimal
	UnitPrice      *decimal.Decimal
	WageAmount     *decimal.Decimal
	AssignedTo     *uint
	LaborerGroupID *uint
}

type TaskService struct {
	taskRepo    *repository.TaskRepository
	laborerRepo *repository.LaborerRepository
	groupRepo   *repository.LaborerGroupRepository
	wageRepo    *repository.LaborWageRepository
	expenseRepo *repository.ExpenseRepository
	notifier    Notifier
	db          *gorm.DB
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	laborerRepo *repository.LaborerRepository,
	groupRepo *repository.LaborerGroupRepository,
	wageRepo *repository.LaborWageRepository,
	expenseRepo *repository.ExpenseRepository,
	notifier Notifier,
	db *gorm.DB,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		laborerRepo: laborerRepo,
		groupRepo:   groupRepo,
		wageRepo:    wageRepo,
		expenseRepo: expenseRepo,
		notifier:    notifier,
		db:          db,
	}
}

func (s *TaskService) CreateTask(ownerID uint, input TaskInput) (*models.Task, error) {
	wage, err := s.resolveWage(ownerID, input)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID: ownerID,
		Status: models.TaskPending,
	}
	applyTaskInput(task, input, wage)

	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask replaces the task's fields and recomputes its wage. Only
// pending tasks can change.
func (s *TaskService) UpdateTask(ownerID, taskID uint, input TaskInput) (*models.Task, error) {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskPending {
		return nil, ErrTaskNotPending
	}

	wage, err := s.resolveWage(ownerID, input)
	if err != nil {
		return nil, err
	}

	applyTaskInput(task, input, wage)

	affected, err := s.taskRepo.UpdatePending(task)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTaskNotPending
	}
	return s.taskRepo.FindByID(task.ID)
}

func (s *TaskService) CancelTask(ownerID, taskID uint) error {
	if _, err := s.GetTask(ownerID, taskID); err != nil {
		return err
	}

	affected, err := s.taskRepo.Cancel(taskID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotPending
	}
	return nil
}

func (s *TaskService) DeleteTask(ownerID, taskID uint) error {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return err
	}
	if task.Status != models.TaskPending {
		return ErrTaskNotPending
	}
	return s.taskRepo.Delete(taskID)
}

func (s *TaskService) GetTask(ownerID, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return task, nil
}

func (s *TaskService) ListTasks(ownerID uint, status models.TaskStatus) ([]models.Task, error) {
	if status != "" && status != models.TaskPending && !status.Terminal() {
		return nil, newError(KindValidation, fmt.Sprintf("unknown task status %q", status))
	}
	return s.taskRepo.ListByOwner(ownerID, status)
}

// CompleteTask closes a pending task and books one wage line and one labor
// expense per assigned laborer. Group wages are split in the order members
// joined the group.
func (s *TaskService) CompleteTask(ownerID, taskID uint, hoursWorked *decimal.Decimal) ([]models.LaborWage, error) {
	hours := decimal.Zero
	if hoursWorked != nil {
		if hoursWorked.IsNegative() {
			return nil, newError(KindValidation, "hours worked cannot be negative")
		}
		hours = *hoursWorked
	}

	var task *models.Task
	var wages []models.LaborWage

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = s.taskRepo.FindByIDForUpdate(tx, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.UserID != ownerID {
			return ErrNotOwner
		}
		if task.Status != models.TaskPending {
			return ErrTaskNotPending
		}

		laborers, err := s.assignedLaborers(tx, task)
		if err != nil {
			return err
		}

		shares, err := SplitWage(task.WageAmount, len(laborers))
		if err != nil {
			return err
		}

		now := time.Now()
		affected, err := s.taskRepo.CompleteInTx(tx, task.ID, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTaskNotPending
		}
		task.Status = models.TaskCompleted
		task.CompletedAt = &now

		wages = make([]models.LaborWage, len(laborers))
		for i, laborer := range laborers {
			wages[i] = models.LaborWage{
				UserID:      task.UserID,
				LaborerID:   laborer.ID,
				TaskID:      task.ID,
				HoursWorked: hours,
				WageAmount:  shares[i],
				Date:        now,
			}
		}
		if err := s.wageRepo.CreateBatch(tx, wages); err != nil {
			return fmt.Errorf("failed to record labor wages: %w", err)
		}

		expenses := make([]models.Expense, len(wages))
		for i := range wages {
			expenses[i] = models.Expense{
				UserID:            task.UserID,
				Category:          models.ExpenseCategoryLabor,
				Description:       fmt.Sprintf("Labor: %s - %s task", laborers[i].Name, task.TaskType),
				Amount:            wages[i].WageAmount,
				Date:              now,
				PaymentMethod:     "cash",
				RelatedEntityType: models.ExpenseEntityTask,
				RelatedEntityID:   task.ID,
				LaborWageID:       &wages[i].ID,
			}
		}
		if err := s.expenseRepo.CreateBatch(tx, expenses); err != nil {
			return fmt.Errorf("failed to record labor expenses: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[TaskService] Task %d completed, %s paid to %d laborer(s)", task.ID, task.WageAmount.StringFixed(2), len(wages))
	s.notifier.Publish(EventTaskCompleted, NotificationPayload{
		UserID:     task.UserID,
		Title:      "Task completed",
		Message:    printer.Sprintf("%s task finished. %s in wages recorded for %d laborer(s).", taskLabel(task.TaskType), formatAmount(task.WageAmount), len(wages)),
		Severity:   SeverityInfo,
		EntityType: "task",
		EntityID:   task.ID,
		Link:       fmt.Sprintf("/tasks/%d", task.ID),
	})

	return wages, nil
}

func (s *TaskService) TaskWages(ownerID, taskID uint) ([]models.LaborWage, error) {
	if _, err := s.GetTask(ownerID, taskID); err != nil {
		return nil, err
	}
	return s.wageRepo.FindByTaskID(taskID)
}

func (s *TaskService) LaborerWages(ownerID, laborerID uint) ([]models.LaborWage, error) {
	if _, err := s.ownedLaborer(ownerID, laborerID); err != nil {
		return nil, err
	}
	return s.wageRepo.FindByLaborerID(laborerID)
}

func (s *TaskService) LaborerEarnings(ownerID uint) ([]repository.LaborerEarnings, error) {
	return s.wageRepo.EarningsByOwner(ownerID)
}

func (s *TaskService) resolveWage(ownerID uint, input TaskInput) (decimal.Decimal, error) {
	if !input.TaskType.Valid() {
		return decimal.Zero, ErrInvalidTaskType
	}
	if input.PaymentType == "" {
		input.PaymentType = models.PaymentWage
	}
	if !input.PaymentType.Valid() {
		return decimal.Zero, ErrInvalidPaymentType
	}
	if (input.AssignedTo == nil) == (input.LaborerGroupID == nil) {
		return decimal.Zero, ErrAssignmentRequired
	}
	if input.WageAmount != nil && input.WageAmount.IsNegative() {
		return decimal.Zero, newError(KindValidation, "wage amount cannot be negative")
	}

	var rate decimal.Decimal
	if input.AssignedTo != nil {
		laborer, err := s.ownedLaborer(ownerID, *input.AssignedTo)
		if err != nil {
			return decimal.Zero, err
		}
		rate = laborer.Rate
	} else {
		group, err := s.ownedGroup(ownerID, *input.LaborerGroupID)
		if err != nil {
			return decimal.Zero, err
		}
		for _, member := range group.Members {
			rate = rate.Add(member.Laborer.Rate)
		}
	}

	if input.PaymentType == models.PaymentWage && input.WageAmount != nil && input.WageAmount.IsPositive() {
		rate = *input.WageAmount
	}

	return ComputeWage(input.PaymentType, input.Quantity, input.UnitPrice, rate)
}

func (s *TaskService) assignedLaborers(tx *gorm.DB, task *models.Task) ([]models.Laborer, error) {
	if task.AssignedTo != nil {
		laborer, err := s.laborerRepo.FindByIDInTx(tx, *task.AssignedTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLaborerNotFound
			}
			return nil, err
		}
		return []models.Laborer{*laborer}, nil
	}

	if task.LaborerGroupID != nil {
		members, err := s.groupRepo.MembersInTx(tx, *task.LaborerGroupID)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, ErrEmptyGroup
		}
		return members, nil
	}

	return nil, ErrAssignmentRequired
}

func (s *TaskService) ownedLaborer(ownerID, laborerID uint) (*models.Laborer, error) {
	laborer, err := s.laborerRepo.FindByID(laborerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLaborerNotFound
		}
		return nil, err
	}
	if laborer.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return laborer, nil
}

func (s *TaskService) ownedGroup(ownerID, groupID uint) (*models.LaborerGroup, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return group, nil
}

func applyTaskInput(task *models.Task, input TaskInput, wage decimal.Decimal) {
	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentWage
	}

	task.TaskType = input.TaskType
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.PaymentType = paymentType
	task.Unit = input.Unit
	task.Quantity = input.Quantity
	task.UnitPrice = input.UnitPrice
	task.AssignedTo = input.AssignedTo
	task.LaborerGroupID = input.LaborerGroupID
	task.WageAmount = wage
}

func taskLabel(t models.TaskType) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}
