package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/services"
	"github.com/shopspring/decimal"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type TaskRequest struct {
	TaskType       models.TaskType    `json:"task_type" binding:"required"`
	Description    string             `json:"description"`
	DueDate        *time.Time         `json:"due_date"`
	PaymentType    models.PaymentType `json:"payment_type"`
	Unit           string             `json:"unit"`
	Quantity       *decimal.Decimal   `json:"quantity"`
	UnitPrice      *decimal.Decimal   `json:"unit_price"`
	WageAmount     *decimal.Decimal   `json:"wage_amount"`
	AssignedTo     *uint              `json:"assigned_to"`
	LaborerGroupID *uint              `json:"laborer_group_id"`
}

func (r TaskRequest) input() services.TaskInput {
	return services.TaskInput{
		TaskType:       r.TaskType,
		Description:    r.Description,
		DueDate:        r.DueDate,
		PaymentType:    r.PaymentType,
		Unit:           r.Unit,
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
		WageAmount:     r.WageAmount,
		AssignedTo:     r.AssignedTo,
		LaborerGroupID: r.LaborerGroupID,
	}
}

type CompleteTaskRequest struct {
	HoursWorked *decimal.Decimal `json:"hours_worked"`
}

type CompleteTaskResponse struct {
	TaskID uint               `json:"task_id"`
	Wages  []models.LaborWage `json:"wages"`
}

// CreateTask godoc
// @Summary Create a task
// @Description Create a farm task for one laborer or a laborer group. The wage is computed at creation.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "Task details"
// @Success 201 {object} models.Task
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.taskService.CreateTask(middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Replace a pending task's details and recompute its wage
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body TaskRequest true "Task details"
// @Success 200 {object} models.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(middleware.GetUserID(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, completed or cancelled"
// @Success 200 {array} models.Task
// @Failure 422 {object} ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(middleware.GetUserID(c), models.TaskStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CompleteTask godoc
// @Summary Complete a task
// @Description Mark a pending task completed and record wages for its laborers. Group wages are split evenly with leftover cents going to the earliest members.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body CompleteTaskRequest false "Hours worked"
// @Success 200 {object} CompleteTaskResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	wages, err := h.taskService.CompleteTask(middleware.GetUserID(c), id, req.HoursWorked)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CompleteTaskResponse{TaskID: id, Wages: wages})
}

// CancelTask godoc
// @Summary Cancel a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tasks/{id}/cancel [post]
func (h *TaskHandler) CancelTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.CancelTask(middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "task cancelled"})
}

// DeleteTask godoc
// @Summary Delete a pending task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "task deleted"})
}

// GetTaskWages godoc
// @Summary Wage lines of a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {array} models.LaborWage
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/wages [get]
func (h *TaskHandler) GetTaskWages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	wages, err := h.taskService.TaskWages(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wages)
}

// GetLaborerWages godoc
// @Summary Wage ledger of a laborer
// @Tags laborers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laborer ID"
// @Success 200 {array} models.LaborWage
// @Failure 404 {object} ErrorResponse
// @Router /laborers/{id}/wages [get]
func (h *TaskHandler) GetLaborerWages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	wages, err := h.taskService.LaborerWages(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wages)
}
