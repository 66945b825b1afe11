package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/services"
	"github.com/shopspring/decimal"
)

type LaborerHandler struct {
	laborerService *services.LaborerService
}

func NewLaborerHandler(laborerService *services.LaborerService) *LaborerHandler {
	return &LaborerHandler{laborerService: laborerService}
}

type LaborerRequest struct {
	Name       string               `json:"name" binding:"required"`
	Phone      string               `json:"phone"`
	SkillLevel string               `json:"skill_level"`
	Rate       decimal.Decimal      `json:"rate"`
	RateType   models.RateType      `json:"rate_type"`
	Status     models.LaborerStatus `json:"status"`
}

func (r LaborerRequest) input() services.LaborerInput {
	return services.LaborerInput{
		Name:       r.Name,
		Phone:      r.Phone,
		SkillLevel: r.SkillLevel,
		Rate:       r.Rate,
		RateType:   r.RateType,
		Status:     r.Status,
	}
}

type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type GroupMemberRequest struct {
	LaborerID uint `json:"laborer_id" binding:"required"`
}

// CreateLaborer godoc
// @Summary Add a laborer
// @Tags laborers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LaborerRequest true "Laborer details"
// @Success 201 {object} models.Laborer
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /laborers [post]
func (h *LaborerHandler) CreateLaborer(c *gin.Context) {
	var req LaborerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	laborer, err := h.laborerService.CreateLaborer(middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, laborer)
}

// ListLaborers godoc
// @Summary List laborers
// @Tags laborers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Laborer
// @Router /laborers [get]
func (h *LaborerHandler) ListLaborers(c *gin.Context) {
	laborers, err := h.laborerService.ListLaborers(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, laborers)
}

// GetLaborer godoc
// @Summary Get a laborer
// @Tags laborers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laborer ID"
// @Success 200 {object} models.Laborer
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /laborers/{id} [get]
func (h *LaborerHandler) GetLaborer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	laborer, err := h.laborerService.GetLaborer(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, laborer)
}

// UpdateLaborer godoc
// @Summary Update a laborer
// @Description Rate changes apply to tasks created afterwards
// @Tags laborers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laborer ID"
// @Param request body LaborerRequest true "Laborer details"
// @Success 200 {object} models.Laborer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /laborers/{id} [put]
func (h *LaborerHandler) UpdateLaborer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req LaborerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	laborer, err := h.laborerService.UpdateLaborer(middleware.GetUserID(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, laborer)
}

// DeleteLaborer godoc
// @Summary Remove a laborer
// @Tags laborers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Laborer ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /laborers/{id} [delete]
func (h *LaborerHandler) DeleteLaborer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.laborerService.DeleteLaborer(middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "laborer deleted"})
}

// CreateGroup godoc
// @Summary Create a laborer group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GroupRequest true "Group details"
// @Success 201 {object} models.LaborerGroup
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /groups [post]
func (h *LaborerHandler) CreateGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	group, err := h.laborerService.CreateGroup(middleware.GetUserID(c), services.GroupInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListGroups godoc
// @Summary List laborer groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LaborerGroup
// @Router /groups [get]
func (h *LaborerHandler) ListGroups(c *gin.Context) {
	groups, err := h.laborerService.ListGroups(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// GetGroup godoc
// @Summary Get a laborer group with members in join order
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} models.LaborerGroup
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id} [get]
func (h *LaborerHandler) GetGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	group, err := h.laborerService.GetGroup(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// UpdateGroup godoc
// @Summary Update a laborer group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body GroupRequest true "Group details"
// @Success 200 {object} models.LaborerGroup
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id} [put]
func (h *LaborerHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	group, err := h.laborerService.UpdateGroup(middleware.GetUserID(c), id, services.GroupInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// DeleteGroup godoc
// @Summary Delete a laborer group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id} [delete]
func (h *LaborerHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.laborerService.DeleteGroup(middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "group deleted"})
}

// AddMember godoc
// @Summary Add a laborer to a group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body GroupMemberRequest true "Laborer to add"
// @Success 200 {object} models.LaborerGroup
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id}/members [post]
func (h *LaborerHandler) AddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	group, err := h.laborerService.AddMember(middleware.GetUserID(c), id, req.LaborerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// RemoveMember godoc
// @Summary Remove a laborer from a group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param laborerId path int true "Laborer ID"
// @Success 200 {object} models.LaborerGroup
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id}/members/{laborerId} [delete]
func (h *LaborerHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	laborerID, ok := parseID(c, "laborerId")
	if !ok {
		return
	}

	group, err := h.laborerService.RemoveMember(middleware.GetUserID(c), id, laborerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}
