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

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type InventoryItemRequest struct {
	Name         string          `json:"name" binding:"required,max=255"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"required"`
	Unit         string          `json:"unit" binding:"required,max=50"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Supplier     string          `json:"supplier"`
	Location     string          `json:"location"`
	ExpiryDate   *time.Time      `json:"expiry_date"`
	Notes        string          `json:"notes"`
}

func (r InventoryItemRequest) input() services.InventoryItemInput {
	return services.InventoryItemInput{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Unit:         r.Unit,
		CurrentStock: r.CurrentStock,
		MinimumStock: r.MinimumStock,
		UnitPrice:    r.UnitPrice,
		Supplier:     r.Supplier,
		Location:     r.Location,
		ExpiryDate:   r.ExpiryDate,
		Notes:        r.Notes,
	}
}

type UpdateStockRequest struct {
	Quantity  decimal.Decimal         `json:"quantity"`
	Operation services.StockOperation `json:"operation" binding:"required"`
	Notes     string                  `json:"notes"`
}

// AddStockRequest books the purchase as an expense unless create_expense
// is explicitly false.
type AddStockRequest struct {
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	CreateExpense *bool            `json:"create_expense"`
	Notes         string           `json:"notes" binding:"max=500"`
}

type RemoveStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

type AddStockResponse struct {
	Item    *models.InventoryItem `json:"inventory_item"`
	Expense *models.Expense       `json:"expense"`
}

// CreateItem godoc
// @Summary Add a farm supply to inventory
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InventoryItemRequest true "Inventory item"
// @Success 201 {object} models.InventoryItem
// @Failure 422 {object} ErrorResponse
// @Router /inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventoryService.CreateItem(middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListItems godoc
// @Summary List my inventory
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param low_stock query bool false "Only items at or below their minimum"
// @Success 200 {array} models.InventoryItem
// @Router /inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.inventoryService.ListItems(middleware.GetUserID(c), c.Query("category"), c.Query("low_stock") == "true")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get an inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} models.InventoryItem
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem godoc
// @Summary Update an inventory item
// @Description Stock levels are ignored here; use the stock endpoints.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body InventoryItemRequest true "Inventory item"
// @Success 200 {object} models.InventoryItem
// @Router /inventory/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventoryService.UpdateItem(middleware.GetUserID(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete an inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} MessageResponse
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteItem(middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "inventory item deleted"})
}

// UpdateStock godoc
// @Summary Adjust stock on hand
// @Description operation is add, subtract or set. Subtracting more than is on hand is rejected.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body UpdateStockRequest true "Stock change"
// @Success 200 {object} models.InventoryItem
// @Failure 409 {object} ErrorResponse
// @Router /inventory/{id}/stock [put]
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventoryService.UpdateStock(middleware.GetUserID(c), id, req.Operation, req.Quantity, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// AddStock godoc
// @Summary Record a restock purchase
// @Description Adds stock and books the cost as a farm expense.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body AddStockRequest true "Restock"
// @Success 200 {object} AddStockResponse
// @Router /inventory/{id}/add-stock [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, expense, err := h.inventoryService.AddStock(middleware.GetUserID(c), id, services.RestockInput{
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		SkipExpense: req.CreateExpense != nil && !*req.CreateExpense,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AddStockResponse{Item: item, Expense: expense})
}

// RemoveStock godoc
// @Summary Use up stock
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body RemoveStockRequest true "Quantity used"
// @Success 200 {object} models.InventoryItem
// @Failure 409 {object} ErrorResponse
// @Router /inventory/{id}/remove-stock [post]
func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RemoveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventoryService.RemoveStock(middleware.GetUserID(c), id, req.Quantity, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// LowStock godoc
// @Summary List items at or below their minimum stock
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InventoryItem
// @Router /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, err := h.inventoryService.LowStock(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Stats godoc
// @Summary Inventory totals
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.InventoryStats
// @Router /inventory/stats [get]
func (h *InventoryHandler) Stats(c *gin.Context) {
	stats, err := h.inventoryService.Stats(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Transactions godoc
// @Summary Recent stock movements for an item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {array} models.InventoryTransaction
// @Router /inventory/{id}/transactions [get]
func (h *InventoryHandler) Transactions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	txns, err := h.inventoryService.Transactions(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}
