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

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type PlaceOrderRequest struct {
	ProductID       uint            `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryMethod  string          `json:"delivery_method"`
	DeliveryAddress string          `json:"delivery_address"`
	Notes           string          `json:"notes"`
}

type AcceptOrderRequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	Notes                string     `json:"notes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type OrderResponse struct {
	models.RiceOrder
	Progress int `json:"progress"`
}

func orderResponse(order *models.RiceOrder) OrderResponse {
	return OrderResponse{RiceOrder: *order, Progress: order.Status.Progress()}
}

func orderListResponse(orders []models.RiceOrder) []OrderResponse {
	response := make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = orderResponse(&orders[i])
	}
	return response
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Reserve stock from a product at its current price. The order starts pending.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "Order details"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.PlaceOrder(middleware.GetUserID(c), services.PlaceOrderInput{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, orderResponse(order))
}

// ListMyOrders godoc
// @Summary List my orders as a buyer
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} OrderResponse
// @Failure 422 {object} ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orderService.ListBuyerOrders(middleware.GetUserID(c), models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderListResponse(orders))
}

// ListIncomingOrders godoc
// @Summary List orders for my products
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} OrderResponse
// @Failure 422 {object} ErrorResponse
// @Router /farmer/orders [get]
func (h *OrderHandler) ListIncomingOrders(c *gin.Context) {
	orders, err := h.orderService.ListFarmerOrders(middleware.GetUserID(c), models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderListResponse(orders))
}

// GetOrder godoc
// @Summary Get an order
// @Description Visible to the order's buyer and farmer
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// AcceptOrder godoc
// @Summary Accept a pending order
// @Tags farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body AcceptOrderRequest false "Acceptance details"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /farmer/orders/{id}/accept [post]
func (h *OrderHandler) AcceptOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AcceptOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	order, err := h.orderService.AcceptOrder(middleware.GetUserID(c), id, req.ExpectedDeliveryDate, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// RejectOrder godoc
// @Summary Reject a pending order
// @Description Cancels the order and returns its quantity to stock
// @Tags farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body CancelOrderRequest false "Rejection reason"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /farmer/orders/{id}/reject [post]
func (h *OrderHandler) RejectOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	order, err := h.orderService.RejectOrder(middleware.GetUserID(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// MarkReadyForPickup godoc
// @Summary Mark an accepted order ready for pickup
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /farmer/orders/{id}/ready [post]
func (h *OrderHandler) MarkReadyForPickup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.MarkReadyForPickup(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// ConfirmPickup godoc
// @Summary Confirm pickup
// @Description Closes the order and records exactly one sale at the order's locked price
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/pickup [post]
func (h *OrderHandler) ConfirmPickup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.ConfirmPickup(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// CancelOrder godoc
// @Summary Cancel an order
// @Description Either party may cancel before the order is ready for pickup. Stock is restored.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body CancelOrderRequest false "Cancellation reason"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	order, err := h.orderService.CancelOrder(middleware.GetUserID(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// MarkAsPaid godoc
// @Summary Record payment for an order
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /farmer/orders/{id}/paid [post]
func (h *OrderHandler) MarkAsPaid(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.MarkAsPaid(middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}
