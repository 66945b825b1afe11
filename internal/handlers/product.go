package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/services"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type ProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	QualityGrade      string          `json:"quality_grade"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		Name:              r.Name,
		Description:       r.Description,
		Unit:              r.Unit,
		PricePerUnit:      r.PricePerUnit,
		QuantityAvailable: r.QuantityAvailable,
		QualityGrade:      r.QualityGrade,
	}
}

type RestockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type ProductListResponse struct {
	Products   []models.RiceProduct `json:"products"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// ListProducts godoc
// @Summary Browse rice products
// @Description List products that are in stock, with optional search and pagination
// @Tags products
// @Produce json
// @Param search query string false "Search query for name and description"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20)"
// @Success 200 {object} ProductListResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	search := c.DefaultQuery("search", "")
	page := 1
	limit := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	products, total, err := h.productService.ListAvailable(search, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// GetProduct godoc
// @Summary Get a rice product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.RiceProduct
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary List a rice product for sale
// @Tags farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product details"
// @Success 201 {object} models.RiceProduct
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /farmer/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.productService.CreateProduct(middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update a rice product
// @Description Update product details. Stock changes go through the restock endpoint and orders.
// @Tags farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Product details"
// @Success 200 {object} models.RiceProduct
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /farmer/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(middleware.GetUserID(c), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// RestockProduct godoc
// @Summary Add stock to a product
// @Tags farmer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body RestockRequest true "Quantity to add"
// @Success 200 {object} models.RiceProduct
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /farmer/products/{id}/restock [post]
func (h *ProductHandler) RestockProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.productService.Restock(middleware.GetUserID(c), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Remove a product listing
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /farmer/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}

// ListMyProducts godoc
// @Summary List my product listings
// @Tags farmer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RiceProduct
// @Router /farmer/products [get]
func (h *ProductHandler) ListMyProducts(c *gin.Context) {
	products, err := h.productService.ListMine(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}
