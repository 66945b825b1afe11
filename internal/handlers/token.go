package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/services"
)

const defaultTokenDays = 30

type TokenHandler struct {
	tokenService *services.TokenService
}

func NewTokenHandler(tokenService *services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

type IssueTokenRequest struct {
	Name          string `json:"name" binding:"max=64"`
	ExpiresInDays int    `json:"expires_in_days"`
}

// IssuedTokenResponse carries the signed token. It is only ever shown once.
type IssuedTokenResponse struct {
	Token string           `json:"token"`
	Info  *models.APIToken `json:"info"`
}

// CreateToken godoc
// @Summary Issue a personal API token
// @Description Tokens last expires_in_days days (default 30, at most 365).
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IssueTokenRequest true "Token label and lifetime"
// @Success 201 {object} IssuedTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /tokens [post]
func (h *TokenHandler) CreateToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ExpiresInDays == 0 {
		req.ExpiresInDays = defaultTokenDays
	}

	lifetime := time.Duration(req.ExpiresInDays) * 24 * time.Hour
	token, info, err := h.tokenService.GenerateToken(middleware.GetUsername(c), req.Name, lifetime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, IssuedTokenResponse{Token: token, Info: info})
}

// ListTokens godoc
// @Summary List my API tokens
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.APIToken
// @Router /tokens [get]
func (h *TokenHandler) ListTokens(c *gin.Context) {
	tokens, err := h.tokenService.ListUserTokens(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// DeleteToken godoc
// @Summary Revoke an API token
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param id path int true "Token ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /tokens/{id} [delete]
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tokenService.DeleteToken(id, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "token revoked"})
}
