package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/middleware"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/services"
)

const loginTokenLifetime = 7 * 24 * time.Hour

type AccountHandler struct {
	accountService *services.AccountService
	tokenService   *services.TokenService
}

func NewAccountHandler(accountService *services.AccountService, tokenService *services.TokenService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		tokenService:   tokenService,
	}
}

type RegisterRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      models.User `json:"user"`
}

type SetRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// Register godoc
// @Summary Register an account
// @Description Create a farmer or buyer account with a password
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /accounts/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accountService.Register(services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Exchange a username and password for an API token
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /accounts/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accountService.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, apiToken, err := h.tokenService.GenerateToken(user.Username, "login", loginTokenLifetime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: apiToken.ExpiresAt.Format(time.RFC3339),
		User:      *user,
	})
}

// Me godoc
// @Summary Current account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetUser(c))
}

// SetRole godoc
// @Summary Switch account role
// @Description Switch the authenticated account between farmer and buyer
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetRoleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /me/role [put]
func (h *AccountHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accountService.SetRole(middleware.GetUserID(c), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
