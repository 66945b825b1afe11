package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation:        http.StatusUnprocessableEntity,
	services.KindInsufficientStock: http.StatusConflict,
	services.KindInvalidTransition: http.StatusConflict,
	services.KindState:             http.StatusConflict,
	services.KindAuthorization:     http.StatusForbidden,
	services.KindNotFound:          http.StatusNotFound,
}

func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	if status, ok := kindStatus[kind]; ok {
		c.JSON(status, ErrorResponse{Error: err.Error(), Kind: string(kind)})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
