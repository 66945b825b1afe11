package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/services"
)

type DirectoryHandler struct {
	accountService *services.AccountService
}

func NewDirectoryHandler(accountService *services.AccountService) *DirectoryHandler {
	return &DirectoryHandler{accountService: accountService}
}

type FarmerListItem struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	MemberSince string `json:"member_since"`
}

// ListFarmers godoc
// @Summary List farmers
// @Description Public directory of farmers selling on the marketplace
// @Tags public
// @Produce json
// @Success 200 {array} FarmerListItem
// @Failure 500 {object} ErrorResponse
// @Router /farmers [get]
func (h *DirectoryHandler) ListFarmers(c *gin.Context) {
	farmers, err := h.accountService.ListFarmers()
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FarmerListItem, len(farmers))
	for i, farmer := range farmers {
		response[i] = FarmerListItem{
			ID:          farmer.ID,
			Username:    farmer.Username,
			Name:        farmer.Name,
			MemberSince: farmer.CreatedAt.Format("2006-01-02"),
		}
	}

	c.JSON(http.StatusOK, response)
}
