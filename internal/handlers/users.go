package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/utils"
)

// UserLister is the admin account service.
type UserLister interface {
	ListAccounts(ctx context.Context) ([]models.UserSanitized, error)
	DeleteAccount(ctx context.Context, id string) error
}

// UserHandler handles account administration.
type UserHandler struct {
	accounts UserLister
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts UserLister) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// GetUsers handles fetching all users (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.accounts.ListAccounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, users)
}

// DeleteUser handles deleting a user by ID (admin).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.accounts.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	utils.Message(c, "User deleted successfully")
}
