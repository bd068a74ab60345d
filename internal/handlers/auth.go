package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"smartclinic-server/internal/middleware"
	"smartclinic-server/internal/services"
	"smartclinic-server/internal/utils"
)

// Authenticator is the credential service the auth routes need.
type Authenticator interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.TokenResponse, error)
	Authenticate(ctx context.Context, req services.LoginRequest) (*services.TokenResponse, error)
	Logout(ctx context.Context, session *services.Session) (bool, error)
}

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles account registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, res)
}

// Login handles account login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	res, err := h.auth.Authenticate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, res)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Not authenticated")
		return
	}
	utils.Success(c, session.User.Sanitize())
}

// Logout revokes the caller's token when a denylist is configured.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Not authenticated")
		return
	}

	if _, err := h.auth.Logout(c.Request.Context(), session); err != nil {
		c.Error(err)
		return
	}
	utils.Message(c, "Logged out successfully")
}
