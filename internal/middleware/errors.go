package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartclinic-server/internal/services"
	"smartclinic-server/internal/utils"
)

// StatusFor maps a service error to its HTTP status and client-facing detail.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrDuplicateIdentity):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, services.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, services.ErrTokenInvalid):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, services.ErrUnknownAccount):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrValidation):
		cause := strings.TrimPrefix(err.Error(), services.ErrValidation.Error())
		return http.StatusUnprocessableEntity, "Validation failed" + cause
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to access this resource."
	case errors.Is(err, services.ErrChatService):
		cause := strings.TrimPrefix(err.Error(), services.ErrChatService.Error())
		return http.StatusInternalServerError, "Chat service error" + cause
	}
	return http.StatusInternalServerError, "Internal server error"
}

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, detail := StatusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}

		if status == http.StatusUnauthorized {
			utils.Unauthorized(c, detail)
			return
		}
		utils.Error(c, status, detail)
	}
}
