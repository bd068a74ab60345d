package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"smartclinic-server/internal/middleware"
	"smartclinic-server/internal/models"
	"smartclinic-server/internal/utils"
)

// Assistant is the chat service.
type Assistant interface {
	HandleMessage(ctx context.Context, accountID string, req models.ChatRequest) (*models.ChatReply, error)
	History(ctx context.Context, sessionID, accountID string) ([]models.ChatTurn, error)
}

// ChatHandler handles assistant conversations.
type ChatHandler struct {
	assistant Assistant
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant Assistant) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// SendMessage answers a message, starting a new session when none is given.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Not authenticated")
		return
	}

	var req models.ChatRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	reply, err := h.assistant.HandleMessage(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, reply)
}

// GetHistory returns the caller's turns in a session, oldest first.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Not authenticated")
		return
	}

	turns, err := h.assistant.History(c.Request.Context(), c.Param("session_id"), userID)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, turns)
}
