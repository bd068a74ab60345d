package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartclinic-server/internal/models"
)

// ContextTurns is how many previous turns are replayed to the model.
const ContextTurns = 5

// SystemInstruction frames every conversation.
const SystemInstruction = `You are SmartClinic AI, a helpful medical assistant chatbot.
You can help with:
1. General health information and wellness tips
2. Answering questions about symptoms (always recommend seeing a doctor for diagnosis)
3. Providing information about appointment scheduling
4. Explaining medical terms and procedures

Always be professional, empathetic, and remind users that you're not a replacement for professional medical advice.
Never diagnose conditions or prescribe medications.`

// ChatRepository is the append-only conversation log.
type ChatRepository interface {
	Append(ctx context.Context, turn *models.ChatTurn) error
	Recent(ctx context.Context, sessionID, userID string, limit int) ([]models.ChatTurn, error)
	History(ctx context.Context, sessionID, userID string) ([]models.ChatTurn, error)
}

// ChatGateway is the remote model: prompt in, text out.
type ChatGateway interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type ChatService struct {
	turns   ChatRepository
	gateway ChatGateway
	logger  *zap.Logger
	now     func() time.Time
}

func NewChatService(turns ChatRepository, gateway ChatGateway, logger *zap.Logger) *ChatService {
	return &ChatService{turns: turns, gateway: gateway, logger: logger, now: time.Now}
}

// AppendTurn records one exchange.
func (s *ChatService) AppendTurn(ctx context.Context, sessionID, accountID, message, response string) (*models.ChatTurn, error) {
	turn := models.ChatTurn{
		BaseModel: models.BaseModel{ID: models.NewID()},
		SessionID: sessionID,
		UserID:    accountID,
		Message:   message,
		Response:  response,
		Timestamp: models.NewTimestamp(s.now()),
	}
	if err := s.turns.Append(ctx, &turn); err != nil {
		return nil, fmt.Errorf("failed to store chat turn: %w", err)
	}
	return &turn, nil
}

// RecentContext returns at most limit turns of the caller's session, oldest first.
func (s *ChatService) RecentContext(ctx context.Context, sessionID, accountID string, limit int) ([]models.ChatTurn, error) {
	turns, err := s.turns.Recent(ctx, sessionID, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat context: %w", err)
	}
	return turns, nil
}

// History returns the caller's turns for a session, oldest first.
func (s *ChatService) History(ctx context.Context, sessionID, accountID string) ([]models.ChatTurn, error) {
	turns, err := s.turns.History(ctx, sessionID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return turns, nil
}

// HandleMessage answers one user message within a session, creating the
// session when none is given. The turn is stored only after the model replies.
func (s *ChatService) HandleMessage(ctx context.Context, accountID string, req models.ChatRequest) (*models.ChatReply, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	history, err := s.RecentContext(ctx, sessionID, accountID, ContextTurns)
	if err != nil {
		return nil, err
	}

	response, err := s.gateway.Complete(ctx, SystemInstruction, BuildPrompt(history, req.Message))
	if err != nil {
		s.logger.Error("chat error",
			zap.String("session_id", sessionID),
			zap.String("user_id", accountID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrChatService, err)
	}

	if _, err := s.AppendTurn(ctx, sessionID, accountID, req.Message, response); err != nil {
		return nil, err
	}

	return &models.ChatReply{Response: response, SessionID: sessionID}, nil
}

// BuildPrompt prefixes message with the replayed conversation, if any.
func BuildPrompt(history []models.ChatTurn, message string) string {
	if len(history) == 0 {
		return message
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.Message, turn.Response)
	}
	b.WriteString("\n\nCurrent question: ")
	b.WriteString(message)
	return b.String()
}
