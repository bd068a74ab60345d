package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/repository"
	"smartclinic-server/internal/testutil"
)

type fakeGateway struct {
	reply   string
	err     error
	system  string
	prompts []string
}

func (g *fakeGateway) Complete(_ context.Context, system, prompt string) (string, error) {
	g.system = system
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newChatFixture(t *testing.T, gateway ChatGateway) *ChatService {
	t.Helper()
	svc := NewChatService(repository.NewChatRepository(testutil.NewDB(t)), gateway, zap.NewNop())
	next := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		next = next.Add(time.Second)
		return next
	}
	return svc
}

func TestChatService_NewSessionWhenNoneGiven(t *testing.T) {
	gateway := &fakeGateway{reply: "Drink water."}
	svc := newChatFixture(t, gateway)
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "u1", models.ChatRequest{Message: "I have a headache"})
	require.NoError(t, err)

	assert.Equal(t, "Drink water.", reply.Response)
	assert.NotEmpty(t, reply.SessionID)
	assert.Equal(t, SystemInstruction, gateway.system)
	assert.Equal(t, []string{"I have a headache"}, gateway.prompts)

	history, err := svc.History(ctx, reply.SessionID, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "I have a headache", history[0].Message)
	assert.Equal(t, "Drink water.", history[0].Response)
}

func TestChatService_ContextIsBoundedAndOrdered(t *testing.T) {
	gateway := &fakeGateway{reply: "ok"}
	svc := newChatFixture(t, gateway)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		_, err := svc.AppendTurn(ctx, "s1", "u1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		require.NoError(t, err)
	}

	recent, err := svc.RecentContext(ctx, "s1", "u1", ContextTurns)
	require.NoError(t, err)
	require.Len(t, recent, ContextTurns)
	assert.Equal(t, "q3", recent[0].Message)
	assert.Equal(t, "q7", recent[4].Message)

	_, err = svc.HandleMessage(ctx, "u1", models.ChatRequest{Message: "q8", SessionID: "s1"})
	require.NoError(t, err)

	expected := "Previous conversation:\n" +
		"User: q3\nAssistant: a3\n" +
		"User: q4\nAssistant: a4\n" +
		"User: q5\nAssistant: a5\n" +
		"User: q6\nAssistant: a6\n" +
		"User: q7\nAssistant: a7\n" +
		"\n\nCurrent question: q8"
	assert.Equal(t, expected, gateway.prompts[0])
}

func TestChatService_ContextWithFrozenClock(t *testing.T) {
	gateway := &fakeGateway{reply: "ok"}
	svc := newChatFixture(t, gateway)
	frozen := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		_, err := svc.AppendTurn(ctx, "s1", "u1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		require.NoError(t, err)
	}

	recent, err := svc.RecentContext(ctx, "s1", "u1", ContextTurns)
	require.NoError(t, err)
	require.Len(t, recent, ContextTurns)
	for i, turn := range recent {
		assert.Equal(t, fmt.Sprintf("q%d", i+3), turn.Message)
	}
}

func TestChatService_ContextIsAccountScoped(t *testing.T) {
	gateway := &fakeGateway{reply: "ok"}
	svc := newChatFixture(t, gateway)
	ctx := context.Background()

	_, err := svc.AppendTurn(ctx, "shared", "alice", "alice secret", "noted")
	require.NoError(t, err)

	_, err = svc.HandleMessage(ctx, "bob", models.ChatRequest{Message: "hello", SessionID: "shared"})
	require.NoError(t, err)
	assert.Equal(t, "hello", gateway.prompts[0])

	history, err := svc.History(ctx, "shared", "bob")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "bob", history[0].UserID)
}

func TestChatService_GatewayFailurePersistsNothing(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("upstream timeout")}
	svc := newChatFixture(t, gateway)
	ctx := context.Background()

	_, err := svc.HandleMessage(ctx, "u1", models.ChatRequest{Message: "hello", SessionID: "s1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChatService)
	assert.Contains(t, err.Error(), "upstream timeout")
	assert.Len(t, gateway.prompts, 1)

	history, err := svc.History(ctx, "s1", "u1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatService_EmptyMessageRejected(t *testing.T) {
	gateway := &fakeGateway{reply: "ok"}
	svc := newChatFixture(t, gateway)

	_, err := svc.HandleMessage(context.Background(), "u1", models.ChatRequest{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, gateway.prompts)
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "plain", BuildPrompt(nil, "plain"))

	history := []models.ChatTurn{{Message: "hi", Response: "hello"}}
	assert.Equal(t,
		"Previous conversation:\nUser: hi\nAssistant: hello\n\n\nCurrent question: next",
		BuildPrompt(history, "next"),
	)
}
