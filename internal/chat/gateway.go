// Package chat talks to the remote chat-completion model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"smartclinic-server/internal/config"
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("model returned no completion")

// Message is one entry of the completion prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIClient calls an OpenAI compatible /chat/completions endpoint.
// Calls are bounded by the configured timeout and never retried.
type OpenAIClient struct {
	httpClient *resty.Client
	model      string
	logger     *zap.Logger
}

func NewOpenAIClient(cfg config.ChatConfig, logger *zap.Logger) *OpenAIClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout()).
		SetRetryCount(0).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &OpenAIClient{
		httpClient: client,
		model:      cfg.Model,
		logger:     logger,
	}
}

// Complete sends the system instruction and prompt and returns the model's reply.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	request := completionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	var response completionResponse
	var failure apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		SetError(&failure).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to call chat model: %w", err)
	}

	if resp.IsError() {
		detail := failure.Error.Message
		if detail == "" {
			detail = strings.TrimSpace(resp.String())
		}
		c.logger.Warn("chat model returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("detail", detail),
		)
		return "", fmt.Errorf("chat model error (status %d): %s", resp.StatusCode(), detail)
	}

	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("chat completion received", zap.String("model", c.model), zap.Duration("latency", resp.Time()))
	return response.Choices[0].Message.Content, nil
}
