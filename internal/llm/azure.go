// Package llm implements a minimal Azure OpenAI chat-completions client.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/joeyma/commitrank/internal/errors"
)

const (
	// DefaultAPIVersion is a stable Azure OpenAI API version
	DefaultAPIVersion = "2023-07-01-preview"

	defaultTimeout     = 30 * time.Second
	defaultMaxTokens   = 800
	defaultTemperature = 0.0
)

// Config holds Azure OpenAI client configuration
type Config struct {
	APIKey      string
	Endpoint    string // https://<resource>.openai.azure.com
	Deployment  string
	APIVersion  string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client represents an Azure OpenAI API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Azure OpenAI client
func NewClient(config Config) *Client {
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion round trip and returns the assistant's
// text content
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.config.Temperature,
		MaxTokens:      c.config.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", apperrors.NewInternalError("failed to marshal request", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.config.Endpoint, "/"), c.config.Deployment, c.config.APIVersion)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", apperrors.NewInternalError("failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", apperrors.NewTransientError("completion request timed out", err)
		}
		return "", apperrors.NewTransientError("completion request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewTransientError("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", mapStatusError(resp.StatusCode, respBody, c.config.Deployment)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", apperrors.NewParseError(fmt.Sprintf("completion response is not valid JSON: %v", err))
	}
	if len(chatResp.Choices) == 0 {
		return "", apperrors.NewParseError("completion response has no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// mapStatusError translates an HTTP failure into the application error
// taxonomy
func mapStatusError(status int, body []byte, deployment string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewAuthError("Azure OpenAI API key rejected")
	case status == http.StatusNotFound:
		return apperrors.NewNotFoundError(fmt.Sprintf("deployment %s", deployment))
	case status == http.StatusTooManyRequests || status >= 500:
		return apperrors.NewTransientError(
			fmt.Sprintf("completion request failed with status %d", status), nil)
	default:
		return apperrors.NewInternalError(
			fmt.Sprintf("completion request failed with status %d: %s", status, string(body)), nil)
	}
}

func isTimeout(err error) bool {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
