package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"jejubot/types"
)

// OllamaClient calls the Ollama /api/chat endpoint with role-tagged
// messages. Responses are non-streaming; a chat call runs to completion
// or failure.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message types.Message `json:"message"`
	Done    bool          `json:"done"`
}

func NewOllamaClient() (*OllamaClient, error) {
	baseURL := os.Getenv("LLM_URL")
	if baseURL == "" {
		return nil, types.NewConfigError("LLM_URL")
	}
	llmModel := os.Getenv("LLM_MODEL")
	if llmModel == "" {
		return nil, types.NewConfigError("LLM_MODEL")
	}
	return &OllamaClient{
		baseURL: baseURL,
		model:   llmModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (c *OllamaClient) Model() string { return c.model }

// Chat sends the conversation to the model and returns the generated text.
func (c *OllamaClient) Chat(ctx context.Context, messages []types.Message) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if chatResp.Message.Content == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	return chatResp.Message.Content, nil
}
