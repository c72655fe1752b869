// Package inference talks to the GitHub Models chat-completions endpoint.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"autocommiter/internal/clients/common"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://models.inference.ai.azure.com"

	SystemPrompt = "You are a helpful assistant that generates concise, informative git commit messages. Reply only with the commit message, nothing else."
)

var ErrNoContent = errors.New("unexpected API response format")

type Client struct {
	baseURL string
	client  *http.Client
	config  common.ClientConfig
}

// NewClient returns a client for baseURL, or DefaultBaseURL when empty.
func NewClient(key, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	clientConfig := common.BearerConfig(key)
	clientConfig.Headers["Content-Type"] = "application/json"

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  common.NewHTTPClient(clientConfig),
		config:  clientConfig,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []message `json:"messages"`
	Model    string    `json:"model"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system and one user message and returns the trimmed
// reply.
func (c *Client) Complete(ctx context.Context, model, system, prompt string) (string, error) {
	requestBody, err := json.Marshal(chatRequest{
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Model: model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := common.NewRequest(ctx, http.MethodPost, c.baseURL+"/chat/completions", requestBody, c.config)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	log.Debug().Str("model", model).Int("prompt_bytes", len(prompt)).Msg("Sending chat completion request")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := common.ReadBody(resp)
	if err != nil {
		return "", err
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message == nil || response.Choices[0].Message.Content == nil {
		return "", ErrNoContent
	}

	return strings.TrimSpace(*response.Choices[0].Message.Content), nil
}

// BuildPrompt formats the user prompt from the file list and the compressed
// change summary.
func BuildPrompt(fileNames, summary string) string {
	return fmt.Sprintf("reply only with a very concise but informative commit message, and nothing else:\n\nFiles:\n%s\n\nSummaryJSON:%s", fileNames, summary)
}

// GenerateCommitMessage asks model for a commit message describing the
// staged files.
func (c *Client) GenerateCommitMessage(ctx context.Context, model, fileNames, summary string) (string, error) {
	return c.Complete(ctx, model, SystemPrompt, BuildPrompt(fileNames, summary))
}
