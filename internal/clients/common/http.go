package common

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second

	// Error bodies are cut to this many bytes before they end up in messages.
	maxErrorBody = 512
)

type ClientConfig struct {
	Timeout time.Duration
	Headers map[string]string
}

func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout: DefaultTimeout,
		Headers: make(map[string]string),
	}
}

// BearerConfig returns the default config authenticated with key.
func BearerConfig(key string) ClientConfig {
	cfg := DefaultConfig()
	cfg.Headers["Authorization"] = "Bearer " + key
	return cfg
}

func NewHTTPClient(config ClientConfig) *http.Client {
	return &http.Client{
		Timeout: config.Timeout,
	}
}

func NewRequest(ctx context.Context, method, url string, body []byte, config ClientConfig) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, err
	}

	for key, value := range config.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: status=%d, body=%s", e.StatusCode, e.Body)
}

// ReadBody reads resp and turns non-2xx statuses into a *StatusError.
func ReadBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}
	return body, nil
}
