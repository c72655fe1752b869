// Package models keeps the list of chat models available for generation.
package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"autocommiter/internal/clients/common"

	"github.com/rs/zerolog/log"
)

const (
	CacheFileName    = ".autocommiter.models.json"
	DefaultBaseURL   = "https://models.inference.ai.azure.com"
	chatCompletion   = "chat-completion"
	githubAPIVersion = "2022-11-28"
)

var ErrNoModels = errors.New("no chat-completion models found")

type ModelInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	FriendlyName string   `json:"friendly_name,omitempty"`
	Publisher    string   `json:"publisher,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Task         string   `json:"task,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// DisplayName prefers the friendly name.
func (m ModelInfo) DisplayName() string {
	if m.FriendlyName != "" {
		return m.FriendlyName
	}
	return m.Name
}

type cachedModels struct {
	Models []ModelInfo `json:"models"`
}

// Defaults is the built-in list used before the first refresh.
func Defaults() []ModelInfo {
	defaults := []struct{ id, friendly, summary string }{
		{"gpt-4o-mini", "OpenAI GPT-4o mini", "Fast & cost-effective, great for most tasks"},
		{"gpt-4o", "OpenAI GPT-4o", "High quality, most capable model"},
		{"Phi-3-mini-128k-instruct", "Phi-3 mini 128k", "Lightweight, efficient open model"},
		{"Mistral-large", "Mistral Large", "Powerful open-source model"},
	}
	out := make([]ModelInfo, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, ModelInfo{
			ID:           d.id,
			Name:         d.id,
			FriendlyName: d.friendly,
			Summary:      d.summary,
			Task:         chatCompletion,
		})
	}
	return out
}

// Catalog fetches models from the API and caches them on disk.
type Catalog struct {
	cachePath string
	baseURL   string
}

func NewCatalog(cachePath, baseURL string) *Catalog {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Catalog{cachePath: cachePath, baseURL: strings.TrimRight(baseURL, "/")}
}

// DefaultCachePath is the cache file in the user's home directory.
func DefaultCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, CacheFileName), nil
}

type remoteModel struct {
	Name         *string  `json:"name"`
	FriendlyName string   `json:"friendly_name"`
	Publisher    string   `json:"publisher"`
	Summary      string   `json:"summary"`
	Task         string   `json:"task"`
	Tags         []string `json:"tags"`
}

// Fetch lists chat-completion models. Non-2xx responses and empty results
// fall back to Defaults; transport and decoding failures are errors.
func (c *Catalog) Fetch(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	cfg := common.BearerConfig(apiKey)
	cfg.Headers["Accept"] = "application/vnd.github+json"
	cfg.Headers["X-GitHub-Api-Version"] = githubAPIVersion

	req, err := common.NewRequest(ctx, http.MethodGet, c.baseURL+"/models", nil, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := common.NewHTTPClient(cfg).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := common.ReadBody(resp)
	if err != nil {
		var se *common.StatusError
		if errors.As(err, &se) {
			log.Warn().Int("status", se.StatusCode).Msg("Failed to fetch models, using defaults")
			return Defaults(), nil
		}
		return nil, err
	}

	var remote []remoteModel
	if err := json.Unmarshal(body, &remote); err != nil {
		return nil, fmt.Errorf("failed to decode models: %w", err)
	}

	var out []ModelInfo
	for _, m := range remote {
		if m.Task != chatCompletion || m.Name == nil {
			continue
		}
		out = append(out, ModelInfo{
			ID:           *m.Name,
			Name:         *m.Name,
			FriendlyName: m.FriendlyName,
			Publisher:    m.Publisher,
			Summary:      m.Summary,
			Task:         m.Task,
			Tags:         m.Tags,
		})
	}
	if len(out) == 0 {
		return Defaults(), nil
	}
	return out, nil
}

// Cached returns the cached models, or Defaults when the cache is missing,
// unreadable or empty.
func (c *Catalog) Cached() ([]ModelInfo, error) {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read model cache: %w", err)
	}

	var cached cachedModels
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Warn().Err(err).Str("path", c.cachePath).Msg("Model cache is corrupt, using defaults")
		return Defaults(), nil
	}
	if len(cached.Models) == 0 {
		return Defaults(), nil
	}
	return cached.Models, nil
}

func (c *Catalog) Store(models []ModelInfo) error {
	data, err := json.MarshalIndent(cachedModels{Models: models}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model cache: %w", err)
	}
	if err := os.WriteFile(c.cachePath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write model cache: %w", err)
	}
	return nil
}

// Refresh fetches and caches the model list and returns how many were stored.
func (c *Catalog) Refresh(ctx context.Context, apiKey string) (int, error) {
	models, err := c.Fetch(ctx, apiKey)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, ErrNoModels
	}
	if err := c.Store(models); err != nil {
		return 0, err
	}
	return len(models), nil
}

// Find returns the model with the given id.
func Find(models []ModelInfo, id string) (ModelInfo, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}
