// Package config persists user settings in ~/.autocommiter.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	FileName     = ".autocommiter.json"
	DefaultModel = "gpt-4o-mini"
)

var ErrEmptyAPIKey = errors.New("API key cannot be empty")

// DefaultGitignorePatterns are appended to .gitignore when updates are enabled.
var DefaultGitignorePatterns = []string{"*.env*", ".env*", "docx/", ".docx/"}

type Config struct {
	APIKey            string   `json:"api_key,omitempty" mapstructure:"api_key"`
	SelectedModel     string   `json:"selected_model" mapstructure:"selected_model"`
	EnableGitmoji     bool     `json:"enable_gitmoji" mapstructure:"enable_gitmoji"`
	UpdateGitignore   bool     `json:"update_gitignore" mapstructure:"update_gitignore"`
	GitignorePatterns []string `json:"gitignore_patterns" mapstructure:"gitignore_patterns"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SelectedModel:     DefaultModel,
		GitignorePatterns: append([]string(nil), DefaultGitignorePatterns...),
	}
}

// HasAPIKey reports whether generation can call the inference API.
func (c Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// Model returns the selected model, or the default when unset.
func (c Config) Model() string {
	if c.SelectedModel == "" {
		return DefaultModel
	}
	return c.SelectedModel
}

// MaskKey hides all but the first and last four characters of key.
func MaskKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "****"
}

// Store reads and writes one config file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is the config file in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// NewDefaultStore returns a Store for the file in the home directory.
func NewDefaultStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the config file. A missing file yields the defaults, and so does
// a file that cannot be parsed.
func (s *Store) Load() (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	v.SetDefault("api_key", "")
	v.SetDefault("selected_model", def.SelectedModel)
	v.SetDefault("enable_gitmoji", def.EnableGitmoji)
	v.SetDefault("update_gitignore", def.UpdateGitignore)
	v.SetDefault("gitignore_patterns", def.GitignorePatterns)

	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil
		}
		return Config{}, fmt.Errorf("failed to stat config: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Config file is unreadable, using defaults")
		return def, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Config file has unexpected fields, using defaults")
		return def, nil
	}
	return cfg, nil
}

// Save writes cfg as indented JSON.
func (s *Store) Save(cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (s *Store) update(fn func(*Config)) (Config, error) {
	cfg, err := s.Load()
	if err != nil {
		return Config{}, err
	}
	fn(&cfg)
	if err := s.Save(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Store) SetAPIKey(key string) error {
	if key == "" {
		return ErrEmptyAPIKey
	}
	_, err := s.update(func(c *Config) { c.APIKey = key })
	return err
}

func (s *Store) SetModel(model string) error {
	_, err := s.update(func(c *Config) { c.SelectedModel = model })
	return err
}

// ToggleGitmoji flips enable_gitmoji and returns the new value.
func (s *Store) ToggleGitmoji() (bool, error) {
	cfg, err := s.update(func(c *Config) { c.EnableGitmoji = !c.EnableGitmoji })
	if err != nil {
		return false, err
	}
	return cfg.EnableGitmoji, nil
}

// Reset overwrites the file with the defaults.
func (s *Store) Reset() error {
	return s.Save(Default())
}
