package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration.
type Config struct {
	Backend Backend `json:"backend" yaml:"backend"`
	Store   Store   `json:"store" yaml:"store"`
	Stream  Stream  `json:"stream" yaml:"stream"`
}

// Backend selects which backend the client talks to. BaseURL, when set,
// overrides the named environment entirely.
type Backend struct {
	Environment string   `json:"environment" yaml:"environment"` // "local" or "production"
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout     Duration `json:"timeout" yaml:"timeout"`
}

// Store configures the local hint store.
type Store struct {
	Path string `json:"path" yaml:"path"`
}

// Stream configures WebSocket reconnection for the push channels.
type Stream struct {
	MaxAttempts    int      `json:"max_attempts" yaml:"max_attempts"`
	InitialBackoff Duration `json:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff     Duration `json:"max_backoff" yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	env := strings.ToLower(strings.TrimSpace(c.Backend.Environment))
	if c.Backend.BaseURL == "" && env != "local" && env != "production" {
		return fmt.Errorf("backend.environment must be 'local' or 'production' (or set backend.base_url)")
	}
	if c.Backend.BaseURL != "" &&
		!strings.HasPrefix(c.Backend.BaseURL, "http://") &&
		!strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend.base_url must start with http:// or https://")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Stream.MaxAttempts < 1 {
		return fmt.Errorf("stream.max_attempts must be at least 1")
	}
	if c.Stream.InitialBackoff <= 0 {
		return fmt.Errorf("stream.initial_backoff must be positive")
	}
	if c.Stream.MaxBackoff < c.Stream.InitialBackoff {
		return fmt.Errorf("stream.max_backoff must be >= stream.initial_backoff")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Backend: Backend{
			Environment: "production",
			Timeout:     Duration(30 * time.Second),
		},
		Store: Store{
			Path: "./mandate.sqlite",
		},
		Stream: Stream{
			MaxAttempts:    8,
			InitialBackoff: Duration(time.Second),
			MaxBackoff:     Duration(30 * time.Second),
		},
	}
}
