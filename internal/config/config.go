// Package config provides unified configuration loading for simdec.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all simdec configuration settings.
type Config struct {
	// LLM contains settings for model generation and AI edit proposals.
	LLM LLMConfig `json:"llm" yaml:"llm"`

	// Simulation contains settings for the external simulation service.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Storage selects the snapshot backend.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Logging contains settings for operational and diagnostic logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig configures simdec's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`
}

// StorageConfig selects the durable snapshot backend.
type StorageConfig struct {
	// Backend is "file" (default) or "sqlite".
	Backend string `json:"backend" yaml:"backend"`
}

// SimulationConfig configures the external simulation service and the
// defaults used when a model carries none.
type SimulationConfig struct {
	// ServiceURL is the base URL of the remote simulation service. Empty
	// means simulate locally.
	ServiceURL string `json:"service_url,omitempty" yaml:"service_url,omitempty"`

	// Timeout is the maximum duration to wait for the remote service.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Steps and DT are fallback integration parameters.
	Steps int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	DT    float64 `json:"dt,omitempty" yaml:"dt,omitempty"`
}

// LLMConfig configures LLM-based model generation and edit proposals.
type LLMConfig struct {
	// Provider identifies the LLM backend: "anthropic", "openai", "mistral",
	// or "" for disabled.
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the API key for the provider. Supports ${VAR} syntax for env vars.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API endpoint URL. Used for Mistral or custom
	// OpenAI-compatible endpoints.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier to use for requests.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Timeout is the maximum duration to wait for LLM responses.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Enabled indicates whether LLM features are enabled.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// RedactedAPIKey returns the API key with most characters masked.
// Shows first 4 and last 4 characters, e.g., "sk-a...xyz9".
// Returns "" for empty keys and "(set)" for keys shorter than 12 chars.
func (c LLMConfig) RedactedAPIKey() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) < 12 {
		return "(set)"
	}
	return c.APIKey[:4] + "..." + c.APIKey[len(c.APIKey)-4:]
}

// String implements fmt.Stringer to prevent accidental API key logging.
func (c LLMConfig) String() string {
	return fmt.Sprintf("LLMConfig{Provider:%s, Enabled:%t, APIKey:%s, Model:%s}",
		c.Provider, c.Enabled, c.RedactedAPIKey(), c.Model)
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "",
			APIKey:   "",
			Timeout:  30 * time.Second,
			Enabled:  false,
		},
		Simulation: SimulationConfig{
			Timeout: 30 * time.Second,
			Steps:   300,
			DT:      0.1,
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.simdec/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	// Try to load from default config file
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".simdec", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in API key
	config.LLM.APIKey = expandEnvVars(config.LLM.APIKey)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	validProviders := map[string]bool{"": true, "anthropic": true, "openai": true, "mistral": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid provider: %s (valid: anthropic, openai, mistral, or empty)", c.LLM.Provider)
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.LLM.Timeout)
	}

	if c.Simulation.DT < 0 {
		return fmt.Errorf("dt must be non-negative, got %g", c.Simulation.DT)
	}
	if c.Simulation.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Simulation.Steps)
	}

	validBackends := map[string]bool{"": true, "file": true, "sqlite": true}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage backend: %s (valid: file, sqlite, or empty for default)", c.Storage.Backend)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SIMDEC_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}

	if v := os.Getenv("SIMDEC_LLM_ENABLED"); v != "" {
		config.LLM.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.LLM.Provider == "anthropic" {
		config.LLM.APIKey = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" && config.LLM.Provider == "openai" {
		config.LLM.APIKey = v
	}

	// Mistral exposes an OpenAI-compatible endpoint.
	if config.LLM.Provider == "mistral" {
		if v := os.Getenv("MISTRAL_API_KEY"); v != "" {
			config.LLM.APIKey = v
		}
		if config.LLM.BaseURL == "" {
			config.LLM.BaseURL = "https://api.mistral.ai/v1"
		}
	}

	if v := os.Getenv("SIMDEC_SIM_URL"); v != "" {
		config.Simulation.ServiceURL = v
	}

	if v := os.Getenv("SIMDEC_SIM_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Steps = n
		}
	}

	if v := os.Getenv("SIMDEC_SIM_DT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.DT = f
		}
	}

	if v := os.Getenv("SIMDEC_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}

	if v := os.Getenv("SIMDEC_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
