package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LLM.Enabled {
		t.Error("LLM should be disabled by default")
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("LLM timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Simulation.Steps != 300 || cfg.Simulation.DT != 0.1 {
		t.Errorf("simulation defaults = %+v", cfg.Simulation)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("storage backend = %q", cfg.Storage.Backend)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  provider: anthropic
  api_key: sk-test-key-1234567890
  model: claude-3-5-haiku-20241022
  enabled: true
simulation:
  service_url: http://localhost:8100
  steps: 500
storage:
  backend: sqlite
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LLM.Provider != "anthropic" || !cfg.LLM.Enabled {
		t.Errorf("llm config = %+v", cfg.LLM)
	}
	if cfg.Simulation.ServiceURL != "http://localhost:8100" {
		t.Errorf("service url = %q", cfg.Simulation.ServiceURL)
	}
	if cfg.Simulation.Steps != 500 {
		t.Errorf("steps = %d", cfg.Simulation.Steps)
	}
	// Unset fields keep their defaults.
	if cfg.Simulation.DT != 0.1 {
		t.Errorf("dt should keep its default, got %g", cfg.Simulation.DT)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadFromFileExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SIMDEC_KEY", "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "llm:\n  api_key: ${TEST_SIMDEC_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk-from-env" {
		t.Errorf("api key = %q, want expanded env value", cfg.LLM.APIKey)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"anthropic provider", func(c *Config) { c.LLM.Provider = "anthropic" }, false},
		{"mistral provider", func(c *Config) { c.LLM.Provider = "mistral" }, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "skynet" }, true},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = -time.Second }, true},
		{"negative dt", func(c *Config) { c.Simulation.DT = -0.1 }, true},
		{"negative steps", func(c *Config) { c.Simulation.Steps = -1 }, true},
		{"sqlite backend", func(c *Config) { c.Storage.Backend = "sqlite" }, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, true},
		{"trace level", func(c *Config) { c.Logging.Level = "trace" }, false},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIMDEC_LLM_PROVIDER", "anthropic")
	t.Setenv("SIMDEC_LLM_ENABLED", "true")
	t.Setenv("ANTHROPIC_API_KEY", "sk-env-key")
	t.Setenv("SIMDEC_SIM_URL", "http://sim.example:9000")
	t.Setenv("SIMDEC_SIM_STEPS", "42")
	t.Setenv("SIMDEC_SIM_DT", "0.01")
	t.Setenv("SIMDEC_STORAGE_BACKEND", "sqlite")
	t.Setenv("SIMDEC_LOG_LEVEL", "trace")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.LLM.Provider != "anthropic" || !cfg.LLM.Enabled || cfg.LLM.APIKey != "sk-env-key" {
		t.Errorf("llm overrides not applied: %+v", cfg.LLM)
	}
	if cfg.Simulation.ServiceURL != "http://sim.example:9000" {
		t.Errorf("service url = %q", cfg.Simulation.ServiceURL)
	}
	if cfg.Simulation.Steps != 42 || cfg.Simulation.DT != 0.01 {
		t.Errorf("simulation overrides not applied: %+v", cfg.Simulation)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Logging.Level != "trace" {
		t.Errorf("storage/logging overrides not applied: %q %q", cfg.Storage.Backend, cfg.Logging.Level)
	}
}

func TestMistralDefaults(t *testing.T) {
	t.Setenv("SIMDEC_LLM_PROVIDER", "mistral")
	t.Setenv("MISTRAL_API_KEY", "sk-mistral")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.LLM.APIKey != "sk-mistral" {
		t.Errorf("mistral key not picked up: %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "https://api.mistral.ai/v1" {
		t.Errorf("mistral base url not defaulted: %q", cfg.LLM.BaseURL)
	}
}

func TestRedactedAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"short", "(set)"},
		{"elevenchars", "(set)"},
		{"sk-abcdefgh-xyz9", "sk-a...xyz9"},
	}

	for _, tt := range tests {
		got := LLMConfig{APIKey: tt.key}.RedactedAPIKey()
		if got != tt.want {
			t.Errorf("RedactedAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestStringNeverLeaksKey(t *testing.T) {
	c := LLMConfig{Provider: "openai", APIKey: "sk-supersecretvalue99", Model: "gpt-4o-mini"}
	s := c.String()
	if strings.Contains(s, "supersecret") {
		t.Errorf("String() leaked the api key: %s", s)
	}
	if !strings.Contains(s, "sk-s...ue99") {
		t.Errorf("String() missing redacted key: %s", s)
	}
}
