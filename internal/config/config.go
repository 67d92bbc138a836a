// Package config defines the YAML-backed server configuration.
//
// The file is optional: Default() is a fully working configuration, and
// the provider secret can arrive via environment variables instead
// (OPENAI_API_KEY, GROQ_API_KEY), so a config file never has to hold keys.
// A key set in the file wins over the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default tunables.
const (
	// DefaultAddr is the HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultReportTimeoutSeconds bounds one narrative generation call.
	// LLM latency is variable; the cleaning result never waits longer than
	// this before degrading to the deterministic report.
	DefaultReportTimeoutSeconds = 30

	// DefaultMaxUploadBytes caps one CSV upload (32 MiB). Large enough for
	// typical exports, small enough to bound per-request memory.
	DefaultMaxUploadBytes = 32 << 20
)

// Config holds all server configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// MaxUploadBytes caps the size of one uploaded CSV.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Report configures the narrative generator.
	Report Report `yaml:"report"`

	// HistoryDB is the SQLite DSN (or plain path) for the run-history
	// store. Empty disables history.
	HistoryDB string `yaml:"history_db"`

	// Metrics configures the optional metrics backend.
	Metrics Metrics `yaml:"metrics"`
}

// Report configures the AI narrative generator.
type Report struct {
	// Provider is "openai", "groq", or "" to disable the AI call and
	// always use the deterministic fallback.
	Provider string `yaml:"provider"`

	// Model overrides the provider's default chat model.
	Model string `yaml:"model"`

	// APIKey authenticates with the provider. Usually left empty here and
	// supplied via OPENAI_API_KEY / GROQ_API_KEY.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider endpoint (self-hosted gateways).
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds one generation call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured generation timeout as a duration.
func (r Report) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Metrics configures the metrics backend.
type Metrics struct {
	// Backend is "pushgateway" or "" / "none".
	Backend string `yaml:"backend"`

	// PushgatewayURL is the Pushgateway base URL.
	PushgatewayURL string `yaml:"pushgateway_url"`

	// Job is the Pushgateway job name.
	Job string `yaml:"job"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		MaxUploadBytes: DefaultMaxUploadBytes,
		Report: Report{
			TimeoutSeconds: DefaultReportTimeoutSeconds,
		},
	}
}

// Load reads path and merges it over Default(). An empty path returns the
// defaults. Missing fields keep their defaults; the provider API key falls
// back to the matching environment variable.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// applyDefaults restores zero-valued fields the YAML may have blanked.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Report.TimeoutSeconds <= 0 {
		c.Report.TimeoutSeconds = DefaultReportTimeoutSeconds
	}
}

// applyEnv fills the API key from the provider's conventional variable
// when the file left it empty.
func (c *Config) applyEnv() {
	if c.Report.APIKey != "" {
		return
	}
	switch c.Report.Provider {
	case "openai":
		c.Report.APIKey = os.Getenv("OPENAI_API_KEY")
	case "groq":
		c.Report.APIKey = os.Getenv("GROQ_API_KEY")
	}
}
