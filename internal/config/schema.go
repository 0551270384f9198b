// Package config provides configuration loading and validation for the
// autonomy core. It supports TOML configuration files with environment
// variable expansion, default values, and per-section validation.
//
// Configuration structure:
//   - [workspace]: workspace directory holding the persisted documents
//   - [logging]: logging level, format, and output
//   - [scheduler]: timer periods, reminder grace, default timezone
//   - [providers] / [providers.<id>]: LLM provider credentials and models
//   - [metrics]: Prometheus listener settings
//
// Environment variables can be referenced with ${VAR} or ${VAR:default}
// syntax, e.g. api_key = "${OPENAI_API_KEY}".
package config

import (
	"github.com/aatumaykin/autocore/internal/provider"
)

// Config is the main application configuration.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Logging   LoggingConfig   `toml:"logging"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Providers ProvidersConfig `toml:"providers"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// WorkspaceConfig locates the workspace directory.
type WorkspaceConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// SchedulerConfig configures the four autonomous timers and the tick
// loop. Intervals are in seconds; disabling a timer here is applied at
// initialization only.
type SchedulerConfig struct {
	TickIntervalMillis       int    `toml:"tick_interval_ms"`
	StatusEnabled            bool   `toml:"status_enabled"`
	StatusIntervalSeconds    int    `toml:"status_interval_seconds"`
	HeartbeatEnabled         bool   `toml:"heartbeat_enabled"`
	HeartbeatIntervalSeconds int    `toml:"heartbeat_interval_seconds"`
	ReminderGraceMinutes     int    `toml:"reminder_grace_minutes"`
	Timezone                 string `toml:"timezone"`
	DispatchQueueSize        int    `toml:"dispatch_queue_size"`
}

// ProviderConfig holds one provider's credentials and model choice.
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// ProvidersConfig holds the provider table and failover tuning.
type ProvidersConfig struct {
	RetryWindowSeconds int64          `toml:"retry_window_seconds"`
	OpenAI             ProviderConfig `toml:"openai"`
	Anthropic          ProviderConfig `toml:"anthropic"`
	Gemini             ProviderConfig `toml:"gemini"`
	GLM                ProviderConfig `toml:"glm"`
}

// MetricsConfig configures the optional Prometheus listener.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
	Namespace  string `toml:"namespace"`
}

// Get returns the configuration for a provider id.
func (p *ProvidersConfig) Get(id provider.ID) ProviderConfig {
	switch id {
	case provider.OpenAI:
		return p.OpenAI
	case provider.Anthropic:
		return p.Anthropic
	case provider.Gemini:
		return p.Gemini
	case provider.GLM:
		return p.GLM
	}
	return ProviderConfig{}
}

// Configured reports whether the provider has credentials. Implements
// provider.CredentialSource.
func (p *ProvidersConfig) Configured(id provider.ID) bool {
	return p.Get(id).APIKey != ""
}

// Model returns the configured model for a provider, falling back to the
// provider default.
func (p *ProvidersConfig) Model(id provider.ID) string {
	if m := p.Get(id).Model; m != "" {
		return m
	}
	return provider.DefaultModel(id)
}
