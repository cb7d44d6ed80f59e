// Package config provides the configuration schema for campusrec.
//
// Configuration is file-based (campusrec.yaml) with environment
// variable overrides. Everything is optional: a bare invocation talks
// to the default backend URL and persists state under the user's home
// directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the top-level configuration.
type Config struct {
	// API configures the backend HTTP client.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// Session configures the persisted session record.
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// Snapshot configures the local cache of the last good backend
	// payloads, used as fallback data when the backend degrades.
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`

	// Health configures the background reachability poller.
	Health HealthConfig `yaml:"health" mapstructure:"health"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// Telemetry configures trace export.
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`

	// Metrics configures the optional Prometheus listener.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// APIConfig configures the backend HTTP client.
type APIConfig struct {
	// BaseURL is the backend root (e.g., "http://localhost:8080/api").
	// Defaults to the value of CAMPUSREC_API_URL, then the local
	// development backend.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds each HTTP request (e.g., "10s").
	// Defaults to "10s".
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`

	// RetryAttempts is the total number of attempts for read requests.
	// Mutations are never retried. Defaults to 3; 1 disables retries.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts" validate:"omitempty,min=1,max=10"`

	// RetryBackoff is the base delay between retry attempts (e.g.,
	// "500ms"); the delay grows linearly per attempt. Defaults to "500ms".
	RetryBackoff string `yaml:"retry_backoff" mapstructure:"retry_backoff" validate:"omitempty,duration"`
}

// SessionConfig configures the persisted session record.
type SessionConfig struct {
	// Path is the session file location.
	// Defaults to "~/.campusrec/session.json".
	Path string `yaml:"path" mapstructure:"path"`
}

// SnapshotConfig configures the local payload cache.
type SnapshotConfig struct {
	// Enabled controls whether successful fetches are cached locally.
	// Defaults to true; set to false to always fall back to the
	// embedded demo datasets.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Path is the cache database location.
	// Defaults to "~/.campusrec/snapshots.db".
	Path string `yaml:"path" mapstructure:"path"`
}

// HealthConfig configures the background reachability poller.
type HealthConfig struct {
	// Interval is the probe period (e.g., "30s"). Defaults to "30s".
	Interval string `yaml:"interval" mapstructure:"interval" validate:"omitempty,duration"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error". Defaults to "info".
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Format selects the handler: "text" or "json". Defaults to "text".
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	// Enabled turns stdout trace export on. Defaults to false.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	// Addr is the listen address for /metrics (e.g., "127.0.0.1:9464").
	// Empty disables the listener.
	Addr string `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://localhost:8080/api"

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		if env := os.Getenv("CAMPUSREC_API_URL"); env != "" {
			c.API.BaseURL = env
		} else {
			c.API.BaseURL = DefaultBaseURL
		}
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "10s"
	}
	if c.API.RetryAttempts == 0 {
		c.API.RetryAttempts = 3
	}
	if c.API.RetryBackoff == "" {
		c.API.RetryBackoff = "500ms"
	}

	home, _ := os.UserHomeDir()
	if c.Session.Path == "" {
		c.Session.Path = filepath.Join(home, ".campusrec", "session.json")
	}

	// Snapshot caching defaults on; viper.IsSet distinguishes "not
	// set" (zero value) from "explicitly false".
	if !viper.IsSet("snapshot.enabled") {
		c.Snapshot.Enabled = true
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = filepath.Join(home, ".campusrec", "snapshots.db")
	}

	if c.Health.Interval == "" {
		c.Health.Interval = "30s"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
