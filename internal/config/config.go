// Package config provides centralized configuration management for the importer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Owner    OwnerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Server   ServerConfig
	Security SecurityConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

// OwnerConfig identifies the tenant every imported record belongs to.
type OwnerConfig struct {
	// UserID is the owner of imported projects and tasks (required)
	UserID uuid.UUID `env:"GTD_USER_ID"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" envDefault:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" envDefault:"1"`

	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`

	// ConnectTimeout bounds the startup ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// DataDir is searched for export files when no path is given (default: ./data)
	DataDir string `env:"IMPORT_DATA_DIR" envDefault:"./data"`

	// BatchSize is the number of records written per COPY batch (default: 100)
	BatchSize int `env:"IMPORT_BATCH_SIZE" envDefault:"100"`

	// StoreCallTimeout bounds each individual store call (default: 30s)
	StoreCallTimeout time.Duration `env:"STORE_CALL_TIMEOUT" envDefault:"30s"`

	// RunTimeout bounds a whole import run; 0 disables it (default: 0)
	RunTimeout time.Duration `env:"IMPORT_RUN_TIMEOUT" envDefault:"0s"`

	// QueueSize is how many runs the server accepts ahead of the worker (default: 8)
	QueueSize int `env:"IMPORT_QUEUE_SIZE" envDefault:"8"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// SecurityConfig holds API authentication settings.
type SecurityConfig struct {
	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `env:"API_KEYS"`

	// RequireAPIKey rejects unauthenticated API calls (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" envDefault:"false"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
