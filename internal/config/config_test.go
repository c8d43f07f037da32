package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testOwner = "6f1c2a8e-3d0b-4b8e-9a55-0c1f7a2b9d10"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GTD_USER_ID", testOwner)
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Owner.UserID != uuid.MustParse(testOwner) {
		t.Errorf("Owner.UserID = %s, want %s", cfg.Owner.UserID, testOwner)
	}
	if cfg.Import.BatchSize != 100 {
		t.Errorf("Import.BatchSize = %d, want %d", cfg.Import.BatchSize, 100)
	}
	if cfg.Import.StoreCallTimeout != 30*time.Second {
		t.Errorf("Import.StoreCallTimeout = %v, want %v", cfg.Import.StoreCallTimeout, 30*time.Second)
	}
	if cfg.Import.DataDir != "./data" {
		t.Errorf("Import.DataDir = %q, want %q", cfg.Import.DataDir, "./data")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("IMPORT_BATCH_SIZE", "25")
	t.Setenv("STORE_CALL_TIMEOUT", "1m30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Import.BatchSize != 25 {
		t.Errorf("Import.BatchSize = %d, want %d", cfg.Import.BatchSize, 25)
	}
	if cfg.Import.StoreCallTimeout != 90*time.Second {
		t.Errorf("Import.StoreCallTimeout = %v, want %v", cfg.Import.StoreCallTimeout, 90*time.Second)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("GTD_USER_ID", testOwner)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "postgres://localhost/alttest")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/alttest" {
		t.Errorf("Database.URL = %q, want %q", cfg.Database.URL, "postgres://localhost/alttest")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		dbURL   string
		mention string
	}{
		{"missing owner", "", "postgres://localhost/test", "GTD_USER_ID"},
		{"missing database", testOwner, "", "DATABASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GTD_USER_ID", tt.owner)
			t.Setenv("DATABASE_URL", tt.dbURL)
			t.Setenv("DB_URL", "")

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error should mention %s: %v", tt.mention, err)
			}
		})
	}
}

func TestLoad_InvalidOwner(t *testing.T) {
	t.Setenv("GTD_USER_ID", "not-a-uuid")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for malformed GTD_USER_ID")
	}
}

func TestLoad_CommaSeparatedKeys(t *testing.T) {
	setRequired(t)
	t.Setenv("API_KEYS", "alpha, beta ,,gamma")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"alpha", "beta", "gamma"}
	if len(cfg.Security.APIKeys) != len(expected) {
		t.Fatalf("APIKeys length = %d, want %d", len(cfg.Security.APIKeys), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.APIKeys[i] != v {
			t.Errorf("APIKeys[%d] = %q, want %q", i, cfg.Security.APIKeys[i], v)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Owner:    OwnerConfig{UserID: uuid.MustParse(testOwner)},
		Database: DatabaseConfig{URL: "postgres://localhost/test", MaxConns: 10, MinConns: 1},
		Import:   ImportConfig{BatchSize: 100, StoreCallTimeout: time.Second, QueueSize: 1},
		Server:   ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		mention string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"max below min", func(c *Config) { c.Database.MaxConns, c.Database.MinConns = 2, 5 }, "DB_MAX_CONNS"},
		{"zero batch", func(c *Config) { c.Import.BatchSize = 0 }, "IMPORT_BATCH_SIZE"},
		{"zero store timeout", func(c *Config) { c.Import.StoreCallTimeout = 0 }, "STORE_CALL_TIMEOUT"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"auth without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error should mention %s: %v", tt.mention, err)
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() on valid config = %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9090, ":9090"},
		{"127.0.0.1", 443, "127.0.0.1:443"},
	}

	for _, tt := range tests {
		cfg := ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestString_MasksDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = "postgres://user:secret@db/gtd"

	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Errorf("String() leaked credentials: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() = %s, want masked URL", s)
	}
}
