// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, overrides, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  http_addr: "0.0.0.0:9090"
  read_timeout: "15s"
  write_timeout: "20s"

database:
  path: "./test.db"
  driver: "sqlite3"
  busy_timeout: "2s"

bank:
  title: "Dog Messages"
  sample_size: 5
  resubmit_window: "30s"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:9090")
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 15*time.Second)
	}
	if cfg.Server.WriteTimeout != 20*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want %v", cfg.Server.WriteTimeout, 20*time.Second)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite3")
	}
	if cfg.Database.BusyTimeout != 2*time.Second {
		t.Errorf("Database.BusyTimeout = %v, want %v", cfg.Database.BusyTimeout, 2*time.Second)
	}
	if cfg.Bank.Title != "Dog Messages" {
		t.Errorf("Bank.Title = %q, want %q", cfg.Bank.Title, "Dog Messages")
	}
	if cfg.Bank.SampleSize != 5 {
		t.Errorf("Bank.SampleSize = %d, want 5", cfg.Bank.SampleSize)
	}
	if cfg.Bank.ResubmitWindow != 30*time.Second {
		t.Errorf("Bank.ResubmitWindow = %v, want %v", cfg.Bank.ResubmitWindow, 30*time.Second)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[server]
http_addr = "127.0.0.1:8000"

[database]
path = "/tmp/bank.db"

[bank]
sample_size = 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "127.0.0.1:8000" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "127.0.0.1:8000")
	}
	if cfg.Database.Path != "/tmp/bank.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/bank.db")
	}
	if cfg.Bank.SampleSize != 7 {
		t.Errorf("Bank.SampleSize = %d, want 7", cfg.Bank.SampleSize)
	}
	if cfg.Database.Driver != DefaultDriver {
		t.Errorf("Database.Driver = %q, want default %q", cfg.Database.Driver, DefaultDriver)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	path := writeConfig(t, "config.yaml", "{}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	wantDB := filepath.Join("/data", "message-bank", DefaultDatabaseFile)
	if cfg.Database.Path != wantDB {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, wantDB)
	}
	if cfg.Bank.SampleSize != DefaultSampleSize {
		t.Errorf("Bank.SampleSize = %d, want %d", cfg.Bank.SampleSize, DefaultSampleSize)
	}
	if cfg.Bank.Title != DefaultTitle {
		t.Errorf("Bank.Title = %q, want %q", cfg.Bank.Title, DefaultTitle)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.Database.BusyTimeout != DefaultBusyTimeout {
		t.Errorf("Database.BusyTimeout = %v, want %v", cfg.Database.BusyTimeout, DefaultBusyTimeout)
	}
	if cfg.Bank.ResubmitWindow != 0 {
		t.Errorf("Bank.ResubmitWindow = %v, want disabled", cfg.Bank.ResubmitWindow)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_BANK_DB", "/var/lib/bank/messages.db")

	path := writeConfig(t, "config.yaml", `
database:
  path: "${TEST_BANK_DB}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/var/lib/bank/messages.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/var/lib/bank/messages.db")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MESSAGE_BANK_HTTP_ADDR", "0.0.0.0:7000")
	t.Setenv("MESSAGE_BANK_SAMPLE_SIZE", "9")
	t.Setenv("MESSAGE_BANK_DB_BUSY_TIMEOUT", "750ms")

	path := writeConfig(t, "config.yaml", `
server:
  http_addr: "localhost:1234"
database:
  path: "./test.db"
bank:
  sample_size: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPAddr != "0.0.0.0:7000" {
		t.Errorf("Server.HTTPAddr = %q, want override %q", cfg.Server.HTTPAddr, "0.0.0.0:7000")
	}
	if cfg.Bank.SampleSize != 9 {
		t.Errorf("Bank.SampleSize = %d, want override 9", cfg.Bank.SampleSize)
	}
	if cfg.Database.BusyTimeout != 750*time.Millisecond {
		t.Errorf("Database.BusyTimeout = %v, want %v", cfg.Database.BusyTimeout, 750*time.Millisecond)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want file value %q", cfg.Database.Path, "./test.db")
	}
}

func TestLoad_ZeroSampleSize(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "config.yaml", "bank:\n  sample_size: 0\n"},
		{"toml", "config.toml", "[bank]\nsample_size = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Bank.SampleSize != 0 {
				t.Errorf("Bank.SampleSize = %d, want explicit 0 kept", cfg.Bank.SampleSize)
			}
		})
	}

	t.Run("env", func(t *testing.T) {
		t.Setenv("MESSAGE_BANK_SAMPLE_SIZE", "0")
		cfg, err := Load(writeConfig(t, "config.yaml", "bank:\n  sample_size: 5\n"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Bank.SampleSize != 0 {
			t.Errorf("Bank.SampleSize = %d, want 0 from environment", cfg.Bank.SampleSize)
		}
	})
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  read_timeout: "soon"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "server.read_timeout") {
		t.Errorf("error should name the field, got %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server: [unclosed\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadOptional_MissingFile(t *testing.T) {
	t.Setenv("MESSAGE_BANK_DB_PATH", "/tmp/override.db")

	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/override.db")
	}
	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("MESSAGE_BANK_TEST_DOTENV=from-file\n"), 0644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Setenv("MESSAGE_BANK_TEST_DOTENV", "")
	os.Unsetenv("MESSAGE_BANK_TEST_DOTENV")

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("MESSAGE_BANK_TEST_DOTENV"); got != "from-file" {
		t.Errorf("MESSAGE_BANK_TEST_DOTENV = %q, want %q", got, "from-file")
	}

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{HTTPAddr: "localhost:8080"},
			Database: DatabaseConfig{Path: "./test.db", Driver: "sqlite"},
			Bank:     BankConfig{SampleSize: 3},
			Logging:  LoggingConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing http addr", func(c *Config) { c.Server.HTTPAddr = "" }, "server.http_addr"},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"negative sample size", func(c *Config) { c.Bank.SampleSize = -1 }, "bank.sample_size"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("MESSAGE_BANK_CONFIG", "/etc/message-bank.yaml")
	if got := DefaultPath(); got != "/etc/message-bank.yaml" {
		t.Errorf("DefaultPath() = %q, want env value", got)
	}

	t.Setenv("MESSAGE_BANK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	want := filepath.Join("/xdg", "message-bank", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
