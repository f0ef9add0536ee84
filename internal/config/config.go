// ABOUTME: Configuration loading and parsing for message-bank
// ABOUTME: Supports YAML or TOML files, ${VAR} expansion, .env files, and environment overrides

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied to fields left empty by the file and environment
const (
	DefaultHTTPAddr     = "localhost:8080"
	DefaultDriver       = "sqlite"
	DefaultSampleSize   = 3
	DefaultTitle        = "Message Bank"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultBusyTimeout  = 5 * time.Second
	DefaultDatabaseFile = "messages_db.sqlite"
)

// Config represents the complete message-bank configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Bank     BankConfig     `yaml:"bank" toml:"bank"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr" env:"MESSAGE_BANK_HTTP_ADDR"`

	ReadTimeout  time.Duration `yaml:"-" toml:"-"`
	WriteTimeout time.Duration `yaml:"-" toml:"-"`

	// Raw string values for file and env unmarshaling
	ReadTimeoutRaw  string `yaml:"read_timeout" toml:"read_timeout" env:"MESSAGE_BANK_READ_TIMEOUT"`
	WriteTimeoutRaw string `yaml:"write_timeout" toml:"write_timeout" env:"MESSAGE_BANK_WRITE_TIMEOUT"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path   string `yaml:"path" toml:"path" env:"MESSAGE_BANK_DB_PATH"`
	Driver string `yaml:"driver" toml:"driver" env:"MESSAGE_BANK_DB_DRIVER"` // "sqlite" (modernc) or "sqlite3" (mattn)

	BusyTimeout    time.Duration `yaml:"-" toml:"-"`
	BusyTimeoutRaw string        `yaml:"busy_timeout" toml:"busy_timeout" env:"MESSAGE_BANK_DB_BUSY_TIMEOUT"`
}

// BankConfig holds settings for the message views
type BankConfig struct {
	Title      string `yaml:"title" toml:"title" env:"MESSAGE_BANK_TITLE"`
	// SampleSize is how many messages /view/ shows. It defaults to 3 when unset; 0 shows none.
	SampleSize int    `yaml:"sample_size" toml:"sample_size" env:"MESSAGE_BANK_SAMPLE_SIZE"`

	// ResubmitWindow drops an identical (message, handle) POST seen this recently. Zero disables it.
	ResubmitWindow    time.Duration `yaml:"-" toml:"-"`
	ResubmitWindowRaw string        `yaml:"resubmit_window" toml:"resubmit_window" env:"MESSAGE_BANK_RESUBMIT_WINDOW"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" env:"MESSAGE_BANK_LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" env:"MESSAGE_BANK_LOG_FORMAT"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, anything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded, then MESSAGE_BANK_*
// variables override individual fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := newConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return finish(&cfg)
}

// LoadOptional behaves like Load but falls back to defaults plus environment
// overrides when no file exists at path.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := newConfig()
		return finish(&cfg)
	}
	return Load(path)
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// newConfig returns the decoding target. Defaults for fields whose zero value is
// meaningful are set here, before decoding, so an explicit zero is kept.
func newConfig() Config {
	var cfg Config
	cfg.Bank.SampleSize = DefaultSampleSize
	return cfg
}

// finish applies environment overrides, defaults, duration parsing and validation
func finish(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}

	applyDefaults(cfg)

	// Parse duration fields
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPAddr == "" {
		cfg.Server.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath()
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDriver
	}
	if cfg.Bank.Title == "" {
		cfg.Bank.Title = DefaultTitle
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Database.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.driver must be \"sqlite\" or \"sqlite3\", got %q", c.Database.Driver)
	}

	if c.Bank.SampleSize < 0 {
		return fmt.Errorf("bank.sample_size must not be negative, got %d", c.Bank.SampleSize)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	cfg.Server.ReadTimeout, err = parseDuration("server.read_timeout", cfg.Server.ReadTimeoutRaw, DefaultReadTimeout)
	if err != nil {
		return err
	}

	cfg.Server.WriteTimeout, err = parseDuration("server.write_timeout", cfg.Server.WriteTimeoutRaw, DefaultWriteTimeout)
	if err != nil {
		return err
	}

	cfg.Database.BusyTimeout, err = parseDuration("database.busy_timeout", cfg.Database.BusyTimeoutRaw, DefaultBusyTimeout)
	if err != nil {
		return err
	}

	cfg.Bank.ResubmitWindow, err = parseDuration("bank.resubmit_window", cfg.Bank.ResubmitWindowRaw, 0)
	if err != nil {
		return err
	}

	return nil
}

func parseDuration(field, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", field, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %q", field, raw)
	}
	return d, nil
}

// DefaultPath returns the path to the config file.
// Priority: MESSAGE_BANK_CONFIG env var > XDG_CONFIG_HOME/message-bank/config.yaml > ~/.config/message-bank/config.yaml
func DefaultPath() string {
	if envPath := os.Getenv("MESSAGE_BANK_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "message-bank", "config.yaml")
}

// DefaultDatabasePath returns the database location under the data directory.
// Priority: XDG_DATA_HOME/message-bank > ~/.local/share/message-bank
func DefaultDatabasePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return DefaultDatabaseFile // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "message-bank", DefaultDatabaseFile)
}
