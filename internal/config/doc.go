// Package config handles configuration loading for message-bank.
//
// # Configuration File
//
// Default location (in order):
//
//  1. Path from MESSAGE_BANK_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/message-bank/config.yaml
//  3. ~/.config/message-bank/config.yaml
//
// Files ending in .toml are parsed as TOML, everything else as YAML. LoadOptional
// returns defaults when the file does not exist.
//
// # Environment
//
// A .env file in the working directory is loaded first (LoadDotEnv). File values may
// reference variables with ${VAR_NAME}. After parsing, MESSAGE_BANK_* variables override
// individual fields:
//
//	MESSAGE_BANK_HTTP_ADDR, MESSAGE_BANK_READ_TIMEOUT, MESSAGE_BANK_WRITE_TIMEOUT
//	MESSAGE_BANK_DB_PATH, MESSAGE_BANK_DB_DRIVER, MESSAGE_BANK_DB_BUSY_TIMEOUT
//	MESSAGE_BANK_TITLE, MESSAGE_BANK_SAMPLE_SIZE, MESSAGE_BANK_RESUBMIT_WINDOW
//	MESSAGE_BANK_LOG_LEVEL, MESSAGE_BANK_LOG_FORMAT
//
// # Example
//
//	server:
//	  http_addr: "localhost:8080"
//	  read_timeout: "10s"
//	  write_timeout: "10s"
//
//	database:
//	  path: "/var/lib/message-bank/messages_db.sqlite"
//	  driver: "sqlite"      # or "sqlite3" for the cgo driver
//	  busy_timeout: "5s"
//
//	bank:
//	  title: "Message Bank"
//	  sample_size: 3
//	  resubmit_window: "10s" # 0 or unset disables the repeat-submission guard
//
//	logging:
//	  level: "info"         # debug, info, warn, error
//	  format: "text"        # text or json
//
// Duration values use Go's time.ParseDuration syntax.
package config
