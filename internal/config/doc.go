// Package config loads runtime configuration for the pixelyear CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the Redis sync backend
//	-d string   data directory for the local database, session file and logs
//	-y int      planner year to open
//	-w int      auto-push debounce window (milliseconds)
//	-f string   log file path
//	-s string   HMAC secret for verifying session tokens
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "500ms" or integer nanoseconds:
//
//	{
//	  "redis_addr": "127.0.0.1:6379",
//	  "data_dir": "/home/me/.config/pixelyear",
//	  "year": 2025,
//	  "debounce_window": "500ms",
//	  "session_secret": "",
//	  "log_file": ""
//	}
//
// Fields absent from the JSON file keep their current values, so a file may
// override a single setting without restating the rest.
//
// Primary API
//
//   - type Config                     — holds all runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
