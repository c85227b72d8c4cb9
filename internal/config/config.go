package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the pixelyear CLI.
//
// Fields:
//   - RedisAddr: host:port of the Redis instance used for sync. When the
//     instance is unreachable the application still runs, just offline.
//   - DataDir: directory holding the local SQLite database, the session
//     token file and, by default, the log file.
//   - Year: the planner year to open at startup.
//   - DebounceWindow: quiet period between a local edit and its auto-push.
//   - SessionSecret: HMAC secret for verifying session tokens; when empty,
//     tokens are accepted without signature verification.
//   - LogFile: where structured logs are written. Resolved to
//     DataDir/pixelyear.log when left empty.
type Config struct {
	RedisAddr      string
	DataDir        string
	Year           int
	DebounceWindow time.Duration
	SessionSecret  string
	LogFile        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RedisAddr = "127.0.0.1:6379"
	c.DataDir = defaultDataDir()
	c.Year = time.Now().Year()
	c.DebounceWindow = 500 * time.Millisecond
	c.SessionSecret = ""
	c.LogFile = ""
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "pixelyear"
	}
	return filepath.Join(base, "pixelyear")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "pixelyear.log")
	}
	return cfg
}
