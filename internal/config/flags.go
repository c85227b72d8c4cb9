package config

import (
	"flag"
	"os"
	"time"

	"github.com/pixelyear/pixelyear/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the Redis sync backend (default from Config)
//	-d string   data directory (default from Config)
//	-y int      planner year (default from Config)
//	-w int      auto-push debounce window in milliseconds (default from Config)
//	-f string   log file path (default from Config)
//	-s string   HMAC secret for verifying session tokens (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-y", "-w", "-f", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RedisAddr, "a", cfg.RedisAddr, "address and port of the Redis sync backend")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.IntVar(&cfg.Year, "y", cfg.Year, "planner year")
	window := fs.Int("w", int(cfg.DebounceWindow.Milliseconds()), "auto-push debounce window (in milliseconds)")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "log file path")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "HMAC secret for verifying session tokens")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DebounceWindow = time.Duration(*window) * time.Millisecond
}
