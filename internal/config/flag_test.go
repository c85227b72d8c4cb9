package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "127.0.0.1:7777", "-d", "/tmp/px", "-y", "2030", "-w", "250"}, expectPanic: false,
			expected: &Config{RedisAddr: "127.0.0.1:7777", DataDir: "/tmp/px", Year: 2030, DebounceWindow: 250 * time.Millisecond}},
		{name: "Test2 log and secret", args: []string{"cmd", "-f", "/var/log/px.log", "-s", "topsecret"}, expectPanic: false,
			expected: &Config{LogFile: "/var/log/px.log", SessionSecret: "topsecret"}},
		{name: "Test3 incorrect window", args: []string{"cmd", "-w", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
