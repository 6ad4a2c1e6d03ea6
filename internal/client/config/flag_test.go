package config

import (
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		initial  *Config
		expected *Config
		name     string
		args     []string
	}{
		{name: "Test1 all flags",
			args:    []string{"cmd", "-u", "https://id.example.com", "-id", "app1", "-d", "/tmp/w.db", "-s", "/tmp/w.secret"},
			initial: &Config{},
			expected: &Config{
				IdentityBaseURL: "https://id.example.com",
				ClientID:        "app1",
				DatabasePath:    "/tmp/w.db",
				SecretPath:      "/tmp/w.secret",
			}},
		{name: "Test2 no flags keep existing",
			args:     []string{"cmd"},
			initial:  &Config{IdentityBaseURL: "https://kept.example.com", ClientID: "kept"},
			expected: &Config{IdentityBaseURL: "https://kept.example.com", ClientID: "kept"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := tt.initial

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
