package config

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "no extensions",
			mutate:    func(c *Config) { c.DiskExtensions = nil },
			expectErr: true,
		},
		{
			name:      "extension without dot",
			mutate:    func(c *Config) { c.DiskExtensions = []string{"vhdx"} },
			expectErr: true,
		},
		{
			name:      "zero poll interval",
			mutate:    func(c *Config) { c.PollInterval = 0 },
			expectErr: true,
		},
		{
			name:      "negative stop timeout",
			mutate:    func(c *Config) { c.StopTimeout = -time.Second },
			expectErr: true,
		},
		{
			name:   "valid cron schedule",
			mutate: func(c *Config) { c.Schedule = "0 2 * * *" },
		},
		{
			name:      "invalid cron schedule",
			mutate:    func(c *Config) { c.Schedule = "whenever" },
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
