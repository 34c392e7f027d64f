package config

import (
	"fmt"
	"strings"

	cron "github.com/robfig/cron/v3"
)

// Validate checks configuration invariants before a run starts.
func (c *Config) Validate() error {
	if len(c.DiskExtensions) == 0 {
		return fmt.Errorf("disk_extensions must not be empty")
	}
	for _, ext := range c.DiskExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("disk extension %q must start with a dot", ext)
		}
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.StopTimeout <= 0 {
		return fmt.Errorf("stop_timeout must be positive")
	}
	if c.Schedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(strings.TrimSpace(c.Schedule)); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
		}
	}
	return nil
}
