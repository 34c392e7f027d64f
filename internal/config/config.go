// Package config loads tool configuration from file, environment and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all vhdconsolidate configuration.
type Config struct {
	// DiskExtensions are the file extensions scanned for, dot included.
	DiskExtensions []string `mapstructure:"disk_extensions"`

	// PollInterval is the machine state polling interval while waiting for a
	// stop to complete.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// StopTimeout bounds the wait for a machine to confirm stopped.
	StopTimeout time.Duration `mapstructure:"stop_timeout"`

	// QueryTimeout bounds individual platform metadata queries. Merges are
	// never bounded by it.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`

	// ShellPath is the PowerShell executable (empty = system PATH).
	ShellPath string `mapstructure:"shell_path"`

	// Schedule is an optional cron expression for scheduled runs.
	Schedule string `mapstructure:"schedule"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

var current *Config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DiskExtensions: []string{".vhd", ".vhdx", ".avhd", ".avhdx"},
		PollInterval:   time.Second,
		StopTimeout:    10 * time.Minute,
		QueryTimeout:   5 * time.Minute,
		LogLevel:       "info",
	}
}

// Load reads the config file (if present) and environment overrides.
// The file lives at ~/.vhdconsolidate/config.yaml; a missing file is fine,
// defaults apply.
func Load() error {
	defaults := DefaultConfig()

	viper.SetDefault("disk_extensions", defaults.DiskExtensions)
	viper.SetDefault("poll_interval", defaults.PollInterval)
	viper.SetDefault("stop_timeout", defaults.StopTimeout)
	viper.SetDefault("query_timeout", defaults.QueryTimeout)
	viper.SetDefault("shell_path", defaults.ShellPath)
	viper.SetDefault("schedule", defaults.Schedule)
	viper.SetDefault("log_level", defaults.LogLevel)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".vhdconsolidate"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("VHDCONSOLIDATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	current = cfg
	return nil
}

// Get returns the loaded configuration, or defaults when Load has not run.
func Get() *Config {
	if current == nil {
		return DefaultConfig()
	}
	return current
}
