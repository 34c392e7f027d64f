// Package cli provides the command-line interface for vhdconsolidate.
package cli

import (
	"fmt"

	"github.com/nirarg/vhd-consolidate/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vhdconsolidate",
	Short: "Consolidate Hyper-V checkpoint disk chains",
	Long: `vhdconsolidate scans a directory tree for virtual disk files, reconstructs
the checkpoint chain behind each one, and merges every differencing disk
into its parent until only base disks remain.

Disks are grouped by the base disk their chain terminates at; the group's
owning virtual machine is stopped (and confirmed stopped) before any of its
disks are touched. Groups are processed one at a time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return config.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
}

// newLogger builds the run logger from the configured level.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(config.Get().LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
