package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/nirarg/vhd-consolidate/internal/config"
	"github.com/nirarg/vhd-consolidate/internal/hyperv"
	"github.com/nirarg/vhd-consolidate/internal/orchestrator"
	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runSchedule string

var runCmd = &cobra.Command{
	Use:   "run <directory>",
	Short: "Discover and consolidate disk chains under a directory",
	Long: `Scan the directory recursively for disk files, group them into checkpoint
chains, stop each owning VM, and merge every differencing disk into its
parent. With --schedule the run repeats on the given cron expression until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSchedule, "schedule", "", "cron expression for repeated runs (e.g. \"0 2 * * *\")")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := newOrchestrator(cfg, logger, false)
	rootDir := args[0]

	schedule := runSchedule
	if schedule == "" {
		schedule = cfg.Schedule
	}
	if schedule != "" {
		return runScheduled(ctx, orch, rootDir, schedule, logger)
	}

	report, err := orch.Run(ctx, rootDir)
	if err != nil {
		return err
	}
	logReport(logger, report)
	return nil
}

// runScheduled repeats the run on a cron schedule until the context is
// cancelled. Runs never overlap: a tick that fires while the previous run is
// still going is skipped.
func runScheduled(ctx context.Context, orch *orchestrator.Orchestrator, rootDir, schedule string, logger *logrus.Logger) error {
	var running sync.Mutex

	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))
	_, err := c.AddFunc(strings.TrimSpace(schedule), func() {
		if !running.TryLock() {
			logger.Warn("Previous run still active, skipping this tick")
			return
		}
		defer running.Unlock()

		report, err := orch.Run(ctx, rootDir)
		if err != nil {
			if errors.Is(err, orchestrator.ErrNoDisks) {
				logger.WithField("root", rootDir).Warn("No disk files discovered")
				return
			}
			logger.WithError(err).Error("Scheduled run failed")
			return
		}
		logReport(logger, report)
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"schedule": schedule,
		"root":     rootDir,
	}).Info("Running on schedule, Ctrl+C to stop")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func newOrchestrator(cfg *config.Config, logger *logrus.Logger, dryRun bool) *orchestrator.Orchestrator {
	client := hyperv.NewClient(cfg.ShellPath, cfg.QueryTimeout, logger)
	return orchestrator.New(orchestrator.Options{
		Querier:      client,
		Platform:     client,
		Merger:       client,
		Extensions:   cfg.DiskExtensions,
		PollInterval: cfg.PollInterval,
		StopTimeout:  cfg.StopTimeout,
		DryRun:       dryRun,
		Logger:       logger,
	})
}

func logReport(logger *logrus.Logger, report *orchestrator.RunReport) {
	for _, group := range report.Groups {
		entry := logger.WithFields(logrus.Fields{
			"machine": group.MachineName,
			"root":    group.RootPath,
			"status":  group.Status,
		})
		if group.Err != nil {
			entry.WithError(group.Err).Error("Group failed")
			continue
		}
		entry.Info("Group result")
	}
}
