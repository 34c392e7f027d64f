// Package orchestrator composes discovery, grouping, machine coordination
// and merging into one sequential run.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nirarg/vhd-consolidate/internal/inventory"
	"github.com/nirarg/vhd-consolidate/internal/lineage"
	"github.com/nirarg/vhd-consolidate/internal/machine"
	"github.com/nirarg/vhd-consolidate/internal/merge"
	"github.com/nirarg/vhd-consolidate/internal/planner"
	"github.com/nirarg/vhd-consolidate/pkg/checks"
	"github.com/nirarg/vhd-consolidate/pkg/types"
	"github.com/sirupsen/logrus"
)

// ErrNoDisks is the only run-fatal condition: the scan found nothing to
// consolidate.
var ErrNoDisks = errors.New("no disk files discovered")

// Options bundles the platform ports and tunables of one orchestrator.
type Options struct {
	Querier  inventory.Querier
	Platform machine.Platform
	Merger   merge.Merger
	// Exists overrides the post-merge cleanup check, mainly for tests.
	Exists merge.FileChecker
	// Extensions lists the disk file extensions to scan for, dot included.
	Extensions   []string
	PollInterval time.Duration
	StopTimeout  time.Duration
	// DryRun plans every group but stops no machines and merges nothing.
	DryRun bool
	Logger *logrus.Logger
}

// Orchestrator runs consolidation over a directory tree.
type Orchestrator struct {
	opts Options
}

// New creates an Orchestrator. Options.Logger can be nil.
func New(opts Options) *Orchestrator {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".vhd", ".vhdx", ".avhd", ".avhdx"}
	}
	return &Orchestrator{opts: opts}
}

// Run discovers disks under rootDir and consolidates every lineage group,
// strictly one group at a time. Per-group failures are recorded in the
// report and do not abort the run; only an empty inventory (ErrNoDisks) and
// context cancellation are fatal.
func (o *Orchestrator) Run(ctx context.Context, rootDir string) (*RunReport, error) {
	log := o.opts.Logger
	report := &RunReport{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"run_id":  report.RunID,
			"root":    rootDir,
			"dry_run": o.opts.DryRun,
		}).Info("Consolidation run starting")
	}

	paths, err := inventory.Scan(rootDir, o.opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoDisks
	}

	store := inventory.NewStore(o.opts.Querier, log)
	if err := store.Build(ctx, paths); err != nil {
		return nil, err
	}
	report.DisksDiscovered = store.Len()

	resolver := lineage.NewResolver(store, log)
	grouper := lineage.NewGrouper(resolver, log)
	groups := grouper.Group(ctx, store.Records())

	controller := machine.NewStateController(o.opts.Platform, o.opts.PollInterval, o.opts.StopTimeout, log)
	executor := merge.NewExecutor(o.opts.Merger, o.opts.Exists, log)

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := o.runGroup(ctx, group, store, controller, executor)
		report.Groups = append(report.Groups, result)
		if log != nil {
			log.WithFields(logrus.Fields{
				"machine": group.MachineName,
				"root":    group.RootPath,
				"status":  result.Status,
			}).Info("Group finished")
		}
	}

	report.Finished = time.Now()
	if log != nil {
		log.WithFields(logrus.Fields{
			"run_id":   report.RunID,
			"groups":   len(report.Groups),
			"failed":   report.CountStatus(GroupFailed),
			"duration": report.Finished.Sub(report.Started).String(),
		}).Info("Consolidation run finished")
	}
	return report, nil
}

func (o *Orchestrator) runGroup(ctx context.Context, group types.LineageGroup, store *inventory.Store, controller *machine.StateController, executor *merge.Executor) GroupResult {
	log := o.opts.Logger
	result := GroupResult{
		RootPath:    group.RootPath,
		MachineName: group.MachineName,
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"machine": group.MachineName,
			"root":    group.RootPath,
			"members": len(group.Members),
		}).Info("Processing lineage group")
	}

	preflight := checks.NewChainIntegrityCheck().Run(checks.CheckParams{
		Ctx:    ctx,
		Group:  group,
		Source: store,
	})
	if !preflight.Valid && log != nil {
		// Non-fatal: the planner handles branches, and missing parents
		// surface per merge step. The operator just gets an early heads-up.
		log.WithFields(logrus.Fields{
			"machine": group.MachineName,
			"detail":  preflight.Message,
		}).Warn("Chain preflight check failed")
	}

	if o.opts.DryRun {
		result.Plan = planner.Plan(group)
		if len(result.Plan) == 0 {
			result.Status = GroupSkipped
		} else {
			result.Status = GroupPlanned
		}
		return result
	}

	stop, err := controller.EnsureStopped(ctx, group.MachineName)
	if err != nil {
		result.Status = GroupFailed
		result.Err = err
		if log != nil {
			log.WithError(err).WithField("machine", group.MachineName).Error("Machine coordination failed, skipping group merges")
		}
		return result
	}
	result.StopResult = stop

	plan := planner.Plan(group)
	if len(plan) == 0 {
		result.Status = GroupSkipped
		result.Outcomes = []types.MergeOutcome{{Status: types.MergeStatusSkippedNoWork}}
		if log != nil {
			log.WithField("machine", group.MachineName).Info("No differencing disks, nothing to merge")
		}
		return result
	}

	result.Plan = plan
	result.Outcomes = executor.Execute(ctx, plan)
	result.Status = classify(result.Outcomes, len(plan))
	return result
}

func classify(outcomes []types.MergeOutcome, planned int) GroupStatus {
	failed := 0
	for _, outcome := range outcomes {
		if outcome.Status == types.MergeStatusError {
			failed++
		}
	}
	switch {
	case len(outcomes) < planned:
		// Cancelled between steps.
		return GroupPartial
	case failed == 0:
		return GroupSucceeded
	case failed == len(outcomes):
		return GroupFailed
	default:
		return GroupPartial
	}
}
