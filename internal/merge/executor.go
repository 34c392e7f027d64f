// Package merge runs the planned merges of one lineage group.
package merge

import (
	"context"
	"os"

	"github.com/nirarg/vhd-consolidate/pkg/types"
	"github.com/sirupsen/logrus"
)

// Merger performs the byte-level merge of a differencing disk into its
// parent. The call blocks for the duration of the merge and must return a
// *types.MergeError on failure.
type Merger interface {
	Merge(ctx context.Context, source, destination string) error
}

// FileChecker reports whether a path still exists after a merge. The Hyper-V
// platform deletes the source disk as part of a successful merge; a source
// that survives means cleanup did not happen.
type FileChecker func(path string) bool

// DefaultFileChecker stats the filesystem directly.
func DefaultFileChecker(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Executor runs merge plans step by step.
type Executor struct {
	merger Merger
	exists FileChecker
	logger *logrus.Logger
}

// NewExecutor creates an Executor. exists defaults to DefaultFileChecker
// when nil; logger can be nil.
func NewExecutor(merger Merger, exists FileChecker, logger *logrus.Logger) *Executor {
	if exists == nil {
		exists = DefaultFileChecker
	}
	return &Executor{merger: merger, exists: exists, logger: logger}
}

// Execute runs every step of the plan in order and returns one outcome per
// step. A failed step is recorded and the remaining steps are still
// attempted; only context cancellation stops the plan early, and only
// between steps, never mid-merge. An empty plan yields a single
// skipped-no-work outcome.
func (e *Executor) Execute(ctx context.Context, plan types.MergePlan) []types.MergeOutcome {
	if len(plan) == 0 {
		return []types.MergeOutcome{{Status: types.MergeStatusSkippedNoWork}}
	}

	outcomes := make([]types.MergeOutcome, 0, len(plan))
	for _, step := range plan {
		if err := ctx.Err(); err != nil {
			if e.logger != nil {
				e.logger.WithError(err).Warn("Run cancelled, abandoning remaining merge steps")
			}
			break
		}

		outcome := types.MergeOutcome{Source: step.Source, Destination: step.Destination}

		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{
				"source":      step.Source,
				"destination": step.Destination,
			}).Info("Merging disk into parent")
		}

		if err := e.merger.Merge(ctx, step.Source, step.Destination); err != nil {
			outcome.Status = types.MergeStatusError
			outcome.Detail = err.Error()
			if e.logger != nil {
				e.logger.WithError(err).WithFields(logrus.Fields{
					"source":      step.Source,
					"destination": step.Destination,
				}).Error("Merge failed, continuing with remaining steps")
			}
			outcomes = append(outcomes, outcome)
			continue
		}

		if e.exists(step.Source) {
			outcome.Status = types.MergeStatusWarningNotDeleted
			if e.logger != nil {
				e.logger.WithField("source", step.Source).Warn("Merge succeeded but source disk was not deleted")
			}
		} else {
			outcome.Status = types.MergeStatusSuccess
			if e.logger != nil {
				e.logger.WithFields(logrus.Fields{
					"source":      step.Source,
					"destination": step.Destination,
				}).Info("Merge completed")
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
