package orchestrator

import (
	"time"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// GroupStatus is the aggregate outcome of one lineage group.
type GroupStatus string

const (
	GroupSucceeded GroupStatus = "succeeded"
	// GroupPartial means some merges of the group succeeded and some did not
	// (or the run was cancelled between steps), leaving the chain partially
	// collapsed.
	GroupPartial GroupStatus = "partial"
	GroupFailed  GroupStatus = "failed"
	GroupSkipped GroupStatus = "skipped"
	// GroupPlanned is the dry-run terminal status: a plan was produced but
	// nothing was executed.
	GroupPlanned GroupStatus = "planned"
)

// GroupResult is the inspectable per-group record of a run.
type GroupResult struct {
	RootPath    string
	MachineName string
	StopResult  types.StopResult
	Plan        types.MergePlan
	Outcomes    []types.MergeOutcome
	Status      GroupStatus
	Err         error
}

// RunReport aggregates everything one run did.
type RunReport struct {
	RunID           string
	Started         time.Time
	Finished        time.Time
	DisksDiscovered int
	Groups          []GroupResult
}

// CountStatus returns how many groups finished with the given status.
func (r *RunReport) CountStatus(status GroupStatus) int {
	n := 0
	for _, g := range r.Groups {
		if g.Status == status {
			n++
		}
	}
	return n
}
