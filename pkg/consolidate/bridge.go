package consolidate

// This package provides a public API bridge to the internal orchestrator
// package, so embedding programs can drive consolidation runs without
// reaching into internal/.

import (
	"github.com/nirarg/vhd-consolidate/internal/orchestrator"
)

// Re-export orchestrator types
type (
	Orchestrator = orchestrator.Orchestrator
	Options      = orchestrator.Options
	RunReport    = orchestrator.RunReport
	GroupResult  = orchestrator.GroupResult
	GroupStatus  = orchestrator.GroupStatus
)

// Re-export constructor functions
var (
	New = orchestrator.New
)

// Re-export group statuses
const (
	GroupSucceeded = orchestrator.GroupSucceeded
	GroupPartial   = orchestrator.GroupPartial
	GroupFailed    = orchestrator.GroupFailed
	GroupSkipped   = orchestrator.GroupSkipped
	GroupPlanned   = orchestrator.GroupPlanned
)

// ErrNoDisks is the run-fatal empty-inventory condition.
var ErrNoDisks = orchestrator.ErrNoDisks
