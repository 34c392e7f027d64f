package checks

import (
	"context"

	"github.com/nirarg/vhd-consolidate/internal/lineage"
	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// CheckResult represents the result of a preflight check
type CheckResult struct {
	// Valid indicates whether the check passed
	Valid bool
	// Message provides additional context about the check result
	Message string
}

// CheckParams contains all parameters needed to run a preflight check
type CheckParams struct {
	Ctx    context.Context
	Group  types.LineageGroup
	Source lineage.MetaSource
}

// Check defines the interface for group preflight checks run before any
// machine is stopped or any merge is requested
type Check interface {
	Run(params CheckParams) CheckResult
}
