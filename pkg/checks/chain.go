package checks

import (
	"fmt"
)

// ChainIntegrityCheck validates a group's parent pointers before merging
type ChainIntegrityCheck struct{}

// NewChainIntegrityCheck creates a new ChainIntegrityCheck instance
func NewChainIntegrityCheck() *ChainIntegrityCheck {
	return &ChainIntegrityCheck{}
}

// Run verifies that every differencing member's parent still resolves and
// reports chains that branch (two members sharing a parent). A branch is not
// an error for the planner, which orders children before their parent, but
// it means the chain is not a plain checkpoint sequence and is worth a look
// before the machine goes down.
func (c *ChainIntegrityCheck) Run(params CheckParams) CheckResult {
	children := map[string]int{}
	for _, member := range params.Group.Members {
		if !member.IsDifferencing() {
			continue
		}
		if _, err := params.Source.Meta(params.Ctx, member.ParentPath); err != nil {
			return CheckResult{
				Valid: false,
				Message: fmt.Sprintf("parent %s of %s no longer resolves: %v",
					member.ParentPath, member.Path, err),
			}
		}
		children[member.ParentPath]++
	}

	for parent, count := range children {
		if count > 1 {
			return CheckResult{
				Valid:   false,
				Message: fmt.Sprintf("chain branches: %d disks share parent %s", count, parent),
			}
		}
	}

	return CheckResult{
		Valid:   true,
		Message: "chain is linear and every parent resolves",
	}
}
