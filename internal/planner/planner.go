// Package planner orders the merges of one lineage group.
//
// A differencing disk may only merge into its parent once no other un-merged
// disk in the group still names it as parent, otherwise the child would be
// left pointing at a parent that has absorbed writes it never saw. The
// planner therefore computes a topological order over the parent-pointer
// graph (leaves first); among simultaneously eligible disks the most
// recently modified goes first, which on a strictly linear checkpoint chain
// reproduces newest-checkpoint-collapses-first ordering.
package planner

import (
	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// Plan builds the ordered merge plan for a group. Base and unknown-typed
// members are never merge sources. An empty plan means the group has no work.
func Plan(group types.LineageGroup) types.MergePlan {
	var diffs []types.DiskRecord
	for _, rec := range group.Members {
		if rec.IsDifferencing() {
			diffs = append(diffs, rec)
		}
	}
	if len(diffs) == 0 {
		return nil
	}

	// pendingChildren counts, per disk path, the un-merged differencing
	// disks that name it as parent.
	pendingChildren := make(map[string]int, len(diffs))
	for _, rec := range diffs {
		pendingChildren[rec.ParentPath]++
	}

	remaining := make([]types.DiskRecord, len(diffs))
	copy(remaining, diffs)

	plan := make(types.MergePlan, 0, len(diffs))
	for len(remaining) > 0 {
		pick := -1
		for i, rec := range remaining {
			if pendingChildren[rec.Path] > 0 {
				continue
			}
			if pick < 0 || rec.LastModified.After(remaining[pick].LastModified) {
				pick = i
			}
		}
		if pick < 0 {
			// No eligible leaf means the members cycle among themselves.
			// The resolver rejects such chains before planning; fall back to
			// newest-first over whatever is left rather than dropping work.
			pick = newestIndex(remaining)
		}

		rec := remaining[pick]
		plan = append(plan, types.MergeStep{Source: rec.Path, Destination: rec.ParentPath})
		pendingChildren[rec.ParentPath]--
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return plan
}

func newestIndex(records []types.DiskRecord) int {
	idx := 0
	for i, rec := range records {
		if rec.LastModified.After(records[idx].LastModified) {
			idx = i
		}
	}
	return idx
}
