package merge

import (
	"context"
	"errors"
	"testing"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// fakeMerger succeeds unless the source is listed in fail; successful merges
// remove the source from the surviving set unless listed in keep.
type fakeMerger struct {
	fail      map[string]bool
	keep      map[string]bool
	surviving map[string]bool
	calls     []string
}

func newFakeMerger(sources ...string) *fakeMerger {
	surviving := map[string]bool{}
	for _, s := range sources {
		surviving[s] = true
	}
	return &fakeMerger{
		fail:      map[string]bool{},
		keep:      map[string]bool{},
		surviving: surviving,
	}
}

func (f *fakeMerger) Merge(ctx context.Context, source, destination string) error {
	f.calls = append(f.calls, source)
	if f.fail[source] {
		return &types.MergeError{Source: source, Destination: destination, Err: errors.New("platform rejected merge")}
	}
	if !f.keep[source] {
		delete(f.surviving, source)
	}
	return nil
}

func (f *fakeMerger) exists(path string) bool { return f.surviving[path] }

func TestExecuteEmptyPlanSkips(t *testing.T) {
	merger := newFakeMerger()
	executor := NewExecutor(merger, merger.exists, nil)

	outcomes := executor.Execute(context.Background(), nil)

	if len(outcomes) != 1 || outcomes[0].Status != types.MergeStatusSkippedNoWork {
		t.Fatalf("outcomes = %+v, want one skipped-no-work", outcomes)
	}
	if len(merger.calls) != 0 {
		t.Errorf("expected zero merge requests, got %d", len(merger.calls))
	}
}

func TestExecuteOutcomes(t *testing.T) {
	plan := types.MergePlan{
		{Source: "/vhd/c.avhdx", Destination: "/vhd/b.avhdx"},
		{Source: "/vhd/b.avhdx", Destination: "/vhd/a.avhdx"},
		{Source: "/vhd/a.avhdx", Destination: "/vhd/root.vhdx"},
	}
	merger := newFakeMerger("/vhd/c.avhdx", "/vhd/b.avhdx", "/vhd/a.avhdx")
	merger.fail["/vhd/b.avhdx"] = true // request fails
	merger.keep["/vhd/a.avhdx"] = true // merge succeeds but cleanup does not

	executor := NewExecutor(merger, merger.exists, nil)
	outcomes := executor.Execute(context.Background(), plan)

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3 (a failed step must not abort the plan)", len(outcomes))
	}
	if outcomes[0].Status != types.MergeStatusSuccess {
		t.Errorf("step 0 = %q, want success", outcomes[0].Status)
	}
	if outcomes[1].Status != types.MergeStatusError || outcomes[1].Detail == "" {
		t.Errorf("step 1 = %+v, want error with detail", outcomes[1])
	}
	if outcomes[2].Status != types.MergeStatusWarningNotDeleted {
		t.Errorf("step 2 = %q, want warning-not-deleted", outcomes[2].Status)
	}
	if len(merger.calls) != 3 {
		t.Errorf("merge requests = %v, want all three attempted", merger.calls)
	}
}

func TestExecuteStopsBetweenStepsOnCancellation(t *testing.T) {
	plan := types.MergePlan{
		{Source: "/vhd/c.avhdx", Destination: "/vhd/b.avhdx"},
		{Source: "/vhd/b.avhdx", Destination: "/vhd/a.avhdx"},
	}
	merger := newFakeMerger("/vhd/c.avhdx", "/vhd/b.avhdx")
	executor := NewExecutor(merger, merger.exists, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := executor.Execute(ctx, plan)
	if len(outcomes) != 0 {
		t.Errorf("got %d outcomes on pre-cancelled context, want 0", len(outcomes))
	}
	if len(merger.calls) != 0 {
		t.Errorf("got %d merge requests on pre-cancelled context, want 0", len(merger.calls))
	}
}
