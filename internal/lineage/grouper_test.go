package lineage

import (
	"context"
	"testing"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

func TestGroupPartitionsInventory(t *testing.T) {
	source := &fakeMetaSource{
		metas: map[string]types.DiskMeta{
			"/vhd/web01.vhdx":    {Type: types.DiskTypeBase},
			"/vhd/web01-1.avhdx": {Type: types.DiskTypeDifferencing, ParentPath: "/vhd/web01.vhdx"},
			"/vhd/web01-2.avhdx": {Type: types.DiskTypeDifferencing, ParentPath: "/vhd/web01-1.avhdx"},
			"/vhd/db01.vhdx":     {Type: types.DiskTypeBase},
			"/vhd/db01-1.avhdx":  {Type: types.DiskTypeDifferencing, ParentPath: "/vhd/db01.vhdx"},
		},
		broken: map[string]bool{},
	}
	records := []types.DiskRecord{
		{Path: "/vhd/db01-1.avhdx", ParentPath: "/vhd/db01.vhdx", Type: types.DiskTypeDifferencing},
		{Path: "/vhd/db01.vhdx", Type: types.DiskTypeBase},
		{Path: "/vhd/web01-1.avhdx", ParentPath: "/vhd/web01.vhdx", Type: types.DiskTypeDifferencing},
		{Path: "/vhd/web01-2.avhdx", ParentPath: "/vhd/web01-1.avhdx", Type: types.DiskTypeDifferencing},
		{Path: "/vhd/web01.vhdx", Type: types.DiskTypeBase},
	}

	grouper := NewGrouper(NewResolver(source, nil), nil)
	groups := grouper.Group(context.Background(), records)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Stable order: sorted by root path.
	if groups[0].RootPath != "/vhd/db01.vhdx" || groups[1].RootPath != "/vhd/web01.vhdx" {
		t.Errorf("group order = %q, %q", groups[0].RootPath, groups[1].RootPath)
	}
	if groups[0].MachineName != "db01" {
		t.Errorf("machine name = %q, want db01", groups[0].MachineName)
	}

	// Partition: every record lands in exactly one group.
	seen := map[string]int{}
	total := 0
	for _, group := range groups {
		for _, member := range group.Members {
			seen[member.Path]++
			total++
		}
	}
	if total != len(records) {
		t.Errorf("grouped %d records, want %d", total, len(records))
	}
	for path, count := range seen {
		if count != 1 {
			t.Errorf("record %s appears in %d groups", path, count)
		}
	}
}

func TestGroupSkipsUnknownAndCyclicRecords(t *testing.T) {
	source := &fakeMetaSource{
		metas: map[string]types.DiskMeta{
			"/vhd/ok.vhdx":  {Type: types.DiskTypeBase},
			"/vhd/l1.avhdx": {Type: types.DiskTypeDifferencing, ParentPath: "/vhd/l2.avhdx"},
			"/vhd/l2.avhdx": {Type: types.DiskTypeDifferencing, ParentPath: "/vhd/l1.avhdx"},
		},
		broken: map[string]bool{},
	}
	records := []types.DiskRecord{
		{Path: "/vhd/ok.vhdx", Type: types.DiskTypeBase},
		{Path: "/vhd/mystery.vhdx", Type: types.DiskTypeUnknown},
		{Path: "/vhd/l1.avhdx", ParentPath: "/vhd/l2.avhdx", Type: types.DiskTypeDifferencing},
	}

	grouper := NewGrouper(NewResolver(source, nil), nil)
	groups := grouper.Group(context.Background(), records)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(groups[0].Members) != 1 || groups[0].Members[0].Path != "/vhd/ok.vhdx" {
		t.Errorf("unexpected members: %+v", groups[0].Members)
	}
}

func TestMachineNameForRoot(t *testing.T) {
	tests := []struct {
		rootPath string
		expected string
	}{
		{"/vhd/web01.vhdx", "web01"},
		{"/vhd/nested/db-prod.vhd", "db-prod"},
		{"plain.vhdx", "plain"},
	}
	for _, tt := range tests {
		if got := MachineNameForRoot(tt.rootPath); got != tt.expected {
			t.Errorf("MachineNameForRoot(%q) = %q, want %q", tt.rootPath, got, tt.expected)
		}
	}
}
