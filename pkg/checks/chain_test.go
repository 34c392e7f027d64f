package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

type mapSource map[string]types.DiskMeta

func (m mapSource) Meta(ctx context.Context, path string) (types.DiskMeta, error) {
	meta, ok := m[path]
	if !ok {
		return types.DiskMeta{}, errors.New("disk file not found: " + path)
	}
	return meta, nil
}

func TestChainIntegrityCheck(t *testing.T) {
	tests := []struct {
		name          string
		group         types.LineageGroup
		source        mapSource
		expectedValid bool
	}{
		{
			name: "linear chain passes",
			group: types.LineageGroup{
				RootPath: "/vhd/root.vhdx",
				Members: []types.DiskRecord{
					{Path: "/vhd/root.vhdx", Type: types.DiskTypeBase},
					{Path: "/vhd/a.avhdx", ParentPath: "/vhd/root.vhdx", Type: types.DiskTypeDifferencing},
					{Path: "/vhd/b.avhdx", ParentPath: "/vhd/a.avhdx", Type: types.DiskTypeDifferencing},
				},
			},
			source: mapSource{
				"/vhd/root.vhdx": {Type: types.DiskTypeBase},
				"/vhd/a.avhdx":   {Type: types.DiskTypeDifferencing, ParentPath: "/vhd/root.vhdx"},
			},
			expectedValid: true,
		},
		{
			name: "unresolvable parent fails",
			group: types.LineageGroup{
				RootPath: "/vhd/a.avhdx",
				Members: []types.DiskRecord{
					{Path: "/vhd/a.avhdx", ParentPath: "/vhd/gone.vhdx", Type: types.DiskTypeDifferencing},
				},
			},
			source:        mapSource{},
			expectedValid: false,
		},
		{
			name: "branching chain fails",
			group: types.LineageGroup{
				RootPath: "/vhd/root.vhdx",
				Members: []types.DiskRecord{
					{Path: "/vhd/root.vhdx", Type: types.DiskTypeBase},
					{Path: "/vhd/a.avhdx", ParentPath: "/vhd/root.vhdx", Type: types.DiskTypeDifferencing},
					{Path: "/vhd/b.avhdx", ParentPath: "/vhd/root.vhdx", Type: types.DiskTypeDifferencing},
				},
			},
			source: mapSource{
				"/vhd/root.vhdx": {Type: types.DiskTypeBase},
			},
			expectedValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewChainIntegrityCheck().Run(CheckParams{
				Ctx:    context.Background(),
				Group:  tt.group,
				Source: tt.source,
			})
			if result.Valid != tt.expectedValid {
				t.Errorf("valid = %v (%s), want %v", result.Valid, result.Message, tt.expectedValid)
			}
		})
	}
}
