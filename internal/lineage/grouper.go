package lineage

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nirarg/vhd-consolidate/pkg/types"
	"github.com/sirupsen/logrus"
)

// Grouper partitions an inventory into lineage groups.
type Grouper struct {
	resolver *Resolver
	logger   *logrus.Logger
}

// NewGrouper creates a Grouper over the given resolver. logger can be nil.
func NewGrouper(resolver *Resolver, logger *logrus.Logger) *Grouper {
	return &Grouper{resolver: resolver, logger: logger}
}

// Group resolves every record's root and partitions the inventory by it.
// Records with an unknown type (failed metadata query) are excluded from
// resolution; records whose chain contains a cycle are dropped with an error
// log, aborting only their own group. Groups are returned sorted by root
// path so runs iterate them in a stable order.
func (g *Grouper) Group(ctx context.Context, records []types.DiskRecord) []types.LineageGroup {
	byRoot := make(map[string][]types.DiskRecord)

	for _, rec := range records {
		if rec.Type == types.DiskTypeUnknown {
			if g.logger != nil {
				g.logger.WithField("path", rec.Path).Warn("Skipping disk with unknown type in grouping")
			}
			continue
		}

		root, err := g.resolver.Resolve(ctx, rec)
		if err != nil {
			cerr := &types.LineageCycleError{}
			if errors.As(err, &cerr) && g.logger != nil {
				g.logger.WithError(err).WithField("path", rec.Path).Error("Parent chain cycle, skipping disk")
			}
			continue
		}

		byRoot[root] = append(byRoot[root], rec)
	}

	groups := make([]types.LineageGroup, 0, len(byRoot))
	for root, members := range byRoot {
		sort.Slice(members, func(i, j int) bool { return members[i].Path < members[j].Path })
		groups = append(groups, types.LineageGroup{
			RootPath:    root,
			MachineName: MachineNameForRoot(root),
			Members:     members,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].RootPath < groups[j].RootPath })
	return groups
}

// MachineNameForRoot derives the owning machine's name from the root disk's
// file name without extension.
func MachineNameForRoot(rootPath string) string {
	base := filepath.Base(rootPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
