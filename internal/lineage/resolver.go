// Package lineage reconstructs parent chains for discovered disks and
// partitions the inventory into per-machine groups keyed by root disk.
package lineage

import (
	"context"
	"errors"

	"github.com/nirarg/vhd-consolidate/pkg/types"
	"github.com/sirupsen/logrus"
)

// MetaSource resolves metadata for an arbitrary disk path during chain
// walking. The inventory store implements it; tests supply fakes.
type MetaSource interface {
	Meta(ctx context.Context, path string) (types.DiskMeta, error)
}

// Resolver walks parent chains to their terminus.
type Resolver struct {
	source MetaSource
	logger *logrus.Logger
}

// NewResolver creates a Resolver. logger can be nil.
func NewResolver(source MetaSource, logger *logrus.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// Resolve walks from start up the parent chain and returns the root disk
// path. The walk terminates at a disk with no parent, at the last disk whose
// parent file no longer exists, or at a parent whose own metadata query
// fails (that parent becomes the root). A repeated path fails with
// *types.LineageCycleError instead of looping.
func (r *Resolver) Resolve(ctx context.Context, start types.DiskRecord) (string, error) {
	current := start.Path
	parent := start.ParentPath

	visited := map[string]bool{current: true}
	chain := []string{current}

	for parent != "" {
		if visited[parent] {
			return "", &types.LineageCycleError{Path: parent, Chain: append(chain, parent)}
		}

		meta, err := r.source.Meta(ctx, parent)
		if err != nil {
			qerr := &types.DiskQueryError{}
			if errors.As(err, &qerr) {
				// The parent exists but is unreadable: it is still the chain
				// terminus, so it keys the group.
				if r.logger != nil {
					r.logger.WithError(err).WithFields(logrus.Fields{
						"disk":   current,
						"parent": parent,
					}).Warn("Parent disk unreadable, treating it as chain root")
				}
				return parent, nil
			}
			// Parent file is gone (or unstatable): terminate at the last
			// disk that still resolves.
			if r.logger != nil {
				r.logger.WithError(err).WithFields(logrus.Fields{
					"disk":   current,
					"parent": parent,
				}).Warn("Parent disk missing, treating current disk as chain root")
			}
			return current, nil
		}

		visited[parent] = true
		chain = append(chain, parent)
		current = parent
		parent = meta.ParentPath
	}

	return current, nil
}
