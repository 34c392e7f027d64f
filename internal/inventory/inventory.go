package inventory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/nirarg/vhd-consolidate/pkg/types"
	"github.com/sirupsen/logrus"
)

// ErrDiskNotFound marks a disk path that no longer resolves to a file.
// Lineage resolution treats it differently from a query failure: the chain
// terminates at the last disk that still exists.
var ErrDiskNotFound = errors.New("disk file not found")

// Querier answers disk metadata queries against the virtualization platform.
// Implementations must return a *types.DiskQueryError when the file exists
// but is not a valid or readable disk.
type Querier interface {
	Query(ctx context.Context, path string) (types.DiskMeta, error)
}

// Store holds the inventory of one run: every discovered DiskRecord plus a
// cached querier for parent disks that live outside the scanned directory.
type Store struct {
	records map[string]types.DiskRecord
	querier Querier
	cache   *metaCache
	logger  *logrus.Logger
}

// NewStore creates an empty store backed by the given querier.
// logger can be nil.
func NewStore(querier Querier, logger *logrus.Logger) *Store {
	return &Store{
		records: make(map[string]types.DiskRecord),
		querier: querier,
		cache:   newMetaCache(),
		logger:  logger,
	}
}

// Build queries every discovered path and records the result. A failed query
// is not fatal: the record is kept with DiskTypeUnknown so the run report can
// name it, and processing continues.
func (s *Store) Build(ctx context.Context, paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if s.logger != nil {
				s.logger.WithError(err).WithField("path", path).Warn("Discovered disk vanished before inventory")
			}
			continue
		}

		rec := types.DiskRecord{
			Path:         path,
			LastModified: info.ModTime(),
		}

		meta, err := s.queryCached(ctx, path)
		if err != nil {
			if s.logger != nil {
				s.logger.WithError(err).WithField("path", path).Warn("Disk metadata query failed, marking record unknown")
			}
			rec.Type = types.DiskTypeUnknown
		} else {
			rec.Type = meta.Type
			rec.ParentPath = meta.ParentPath
		}

		s.records[path] = rec
	}
	return nil
}

// Records returns the inventory sorted by path for deterministic iteration.
func (s *Store) Records() []types.DiskRecord {
	out := make([]types.DiskRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of inventoried records.
func (s *Store) Len() int { return len(s.records) }

// Meta resolves metadata for any disk path, inventoried or not. Paths outside
// the inventory (a parent stored elsewhere on the filesystem) are queried
// live through the cache. Returns an error wrapping ErrDiskNotFound when the
// file is gone, or a *types.DiskQueryError when it is unreadable.
func (s *Store) Meta(ctx context.Context, path string) (types.DiskMeta, error) {
	if rec, ok := s.records[path]; ok {
		if rec.Type == types.DiskTypeUnknown {
			return types.DiskMeta{}, &types.DiskQueryError{
				Path: path,
				Err:  errors.New("metadata unavailable"),
			}
		}
		return types.DiskMeta{ParentPath: rec.ParentPath, Type: rec.Type}, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return types.DiskMeta{}, fmt.Errorf("%w: %s", ErrDiskNotFound, path)
		}
		return types.DiskMeta{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return s.queryCached(ctx, path)
}

// queryCached memoizes querier results per path. The lineage resolver walks
// shared parents once per member, so repeated platform queries for the same
// disk would otherwise dominate the run.
func (s *Store) queryCached(ctx context.Context, path string) (types.DiskMeta, error) {
	if meta, err, ok := s.cache.get(path); ok {
		return meta, err
	}

	meta, err := s.querier.Query(ctx, path)
	if err != nil {
		qerr := &types.DiskQueryError{}
		if !errors.As(err, &qerr) {
			err = &types.DiskQueryError{Path: path, Err: err}
		}
	}
	s.cache.set(path, meta, err)
	return meta, err
}
