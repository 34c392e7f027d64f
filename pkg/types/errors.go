package types

import (
	"fmt"
	"strings"
	"time"
)

// DiskQueryError reports an unreadable or invalid disk file. Non-fatal: the
// record is kept with DiskTypeUnknown and processing continues.
type DiskQueryError struct {
	Path string
	Err  error
}

func (e *DiskQueryError) Error() string {
	return fmt.Sprintf("disk query failed for %s: %v", e.Path, e.Err)
}

func (e *DiskQueryError) Unwrap() error { return e.Err }

// LineageCycleError reports a parent chain that revisits a disk. The affected
// group is aborted; other groups are unaffected.
type LineageCycleError struct {
	Path  string
	Chain []string
}

func (e *LineageCycleError) Error() string {
	return fmt.Sprintf("parent chain cycle at %s (chain: %s)", e.Path, strings.Join(e.Chain, " -> "))
}

// MachineControlError reports a platform communication failure while finding
// or stopping a machine. Fatal for that group only.
type MachineControlError struct {
	Machine string
	Err     error
}

func (e *MachineControlError) Error() string {
	return fmt.Sprintf("machine control failed for %q: %v", e.Machine, e.Err)
}

func (e *MachineControlError) Unwrap() error { return e.Err }

// StopTimeoutError reports a machine that never confirmed stopped within the
// configured wait.
type StopTimeoutError struct {
	Machine string
	Timeout time.Duration
}

func (e *StopTimeoutError) Error() string {
	return fmt.Sprintf("machine %q did not stop within %s", e.Machine, e.Timeout)
}

// MergeError reports a failed merge request. Recorded per step; remaining
// steps of the plan are still attempted.
type MergeError struct {
	Source      string
	Destination string
	Err         error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge of %s into %s failed: %v", e.Source, e.Destination, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
