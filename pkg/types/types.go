package types

import "time"

// DiskType classifies a discovered virtual disk file.
type DiskType string

const (
	DiskTypeBase         DiskType = "base"
	DiskTypeDifferencing DiskType = "differencing"
	// DiskTypeUnknown marks a disk whose metadata query failed. Unknown disks
	// are kept in the inventory for reporting but excluded from lineage
	// resolution.
	DiskTypeUnknown DiskType = "unknown"
)

// DiskMeta is the result of a single disk metadata query.
type DiskMeta struct {
	// ParentPath is the immediate parent of a differencing disk, empty for a
	// base disk.
	ParentPath string
	Type       DiskType
}

// DiskRecord represents one discovered virtual disk file. Records are built
// once at inventory time and are read-only afterwards.
type DiskRecord struct {
	Path         string
	ParentPath   string
	Type         DiskType
	LastModified time.Time
}

// IsDifferencing reports whether the record is a mergeable delta disk.
func (r DiskRecord) IsDifferencing() bool {
	return r.Type == DiskTypeDifferencing
}

// LineageGroup is a root disk together with every record whose parent chain
// terminates at it. The root record itself is a member.
type LineageGroup struct {
	RootPath    string
	MachineName string
	Members     []DiskRecord
}

// MergeStep is one planned merge of a differencing disk into its immediate
// parent.
type MergeStep struct {
	Source      string
	Destination string
}

// MergePlan is the ordered sequence of merges for one lineage group. Steps
// are executed strictly in order, one at a time.
type MergePlan []MergeStep

// MergeStatus is the outcome class of one attempted merge.
type MergeStatus string

const (
	MergeStatusSuccess MergeStatus = "success"
	// MergeStatusSkippedNoWork is recorded once for a group that has no
	// differencing members.
	MergeStatusSkippedNoWork MergeStatus = "skipped-no-work"
	// MergeStatusWarningNotDeleted means the merge request succeeded but the
	// source file still exists. The merge likely applied; cleanup did not.
	MergeStatusWarningNotDeleted MergeStatus = "warning-not-deleted"
	MergeStatusError             MergeStatus = "error"
)

// MergeOutcome records the result of one step of a merge plan.
type MergeOutcome struct {
	Source      string
	Destination string
	Status      MergeStatus
	// Detail carries the human-readable cause for error outcomes.
	Detail string
}

// MachineState is the hypervisor-reported power state of a machine.
type MachineState string

const (
	MachineStateRunning MachineState = "running"
	MachineStateOff     MachineState = "off"
	MachineStateOther   MachineState = "other"
)

// MachineInfo is the registry view of one virtual machine.
type MachineInfo struct {
	Name  string
	State MachineState
}

// StopResult describes how the machine state controller left a machine
// before its group's merges begin.
type StopResult string

const (
	// StopResultNotFound means no machine with the derived name is known to
	// the platform; merges proceed disk-only.
	StopResultNotFound       StopResult = "not-found"
	StopResultAlreadyStopped StopResult = "already-stopped"
	StopResultStoppedNow     StopResult = "stopped-now"
)
