// Package machine coordinates virtual machine power state around merges.
package machine

import (
	"context"
	"time"

	"github.com/nirarg/vhd-consolidate/pkg/types"
	"github.com/sirupsen/logrus"
)

// Platform is the registry and control surface of the virtualization
// platform. Find returns nil when no machine with the name exists.
// Implementations must return a *types.MachineControlError on communication
// failure.
type Platform interface {
	Find(ctx context.Context, name string) (*types.MachineInfo, error)
	Stop(ctx context.Context, name string) error
}

// StateController stops a machine and waits for the platform to confirm it.
type StateController struct {
	platform     Platform
	pollInterval time.Duration
	stopTimeout  time.Duration
	logger       *logrus.Logger
}

// NewStateController creates a StateController.
// pollInterval defaults to 1 second and stopTimeout to 10 minutes when zero.
// logger can be nil.
func NewStateController(platform Platform, pollInterval, stopTimeout time.Duration, logger *logrus.Logger) *StateController {
	if pollInterval == 0 {
		pollInterval = time.Second
	}
	if stopTimeout == 0 {
		stopTimeout = 10 * time.Minute
	}
	return &StateController{
		platform:     platform,
		pollInterval: pollInterval,
		stopTimeout:  stopTimeout,
		logger:       logger,
	}
}

// EnsureStopped guarantees the named machine is not running before merges
// begin. An unknown machine yields StopResultNotFound and merges proceed
// disk-only. A running machine gets a stop request followed by state polling
// until the platform reports it off; if that never happens within the
// configured timeout a *types.StopTimeoutError is returned.
func (c *StateController) EnsureStopped(ctx context.Context, name string) (types.StopResult, error) {
	info, err := c.platform.Find(ctx, name)
	if err != nil {
		return "", &types.MachineControlError{Machine: name, Err: err}
	}
	if info == nil {
		if c.logger != nil {
			c.logger.WithField("machine", name).Info("No machine with this name, merging disks without VM coordination")
		}
		return types.StopResultNotFound, nil
	}
	if info.State != types.MachineStateRunning {
		return types.StopResultAlreadyStopped, nil
	}

	if c.logger != nil {
		c.logger.WithField("machine", name).Info("Machine is running, requesting stop")
	}
	if err := c.platform.Stop(ctx, name); err != nil {
		return "", &types.MachineControlError{Machine: name, Err: err}
	}

	deadline := time.Now().Add(c.stopTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		info, err := c.platform.Find(ctx, name)
		if err != nil {
			return "", &types.MachineControlError{Machine: name, Err: err}
		}
		if info == nil || info.State != types.MachineStateRunning {
			if c.logger != nil {
				c.logger.WithField("machine", name).Info("Machine confirmed stopped")
			}
			return types.StopResultStoppedNow, nil
		}
		if time.Now().After(deadline) {
			return "", &types.StopTimeoutError{Machine: name, Timeout: c.stopTimeout}
		}
	}
}
