package hyperv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// getVMResult mirrors the JSON shape produced by the Get-VM query below.
type getVMResult struct {
	Name  string `json:"Name"`
	State string `json:"State"`
}

// Find implements the machine registry lookup against Get-VM. A missing
// machine is not an error: Get-VM is run with -ErrorAction SilentlyContinue
// and empty output maps to nil.
func (c *Client) Find(ctx context.Context, name string) (*types.MachineInfo, error) {
	command := fmt.Sprintf(
		"Get-VM -Name %s -ErrorAction SilentlyContinue | Select-Object Name,@{Name='State';Expression={$_.State.ToString()}} | ConvertTo-Json",
		quote(name),
	)

	output, err := c.runTimed(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("query machine %q: %w", name, err)
	}
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, nil
	}

	var result getVMResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("parse Get-VM output for %q: %w", name, err)
	}

	info := &types.MachineInfo{Name: result.Name}
	switch result.State {
	case "Running":
		info.State = types.MachineStateRunning
	case "Off":
		info.State = types.MachineStateOff
	default:
		info.State = types.MachineStateOther
	}
	return info, nil
}

// Stop issues a forced shutdown request. It does not wait for the machine to
// reach the off state; the state controller polls for that.
func (c *Client) Stop(ctx context.Context, name string) error {
	command := fmt.Sprintf("Stop-VM -Name %s -Force", quote(name))
	if _, err := c.runTimed(ctx, command); err != nil {
		return fmt.Errorf("stop machine %q: %w", name, err)
	}
	return nil
}
