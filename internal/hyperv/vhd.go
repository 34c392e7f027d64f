package hyperv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// getVHDResult mirrors the JSON shape produced by the Get-VHD query below.
type getVHDResult struct {
	ParentPath string `json:"ParentPath"`
	VhdType    string `json:"VhdType"`
}

// Query implements the inventory querier against Get-VHD. VhdType is
// rendered as its enum name ("Fixed", "Dynamic", "Differencing") via a
// calculated property so the mapping is not tied to enum ordinals.
func (c *Client) Query(ctx context.Context, path string) (types.DiskMeta, error) {
	command := fmt.Sprintf(
		"Get-VHD -Path %s | Select-Object ParentPath,@{Name='VhdType';Expression={$_.VhdType.ToString()}} | ConvertTo-Json",
		quote(path),
	)

	output, err := c.runTimed(ctx, command)
	if err != nil {
		return types.DiskMeta{}, &types.DiskQueryError{Path: path, Err: err}
	}

	var result getVHDResult
	if err := json.Unmarshal(output, &result); err != nil {
		return types.DiskMeta{}, &types.DiskQueryError{
			Path: path,
			Err:  fmt.Errorf("parse Get-VHD output: %w", err),
		}
	}

	meta := types.DiskMeta{ParentPath: result.ParentPath}
	if result.VhdType == "Differencing" {
		meta.Type = types.DiskTypeDifferencing
	} else {
		meta.Type = types.DiskTypeBase
	}
	return meta, nil
}
