package hyperv

import (
	"context"
	"fmt"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

// Merge implements the merge port against Merge-VHD. The call blocks until
// the platform finishes; no client-side timeout is applied because merge
// duration scales with disk size. Merge-VHD deletes the source disk on
// success, which the executor verifies.
func (c *Client) Merge(ctx context.Context, source, destination string) error {
	command := fmt.Sprintf(
		"Merge-VHD -Path %s -DestinationPath %s -Confirm:$false",
		quote(source), quote(destination),
	)
	if _, err := c.run(ctx, command); err != nil {
		return &types.MergeError{Source: source, Destination: destination, Err: err}
	}
	return nil
}
