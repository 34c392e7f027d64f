// Package hyperv implements the platform ports by shelling out to the
// Hyper-V PowerShell module (Get-VHD, Get-VM, Stop-VM, Merge-VHD).
package hyperv

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client runs Hyper-V cmdlets through a PowerShell subprocess.
type Client struct {
	shellPath string
	timeout   time.Duration
	logger    *logrus.Logger
}

// NewClient creates a Client.
// shellPath: path to the PowerShell executable (uses "powershell.exe" from
// the system PATH if empty).
// timeout: per-command timeout (defaults to 5 minutes if zero). Merge-VHD
// gets no timeout beyond the caller's context, since large merges take
// arbitrarily long.
// logger: logger instance (can be nil).
func NewClient(shellPath string, timeout time.Duration, logger *logrus.Logger) *Client {
	if shellPath == "" {
		shellPath = "powershell.exe"
	}
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		shellPath: shellPath,
		timeout:   timeout,
		logger:    logger,
	}
}

// run executes one PowerShell command line and returns its combined output.
func (c *Client) run(ctx context.Context, command string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.shellPath, "-NoProfile", "-NonInteractive", "-Command", command)

	output, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		}
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{
				"command":   command,
				"exit_code": exitCode,
				"output":    string(output),
			}).Debug("PowerShell command failed")
		}
		if len(output) > 0 {
			return nil, fmt.Errorf("powershell failed (exit code %d): %w: %s", exitCode, err, strings.TrimSpace(string(output)))
		}
		return nil, fmt.Errorf("powershell failed (exit code %d): %w", exitCode, err)
	}
	return output, nil
}

// runTimed is run with the client's default per-command timeout applied.
func (c *Client) runTimed(ctx context.Context, command string) ([]byte, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.run(cmdCtx, command)
}

// quote wraps s in PowerShell single quotes, escaping embedded ones.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
