package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nirarg/vhd-consolidate/internal/config"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <directory>",
	Short: "Show what a run would merge, without changing anything",
	Long: `Discover disks, resolve chains and print the merge order for every group.
No machine is stopped and no merge is performed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := newOrchestrator(cfg, logger, true)
	report, err := orch.Run(ctx, args[0])
	if err != nil {
		return err
	}

	for _, group := range report.Groups {
		fmt.Printf("machine %s (root %s):\n", group.MachineName, group.RootPath)
		if len(group.Plan) == 0 {
			fmt.Println("  nothing to merge")
			continue
		}
		for i, step := range group.Plan {
			fmt.Printf("  %d. merge %s -> %s\n", i+1, step.Source, step.Destination)
		}
	}
	return nil
}
