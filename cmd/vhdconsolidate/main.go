// Package main is the entry point for vhdconsolidate.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nirarg/vhd-consolidate/internal/cli"
	"github.com/nirarg/vhd-consolidate/internal/orchestrator"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, orchestrator.ErrNoDisks) {
			fmt.Fprintln(os.Stderr, "Error: no disk files discovered, nothing to consolidate")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
