package cli

import (
	"fmt"

	"github.com/nirarg/vhd-consolidate/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version, commit hash, and build date of vhdconsolidate.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vhdconsolidate %s\n", version.Version)
		fmt.Printf("  Commit:     %s\n", version.Commit)
		fmt.Printf("  Build Date: %s\n", version.BuildDate)
	},
}
