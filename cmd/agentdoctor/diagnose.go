package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentdoctor/internal/check"
)

var diagnoseFix bool

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run the workspace self-diagnostic",
	Long: `Run all diagnostic categories over the workspace: structure, agents,
configuration, dependencies, permissions, performance, security, and
integrity.

With --fix, repairable issues (missing folders, missing files, invalid
configs, permissions, broken agent frontmatter) are corrected in place.

The exit code reflects overall health: 0 healthy, 1 warning, 2 critical.`,
	Run: func(cmd *cobra.Command, args []string) {
		result, err := ctl.Diagnose(diagnoseFix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(exitCode(result.OverallHealth))
	},
}

// exitCode maps a health level onto the process exit status.
func exitCode(level check.Level) int {
	switch level {
	case check.Critical:
		return 2
	case check.Warning:
		return 1
	default:
		return 0
	}
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.Flags().BoolVar(&diagnoseFix, "fix", false, "Apply auto-fixes for repairable issues")
}
