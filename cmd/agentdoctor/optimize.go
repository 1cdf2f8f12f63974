package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	optimizeAgent string
	optimizeForce bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize underperforming agents",
	Long: `Score every agent (or one agent with --agent) against the performance
thresholds and apply content optimizations to those scoring below the
remediation trigger. Originals are backed up before any mutation and a
text report is saved under the data directory.

With --force the thresholds tighten so that nearly every agent receives
an optimization pass.`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := ctl.Optimize(optimizeAgent, optimizeForce); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().StringVar(&optimizeAgent, "agent", "", "Optimize a single agent")
	optimizeCmd.Flags().BoolVar(&optimizeForce, "force", false, "Tighten thresholds to optimize nearly all agents")
}
