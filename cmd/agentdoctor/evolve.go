package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Run the full auto-evolution cycle",
	Long: `Run the complete maintenance cycle in order: workspace diagnostic with
auto-fix, agent health checks with auto-repair, agent optimization, and
a final summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := ctl.Evolve(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(evolveCmd)
}
