package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var spawnCreate string

var spawnCmd = &cobra.Command{
	Use:   "spawn [request...]",
	Short: "Spawn a specialist agent from a request",
	Long: `Analyze a plain-language request and spawn a specialist agent when the
request matches a known technology domain or explicitly asks for one
("create a redis agent"). The new agent is registered in the agent
registry and the spawn is logged.

With --create NAME, skip detection and create the named agent directly
with inferred capabilities.

Examples:
  agentdoctor spawn need redis optimization
  agentdoctor spawn set up kafka consumers
  agentdoctor spawn --create nginx-optimizer`,
	Run: func(cmd *cobra.Command, args []string) {
		if spawnCreate != "" {
			if err := ctl.Create(spawnCreate); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: a request is required (or use --create)")
			os.Exit(1)
		}
		if err := ctl.Spawn(strings.Join(args, " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(spawnCmd)
	spawnCmd.Flags().StringVar(&spawnCreate, "create", "", "Create a named agent directly")
}
