package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentdoctor/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start an interactive shell over the workspace.

The shell exposes the same operations as the subcommands: status,
diagnose, health, optimize, list, spawn, create, and evolve.

Type 'help' in the shell for available commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := repl.New(ctl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create shell: %v\n", err)
			os.Exit(1)
		}
		if err := r.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
