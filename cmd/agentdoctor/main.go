// agentdoctor is the command-line interface for the agent workspace:
// health monitoring, optimization, self-diagnostics, and dynamic agent
// spawning.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agentdoctor/internal/control"
)

var (
	// baseDir is the workspace root, settable via --base.
	baseDir string

	// ctl is the wired control facade every command runs against.
	ctl *control.Control
)

var rootCmd = &cobra.Command{
	Use:   "agentdoctor",
	Short: "Agent workspace health monitoring and optimization",
	Long: `agentdoctor manages a workspace of agent definition files: it checks
their health, optimizes underperformers, runs workspace self-diagnostics,
and spawns new specialist agents on demand.

The workspace is a directory (default .claude) containing:
  agents/          agent definition files (YAML frontmatter + markdown)
  data/            metrics, registry, and bounded history logs
  data/backups/    pre-mutation snapshots
  mcp/config.json  dependency configuration`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		ctl, err = control.New(baseDir)
		if err != nil {
			return fmt.Errorf("initializing workspace %s: %w", baseDir, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseDir, "base", ".claude", "Workspace base directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
