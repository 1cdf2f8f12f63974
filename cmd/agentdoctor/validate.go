package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Validate intended file locations",
	Long: `Check intended save paths against the workspace layout rules. User files
(Terraform, Kubernetes, Docker, CI/CD, config) aimed at the internal
workspace directory are redirected to their proper project location and
the violation is logged.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := ctl.Validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
