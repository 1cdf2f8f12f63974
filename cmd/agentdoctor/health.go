package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	healthAgent      string
	healthRepair     bool
	healthContinuous bool
	healthInterval   time.Duration
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check agent health",
	Long: `Run the weighted health checks over every agent (or one agent with
--agent), report per-agent scores and issues, and append a snapshot to
the health log. Critical agents raise alerts; with --repair they are
also auto-repaired, with the original content backed up first.

With --continuous the check loop repeats at --interval until
interrupted.

The exit code reflects the worst agent level: 0 healthy, 1 warning,
2 critical.`,
	Run: func(cmd *cobra.Command, args []string) {
		if healthContinuous {
			if err := runContinuous(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		_, summary, err := ctl.Health(healthAgent, healthRepair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(exitCode(summary.Worst))
	},
}

// runContinuous repeats health passes at the configured interval until
// SIGINT or SIGTERM. Pass failures are reported but do not stop the
// loop; only signal cancellation does.
func runContinuous() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := rate.NewLimiter(rate.Every(healthInterval), 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			if err := limiter.Wait(ctx); err != nil {
				return nil // cancelled
			}
			if _, _, err := ctl.Health(healthAgent, healthRepair); err != nil {
				fmt.Fprintf(os.Stderr, "Error: health pass failed: %v\n", err)
			}
		}
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.Flags().StringVar(&healthAgent, "agent", "", "Check a single agent")
	healthCmd.Flags().BoolVar(&healthRepair, "repair", false, "Auto-repair critical agents")
	healthCmd.Flags().BoolVar(&healthContinuous, "continuous", false, "Repeat checks until interrupted")
	healthCmd.Flags().DurationVar(&healthInterval, "interval", 5*time.Minute, "Interval between continuous checks")
}
