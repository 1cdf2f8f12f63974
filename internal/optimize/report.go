package optimize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report renders the optimization run as a plain-text report.
func Report(results []Result, now time.Time) string {
	var b strings.Builder

	optimized := 0
	var total float64
	for _, r := range results {
		if r.Optimized {
			optimized++
		}
		total += r.Performance.Score
	}
	avg := 0.0
	if len(results) > 0 {
		avg = total / float64(len(results))
	}

	b.WriteString("====================================\n")
	b.WriteString("    Agent Optimization Report\n")
	b.WriteString("====================================\n\n")
	fmt.Fprintf(&b, "Timestamp: %s\n\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("Summary:\n--------\n")
	fmt.Fprintf(&b, "Total Agents Scanned: %d\n", len(results))
	fmt.Fprintf(&b, "Agents Optimized: %d\n", optimized)
	fmt.Fprintf(&b, "Average Performance Score: %.1f/100\n\n", avg)

	b.WriteString("Optimization Details:\n-------------------\n")
	for _, r := range results {
		if !r.Optimized {
			continue
		}
		fmt.Fprintf(&b, "\nAgent: %s\n", r.Name)
		fmt.Fprintf(&b, "  Performance Score: %.1f/100\n", r.Performance.Score)
		b.WriteString("  Optimizations Applied:\n")
		for _, opt := range r.Optimizations {
			fmt.Fprintf(&b, "    - %s\n", opt)
		}
	}

	b.WriteString("\nRecommendations:\n---------------\n")
	var low []Result
	for _, r := range results {
		if r.Performance.Score < 70 {
			low = append(low, r)
		}
	}
	if len(low) > 0 {
		b.WriteString("The following agents need attention:\n")
		for _, r := range low {
			fmt.Fprintf(&b, "  - %s: Score %.1f/100\n", r.Name, r.Performance.Score)
		}
	} else {
		b.WriteString("All agents are performing within acceptable parameters.\n")
	}

	b.WriteString("\n====================================\n")
	b.WriteString("        End of Report\n")
	b.WriteString("====================================\n")
	return b.String()
}

// SaveReport writes the rendered report under the data directory and
// returns its path.
func (o *Optimizer) SaveReport(report string) (string, error) {
	dir := o.Workspace.DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("optimization_report_%s.txt", o.now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
