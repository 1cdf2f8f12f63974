// Package control is the central command surface over every engine:
// one wired facade the CLI commands and the interactive shell both call.
// All engine wiring happens here, once, from the workspace base and the
// optional workspace config file.
package control

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/check"
	"agentdoctor/internal/config"
	"agentdoctor/internal/diagnostic"
	"agentdoctor/internal/health"
	"agentdoctor/internal/optimize"
	"agentdoctor/internal/pathguard"
	"agentdoctor/internal/registry"
	"agentdoctor/internal/spawn"
	"agentdoctor/internal/workspace"
)

// Control holds the wired engines for one workspace.
type Control struct {
	Workspace  *workspace.Workspace
	Agents     *agent.Store
	Registry   *registry.Repository
	Monitor    *health.Monitor
	Optimizer  *optimize.Optimizer
	Diagnostic *diagnostic.Runner
	Spawner    *spawn.Spawner
	SaveHook   *pathguard.Hook

	Out io.Writer
}

// New wires a control facade for the workspace at base, applying the
// workspace config file's overrides to both scoring policies.
func New(base string) (*Control, error) {
	ws := workspace.New(base)

	cfg, err := config.Load(ws.ConfigFile())
	if err != nil {
		return nil, err
	}

	monitor := health.NewMonitor(ws)
	monitor.Weights = cfg.HealthWeights(monitor.Weights)
	monitor.Thresholds = cfg.HealthThresholds(monitor.Thresholds)

	optimizer := optimize.NewOptimizer(ws)
	optimizer.Thresholds = cfg.OptimizeThresholds(optimizer.Thresholds)

	validator := pathguard.NewValidator(filepath.Base(ws.Base), filepath.Dir(ws.Base))

	return &Control{
		Workspace:  ws,
		Agents:     agent.NewStore(ws.AgentsDir()),
		Registry:   registry.NewRepository(ws.RegistryFile()),
		Monitor:    monitor,
		Optimizer:  optimizer,
		Diagnostic: diagnostic.NewRunner(ws),
		Spawner:    spawn.NewSpawner(ws),
		SaveHook:   pathguard.NewHook(validator, ws.HookLog()),
		Out:        os.Stdout,
	}, nil
}

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

func levelColor(l check.Level) func(a ...interface{}) string {
	switch l {
	case check.Healthy:
		return green
	case check.Warning:
		return yellow
	case check.Critical:
		return red
	default:
		return yellow
	}
}

// Status prints the system overview: agent counts, registry activity,
// last diagnostic verdict, and the most recent spawn.
func (c *Control) Status() error {
	fmt.Fprintf(c.Out, "\n%s\n", cyan("SYSTEM STATUS"))
	fmt.Fprintln(c.Out, "============================================================")

	names, err := c.Agents.Names()
	if err != nil {
		return err
	}
	reg, err := c.Registry.Load()
	if err != nil {
		return err
	}

	overall := check.Unknown
	if state, ok, err := c.Diagnostic.CurrentState(); err == nil && ok {
		overall = state.OverallHealth
	}

	fmt.Fprintf(c.Out, "Total Agents: %d\n", len(names))
	fmt.Fprintf(c.Out, "Active Agents: %d\n", reg.ActiveCount())
	fmt.Fprintf(c.Out, "System Health: %s\n", levelColor(overall)(string(overall)))

	if last, ok, err := c.Spawner.Log.Latest(); err == nil && ok {
		fmt.Fprintf(c.Out, "\nLast Spawn: %s at %s\n", last.AgentName, last.Timestamp.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(c.Out, "============================================================")
	return nil
}

// Diagnose runs the self-diagnostic and prints the per-category results.
func (c *Control) Diagnose(autoFix bool) (diagnostic.RunResult, error) {
	fmt.Fprintf(c.Out, "\n%s\n", cyan("Running system diagnostic..."))

	result, err := c.Diagnostic.Run(autoFix)
	if err != nil {
		return result, err
	}

	for _, category := range diagnostic.Categories() {
		res := result.Checks[category]
		fmt.Fprintf(c.Out, "  %-14s %s\n", category, levelColor(res.Status)(string(res.Status)))
		for _, issue := range res.Issues {
			fmt.Fprintf(c.Out, "    - %s\n", issue)
		}
	}
	for _, fix := range result.FixesApplied {
		fmt.Fprintf(c.Out, "  %s %s\n", green("fixed:"), fix)
	}
	fmt.Fprintf(c.Out, "\nOverall: %s\n", levelColor(result.OverallHealth)(string(result.OverallHealth)))
	return result, nil
}

// Health runs the health monitor and prints per-agent reports with the
// run summary.
func (c *Control) Health(scope string, autoRepair bool) ([]health.Report, health.Summary, error) {
	fmt.Fprintf(c.Out, "\n%s\n", cyan("Checking agent health..."))

	reports, summary, err := c.Monitor.Run(scope, autoRepair)
	if err != nil {
		return nil, health.Summary{}, err
	}

	for _, r := range reports {
		fmt.Fprintf(c.Out, "%s %-20s %5.1f/100 %s\n",
			r.Level.Icon(), r.Agent, r.Score, levelColor(r.Level)(string(r.Level)))
		for _, issue := range r.Issues {
			fmt.Fprintf(c.Out, "    ! %s\n", issue)
		}
		for _, rec := range r.Recommendations {
			fmt.Fprintf(c.Out, "    > %s\n", rec)
		}
		for _, repair := range r.RepairsApplied {
			fmt.Fprintf(c.Out, "    %s %s\n", green("repaired:"), repair)
		}
	}

	fmt.Fprintf(c.Out, "\nAgents: %d  Avg Score: %.1f  Worst: %s\n",
		summary.Total, summary.AvgScore, levelColor(summary.Worst)(string(summary.Worst)))
	for _, note := range summary.Notes {
		fmt.Fprintf(c.Out, "%s %s\n", yellow("note:"), note)
	}
	return reports, summary, nil
}

// Optimize runs the optimizer and saves the rendered report.
func (c *Control) Optimize(target string, force bool) ([]optimize.Result, error) {
	fmt.Fprintf(c.Out, "\n%s\n", cyan("Optimizing agents..."))

	if force {
		c.Optimizer.Thresholds = optimize.ForceThresholds
	}

	results, err := c.Optimizer.Run(target)
	if err != nil {
		return nil, err
	}

	optimized := 0
	for _, r := range results {
		switch {
		case r.Err != "":
			fmt.Fprintf(c.Out, "  %-20s %s\n", r.Name, red(r.Err))
		case r.Optimized:
			optimized++
			fmt.Fprintf(c.Out, "  %-20s %5.1f/100 %s\n", r.Name, r.Performance.Score, green("optimized"))
			for _, opt := range r.Optimizations {
				fmt.Fprintf(c.Out, "    + %s\n", opt)
			}
		default:
			fmt.Fprintf(c.Out, "  %-20s %5.1f/100\n", r.Name, r.Performance.Score)
		}
	}

	report := optimize.Report(results, c.Optimizer.Now())
	path, err := c.Optimizer.SaveReport(report)
	if err != nil {
		return results, err
	}
	fmt.Fprintf(c.Out, "\n%d of %d agents optimized. Report: %s\n", optimized, len(results), path)
	return results, nil
}

// List prints the agent registry with status and performance.
func (c *Control) List() error {
	fmt.Fprintf(c.Out, "\n%s\n", cyan("AGENT REGISTRY"))
	fmt.Fprintln(c.Out, "============================================================")

	reg, err := c.Registry.Load()
	if err != nil {
		return err
	}
	if len(reg.Agents) == 0 {
		fmt.Fprintln(c.Out, "No agents registered")
		return nil
	}

	for _, name := range reg.Names() {
		entry := reg.Agents[name]
		status := green("active")
		if entry.Status != "active" {
			status = yellow(entry.Status)
		}
		fmt.Fprintf(c.Out, "%-20s %-10s %s\n", name, status, entry.Description)
		if entry.Performance.TotalExecutions > 0 {
			fmt.Fprintf(c.Out, "    %.0f%% success, %.1fs avg response, %d executions\n",
				entry.Performance.SuccessRate*100,
				entry.Performance.AvgResponseTime,
				entry.Performance.TotalExecutions)
		}
	}
	fmt.Fprintln(c.Out, "============================================================")
	return nil
}

// Spawn analyzes a request and creates a specialist agent when one is
// needed.
func (c *Control) Spawn(request string) error {
	fmt.Fprintf(c.Out, "\n%s %s\n", cyan("Analyzing request:"), request)

	entry, detection, err := c.Spawner.CheckAndSpawn(request)
	if err != nil {
		return err
	}
	if !detection.Needed {
		fmt.Fprintln(c.Out, "No new agent needed for this request")
		return nil
	}
	fmt.Fprintf(c.Out, "%s Spawned %s agent %q with %d capabilities\n",
		green("OK"), detection.Domain, detection.AgentName, len(entry.Capabilities))
	return nil
}

// Create explicitly creates a named agent with inferred capabilities.
func (c *Control) Create(name string) error {
	fmt.Fprintf(c.Out, "\n%s %s\n", cyan("Creating agent:"), name)

	entry, err := c.Spawner.Spawn(spawn.Spec{
		AgentName:    name,
		Domain:       "custom",
		Capabilities: spawn.InferCapabilities(name),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%s Agent %q created with %d capabilities\n",
		green("OK"), name, len(entry.Capabilities))
	return nil
}

// Validate runs each intended save path through the pre-save hook,
// printing where the file belongs. Redirected paths are logged and their
// target directory created so the save can proceed immediately.
func (c *Control) Validate(paths []string) error {
	for _, path := range paths {
		d, err := c.SaveHook.InterceptSave(path)
		if err != nil {
			return err
		}
		switch {
		case !d.Proceed:
			fmt.Fprintf(c.Out, "%s %s\n", red("BLOCKED"), d.Message)
		case d.Path != path:
			fmt.Fprintf(c.Out, "%s %s\n", yellow("MOVED"), d.Message)
		default:
			fmt.Fprintf(c.Out, "%s %s\n", green("OK"), path)
		}
	}
	return nil
}

// Evolve runs the full cycle: diagnose with fixes, health with repairs,
// optimization, then a summary.
func (c *Control) Evolve() error {
	fmt.Fprintf(c.Out, "\n%s\n", cyan("AUTO-EVOLUTION CYCLE"))

	fmt.Fprintln(c.Out, "\n[1/4] Diagnostic")
	diag, err := c.Diagnose(true)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "\n[2/4] Agent health")
	_, summary, err := c.Health("", true)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "\n[3/4] Optimization")
	results, err := c.Optimize("", false)
	if err != nil {
		return err
	}
	optimized := 0
	for _, r := range results {
		if r.Optimized {
			optimized++
		}
	}

	fmt.Fprintln(c.Out, "\n[4/4] Evolution summary")
	fmt.Fprintf(c.Out, "  System Health: %s\n", levelColor(diag.OverallHealth)(string(diag.OverallHealth)))
	fmt.Fprintf(c.Out, "  Issues Fixed: %d\n", len(diag.FixesApplied))
	fmt.Fprintf(c.Out, "  Agent Health: %s (avg %.1f)\n", levelColor(summary.Worst)(string(summary.Worst)), summary.AvgScore)
	fmt.Fprintf(c.Out, "  Agents Optimized: %d\n", optimized)
	return nil
}
