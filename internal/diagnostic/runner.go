// Package diagnostic implements the workspace self-diagnostic engine:
// eight system-level check categories, an auto-fix table for the
// repairable issue kinds, a bounded diagnostic log, and a current-state
// snapshot file.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/check"
	"agentdoctor/internal/history"
	"agentdoctor/internal/lockfile"
	"agentdoctor/internal/remedy"
	"agentdoctor/internal/workspace"
)

// LogCap bounds the diagnostic log to the 20 most recent runs.
const LogCap = 20

// CategoryResult is one diagnostic category's outcome. Tools is only
// populated by the dependencies category.
type CategoryResult struct {
	Status check.Level     `json:"status"`
	Issues []string        `json:"issues,omitempty"`
	Tools  map[string]bool `json:"tools,omitempty"`
}

// IssueRef ties an issue back to its category and severity.
type IssueRef struct {
	Category string      `json:"category"`
	Issue    string      `json:"issue"`
	Severity check.Level `json:"severity"`
}

// SystemInfo records the environment a diagnostic ran in.
type SystemInfo struct {
	Platform         string `json:"platform"`
	RuntimeVersion   string `json:"runtime_version"`
	WorkingDirectory string `json:"working_directory"`
	User             string `json:"user"`
	Timestamp        string `json:"timestamp"`
}

// RunResult is one full diagnostic run, the unit of log storage and the
// current system state.
type RunResult struct {
	Timestamp     time.Time                 `json:"timestamp"`
	SystemInfo    SystemInfo                `json:"system_info"`
	Checks        map[string]CategoryResult `json:"checks"`
	Issues        []IssueRef                `json:"issues"`
	FixesApplied  []string                  `json:"fixes_applied"`
	OverallHealth check.Level               `json:"overall_health"`
}

// Categories in evaluation order.
var categoryOrder = []string{
	"structure",
	"agents",
	"configuration",
	"dependencies",
	"permissions",
	"performance",
	"security",
	"integrity",
}

// Runner executes diagnostic runs over a workspace.
type Runner struct {
	Workspace *workspace.Workspace
	Agents    *agent.Store
	Backups   *remedy.BackupStore
	Log       *history.Log[RunResult]

	now func() time.Time

	// issues found during the check phase, consumed by the fix phase
	found []foundIssue
}

// NewRunner wires a diagnostic runner over the workspace.
func NewRunner(ws *workspace.Workspace) *Runner {
	return &Runner{
		Workspace: ws,
		Agents:    agent.NewStore(ws.AgentsDir()),
		Backups:   remedy.NewBackupStore(ws.BackupsDir()),
		Log:       history.NewLog[RunResult](ws.DiagnosticLog(), "diagnostics", LogCap),
		now:       time.Now,
	}
}

// Run executes every diagnostic category, optionally applies auto-fixes
// for the repairable issues, computes overall health, and persists the
// result to the bounded log and the current-state file.
func (r *Runner) Run(autoFix bool) (RunResult, error) {
	// The lock file lives under data/, which on a fresh or broken
	// workspace may be exactly what needs repairing.
	if err := r.Workspace.Ensure(); err != nil {
		return RunResult{}, err
	}
	release, err := lockfile.Acquire(r.Workspace.LockFile(), "diagnostic")
	if err != nil {
		return RunResult{}, fmt.Errorf("acquiring workspace lock: %w", err)
	}
	defer func() { _ = release() }()

	r.found = nil
	result := RunResult{
		Timestamp:  r.now(),
		SystemInfo: r.systemInfo(),
		Checks:     make(map[string]CategoryResult, len(categoryOrder)),
	}

	checks := map[string]func() CategoryResult{
		"structure":     r.checkStructure,
		"agents":        r.checkAgents,
		"configuration": r.checkConfiguration,
		"dependencies":  r.checkDependencies,
		"permissions":   r.checkPermissions,
		"performance":   r.checkPerformance,
		"security":      r.checkSecurity,
		"integrity":     r.checkIntegrity,
	}

	for _, category := range categoryOrder {
		res := checks[category]()
		result.Checks[category] = res
		for _, issue := range res.Issues {
			result.Issues = append(result.Issues, IssueRef{
				Category: category,
				Issue:    issue,
				Severity: res.Status,
			})
		}
	}

	if autoFix && len(result.Issues) > 0 {
		result.FixesApplied = r.applyFixes()
	}

	result.OverallHealth = overallHealth(result)

	if err := r.save(result); err != nil {
		return result, err
	}
	return result, nil
}

// Categories returns the category names in evaluation order.
func Categories() []string {
	return categoryOrder
}

// overallHealth: any critical category is critical; more than two warning
// categories is warning; otherwise healthy.
func overallHealth(result RunResult) check.Level {
	criticalCount := 0
	warningCount := 0
	for _, res := range result.Checks {
		switch res.Status {
		case check.Critical:
			criticalCount++
		case check.Warning:
			warningCount++
		}
	}
	switch {
	case criticalCount > 0:
		return check.Critical
	case warningCount > 2:
		return check.Warning
	default:
		return check.Healthy
	}
}

func (r *Runner) systemInfo() SystemInfo {
	wd, _ := os.Getwd()
	return SystemInfo{
		Platform:         runtime.GOOS + "/" + runtime.GOARCH,
		RuntimeVersion:   runtime.Version(),
		WorkingDirectory: wd,
		User:             userName(),
		Timestamp:        r.now().Format(time.RFC3339),
	}
}

func userName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}

// save appends to the bounded diagnostic log and overwrites the
// current-state file, both atomically.
func (r *Runner) save(result RunResult) error {
	if err := r.Workspace.Ensure(); err != nil {
		return err
	}
	if _, err := r.Log.Append(result); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing system state: %w", err)
	}
	tmp := r.Workspace.SystemStateFile() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing system state: %w", err)
	}
	if err := os.Rename(tmp, r.Workspace.SystemStateFile()); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing system state: %w", err)
	}
	return nil
}

// CurrentState reads the last persisted diagnostic result.
func (r *Runner) CurrentState() (RunResult, bool, error) {
	data, err := os.ReadFile(r.Workspace.SystemStateFile())
	if err != nil {
		if os.IsNotExist(err) {
			return RunResult{}, false, nil
		}
		return RunResult{}, false, fmt.Errorf("reading system state: %w", err)
	}
	var result RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return RunResult{}, false, fmt.Errorf("parsing system state: %w", err)
	}
	return result, true, nil
}
