package health

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/check"
	"agentdoctor/internal/history"
	"agentdoctor/internal/lockfile"
	"agentdoctor/internal/metrics"
	"agentdoctor/internal/remedy"
	"agentdoctor/internal/workspace"
)

// Log bounds: the health log keeps the 50 most recent run snapshots, the
// alerts log the 100 most recent alerts.
const (
	LogCap    = 50
	AlertsCap = 100
)

// Monitor is the health engine orchestrator. It processes agents strictly
// sequentially within a run; cross-process exclusion is handled by the
// workspace lock file.
type Monitor struct {
	Workspace  *workspace.Workspace
	Agents     *agent.Store
	Metrics    *metrics.Store
	Backups    *remedy.BackupStore
	Log        *history.Log[Snapshot]
	Alerts     *history.Log[Alert]
	Weights    map[string]check.Weight
	Thresholds check.Thresholds

	checks *check.Registry
	now    func() time.Time
}

// NewMonitor wires a health monitor over the workspace with the default
// scoring policy. Weights and thresholds may be overridden before Run.
func NewMonitor(ws *workspace.Workspace) *Monitor {
	return &Monitor{
		Workspace:  ws,
		Agents:     agent.NewStore(ws.AgentsDir()),
		Metrics:    metrics.NewStore(ws.MetricsFile()),
		Backups:    remedy.NewBackupStore(ws.BackupsDir()),
		Log:        history.NewLog[Snapshot](ws.HealthLog(), "checks", LogCap),
		Alerts:     history.NewLog[Alert](ws.AlertsLog(), "alerts", AlertsCap),
		Weights:    DefaultWeights(),
		Thresholds: check.DefaultThresholds,
		checks:     newChecks(ws),
		now:        time.Now,
	}
}

// Run checks every agent (or just the named one when scope is non-empty),
// optionally auto-repairs critical agents, appends one snapshot to the
// history log, and returns the per-agent reports with a run summary.
// A failure in one agent's checks or repair never aborts the run; it is
// folded into that agent's report.
func (m *Monitor) Run(scope string, autoRepair bool) ([]Report, Summary, error) {
	if err := m.Workspace.Ensure(); err != nil {
		return nil, Summary{}, err
	}

	release, err := lockfile.Acquire(m.Workspace.LockFile(), "health-monitor")
	if err != nil {
		return nil, Summary{}, fmt.Errorf("acquiring workspace lock: %w", err)
	}
	defer func() { _ = release() }()

	var notes []string
	metricsMap, err := m.Metrics.Load()
	if err != nil {
		// Corrupt metrics are fail-open: note it, continue with defaults.
		notes = append(notes, err.Error())
	}

	names, err := m.agentNames(scope)
	if err != nil {
		return nil, Summary{}, err
	}

	var reports []Report
	var alerts []Alert
	for _, name := range names {
		report := m.checkAgent(name, metricsMap)

		if report.Level == check.Critical {
			alerts = append(alerts, Alert{
				Agent:     name,
				Severity:  string(check.Critical),
				Issues:    report.Issues,
				Timestamp: m.now(),
			})
			if autoRepair {
				m.repair(&report)
			}
		}
		reports = append(reports, report)
	}

	snapshot := Snapshot{
		RunID:     uuid.New().String(),
		Timestamp: m.now(),
		Results:   reports,
	}
	if quarantined, err := m.Log.Append(snapshot); err != nil {
		notes = append(notes, fmt.Sprintf("health log append failed: %v", err))
	} else if quarantined != "" {
		notes = append(notes, fmt.Sprintf("corrupt health log preserved at %s", quarantined))
	}
	for _, a := range alerts {
		if _, err := m.Alerts.Append(a); err != nil {
			notes = append(notes, fmt.Sprintf("alert append failed: %v", err))
			break
		}
	}

	summary := Summarize(reports)
	summary.Notes = notes
	return reports, summary, nil
}

func (m *Monitor) agentNames(scope string) ([]string, error) {
	if scope != "" {
		if !m.Agents.Exists(scope) {
			return nil, fmt.Errorf("agent %q not found", scope)
		}
		return []string{scope}, nil
	}
	return m.Agents.Names()
}

// checkAgent evaluates all checks for one agent. An unreadable file
// short-circuits to a critical report with a single issue.
func (m *Monitor) checkAgent(name string, metricsMap map[string]metrics.Metrics) Report {
	report := Report{
		Agent:     name,
		Timestamp: m.now(),
		Level:     check.Unknown,
	}

	a, err := m.Agents.Load(name)
	if err != nil {
		report.Level = check.Critical
		report.Issues = []string{fmt.Sprintf("Cannot read agent file: %v", err)}
		return report
	}

	agentMetrics, has := metrics.ForAgent(metricsMap, name)
	results, ordered := m.checks.Evaluate(check.Context{
		Agent:      a,
		Metrics:    agentMetrics,
		HasMetrics: has,
		Now:        m.now(),
	})

	report.Checks = results
	for _, res := range ordered {
		report.Issues = append(report.Issues, res.Issues...)
		report.Recommendations = append(report.Recommendations, res.Recommendations...)
	}

	score, criticalFailure := check.Score(results, m.Weights)
	report.Score = score
	report.Level = check.Classify(score, criticalFailure, m.Thresholds)
	return report
}

// repair runs the auto-repair catalog for one critical agent. The
// original content is backed up before the mutated content is written;
// a storage failure aborts only this agent's repair.
func (m *Monitor) repair(report *Report) {
	a, err := m.Agents.Load(report.Agent)
	if err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("Repair skipped: %v", err))
		return
	}

	catalog := repairCatalog(a.Name, m.now())
	fixed, applied := catalog.Remediate(a.Content, report.Issues)
	if len(applied) == 0 || fixed == a.Content {
		return
	}

	backupPath, err := m.Backups.Save(a.Name, "health_repair", a.Content)
	if err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("Repair aborted, backup failed: %v", err))
		return
	}
	if err := m.Agents.Write(a.Name, fixed); err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("Repair aborted, write failed: %v", err))
		return
	}

	report.RepairsApplied = applied
	report.BackupPath = backupPath
}

// Latest returns the most recent run snapshot, the engine's queryable
// current state.
func (m *Monitor) Latest() (Snapshot, bool, error) {
	return m.Log.Latest()
}
