// Package optimize implements the agent optimizer: a deduction-based
// 0-100 performance score per agent, a single below-90 remediation
// trigger, performance-driven content fixes, and structural normalization
// of agent files. It deliberately shares the fix/backup machinery with
// the health engine but keeps its own scoring formula and threshold — the
// two policies are independent and configured separately.
package optimize

import (
	"fmt"
	"time"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/history"
	"agentdoctor/internal/lockfile"
	"agentdoctor/internal/metrics"
	"agentdoctor/internal/remedy"
	"agentdoctor/internal/workspace"
)

// LogCap bounds the optimization log to the 100 most recent entries.
const LogCap = 100

// RemediationTrigger is the score below which fixes are attempted. The
// optimizer has no tri-state classification; agents are either performing
// optimally or they get a fix pass.
const RemediationTrigger = 90.0

// Thresholds are the performance floors/ceilings the score is measured
// against.
type Thresholds struct {
	SuccessRate  float64 `yaml:"success_rate"`
	ResponseTime float64 `yaml:"response_time"`
	ErrorRate    float64 `yaml:"error_rate"`
	Efficiency   float64 `yaml:"efficiency"`
}

// DefaultThresholds is the normal operating policy.
var DefaultThresholds = Thresholds{
	SuccessRate:  0.95,
	ResponseTime: 2.0,
	ErrorRate:    0.05,
	Efficiency:   0.80,
}

// ForceThresholds tightens every bound so that nearly every agent falls
// below the remediation trigger; used by --force.
var ForceThresholds = Thresholds{
	SuccessRate:  0.99,
	ResponseTime: 0.5,
	ErrorRate:    0.01,
	Efficiency:   0.95,
}

// Performance is the analyzed metrics view the score is computed from.
type Performance struct {
	SuccessRate    float64 `json:"success_rate"`
	ResponseTime   float64 `json:"response_time"`
	ErrorRate      float64 `json:"error_rate"`
	Efficiency     float64 `json:"efficiency"`
	LastOptimized  string  `json:"last_optimized,omitempty"`
	ExecutionCount int     `json:"execution_count"`
	Score          float64 `json:"optimization_score"`
}

// Result is one agent's outcome from an optimization pass.
type Result struct {
	Name          string      `json:"name"`
	Performance   Performance `json:"performance"`
	Optimized     bool        `json:"optimized"`
	Optimizations []string    `json:"optimizations"`
	Err           string      `json:"error,omitempty"`
}

// LogEntry is the optimization log record for one mutated agent.
type LogEntry struct {
	Timestamp     time.Time   `json:"timestamp"`
	Agent         string      `json:"agent"`
	Optimizations []string    `json:"optimizations"`
	Performance   Performance `json:"performance_before"`
	Score         float64     `json:"optimization_score"`
}

// Optimizer orchestrates optimization passes over the workspace.
type Optimizer struct {
	Workspace  *workspace.Workspace
	Agents     *agent.Store
	Metrics    *metrics.Store
	Backups    *remedy.BackupStore
	Log        *history.Log[LogEntry]
	Thresholds Thresholds
	Trigger    float64

	now func() time.Time
}

// NewOptimizer wires an optimizer over the workspace with the default
// thresholds.
func NewOptimizer(ws *workspace.Workspace) *Optimizer {
	return &Optimizer{
		Workspace:  ws,
		Agents:     agent.NewStore(ws.AgentsDir()),
		Metrics:    metrics.NewStore(ws.MetricsFile()),
		Backups:    remedy.NewBackupStore(ws.BackupsDir()),
		Log:        history.NewLog[LogEntry](ws.OptimizationLog(), "optimizations", LogCap),
		Thresholds: DefaultThresholds,
		Trigger:    RemediationTrigger,
		now:        time.Now,
	}
}

// Now returns the optimizer's clock reading; report filenames and log
// entries are stamped with it.
func (o *Optimizer) Now() time.Time {
	return o.now()
}

// Analyze computes an agent's performance view and score from the
// collector metrics, applying healthy defaults for untracked agents.
func (o *Optimizer) Analyze(m metrics.Metrics) Performance {
	p := Performance{
		SuccessRate:    m.SuccessRate,
		ResponseTime:   m.AvgResponseTime,
		ErrorRate:      m.ErrorRate,
		Efficiency:     m.Efficiency,
		LastOptimized:  m.LastOptimized,
		ExecutionCount: m.ExecutionCount,
	}
	p.Score = o.score(p)
	return p
}

// score starts at 100 and deducts for each threshold breach. Deliberately
// a different formula from the health engine's additive weighted score.
func (o *Optimizer) score(p Performance) float64 {
	score := 100.0
	if p.SuccessRate < o.Thresholds.SuccessRate {
		score -= (o.Thresholds.SuccessRate - p.SuccessRate) * 100
	}
	if p.ResponseTime > o.Thresholds.ResponseTime {
		score -= (p.ResponseTime - o.Thresholds.ResponseTime) * 10
	}
	if p.ErrorRate > o.Thresholds.ErrorRate {
		score -= (p.ErrorRate - o.Thresholds.ErrorRate) * 200
	}
	if p.Efficiency < o.Thresholds.Efficiency {
		score -= (o.Thresholds.Efficiency - p.Efficiency) * 50
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Run optimizes every agent, or just the named one. Agents scoring at or
// above the trigger are left untouched. Per-agent failures are isolated
// into that agent's result.
func (o *Optimizer) Run(target string) ([]Result, error) {
	if err := o.Workspace.Ensure(); err != nil {
		return nil, err
	}

	release, err := lockfile.Acquire(o.Workspace.LockFile(), "optimizer")
	if err != nil {
		return nil, fmt.Errorf("acquiring workspace lock: %w", err)
	}
	defer func() { _ = release() }()

	metricsMap, _ := o.Metrics.Load() // corrupt metrics fail open

	names, err := o.agentNames(target)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, name := range names {
		results = append(results, o.optimizeAgent(name, metricsMap))
	}
	return results, nil
}

func (o *Optimizer) agentNames(target string) ([]string, error) {
	if target != "" {
		if !o.Agents.Exists(target) {
			return nil, fmt.Errorf("agent %q not found", target)
		}
		return []string{target}, nil
	}
	return o.Agents.Names()
}

// optimizeAgent analyzes one agent and, when it scores below the trigger,
// applies the fix catalog with backup-before-write.
func (o *Optimizer) optimizeAgent(name string, metricsMap map[string]metrics.Metrics) Result {
	m, _ := metrics.ForAgent(metricsMap, name)
	perf := o.Analyze(m)
	result := Result{Name: name, Performance: perf}

	if perf.Score >= o.Trigger {
		return result
	}

	a, err := o.Agents.Load(name)
	if err != nil {
		result.Err = fmt.Sprintf("Cannot read agent file: %v", err)
		return result
	}

	issues := o.performanceIssues(perf)
	catalog := fixCatalog(o.now())
	fixed, applied := catalog.Remediate(a.Content, issues)
	if len(applied) == 0 || fixed == a.Content {
		return result
	}

	if _, err := o.Backups.Save(name, "optimize", a.Content); err != nil {
		result.Err = fmt.Sprintf("Optimization aborted, backup failed: %v", err)
		return result
	}
	if err := o.Agents.Write(name, fixed); err != nil {
		result.Err = fmt.Sprintf("Optimization aborted, write failed: %v", err)
		return result
	}

	result.Optimized = true
	result.Optimizations = applied

	if _, err := o.Log.Append(LogEntry{
		Timestamp:     o.now(),
		Agent:         name,
		Optimizations: applied,
		Performance:   perf,
		Score:         perf.Score,
	}); err != nil {
		result.Err = fmt.Sprintf("optimization log append failed: %v", err)
	}
	return result
}

// performanceIssues translates threshold breaches into the issue phrases
// the fix catalog is keyed on.
func (o *Optimizer) performanceIssues(p Performance) []string {
	var issues []string
	if p.ResponseTime > o.Thresholds.ResponseTime {
		issues = append(issues, triggerSlowResponse)
	}
	if p.ErrorRate > o.Thresholds.ErrorRate {
		issues = append(issues, triggerHighErrorRate)
	}
	if p.Efficiency < o.Thresholds.Efficiency {
		issues = append(issues, triggerLowEfficiency)
	}
	return issues
}
