package health

import (
	"time"

	"agentdoctor/internal/check"
)

// Report is the immutable result of one health pass over one agent.
type Report struct {
	Agent           string                  `json:"agent"`
	Timestamp       time.Time               `json:"timestamp"`
	Checks          map[string]check.Result `json:"checks"`
	Score           float64                 `json:"health_score"`
	Level           check.Level             `json:"overall_health"`
	Issues          []string                `json:"issues,omitempty"`
	Recommendations []string                `json:"recommendations,omitempty"`
	RepairsApplied  []string                `json:"repairs_applied,omitempty"`
	BackupPath      string                  `json:"backup_path,omitempty"`
}

// Snapshot is one monitoring run's full result set, the unit of history
// log storage.
type Snapshot struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Results   []Report  `json:"results"`
}

// Alert records a critical agent for the bounded alerts log.
type Alert struct {
	Agent     string    `json:"agent"`
	Severity  string    `json:"severity"`
	Issues    []string  `json:"issues"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary aggregates one run.
type Summary struct {
	Total    int
	Counts   map[check.Level]int
	AvgScore float64
	Worst    check.Level

	// Notes carries non-fatal run-level observations: corrupt metrics
	// files, quarantined logs, skipped repairs.
	Notes []string
}

// Summarize computes the aggregate view of a run's reports.
func Summarize(reports []Report) Summary {
	s := Summary{
		Total:  len(reports),
		Counts: map[check.Level]int{},
		Worst:  check.Healthy,
	}
	var total float64
	for _, r := range reports {
		s.Counts[r.Level]++
		total += r.Score
		s.Worst = check.Worse(s.Worst, r.Level)
	}
	if len(reports) > 0 {
		s.AvgScore = total / float64(len(reports))
	}
	return s
}
