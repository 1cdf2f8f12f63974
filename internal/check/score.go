package check

// Level classifies an agent's current report.
type Level string

const (
	Healthy  Level = "healthy"
	Warning  Level = "warning"
	Critical Level = "critical"
	Unknown  Level = "unknown"
)

// Icon returns the terminal marker for a level.
func (l Level) Icon() string {
	switch l {
	case Healthy:
		return "✅"
	case Warning:
		return "⚠️"
	case Critical:
		return "❌"
	default:
		return "❓"
	}
}

// Rank orders levels from best to worst, for computing the worst observed
// level across a run (and from it the process exit code).
func (l Level) Rank() int {
	switch l {
	case Healthy:
		return 0
	case Warning:
		return 1
	case Critical:
		return 2
	default:
		return 1
	}
}

// Worse returns the worse of two levels.
func Worse(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Thresholds are the classification cutoffs for the additive score.
// The health engine ships 90/70; the optimizer uses its own scoring
// formula and a single remediation trigger instead.
type Thresholds struct {
	Healthy float64 `yaml:"healthy"`
	Warning float64 `yaml:"warning"`
}

// DefaultThresholds is the health engine's classification policy.
var DefaultThresholds = Thresholds{Healthy: 90, Warning: 70}

// Score computes the additive weighted score on a 0-100 scale: each passed
// category contributes weight*100, independently. If configured weights sum
// below 1, a fully passing agent scores below 100 — that is intentional,
// not a bug. The second return reports whether any critical-weighted
// category failed.
func Score(results map[string]Result, weights map[string]Weight) (float64, bool) {
	var score float64
	critical := false
	for category, res := range results {
		w := weights[category]
		if res.Passed {
			score += w.Weight
		} else if w.Critical {
			critical = true
		}
	}
	return score * 100, critical
}

// Classify maps a score and critical-failure state to a level. A critical
// failure forces Critical regardless of the numeric score.
func Classify(score float64, criticalFailure bool, t Thresholds) Level {
	switch {
	case criticalFailure:
		return Critical
	case score >= t.Healthy:
		return Healthy
	case score >= t.Warning:
		return Warning
	default:
		return Critical
	}
}
