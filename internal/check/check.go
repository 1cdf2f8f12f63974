// Package check is the shared scoring engine used by the health monitor
// and the optimizer: an ordered registry of weighted pass/fail checks, a
// weighted additive score, and a tri-state classification with a critical
// override.
package check

import (
	"time"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/metrics"
)

// Context is the read-only input to a single check evaluation. Checks are
// pure functions of the agent content, its parsed header, and externally
// supplied metrics; they must not mutate agent state.
type Context struct {
	Agent *agent.Agent

	// Metrics for this agent. HasMetrics is false when the collector has
	// no entry, in which case Metrics holds the healthy defaults and
	// metrics-dependent checks must pass.
	Metrics    metrics.Metrics
	HasMetrics bool

	Now time.Time
}

// Result is the outcome of one check category for one agent.
type Result struct {
	Category        string   `json:"category"`
	Passed          bool     `json:"passed"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Func evaluates one category against an agent.
type Func func(Context) Result

// Weight is the static per-category scoring configuration. Weights need
// not sum to 1; each passed category contributes its weight to the score
// independently.
type Weight struct {
	Weight   float64 `yaml:"weight"`
	Critical bool    `yaml:"critical"`
}

// Check pairs a category name with its evaluation function.
type Check struct {
	Category string
	Run      Func
}

// Registry is an ordered set of checks. Evaluation order is the
// registration order and is stable across runs.
type Registry struct {
	checks []Check
}

// NewRegistry returns a registry holding the given checks in order.
func NewRegistry(checks ...Check) *Registry {
	return &Registry{checks: checks}
}

// Register appends a check.
func (r *Registry) Register(c Check) {
	r.checks = append(r.checks, c)
}

// Categories returns the category names in evaluation order.
func (r *Registry) Categories() []string {
	names := make([]string, len(r.checks))
	for i, c := range r.checks {
		names[i] = c.Category
	}
	return names
}

// Evaluate runs every check against the context and returns results keyed
// by category, plus the same results in evaluation order.
func (r *Registry) Evaluate(ctx Context) (map[string]Result, []Result) {
	byName := make(map[string]Result, len(r.checks))
	ordered := make([]Result, 0, len(r.checks))
	for _, c := range r.checks {
		res := c.Run(ctx)
		res.Category = c.Category
		byName[c.Category] = res
		ordered = append(ordered, res)
	}
	return byName, ordered
}
