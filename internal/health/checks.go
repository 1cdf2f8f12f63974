// Package health implements the agent health engine: six weighted checks
// over each agent file and its collector metrics, a 0-100 additive score
// classified healthy/warning/critical, and an auto-repair catalog for the
// issues the checks can detect.
package health

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/check"
	"agentdoctor/internal/workspace"
)

// Check categories, in evaluation order.
const (
	CategoryConfigValid     = "config_valid"
	CategoryDependenciesMet = "dependencies_met"
	CategoryPerformanceOK   = "performance_ok"
	CategoryNoErrors        = "no_errors"
	CategoryRecentlyUpdated = "recently_updated"
	CategoryVersionCurrent  = "version_current"
)

// DefaultWeights is the health scoring policy. Weights sum to 1.0 here,
// but the scoring engine does not require that.
func DefaultWeights() map[string]check.Weight {
	return map[string]check.Weight{
		CategoryConfigValid:     {Weight: 0.3, Critical: true},
		CategoryDependenciesMet: {Weight: 0.2, Critical: true},
		CategoryPerformanceOK:   {Weight: 0.2, Critical: false},
		CategoryNoErrors:        {Weight: 0.15, Critical: false},
		CategoryRecentlyUpdated: {Weight: 0.1, Critical: false},
		CategoryVersionCurrent:  {Weight: 0.05, Critical: false},
	}
}

// Performance limits for the metrics-dependent checks.
const (
	maxResponseTime = 5.0
	minSuccessRate  = 0.9
	maxErrorRate    = 0.1
	staleAfterDays  = 30
)

var versionPattern = regexp.MustCompile(`version:\s*([^\n]+)`)

// newChecks builds the health check registry. Checks that read workspace
// files (dependency config, env file) fail open when those files are
// absent or unreadable.
func newChecks(ws *workspace.Workspace) *check.Registry {
	return check.NewRegistry(
		check.Check{Category: CategoryConfigValid, Run: checkConfiguration},
		check.Check{Category: CategoryDependenciesMet, Run: checkDependencies(ws)},
		check.Check{Category: CategoryPerformanceOK, Run: checkPerformance},
		check.Check{Category: CategoryNoErrors, Run: checkErrorRate},
		check.Check{Category: CategoryRecentlyUpdated, Run: checkLastUpdate},
		check.Check{Category: CategoryVersionCurrent, Run: checkVersion},
	)
}

// checkConfiguration validates the frontmatter block and its required
// fields. A malformed header is a failed check, not a fatal error.
func checkConfiguration(ctx check.Context) check.Result {
	content := ctx.Agent.Content
	if !strings.HasPrefix(content, "---") {
		return check.Result{
			Issues:          []string{"Missing YAML frontmatter"},
			Recommendations: []string{"Add proper YAML frontmatter to agent file"},
		}
	}

	header, err := ctx.Agent.ParseHeader()
	if err != nil {
		var malformed *agent.MalformedHeaderError
		if errors.As(err, &malformed) && malformed.Reason == "invalid YAML" {
			return check.Result{
				Issues:          []string{fmt.Sprintf("Configuration parsing error: %v", malformed.Err)},
				Recommendations: []string{"Fix YAML syntax errors in configuration"},
			}
		}
		return check.Result{
			Issues:          []string{"Invalid frontmatter format"},
			Recommendations: []string{"Fix YAML frontmatter formatting"},
		}
	}

	if header.Name == "" {
		return check.Result{
			Issues:          []string{"Missing required field: name"},
			Recommendations: []string{"Add 'name' to agent configuration"},
		}
	}
	if header.Description == "" {
		return check.Result{
			Issues:          []string{"Missing required field: description"},
			Recommendations: []string{"Add 'description' to agent configuration"},
		}
	}

	return check.Result{Passed: true}
}

// checkDependencies verifies that the agent's external dependencies are
// available: a dependency config that references the agent satisfies the
// check outright, otherwise the workspace env file must exist. A missing
// or unreadable dependency config is not an error.
func checkDependencies(ws *workspace.Workspace) check.Func {
	return func(ctx check.Context) check.Result {
		if data, err := os.ReadFile(ws.MCPConfig()); err == nil {
			var cfg map[string]interface{}
			if json.Unmarshal(data, &cfg) == nil && strings.Contains(string(data), ctx.Agent.Name) {
				return check.Result{Passed: true}
			}
		}

		if _, err := os.Stat(ws.EnvFile()); err != nil {
			return check.Result{
				Issues:          []string{"Environment file missing"},
				Recommendations: []string{"Create .env file with required variables"},
			}
		}
		return check.Result{Passed: true}
	}
}

// checkPerformance applies the response-time and success-rate thresholds.
// No metrics entry means no evidence of a problem: pass.
func checkPerformance(ctx check.Context) check.Result {
	if !ctx.HasMetrics {
		return check.Result{Passed: true}
	}
	if ctx.Metrics.AvgResponseTime > maxResponseTime {
		return check.Result{
			Issues:          []string{"High response time detected"},
			Recommendations: []string{"Optimize agent for better performance"},
		}
	}
	if ctx.Metrics.SuccessRate < minSuccessRate {
		return check.Result{
			Issues:          []string{"Low success rate"},
			Recommendations: []string{"Investigate and fix failure causes"},
		}
	}
	return check.Result{Passed: true}
}

// checkErrorRate fails above a 10% error rate.
func checkErrorRate(ctx check.Context) check.Result {
	if !ctx.HasMetrics {
		return check.Result{Passed: true}
	}
	if ctx.Metrics.ErrorRate > maxErrorRate {
		return check.Result{
			Issues:          []string{fmt.Sprintf("High error rate: %.1f%%", ctx.Metrics.ErrorRate*100)},
			Recommendations: []string{"Add better error handling"},
		}
	}
	return check.Result{Passed: true}
}

// checkLastUpdate fails when the agent file has not been touched in over
// thirty days.
func checkLastUpdate(ctx check.Context) check.Result {
	if ctx.Agent.ModTime.IsZero() {
		return check.Result{Passed: true}
	}
	days := int(ctx.Now.Sub(ctx.Agent.ModTime).Hours() / 24)
	if days > staleAfterDays {
		return check.Result{
			Issues:          []string{fmt.Sprintf("Agent not updated in %d days", days)},
			Recommendations: []string{"Review and update agent configuration"},
		}
	}
	return check.Result{Passed: true}
}

// checkVersion requires a version field anywhere in the content. A version
// that is present but not valid semver still passes, with a
// recommendation to normalize it.
func checkVersion(ctx check.Context) check.Result {
	m := versionPattern.FindStringSubmatch(ctx.Agent.Content)
	if m == nil {
		return check.Result{
			Issues:          []string{"No version information"},
			Recommendations: []string{"Add version tracking to agent"},
		}
	}

	version := strings.TrimSpace(m[1])
	if !semver.IsValid("v" + strings.TrimPrefix(version, "v")) {
		return check.Result{
			Passed:          true,
			Recommendations: []string{fmt.Sprintf("Version %q is not semver; consider MAJOR.MINOR.PATCH", version)},
		}
	}
	return check.Result{Passed: true}
}
