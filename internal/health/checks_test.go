package health

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/check"
	"agentdoctor/internal/metrics"
	"agentdoctor/internal/workspace"
)

func ctxFor(content string) check.Context {
	return check.Context{
		Agent: &agent.Agent{Name: "test-agent", Content: content, ModTime: time.Now()},
		Now:   time.Now(),
	}
}

func TestCheckConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		passed  bool
		issue   string
	}{
		{"valid", "---\nname: a\ndescription: b\n---\nbody", true, ""},
		{"headerless", "# Title\nbody", false, "Missing YAML frontmatter"},
		{"bad yaml", "---\nname: [broken\n---\nbody", false, "Configuration parsing error"},
		{"unterminated", "---\nname: a\nno end", false, "Invalid frontmatter format"},
		{"no name", "---\ndescription: b\n---\nbody", false, "Missing required field: name"},
		{"no description", "---\nname: a\n---\nbody", false, "Missing required field: description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := checkConfiguration(ctxFor(tt.content))
			assert.Equal(t, tt.passed, res.Passed)
			if tt.issue != "" {
				require.NotEmpty(t, res.Issues)
				assert.Contains(t, res.Issues[0], tt.issue)
			}
		})
	}
}

func TestCheckDependencies(t *testing.T) {
	ws := workspace.New(t.TempDir())
	run := checkDependencies(ws)

	// Neither MCP config nor env file.
	res := run(ctxFor("body"))
	assert.False(t, res.Passed)
	assert.Contains(t, res.Issues, "Environment file missing")

	// Env file alone satisfies the check.
	require.NoError(t, os.WriteFile(ws.EnvFile(), []byte("X=1\n"), 0644))
	assert.True(t, run(ctxFor("body")).Passed)
}

func TestCheckDependenciesViaMCPConfig(t *testing.T) {
	ws := workspace.New(t.TempDir())
	require.NoError(t, os.MkdirAll(ws.Base+"/mcp", 0755))
	require.NoError(t, os.WriteFile(ws.MCPConfig(),
		[]byte(`{"mcpServers": {"test-agent": {}}}`), 0644))

	// Referenced in the config: passes without an env file.
	assert.True(t, checkDependencies(ws)(ctxFor("body")).Passed)
}

func TestCheckPerformance(t *testing.T) {
	ctx := ctxFor("body")

	// No metrics entry: no evidence of a problem.
	assert.True(t, checkPerformance(ctx).Passed)

	ctx.HasMetrics = true
	ctx.Metrics = metrics.Metrics{AvgResponseTime: 6.0, SuccessRate: 1.0}
	res := checkPerformance(ctx)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Issues, "High response time detected")

	ctx.Metrics = metrics.Metrics{AvgResponseTime: 1.0, SuccessRate: 0.5}
	res = checkPerformance(ctx)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Issues, "Low success rate")

	ctx.Metrics = metrics.Metrics{AvgResponseTime: 1.0, SuccessRate: 0.95}
	assert.True(t, checkPerformance(ctx).Passed)
}

func TestCheckErrorRate(t *testing.T) {
	ctx := ctxFor("body")
	ctx.HasMetrics = true
	ctx.Metrics = metrics.Metrics{ErrorRate: 0.25}

	res := checkErrorRate(ctx)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Issues, "High error rate: 25.0%")

	ctx.Metrics = metrics.Metrics{ErrorRate: 0.05}
	assert.True(t, checkErrorRate(ctx).Passed)
}

func TestCheckLastUpdate(t *testing.T) {
	ctx := ctxFor("body")
	ctx.Agent.ModTime = ctx.Now.Add(-40 * 24 * time.Hour)

	res := checkLastUpdate(ctx)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Issues, "Agent not updated in 40 days")

	ctx.Agent.ModTime = ctx.Now.Add(-24 * time.Hour)
	assert.True(t, checkLastUpdate(ctx).Passed)
}

func TestCheckVersion(t *testing.T) {
	res := checkVersion(ctxFor("body without a version"))
	assert.False(t, res.Passed)
	assert.Contains(t, res.Issues, "No version information")

	assert.True(t, checkVersion(ctxFor("---\nversion: 1.2.3\n---\nbody")).Passed)

	// Present but not semver: passes with a recommendation.
	res = checkVersion(ctxFor("---\nversion: 2026.08.24\n---\nbody"))
	assert.True(t, res.Passed)
	require.NotEmpty(t, res.Recommendations)
	assert.Contains(t, res.Recommendations[0], "not semver")
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range DefaultWeights() {
		sum += w.Weight
	}
	assert.InDelta(t, 1.0, sum, 0.001)
}

// Every repair trigger phrase must be producible by some check, so the
// issue-to-fix coupling cannot silently rot.
func TestRepairTriggersMatchCheckIssues(t *testing.T) {
	headerless := checkConfiguration(ctxFor("# no header"))
	assert.Contains(t, headerless.Issues[0], triggerMissingFrontmatter)

	noVersion := checkVersion(ctxFor("body"))
	assert.Contains(t, noVersion.Issues[0], triggerNoVersion)

	slow := checkPerformance(check.Context{
		Agent:      &agent.Agent{Name: "x", Content: "body"},
		HasMetrics: true,
		Metrics:    metrics.Metrics{AvgResponseTime: 9, SuccessRate: 1},
	})
	assert.Contains(t, slow.Issues[0], triggerHighResponseTime)
}

func TestRepairCatalogIdempotent(t *testing.T) {
	catalog := repairCatalog("terra", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	issues := []string{"Missing YAML frontmatter", "No version information", "High response time detected"}

	once, applied := catalog.Remediate("# TERRA\nbody", issues)
	require.Len(t, applied, 3)
	assert.Contains(t, once, "name: terra")
	assert.Contains(t, once, "version: 2026.08.24")
	assert.Contains(t, once, "caching:")

	twice, appliedAgain := catalog.Remediate(once, issues)
	assert.Equal(t, once, twice)
	assert.Empty(t, appliedAgain)
}
