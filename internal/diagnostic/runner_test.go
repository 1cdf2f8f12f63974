package diagnostic

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdoctor/internal/check"
	"agentdoctor/internal/workspace"
)

const essentialContent = `---
name: master
description: Supreme orchestrator for the agent ecosystem
model: inherit
color: gold
version: 1.0.0
---

# MASTER Agent

Coordinates every other agent in the workspace.
`

// healthyWorkspace builds a workspace that passes every category.
func healthyWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	ws := workspace.New(filepath.Join(root, ".claude"))

	for _, dir := range workspace.RequiredDirs() {
		require.NoError(t, os.MkdirAll(filepath.Join(ws.Base, dir), 0755))
	}
	for _, name := range essentialAgents {
		require.NoError(t, os.WriteFile(
			filepath.Join(ws.AgentsDir(), name),
			[]byte(strings.Replace(essentialContent, "master", strings.TrimSuffix(name, ".md"), 2)), 0644))
	}
	require.NoError(t, os.WriteFile(ws.EnvFile(), []byte("ENV=test\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(".env\n"), 0644))
	require.NoError(t, os.WriteFile(ws.MCPConfig(), []byte(`{"mcpServers": {}}`), 0644))
	return ws
}

func TestRunHealthyWorkspace(t *testing.T) {
	ws := healthyWorkspace(t)

	result, err := NewRunner(ws).Run(false)
	require.NoError(t, err)
	assert.Equal(t, check.Healthy, result.OverallHealth)
	assert.Empty(t, result.Issues)
	assert.Len(t, result.Checks, len(Categories()))
}

func TestRunRepairsFreshWorkspace(t *testing.T) {
	base := filepath.Join(t.TempDir(), ".claude")

	result, err := NewRunner(workspace.New(base)).Run(true)
	require.NoError(t, err)
	assert.Equal(t, check.Critical, result.Checks["structure"].Status)

	for _, dir := range workspace.RequiredDirs() {
		assert.DirExists(t, filepath.Join(base, dir), dir)
	}
	for _, name := range essentialAgents {
		assert.FileExists(t, filepath.Join(base, "agents", name), name)
	}
}

func TestMissingFolderDetectedAndFixed(t *testing.T) {
	ws := healthyWorkspace(t)
	require.NoError(t, os.RemoveAll(ws.TemplatesDir()))

	runner := NewRunner(ws)
	result, err := runner.Run(false)
	require.NoError(t, err)
	assert.Equal(t, check.Critical, result.Checks["structure"].Status)
	assert.Contains(t, result.Checks["structure"].Issues, "Missing folder: templates")

	result, err = runner.Run(true)
	require.NoError(t, err)
	assert.Contains(t, result.FixesApplied, "Created missing folder: templates")
	assert.DirExists(t, ws.TemplatesDir())

	result, err = runner.Run(false)
	require.NoError(t, err)
	assert.Equal(t, check.Healthy, result.Checks["structure"].Status)
}

func TestEssentialAgentRecreated(t *testing.T) {
	ws := healthyWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(ws.AgentsDir(), "orchestrator.md")))

	result, err := NewRunner(ws).Run(true)
	require.NoError(t, err)
	assert.Contains(t, result.Checks["agents"].Issues, "Essential agent missing: orchestrator.md")
	assert.FileExists(t, filepath.Join(ws.AgentsDir(), "orchestrator.md"))

	data, err := os.ReadFile(filepath.Join(ws.AgentsDir(), "orchestrator.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---"))
}

func TestBrokenAgentRepairedWithBackup(t *testing.T) {
	ws := healthyWorkspace(t)
	broken := "# TERRA Agent\n\nNo frontmatter here.\n"
	require.NoError(t, os.WriteFile(filepath.Join(ws.AgentsDir(), "terra.md"), []byte(broken), 0644))

	result, err := NewRunner(ws).Run(true)
	require.NoError(t, err)
	assert.Contains(t, result.Checks["agents"].Issues, "Invalid configuration: terra.md")
	assert.Contains(t, result.FixesApplied, "Fixed configuration for terra.md")

	data, err := os.ReadFile(filepath.Join(ws.AgentsDir(), "terra.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---"))
	assert.Contains(t, string(data), broken)

	backups, err := os.ReadDir(ws.BackupsDir())
	require.NoError(t, err)
	require.Len(t, backups, 1)
	original, err := os.ReadFile(filepath.Join(ws.BackupsDir(), backups[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, broken, string(original))
}

func TestInvalidMCPConfigReset(t *testing.T) {
	ws := healthyWorkspace(t)
	require.NoError(t, os.WriteFile(ws.MCPConfig(), []byte("{broken"), 0644))

	result, err := NewRunner(ws).Run(true)
	require.NoError(t, err)
	assert.Contains(t, result.Checks["configuration"].Issues, "MCP configuration is not valid JSON")
	assert.Contains(t, result.FixesApplied, "Reset mcp/config.json to valid configuration")

	data, err := os.ReadFile(ws.MCPConfig())
	require.NoError(t, err)
	assert.JSONEq(t, `{"mcpServers": {}, "version": "1.0.0"}`, string(data))
}

func TestMissingEnvFileCreated(t *testing.T) {
	ws := healthyWorkspace(t)
	require.NoError(t, os.Remove(ws.EnvFile()))

	result, err := NewRunner(ws).Run(true)
	require.NoError(t, err)
	assert.Contains(t, result.Checks["configuration"].Issues, "Environment file (.env) missing")
	assert.Contains(t, result.FixesApplied, "Created .env from template")
	assert.FileExists(t, ws.EnvFile())
}

func TestEnvNotGitignoredIsCritical(t *testing.T) {
	ws := healthyWorkspace(t)
	gitignore := filepath.Join(filepath.Dir(ws.Base), ".gitignore")
	require.NoError(t, os.WriteFile(gitignore, []byte("node_modules/\n"), 0644))

	result, err := NewRunner(ws).Run(false)
	require.NoError(t, err)
	assert.Equal(t, check.Critical, result.Checks["security"].Status)
	assert.Contains(t, result.Checks["security"].Issues, ".env file not in .gitignore")
}

func TestTruncatedEssentialAgentFlagged(t *testing.T) {
	ws := healthyWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(ws.AgentsDir(), "master.md"), []byte("---\nname: m\n---\n"), 0644))

	result, err := NewRunner(ws).Run(false)
	require.NoError(t, err)
	assert.Contains(t, result.Checks["integrity"].Issues, "Possibly corrupted file: agents/master.md")
}

func TestCorruptMetricsFileIsWarning(t *testing.T) {
	ws := healthyWorkspace(t)
	require.NoError(t, os.WriteFile(ws.MetricsFile(), []byte("{broken"), 0644))

	result, err := NewRunner(ws).Run(false)
	require.NoError(t, err)
	assert.Equal(t, check.Warning, result.Checks["dependencies"].Status)
	assert.Contains(t, result.Checks["dependencies"].Issues, "Metrics file is not valid JSON")
}

func TestDependenciesRecordToolAvailability(t *testing.T) {
	ws := healthyWorkspace(t)

	result, err := NewRunner(ws).Run(false)
	require.NoError(t, err)
	tools := result.Checks["dependencies"].Tools
	require.Len(t, tools, 3)
	for _, tool := range []string{"git", "docker", "kubectl"} {
		assert.Contains(t, tools, tool)
	}
}

func TestOverallHealthThresholds(t *testing.T) {
	mk := func(levels ...check.Level) RunResult {
		result := RunResult{Checks: map[string]CategoryResult{}}
		for i, l := range levels {
			result.Checks[Categories()[i]] = CategoryResult{Status: l}
		}
		return result
	}

	assert.Equal(t, check.Healthy, overallHealth(mk(check.Healthy, check.Healthy)))
	assert.Equal(t, check.Healthy, overallHealth(mk(check.Warning, check.Warning)))
	assert.Equal(t, check.Warning, overallHealth(mk(check.Warning, check.Warning, check.Warning)))
	assert.Equal(t, check.Critical, overallHealth(mk(check.Critical, check.Healthy)))
}

func TestRunPersistsStateAndLog(t *testing.T) {
	ws := healthyWorkspace(t)
	runner := NewRunner(ws)

	first, err := runner.Run(false)
	require.NoError(t, err)

	state, ok, err := runner.CurrentState()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.OverallHealth, state.OverallHealth)
	assert.NotEmpty(t, state.SystemInfo.Platform)

	_, err = runner.Run(false)
	require.NoError(t, err)
	n, err := runner.Log.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
