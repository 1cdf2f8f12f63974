package spawn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/lockfile"
	"agentdoctor/internal/registry"
	"agentdoctor/internal/workspace"
)

func newTestSpawner(t *testing.T) (*Spawner, *workspace.Workspace) {
	t.Helper()
	ws := workspace.New(t.TempDir())
	require.NoError(t, os.MkdirAll(ws.AgentsDir(), 0755))
	require.NoError(t, ws.Ensure())
	return NewSpawner(ws), ws
}

func TestDetectDomainKeyword(t *testing.T) {
	s, _ := newTestSpawner(t)

	d, err := s.Detect("we need help tuning postgres queries")
	require.NoError(t, err)
	assert.True(t, d.Needed)
	assert.Equal(t, "database", d.Domain)
	assert.Equal(t, "postgres", d.AgentName)
	assert.Contains(t, d.Capabilities, "query optimization")
}

func TestDetectMultiWordKeyword(t *testing.T) {
	s, _ := newTestSpawner(t)

	d, err := s.Detect("store artifacts in azure blob containers")
	require.NoError(t, err)
	assert.True(t, d.Needed)
	assert.Equal(t, "storage", d.Domain)
	assert.Equal(t, "azure-blob", d.AgentName)
}

func TestDetectExplicitRequest(t *testing.T) {
	s, _ := newTestSpawner(t)

	d, err := s.Detect("please create a nginx agent for me")
	require.NoError(t, err)
	assert.True(t, d.Needed)
	// nginx is a networking keyword, matched before the explicit pattern.
	assert.Equal(t, "networking", d.Domain)

	d, err = s.Detect("I want a foobar agent")
	require.NoError(t, err)
	assert.True(t, d.Needed)
	assert.Equal(t, "custom", d.Domain)
	assert.Equal(t, "foobar", d.AgentName)
	assert.Contains(t, d.Capabilities, "foobar configuration")
}

func TestDetectNothingNeeded(t *testing.T) {
	s, _ := newTestSpawner(t)

	d, err := s.Detect("what is the weather today")
	require.NoError(t, err)
	assert.False(t, d.Needed)
}

func TestDetectSkipsRegisteredAgents(t *testing.T) {
	s, _ := newTestSpawner(t)

	reg := registry.New()
	reg.Register("redis", registry.Entry{Status: "active"})
	require.NoError(t, s.Registry.Save(reg))

	d, err := s.Detect("optimize redis performance")
	require.NoError(t, err)
	assert.False(t, d.Needed)
}

func TestSpawnCreatesAgentRegistersAndLogs(t *testing.T) {
	s, ws := newTestSpawner(t)

	entry, err := s.Spawn(Spec{
		AgentName:    "kafka",
		Domain:       "messaging",
		Capabilities: []string{"message routing", "queue management"},
	})
	require.NoError(t, err)
	assert.Equal(t, "active", entry.Status)
	assert.Equal(t, "messaging", entry.Domain)
	assert.Equal(t, "Dynamic Agent Spawner", entry.SpawnedBy)

	data, err := os.ReadFile(filepath.Join(ws.AgentsDir(), "kafka.md"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "name: kafka")
	assert.Contains(t, content, "# KAFKA Agent")
	assert.Contains(t, content, "**Message Routing**: Enabled and continuously improving")

	// The rendered agent parses cleanly.
	h, err := agent.ParseHeader("kafka", content)
	require.NoError(t, err)
	assert.Equal(t, "kafka", h.Name)
	assert.True(t, h.AutoOptimize)
	assert.Equal(t, "1.0.0", h.Version)

	reg, err := s.Registry.Load()
	require.NoError(t, err)
	require.Contains(t, reg.Agents, "kafka")
	assert.Contains(t, reg.CapabilitiesIndex["message_routing"], "kafka")

	logged, ok, err := s.Log.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "kafka", logged.AgentName)
	assert.Equal(t, "user_request", logged.Trigger)
}

func TestSpawnRespectsWorkspaceLock(t *testing.T) {
	s, ws := newTestSpawner(t)

	release, err := lockfile.Acquire(ws.LockFile(), "health-monitor")
	require.NoError(t, err)
	defer func() { _ = release() }()

	_, err = s.Spawn(Spec{AgentName: "kafka", Domain: "messaging", Capabilities: []string{"x"}})
	var held *lockfile.ErrHeld
	require.ErrorAs(t, err, &held)
	assert.Equal(t, "health-monitor", held.Existing.Holder)
	assert.NoFileExists(t, filepath.Join(ws.AgentsDir(), "kafka.md"))

	require.NoError(t, release())
	_, err = s.Spawn(Spec{AgentName: "kafka", Domain: "messaging", Capabilities: []string{"x"}})
	require.NoError(t, err)
}

func TestSpawnAssignsUnusedColor(t *testing.T) {
	s, _ := newTestSpawner(t)

	first, err := s.Spawn(Spec{AgentName: "one", Domain: "custom", Capabilities: []string{"x"}})
	require.NoError(t, err)
	second, err := s.Spawn(Spec{AgentName: "two", Domain: "custom", Capabilities: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, colorPool[0], first.Color)
	assert.Equal(t, colorPool[1], second.Color)
}

func TestCheckAndSpawn(t *testing.T) {
	s, ws := newTestSpawner(t)

	entry, d, err := s.CheckAndSpawn("need prometheus alerting")
	require.NoError(t, err)
	require.True(t, d.Needed)
	require.NotNil(t, entry)
	assert.Equal(t, "monitoring", d.Domain)
	assert.FileExists(t, filepath.Join(ws.AgentsDir(), "prometheus.md"))

	// Second identical request finds the agent registered and does nothing.
	entry, d, err = s.CheckAndSpawn("need prometheus alerting")
	require.NoError(t, err)
	assert.False(t, d.Needed)
	assert.Nil(t, entry)
}
