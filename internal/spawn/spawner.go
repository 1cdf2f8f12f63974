// Package spawn creates new agent files on demand: it detects from a
// plain-language request whether a specialist agent is needed, synthesizes
// the agent file from the domain template, registers it in the agent
// registry, and records the spawn in a bounded log.
package spawn

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"agentdoctor/internal/agent"
	"agentdoctor/internal/history"
	"agentdoctor/internal/lockfile"
	"agentdoctor/internal/registry"
	"agentdoctor/internal/workspace"
)

// LogCap bounds the spawn log to the 100 most recent spawn events.
const LogCap = 100

const spawnedBy = "Dynamic Agent Spawner"

// Detection is the outcome of analyzing a request.
type Detection struct {
	Needed       bool
	Domain       string
	AgentName    string
	Keyword      string
	Capabilities []string
}

// Spec describes the agent to create.
type Spec struct {
	AgentName    string
	Domain       string
	Capabilities []string
}

// LogEntry records one spawn event.
type LogEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	AgentName    string    `json:"agent_name"`
	Domain       string    `json:"domain"`
	Trigger      string    `json:"trigger"`
	Capabilities []string  `json:"capabilities"`
}

var explicitRequest = regexp.MustCompile(`(?:create|need|want|require)\s+(?:a\s+|an\s+)?(\w+)\s+agent`)

// Spawner creates agents and maintains the registry and spawn log.
type Spawner struct {
	Workspace *workspace.Workspace
	Agents    *agent.Store
	Registry  *registry.Repository
	Log       *history.Log[LogEntry]

	now func() time.Time
}

// NewSpawner wires a spawner over the workspace.
func NewSpawner(ws *workspace.Workspace) *Spawner {
	return &Spawner{
		Workspace: ws,
		Agents:    agent.NewStore(ws.AgentsDir()),
		Registry:  registry.NewRepository(ws.RegistryFile()),
		Log:       history.NewLog[LogEntry](ws.SpawnLog(), "spawns", LogCap),
		now:       time.Now,
	}
}

// Detect analyzes a request and reports whether a new agent is needed.
// Keyword matches against the domain table win; an explicit
// "create/need a <thing> agent" phrasing falls back to a custom domain
// with inferred capabilities. Requests covered by an already registered
// agent need nothing.
func (s *Spawner) Detect(request string) (Detection, error) {
	reg, err := s.Registry.Load()
	if err != nil {
		return Detection{}, err
	}

	lower := strings.ToLower(request)
	for _, domain := range Domains {
		for _, keyword := range domain.Keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			name := strings.ReplaceAll(keyword, " ", "-")
			if _, exists := reg.Agents[name]; exists {
				continue
			}
			return Detection{
				Needed:       true,
				Domain:       domain.Name,
				AgentName:    name,
				Keyword:      keyword,
				Capabilities: domain.Capabilities,
			}, nil
		}
	}

	if m := explicitRequest.FindStringSubmatch(lower); m != nil {
		name := m[1]
		if _, exists := reg.Agents[name]; !exists {
			return Detection{
				Needed:       true,
				Domain:       "custom",
				AgentName:    name,
				Keyword:      name,
				Capabilities: InferCapabilities(name),
			}, nil
		}
	}

	return Detection{}, nil
}

// InferCapabilities derives a generic capability set for an agent type
// outside the known domains.
func InferCapabilities(agentType string) []string {
	return []string{
		agentType + " configuration",
		agentType + " optimization",
		agentType + " monitoring",
		agentType + " troubleshooting",
		"automation",
	}
}

// Spawn creates the agent file, registers it, and logs the event. The
// registry save and spawn-log append run under the workspace lock so the
// log's cap holds across concurrent processes.
func (s *Spawner) Spawn(spec Spec) (*registry.Entry, error) {
	if err := s.Workspace.Ensure(); err != nil {
		return nil, err
	}
	release, err := lockfile.Acquire(s.Workspace.LockFile(), "spawner")
	if err != nil {
		return nil, fmt.Errorf("acquiring workspace lock: %w", err)
	}
	defer func() { _ = release() }()

	reg, err := s.Registry.Load()
	if err != nil {
		return nil, err
	}

	cfg := agentConfig{
		Name:         spec.AgentName,
		Domain:       spec.Domain,
		Description:  fmt.Sprintf("Dynamically spawned agent for %s operations", spec.AgentName),
		Capabilities: spec.Capabilities,
		Model:        "inherit",
		Color:        selectColor(reg),
		Version:      "1.0.0",
		CreatedAt:    s.now().Format(time.RFC3339),
	}

	content, err := renderAgent(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering agent template: %w", err)
	}
	if err := s.Agents.Write(cfg.Name, content); err != nil {
		return nil, err
	}

	entry := registry.Entry{
		Description:  cfg.Description,
		Capabilities: cfg.Capabilities,
		Status:       "active",
		Version:      cfg.Version,
		CreatedAt:    cfg.CreatedAt,
		SpawnedBy:    spawnedBy,
		Domain:       cfg.Domain,
		Color:        cfg.Color,
	}
	reg.Register(cfg.Name, entry)
	if err := s.Registry.Save(reg); err != nil {
		return nil, err
	}

	if _, err := s.Log.Append(LogEntry{
		Timestamp:    s.now(),
		AgentName:    cfg.Name,
		Domain:       cfg.Domain,
		Trigger:      "user_request",
		Capabilities: cfg.Capabilities,
	}); err != nil {
		return nil, err
	}

	return &entry, nil
}

// CheckAndSpawn is the main entry point: detect, then spawn if needed.
func (s *Spawner) CheckAndSpawn(request string) (*registry.Entry, Detection, error) {
	detection, err := s.Detect(request)
	if err != nil || !detection.Needed {
		return nil, detection, err
	}
	entry, err := s.Spawn(Spec{
		AgentName:    detection.AgentName,
		Domain:       detection.Domain,
		Capabilities: detection.Capabilities,
	})
	return entry, detection, err
}

// selectColor picks the first palette color not already used by a
// registered agent, falling back to blue when the palette is exhausted.
func selectColor(reg *registry.Registry) string {
	used := reg.UsedColors()
	for _, c := range colorPool {
		if !used[c] {
			return c
		}
	}
	return "blue"
}
