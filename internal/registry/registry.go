// Package registry persists the agent registry: the shared record of
// every known agent, its capabilities, and its rolled-up performance.
// The registry is an explicit load/save repository passed into the
// components that need it; there is no ambient global state.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Performance is the rolled-up execution record for one agent.
type Performance struct {
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseTime float64 `json:"avg_response_time"`
	TotalExecutions int     `json:"total_executions"`
}

// Entry is one agent's registry record.
type Entry struct {
	Description  string      `json:"description"`
	Capabilities []string    `json:"capabilities"`
	Status       string      `json:"status"`
	Version      string      `json:"version"`
	CreatedAt    string      `json:"created_at"`
	SpawnedBy    string      `json:"spawned_by,omitempty"`
	Domain       string      `json:"domain"`
	Color        string      `json:"color"`
	Performance  Performance `json:"performance"`
}

// Registry is the full registry document.
type Registry struct {
	Agents            map[string]Entry    `json:"agents"`
	CapabilitiesIndex map[string][]string `json:"capabilities_index"`
	RegistryVersion   string              `json:"registry_version"`
	LastUpdated       string              `json:"last_updated,omitempty"`
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		Agents:            make(map[string]Entry),
		CapabilitiesIndex: make(map[string][]string),
		RegistryVersion:   "1.0.0",
	}
}

// Register adds or replaces an agent entry and indexes its capabilities.
func (r *Registry) Register(name string, entry Entry) {
	r.Agents[name] = entry
	for _, capability := range entry.Capabilities {
		key := strings.ToLower(strings.ReplaceAll(capability, " ", "_"))
		if !contains(r.CapabilitiesIndex[key], name) {
			r.CapabilitiesIndex[key] = append(r.CapabilitiesIndex[key], name)
		}
	}
}

// ActiveCount returns the number of agents with status "active".
func (r *Registry) ActiveCount() int {
	n := 0
	for _, entry := range r.Agents {
		if entry.Status == "active" {
			n++
		}
	}
	return n
}

// Names returns all registered agent names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Agents))
	for name := range r.Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UsedColors returns the set of colors already assigned to agents.
func (r *Registry) UsedColors() map[string]bool {
	used := make(map[string]bool)
	for _, entry := range r.Agents {
		if entry.Color != "" {
			used[entry.Color] = true
		}
	}
	return used
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Repository loads and saves the registry file.
type Repository struct {
	Path string
}

// NewRepository returns a repository backed by the given file.
func NewRepository(path string) *Repository {
	return &Repository{Path: path}
}

// Load reads the registry, returning an empty one when the file is absent.
func (r *Repository) Load() (*Registry, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	reg := New()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}
	if reg.Agents == nil {
		reg.Agents = make(map[string]Entry)
	}
	if reg.CapabilitiesIndex == nil {
		reg.CapabilitiesIndex = make(map[string][]string)
	}
	return reg, nil
}

// Save writes the registry atomically, stamping last_updated.
func (r *Repository) Save(reg *Registry) error {
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing registry: %w", err)
	}

	tmp := r.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing registry: %w", err)
	}
	return nil
}
