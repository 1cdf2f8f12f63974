package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Files excluded from discovery. The template is scaffolding, not an agent.
var excluded = map[string]bool{
	"AGENT_TEMPLATE.md": true,
	"README.md":         true,
}

// Store discovers and persists agent files under a single directory.
// Agents are discovered, never created or deleted, by the monitoring
// engines; only their content is mutated.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Names returns the names of all discovered agents, sorted. Read failures
// on individual files are deferred to Load so one broken agent cannot hide
// the rest of the fleet.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		// An absent directory holds zero agents; the self-diagnostic
		// reports and repairs the missing folder.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading agents directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") || excluded[entry.Name()] {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads a single agent by name.
func (s *Store) Load(name string) (*Agent, error) {
	path := filepath.Join(s.Dir, name+".md")
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read agent file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read agent file: %w", err)
	}
	return &Agent{
		Name:    name,
		Path:    path,
		Content: string(data),
		ModTime: info.ModTime(),
	}, nil
}

// Exists reports whether an agent file is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.Dir, name+".md"))
	return err == nil
}

// Write replaces an agent's content atomically (temp file + rename) so an
// interrupted run never leaves a half-written agent behind.
func (s *Store) Write(name, content string) error {
	path := filepath.Join(s.Dir, name+".md")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing agent file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing agent file: %w", err)
	}
	return nil
}
