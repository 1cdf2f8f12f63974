// Package workspace resolves the on-disk layout of an agentdoctor
// workspace: where agents, metrics, logs, and backups live relative to a
// single base directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the directory layout rooted at Base.
type Workspace struct {
	Base string
}

// New returns a workspace rooted at base.
func New(base string) *Workspace {
	return &Workspace{Base: base}
}

func (w *Workspace) AgentsDir() string { return filepath.Join(w.Base, "agents") }
func (w *Workspace) DataDir() string { return filepath.Join(w.Base, "data") }
func (w *Workspace) BackupsDir() string { return filepath.Join(w.Base, "data", "backups") }
func (w *Workspace) MCPConfig() string { return filepath.Join(w.Base, "mcp", "config.json") }
func (w *Workspace) EnvFile() string { return filepath.Join(w.Base, ".env") }
func (w *Workspace) TemplatesDir() string { return filepath.Join(w.Base, "templates") }

func (w *Workspace) MetricsFile() string { return filepath.Join(w.DataDir(), "agent_metrics.json") }
func (w *Workspace) RegistryFile() string { return filepath.Join(w.DataDir(), "agent_registry.json") }
func (w *Workspace) HealthLog() string { return filepath.Join(w.DataDir(), "health_log.json") }
func (w *Workspace) AlertsLog() string { return filepath.Join(w.DataDir(), "health_alerts.json") }
func (w *Workspace) OptimizationLog() string { return filepath.Join(w.DataDir(), "optimization_log.json") }
func (w *Workspace) DiagnosticLog() string { return filepath.Join(w.DataDir(), "diagnostic_log.json") }
func (w *Workspace) SystemStateFile() string { return filepath.Join(w.DataDir(), "system_state.json") }
func (w *Workspace) SpawnLog() string { return filepath.Join(w.DataDir(), "spawn_log.json") }
func (w *Workspace) ConfigFile() string { return filepath.Join(w.Base, "agentdoctor.yaml") }
func (w *Workspace) LockFile() string { return filepath.Join(w.DataDir(), ".agentdoctor-lock") }
func (w *Workspace) HookLog() string { return filepath.Join(w.Base, "logs", "pre-save-hook.log") }

// RequiredDirs lists the directories a healthy workspace must contain,
// relative to the base. The self-diagnostic structure check walks this list.
func RequiredDirs() []string {
	return []string{
		"agents",
		"data",
		"data/backups",
		"examples",
		"mcp",
		"scripts",
		"templates",
	}
}

// Ensure creates the data and backup directories if missing. Agent and
// template directories are the diagnostic engine's responsibility.
func (w *Workspace) Ensure() error {
	for _, dir := range []string{w.DataDir(), w.BackupsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}
