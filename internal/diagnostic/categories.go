package diagnostic

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"agentdoctor/internal/check"
	"agentdoctor/internal/workspace"
)

// Disk space and log size limits for the performance category.
const (
	diskCriticalGB = 1.0
	diskWarningGB  = 5.0
	largeLogMB     = 100.0
)

// essentialAgents must exist in every workspace.
var essentialAgents = []string{"master.md", "orchestrator.md"}

// checkStructure verifies the required workspace directories exist.
func (r *Runner) checkStructure() CategoryResult {
	res := CategoryResult{Status: check.Healthy}
	for _, dir := range workspace.RequiredDirs() {
		path := filepath.Join(r.Workspace.Base, dir)
		if _, err := os.Stat(path); err != nil {
			res.Status = check.Critical
			res.Issues = append(res.Issues, fmt.Sprintf("Missing folder: %s", dir))
			r.record(fixMissingFolder, dir)
		}
	}
	return res
}

// checkAgents verifies the essential agents exist and every agent file
// opens and begins with a frontmatter delimiter.
func (r *Runner) checkAgents() CategoryResult {
	res := CategoryResult{Status: check.Healthy}

	if _, err := os.Stat(r.Workspace.AgentsDir()); err != nil {
		res.Status = check.Critical
		res.Issues = append(res.Issues, "Agents folder missing")
		for _, name := range essentialAgents {
			r.record(fixMissingFile, filepath.Join("agents", name))
		}
		return res
	}

	for _, name := range essentialAgents {
		if _, err := os.Stat(filepath.Join(r.Workspace.AgentsDir(), name)); err != nil {
			res.Status = check.Critical
			res.Issues = append(res.Issues, fmt.Sprintf("Essential agent missing: %s", name))
			r.record(fixMissingFile, filepath.Join("agents", name))
		}
	}

	names, err := r.Agents.Names()
	if err != nil {
		return res
	}
	for _, name := range names {
		a, err := r.Agents.Load(name)
		if err != nil {
			res.Status = worseOf(res.Status, check.Warning)
			res.Issues = append(res.Issues, fmt.Sprintf("Cannot read agent: %s.md", name))
			continue
		}
		if !strings.HasPrefix(a.Content, "---") {
			res.Status = worseOf(res.Status, check.Warning)
			res.Issues = append(res.Issues, fmt.Sprintf("Invalid configuration: %s.md", name))
			r.record(fixBrokenAgent, name)
		}
	}
	return res
}

// checkConfiguration validates the env file and the dependency config.
func (r *Runner) checkConfiguration() CategoryResult {
	res := CategoryResult{Status: check.Healthy}

	if _, err := os.Stat(r.Workspace.EnvFile()); err != nil {
		res.Status = check.Warning
		res.Issues = append(res.Issues, "Environment file (.env) missing")
		r.record(fixMissingFile, ".env")
	}

	if data, err := os.ReadFile(r.Workspace.MCPConfig()); err == nil {
		var cfg interface{}
		if err := json.Unmarshal(data, &cfg); err != nil {
			res.Status = check.Critical
			res.Issues = append(res.Issues, "MCP configuration is not valid JSON")
			r.record(fixInvalidConfig, "mcp/config.json")
		} else if _, ok := cfg.(map[string]interface{}); !ok {
			res.Status = worseOf(res.Status, check.Warning)
			res.Issues = append(res.Issues, "Invalid MCP configuration format")
			r.record(fixInvalidConfig, "mcp/config.json")
		}
	}
	return res
}

// checkDependencies verifies external inputs the engines depend on.
// Optional command-line tools are probed but their absence is not an
// issue; a metrics file that exists but is not valid JSON is.
func (r *Runner) checkDependencies() CategoryResult {
	res := CategoryResult{Status: check.Healthy}

	res.Tools = make(map[string]bool, 3)
	for _, tool := range []string{"git", "docker", "kubectl"} {
		// Optional tooling: availability is recorded, absence is not an issue.
		_, err := exec.LookPath(tool)
		res.Tools[tool] = err == nil
	}

	if data, err := os.ReadFile(r.Workspace.MetricsFile()); err == nil {
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			res.Status = check.Warning
			res.Issues = append(res.Issues, "Metrics file is not valid JSON")
		}
	}
	return res
}

// checkPermissions verifies write access on the mutable directories.
func (r *Runner) checkPermissions() CategoryResult {
	res := CategoryResult{Status: check.Healthy}
	for _, dir := range []string{"data", "agents", "scripts"} {
		path := filepath.Join(r.Workspace.Base, dir)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if syscall.Access(path, 0x2) != nil { // W_OK
			res.Status = check.Critical
			res.Issues = append(res.Issues, fmt.Sprintf("No write permission: %s", dir))
			r.record(fixPermissions, dir)
		}
	}
	return res
}

// checkPerformance watches free disk space and oversized log files.
func (r *Runner) checkPerformance() CategoryResult {
	res := CategoryResult{Status: check.Healthy}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(r.Workspace.Base, &stat); err == nil {
		freeGB := float64(stat.Bavail) * float64(stat.Bsize) / (1 << 30)
		if freeGB < diskCriticalGB {
			res.Status = check.Critical
			res.Issues = append(res.Issues, fmt.Sprintf("Low disk space: %.2f GB free", freeGB))
		} else if freeGB < diskWarningGB {
			res.Status = check.Warning
			res.Issues = append(res.Issues, fmt.Sprintf("Disk space warning: %.2f GB free", freeGB))
		}
	}

	_ = filepath.WalkDir(r.Workspace.DataDir(), func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		sizeMB := float64(info.Size()) / (1 << 20)
		if sizeMB > largeLogMB {
			res.Status = worseOf(res.Status, check.Warning)
			res.Issues = append(res.Issues, fmt.Sprintf("Large file: %s (%.1f MB)", d.Name(), sizeMB))
		}
		return nil
	})
	return res
}

// checkSecurity verifies the env file is ignored by version control.
func (r *Runner) checkSecurity() CategoryResult {
	res := CategoryResult{Status: check.Healthy}

	if _, err := os.Stat(r.Workspace.EnvFile()); err != nil {
		return res
	}
	gitignore := filepath.Join(filepath.Dir(r.Workspace.Base), ".gitignore")
	data, err := os.ReadFile(gitignore)
	if err != nil {
		return res
	}
	if !strings.Contains(string(data), ".env") {
		res.Status = check.Critical
		res.Issues = append(res.Issues, ".env file not in .gitignore")
	}
	return res
}

// checkIntegrity flags essential agents that look truncated.
func (r *Runner) checkIntegrity() CategoryResult {
	res := CategoryResult{Status: check.Healthy}
	for _, name := range essentialAgents {
		path := filepath.Join(r.Workspace.AgentsDir(), name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if len(data) < 100 {
			res.Status = check.Warning
			res.Issues = append(res.Issues, fmt.Sprintf("Possibly corrupted file: agents/%s", name))
		}
	}
	return res
}

func worseOf(a, b check.Level) check.Level {
	return check.Worse(a, b)
}
