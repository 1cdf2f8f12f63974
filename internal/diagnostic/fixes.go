package diagnostic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fixKind identifies an auto-repairable issue class.
type fixKind string

const (
	fixMissingFolder fixKind = "missing_folder"
	fixMissingFile   fixKind = "missing_file"
	fixInvalidConfig fixKind = "invalid_config"
	fixPermissions   fixKind = "permission_issue"
	fixBrokenAgent   fixKind = "broken_agent"
)

// foundIssue is a repairable issue recorded during the check phase.
type foundIssue struct {
	Kind   fixKind
	Detail string
}

func (r *Runner) record(kind fixKind, detail string) {
	r.found = append(r.found, foundIssue{Kind: kind, Detail: detail})
}

const minimalMCPConfig = `{
  "mcpServers": {},
  "version": "1.0.0"
}
`

const basicEnvFile = "# agentdoctor environment variables\nAGENTDOCTOR_ENV=production\n"

// applyFixes walks the issues recorded by the check phase and applies the
// matching repair. Failed fixes are skipped; successes are described for
// the run result.
func (r *Runner) applyFixes() []string {
	var applied []string
	for _, issue := range r.found {
		var desc string
		var err error
		switch issue.Kind {
		case fixMissingFolder:
			desc, err = r.fixMissingFolder(issue.Detail)
		case fixMissingFile:
			desc, err = r.fixMissingFile(issue.Detail)
		case fixInvalidConfig:
			desc, err = r.fixInvalidConfig(issue.Detail)
		case fixPermissions:
			desc, err = r.fixPermissions(issue.Detail)
		case fixBrokenAgent:
			desc, err = r.fixBrokenAgent(issue.Detail)
		default:
			continue
		}
		if err != nil {
			continue
		}
		applied = append(applied, desc)
	}
	return applied
}

func (r *Runner) fixMissingFolder(dir string) (string, error) {
	path := filepath.Join(r.Workspace.Base, dir)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("creating folder %s: %w", dir, err)
	}
	return fmt.Sprintf("Created missing folder: %s", dir), nil
}

// fixMissingFile recreates a missing file from the best available
// template: the env template if present, a minimal agent skeleton for
// agent files, an empty file otherwise.
func (r *Runner) fixMissingFile(rel string) (string, error) {
	path := filepath.Join(r.Workspace.Base, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	switch {
	case rel == ".env":
		content := basicEnvFile
		if data, err := os.ReadFile(filepath.Join(r.Workspace.Base, ".env.template")); err == nil {
			content = string(data)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return "", err
		}
		return "Created .env from template", nil

	case strings.HasPrefix(rel, "agents/"):
		name := strings.TrimSuffix(filepath.Base(rel), ".md")
		content := fmt.Sprintf(`---
name: %s
description: Auto-generated agent for %s operations
model: inherit
color: blue
---

# %s Agent

Auto-generated by the self-diagnostic system.
`, name, name, strings.ToUpper(name))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return "", err
		}
		return fmt.Sprintf("Created agent file: %s", rel), nil

	default:
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return "", err
		}
		return fmt.Sprintf("Created empty file: %s", rel), nil
	}
}

func (r *Runner) fixInvalidConfig(rel string) (string, error) {
	if rel != "mcp/config.json" {
		return "", fmt.Errorf("no fix available for %s", rel)
	}
	path := filepath.Join(r.Workspace.Base, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(minimalMCPConfig), 0644); err != nil {
		return "", err
	}
	return fmt.Sprintf("Reset %s to valid configuration", rel), nil
}

func (r *Runner) fixPermissions(rel string) (string, error) {
	path := filepath.Join(r.Workspace.Base, rel)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	mode := os.FileMode(0644)
	if info.IsDir() {
		mode = 0755
	}
	if err := os.Chmod(path, mode); err != nil {
		return "", err
	}
	return fmt.Sprintf("Fixed permissions for %s", rel), nil
}

// fixBrokenAgent prepends a minimal frontmatter block to an agent file
// that lacks one, backing up the original first.
func (r *Runner) fixBrokenAgent(name string) (string, error) {
	a, err := r.Agents.Load(name)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(a.Content, "---") {
		return "", fmt.Errorf("no fix needed for %s", name)
	}

	frontmatter := fmt.Sprintf(`---
name: %s
description: Agent for %s operations
model: inherit
color: blue
---

`, name, name)

	if _, err := r.Backups.Save(name, "diagnostic_fix", a.Content); err != nil {
		return "", err
	}
	if err := r.Agents.Write(name, frontmatter+a.Content); err != nil {
		return "", err
	}
	return fmt.Sprintf("Fixed configuration for %s.md", name), nil
}
