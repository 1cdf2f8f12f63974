// Package pathguard keeps user files out of the workspace-internal
// directory tree. Agent workflows run it before every save: internal
// artifacts (agent definitions, scripts, configs) belong under the
// workspace base, user deliverables belong in the project.
package pathguard

import (
	"path/filepath"
	"strings"
)

// internalDirs lists workspace subdirectories that legitimately hold
// internal files, with the extensions allowed in each. A nil set means
// any extension.
var internalDirs = map[string]map[string]bool{
	"agents":    {".md": true},
	"scripts":   {".sh": true, ".go": true},
	"mcp":       {".json": true},
	"templates": nil,
	"cache":     nil,
	"logs":      nil,
}

// userLocations maps a detected file type to its proper directory
// relative to the project root.
var userLocations = map[string]string{
	"terraform":      "terraform",
	"kubernetes":     "kubernetes",
	"cloudformation": "cloudformation",
	"docker":         "docker",
	"cicd":           ".gitlab-ci",
	"config":         "config",
	"default":        "",
}

var kubernetesNameHints = []string{"k8s", "kubernetes", "deployment", "service", "pod"}

// Validator decides whether a path is a legitimate internal operation
// or a user file that must be redirected out of the workspace.
type Validator struct {
	// WorkspaceName is the base directory name of the workspace,
	// e.g. ".claude" or ".agentdoctor".
	WorkspaceName string
	// ProjectRoot anchors suggested locations for redirected files.
	ProjectRoot string
}

// Verdict is the outcome of validating one path.
type Verdict struct {
	Valid     bool
	Suggested string
	Message   string
}

func NewValidator(workspaceName, projectRoot string) *Validator {
	return &Validator{WorkspaceName: workspaceName, ProjectRoot: projectRoot}
}

// isInternalPath reports whether the path points inside the workspace
// directory.
func (v *Validator) isInternalPath(path string) bool {
	marker := v.WorkspaceName + string(filepath.Separator)
	return strings.HasPrefix(path, marker) || strings.Contains(path, string(filepath.Separator)+marker)
}

// isInternalOperation reports whether a workspace-internal path lands
// in an approved subdirectory with an allowed extension.
func (v *Validator) isInternalOperation(path string) bool {
	if !v.isInternalPath(path) {
		return false
	}
	for dir, exts := range internalDirs {
		marker := filepath.Join(v.WorkspaceName, dir) + string(filepath.Separator)
		if !strings.Contains(path, marker) {
			continue
		}
		if exts == nil {
			return true
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			return true
		}
	}
	return false
}

// FileType classifies a path by extension and name so the right target
// directory can be suggested.
func FileType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	switch {
	case ext == ".tf" || ext == ".tfvars" || strings.Contains(name, "terraform"):
		return "terraform"
	case (ext == ".yaml" || ext == ".yml") && containsAny(name, kubernetesNameHints):
		return "kubernetes"
	case ext == ".yaml" && strings.Contains(name, "cloudformation"):
		return "cloudformation"
	case strings.Contains(name, "dockerfile") || ext == ".dockerfile":
		return "docker"
	case strings.Contains(name, "gitlab-ci") || strings.Contains(name, "pipeline"):
		return "cicd"
	case ext == ".json" || ext == ".yaml" || ext == ".yml" || ext == ".ini" || ext == ".conf":
		return "config"
	default:
		return "default"
	}
}

// SuggestLocation returns where the file should live instead.
func (v *Validator) SuggestLocation(path string) string {
	dir, ok := userLocations[FileType(path)]
	if !ok {
		dir = ""
	}
	return filepath.Join(v.ProjectRoot, dir, filepath.Base(path))
}

// Validate checks one intended save path. Internal operations and
// paths outside the workspace pass; anything else gets a suggested
// relocation.
func (v *Validator) Validate(path string) Verdict {
	if !v.isInternalPath(path) {
		return Verdict{Valid: true, Message: "Valid user file location"}
	}
	if v.isInternalOperation(path) {
		return Verdict{Valid: true, Message: "Valid internal operation"}
	}
	suggested := v.SuggestLocation(path)
	return Verdict{
		Valid:     false,
		Suggested: suggested,
		Message:   "User files cannot be saved in the workspace directory; suggested location: " + suggested,
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
