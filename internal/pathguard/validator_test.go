package pathguard

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestValidator() *Validator {
	return NewValidator(".claude", "/project")
}

func TestValidateUserFileOutsideWorkspace(t *testing.T) {
	v := newTestValidator()
	verdict := v.Validate("terraform/main.tf")
	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.Suggested)
}

func TestValidateInternalOperations(t *testing.T) {
	v := newTestValidator()

	valid := []string{
		".claude/agents/terra.md",
		".claude/scripts/cleanup.sh",
		".claude/mcp/config.json",
		".claude/templates/anything.tpl",
		".claude/logs/run.log",
		"project/.claude/agents/master.md",
	}
	for _, path := range valid {
		assert.True(t, v.Validate(path).Valid, path)
	}
}

func TestValidateRejectsUserFilesInWorkspace(t *testing.T) {
	v := newTestValidator()

	invalid := []string{
		".claude/main.tf",
		".claude/agents/deployment.yaml",
		".claude/mcp/notes.md",
		".claude/data.json",
	}
	for _, path := range invalid {
		verdict := v.Validate(path)
		assert.False(t, verdict.Valid, path)
		assert.NotEmpty(t, verdict.Suggested, path)
	}
}

func TestFileType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.tf", "terraform"},
		{"prod.tfvars", "terraform"},
		{"terraform-backend.json", "terraform"},
		{"k8s-deployment.yaml", "kubernetes"},
		{"service.yml", "kubernetes"},
		{"cloudformation-stack.yaml", "cloudformation"},
		{"Dockerfile", "docker"},
		{"app.dockerfile", "docker"},
		{".gitlab-ci.yml", "cicd"},
		{"release-pipeline.yaml", "cicd"},
		{"settings.ini", "config"},
		{"app.conf", "config"},
		{"notes.md", "default"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileType(tt.path), tt.path)
	}
}

func TestSuggestLocation(t *testing.T) {
	v := newTestValidator()
	assert.Equal(t, filepath.Join("/project", "terraform", "main.tf"),
		v.SuggestLocation(".claude/main.tf"))
	assert.Equal(t, filepath.Join("/project", "notes.md"),
		v.SuggestLocation(".claude/notes.md"))
}
