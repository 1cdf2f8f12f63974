package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	front, body, err := SplitFrontmatter("---\nname: test\n---\n\n# Body\n")
	require.NoError(t, err)
	assert.Equal(t, "name: test", front)
	assert.Equal(t, "\n# Body\n", body)
}

func TestSplitFrontmatterStrictFirstLine(t *testing.T) {
	// Leading whitespace or prose before the delimiter is not a header.
	_, _, err := SplitFrontmatter("\n---\nname: test\n---\nbody")
	assert.Error(t, err)

	_, _, err = SplitFrontmatter("# Title\n---\nname: test\n---\n")
	assert.Error(t, err)
}

func TestSplitFrontmatterUnterminated(t *testing.T) {
	_, _, err := SplitFrontmatter("---\nname: test\nno closing delimiter")
	assert.Error(t, err)
}

func TestSplitFrontmatterCRLF(t *testing.T) {
	front, _, err := SplitFrontmatter("---\r\nname: test\r\n---\r\nbody")
	require.NoError(t, err)
	assert.Contains(t, front, "name: test")
}

func TestParseHeader(t *testing.T) {
	content := `---
name: terra
description: Terraform specialist
model: inherit
color: green
version: 1.2.0
auto_optimize: true
custom_field: kept
---

# TERRA Agent
`
	h, err := ParseHeader("terra", content)
	require.NoError(t, err)
	assert.Equal(t, "terra", h.Name)
	assert.Equal(t, "Terraform specialist", h.Description)
	assert.Equal(t, "1.2.0", h.Version)
	assert.True(t, h.AutoOptimize)
	assert.Equal(t, "kept", h.Extra["custom_field"])
}

func TestParseHeaderMissingFrontmatter(t *testing.T) {
	_, err := ParseHeader("bare", "# Just a title\n")

	var malformed *MalformedHeaderError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "bare", malformed.Agent)
	assert.Equal(t, "missing frontmatter", malformed.Reason)
}

func TestParseHeaderInvalidYAML(t *testing.T) {
	_, err := ParseHeader("broken", "---\nname: [unclosed\n---\nbody")

	var malformed *MalformedHeaderError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "invalid YAML", malformed.Reason)
	assert.Error(t, malformed.Unwrap())
}

func TestBody(t *testing.T) {
	a := &Agent{Name: "x", Content: "---\nname: x\n---\nthe body"}
	assert.Equal(t, "the body", a.Body())

	headerless := &Agent{Name: "y", Content: "no header here"}
	assert.Equal(t, "no header here", headerless.Body())
}
