package agent

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Agent is a single agent definition backed by a markdown file in the
// workspace agents directory. Content is the source of truth; the
// frontmatter header is re-parsed on demand and never cached across runs.
type Agent struct {
	Name    string
	Path    string
	Content string
	ModTime time.Time
}

// Header holds the declared frontmatter fields of an agent file.
// Extra keys are preserved so fixes can round-trip unknown fields.
type Header struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Model        string `yaml:"model,omitempty"`
	Color        string `yaml:"color,omitempty"`
	Version      string `yaml:"version,omitempty"`
	AutoOptimize bool   `yaml:"auto_optimize,omitempty"`
	SelfHealing  string `yaml:"self_healing,omitempty"`

	// Extra captures any fields not modeled above.
	Extra map[string]interface{} `yaml:",inline"`
}

// MalformedHeaderError reports a frontmatter block that is missing,
// unterminated, or not valid YAML. It is a check failure, not a fatal error.
type MalformedHeaderError struct {
	Agent  string
	Reason string
	Err    error
}

func (e *MalformedHeaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed header in %s: %s: %v", e.Agent, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed header in %s: %s", e.Agent, e.Reason)
}

func (e *MalformedHeaderError) Unwrap() error { return e.Err }

const delimiter = "---"

// SplitFrontmatter divides content into the raw frontmatter block and the
// body. The grammar is strict: the first line must be exactly "---", and a
// matching "---" line must terminate the block.
func SplitFrontmatter(content string) (front, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != delimiter {
		return "", content, fmt.Errorf("content does not start with %q", delimiter)
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == delimiter {
			front = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return front, body, nil
		}
	}

	return "", content, fmt.Errorf("unterminated frontmatter block")
}

// ParseHeader parses the agent's frontmatter into a Header.
// A missing or invalid block returns a MalformedHeaderError.
func (a *Agent) ParseHeader() (*Header, error) {
	return ParseHeader(a.Name, a.Content)
}

// ParseHeader parses frontmatter out of raw content.
func ParseHeader(name, content string) (*Header, error) {
	front, _, err := SplitFrontmatter(content)
	if err != nil {
		return nil, &MalformedHeaderError{Agent: name, Reason: "missing frontmatter", Err: err}
	}

	var h Header
	if err := yaml.Unmarshal([]byte(front), &h); err != nil {
		return nil, &MalformedHeaderError{Agent: name, Reason: "invalid YAML", Err: err}
	}

	return &h, nil
}

// Body returns the content following the frontmatter block, or the whole
// content when no valid block exists.
func (a *Agent) Body() string {
	_, body, err := SplitFrontmatter(a.Content)
	if err != nil {
		return a.Content
	}
	return body
}
