package health

import (
	"fmt"
	"strings"
	"time"

	"agentdoctor/internal/remedy"
)

// Issue phrases the repair catalog reacts to. These must match the issue
// strings produced by the checks; the pairing is declared here so it can
// be audited and tested in one place.
const (
	triggerMissingFrontmatter = "Missing YAML frontmatter"
	triggerNoVersion          = "No version information"
	triggerHighResponseTime   = "High response time"
)

const cachingBlock = `
## Performance Optimization
` + "```yaml" + `
caching:
  enabled: true
  strategy: aggressive
` + "```" + `
`

// repairCatalog builds the per-agent auto-repair catalog. Order is fixed:
// frontmatter first (later fixes assume a header exists), then version,
// then the caching block.
func repairCatalog(agentName string, now time.Time) *remedy.Catalog {
	return remedy.NewCatalog(
		remedy.Fix{
			Name:    "add_frontmatter",
			Trigger: triggerMissingFrontmatter,
			Apply: func(content string) (string, string, error) {
				if strings.HasPrefix(content, "---") {
					return content, "", remedy.ErrNotApplicable
				}
				header := fmt.Sprintf(`---
name: %s
description: Agent for %s operations
model: inherit
color: blue
auto_optimize: true
self_healing: enabled
---

`, agentName, agentName)
				return header + content, "Added missing frontmatter", nil
			},
		},
		remedy.Fix{
			Name:    "add_version",
			Trigger: triggerNoVersion,
			Marker:  "version:",
			Apply: func(content string) (string, string, error) {
				next, ok := insertBeforeClosingDelimiter(content,
					fmt.Sprintf("version: %s", now.Format("2006.01.02")))
				if !ok {
					return content, "", remedy.ErrNotApplicable
				}
				return next, "Added version information", nil
			},
		},
		remedy.Fix{
			Name:    "add_caching",
			Trigger: triggerHighResponseTime,
			Marker:  "caching:",
			Apply: func(content string) (string, string, error) {
				return content + "\n" + cachingBlock, "Added caching configuration", nil
			},
		},
	)
}

// insertBeforeClosingDelimiter inserts lines just above the frontmatter's
// terminating "---". Returns false when the content has no header block to
// extend.
func insertBeforeClosingDelimiter(content string, insert ...string) (string, bool) {
	if !strings.HasPrefix(content, "---") {
		return content, false
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			out := make([]string, 0, len(lines)+len(insert))
			out = append(out, lines[:i]...)
			out = append(out, insert...)
			out = append(out, lines[i:]...)
			return strings.Join(out, "\n"), true
		}
	}
	return content, false
}
