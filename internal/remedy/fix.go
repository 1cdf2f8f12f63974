// Package remedy implements the idempotent fix catalog shared by the
// health monitor and the optimizer, plus the backup store that snapshots
// agent content before any mutation.
//
// Fixes are selected by substring match against the textual issue list,
// not by check category — the catalog declares the issue phrase each fix
// reacts to, so the coupling is auditable in one table. Each fix carries a
// marker string; content already containing the marker is never mutated
// again, which makes the whole catalog idempotent.
package remedy

import (
	"errors"
	"strings"
)

// ErrNotApplicable is returned when a fix is invoked on content where its
// guard condition no longer holds. It is a no-op signal, never a mutation.
var ErrNotApplicable = errors.New("fix not applicable")

// Fix is one named, idempotent content transform.
type Fix struct {
	// Name identifies the fix in logs and fix descriptions.
	Name string

	// Trigger is the issue phrase that selects this fix. The fix fires
	// when any reported issue contains this substring.
	Trigger string

	// Marker guards idempotence: if the content already contains this
	// literal token the fix is skipped.
	Marker string

	// Apply transforms content and returns the new content plus a
	// human-readable description of the change.
	Apply func(content string) (string, string, error)
}

// Applicable reports whether the fix should run against the given content
// and issues: its trigger phrase must appear in some issue and its marker
// must not already be present.
func (f Fix) Applicable(content string, issues []string) bool {
	if f.Marker != "" && strings.Contains(content, f.Marker) {
		return false
	}
	if f.Trigger == "" {
		return true
	}
	for _, issue := range issues {
		if strings.Contains(issue, f.Trigger) {
			return true
		}
	}
	return false
}

// Run applies the fix if applicable, otherwise returns ErrNotApplicable
// with the content unchanged.
func (f Fix) Run(content string, issues []string) (string, string, error) {
	if !f.Applicable(content, issues) {
		return content, "", ErrNotApplicable
	}
	return f.Apply(content)
}

// Catalog is an ordered set of fixes. Application order is the declaration
// order, fixed and sequential; each fix runs at most once per pass.
type Catalog struct {
	fixes []Fix
}

// NewCatalog returns a catalog applying fixes in the given order.
func NewCatalog(fixes ...Fix) *Catalog {
	return &Catalog{fixes: fixes}
}

// Fixes returns the declared fix table, in application order.
func (c *Catalog) Fixes() []Fix {
	return c.fixes
}

// Remediate runs every applicable fix over the content in order and
// returns the final content plus the descriptions of fixes that actually
// changed something. Content already carrying every marker passes through
// untouched, so re-running remediation on fixed content is a no-op.
func (c *Catalog) Remediate(content string, issues []string) (string, []string) {
	var applied []string
	for _, f := range c.fixes {
		next, desc, err := f.Run(content, issues)
		if errors.Is(err, ErrNotApplicable) || err != nil {
			continue
		}
		if next != content {
			content = next
			applied = append(applied, desc)
		}
	}
	return content, applied
}
