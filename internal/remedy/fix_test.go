package remedy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendFix(name, trigger, marker, block string) Fix {
	return Fix{
		Name:    name,
		Trigger: trigger,
		Marker:  marker,
		Apply: func(content string) (string, string, error) {
			return content + block, "applied " + name, nil
		},
	}
}

func TestFixTriggerMatchesSubstring(t *testing.T) {
	f := appendFix("caching", "High response time", "caching:", "\ncaching: on\n")

	assert.True(t, f.Applicable("body", []string{"High response time detected"}))
	assert.False(t, f.Applicable("body", []string{"Low success rate"}))
	assert.False(t, f.Applicable("body", nil))
}

func TestFixMarkerGuardsIdempotence(t *testing.T) {
	f := appendFix("caching", "High response time", "caching:", "\ncaching: on\n")
	issues := []string{"High response time detected"}

	next, desc, err := f.Run("body", issues)
	require.NoError(t, err)
	assert.Equal(t, "applied caching", desc)

	// Marker now present; the fix must refuse to run again.
	_, _, err = f.Run(next, issues)
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestFixEmptyTriggerAlwaysConsidered(t *testing.T) {
	f := appendFix("structural", "", "normalized:", "\nnormalized: true\n")
	assert.True(t, f.Applicable("body", nil))
}

func TestCatalogOrderAndDescriptions(t *testing.T) {
	catalog := NewCatalog(
		appendFix("first", "issue-a", "mark-a:", "\nmark-a: 1\n"),
		appendFix("second", "issue-b", "mark-b:", "\nmark-b: 1\n"),
		appendFix("skipped", "issue-absent", "mark-c:", "\nmark-c: 1\n"),
	)

	content, applied := catalog.Remediate("body", []string{"issue-b happened", "issue-a happened"})
	assert.Equal(t, []string{"applied first", "applied second"}, applied)
	assert.Contains(t, content, "mark-a: 1")
	assert.Contains(t, content, "mark-b: 1")
	assert.NotContains(t, content, "mark-c: 1")
}

func TestCatalogRemediateIdempotent(t *testing.T) {
	catalog := NewCatalog(
		appendFix("first", "issue-a", "mark-a:", "\nmark-a: 1\n"),
		appendFix("second", "issue-b", "mark-b:", "\nmark-b: 1\n"),
	)
	issues := []string{"issue-a", "issue-b"}

	once, applied := catalog.Remediate("body", issues)
	require.Len(t, applied, 2)

	twice, appliedAgain := catalog.Remediate(once, issues)
	assert.Equal(t, once, twice)
	assert.Empty(t, appliedAgain)
}

func TestCatalogSkipsNotApplicable(t *testing.T) {
	guard := Fix{
		Name:    "guarded",
		Trigger: "issue",
		Apply: func(content string) (string, string, error) {
			return content, "", ErrNotApplicable
		},
	}
	catalog := NewCatalog(guard, appendFix("runs", "issue", "mark:", "\nmark: 1\n"))

	content, applied := catalog.Remediate("body", []string{"issue"})
	assert.Equal(t, []string{"applied runs"}, applied)
	assert.Contains(t, content, "mark: 1")
}

func TestCatalogIgnoresNoOpFixes(t *testing.T) {
	noop := Fix{
		Name:    "noop",
		Trigger: "issue",
		Apply: func(content string) (string, string, error) {
			return content, "claims a change", nil
		},
	}
	_, applied := NewCatalog(noop).Remediate("body", []string{"issue"})
	assert.Empty(t, applied)
}
