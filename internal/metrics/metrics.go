// Package metrics reads the per-agent performance metrics file produced by
// an external collector. The engines never write metrics; absence of data
// is expected and treated as healthy.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metrics is one agent's entry in the collector's key-value store.
type Metrics struct {
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseTime float64 `json:"avg_response_time"`
	ErrorRate       float64 `json:"error_rate"`
	Efficiency      float64 `json:"efficiency"`
	LastOptimized   string  `json:"last_optimized,omitempty"`
	ExecutionCount  int     `json:"execution_count"`
}

// UnmarshalJSON overlays the entry on top of the healthy defaults so a
// collector that reports only some fields fails open on the rest.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	type plain Metrics
	p := plain(Defaults)
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Metrics(p)
	return nil
}

// CorruptError distinguishes a metrics file that exists but is not valid
// JSON from one that is simply absent. Absent is fail-open; corrupt is
// logged by the caller and then also fail-open.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("metrics file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Store reads the metrics mapping from a single JSON file.
type Store struct {
	Path string
}

// NewStore returns a store backed by the given file.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the full metrics mapping. A missing file returns an empty map
// and no error. A present-but-invalid file returns an empty map and a
// CorruptError so the caller can log it once per run and continue.
func (s *Store) Load() (map[string]Metrics, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Metrics{}, nil
		}
		return map[string]Metrics{}, &CorruptError{Path: s.Path, Err: err}
	}

	var m map[string]Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]Metrics{}, &CorruptError{Path: s.Path, Err: err}
	}
	if m == nil {
		m = map[string]Metrics{}
	}
	return m, nil
}

// Defaults applied when an agent has no metrics entry: an untracked agent
// is assumed to be performing well.
var Defaults = Metrics{
	SuccessRate:     1.0,
	AvgResponseTime: 0.5,
	ErrorRate:       0.0,
	Efficiency:      1.0,
}

// ForAgent returns the metrics for one agent, falling back to Defaults
// field-by-field semantics: a missing entry yields Defaults with ok=false.
func ForAgent(m map[string]Metrics, name string) (Metrics, bool) {
	entry, ok := m[name]
	if !ok {
		return Defaults, false
	}
	return entry, true
}
