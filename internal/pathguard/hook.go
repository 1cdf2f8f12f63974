package pathguard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Violation is one redirected save, appended to the hook log as JSONL.
type Violation struct {
	Timestamp     time.Time `json:"timestamp"`
	OriginalPath  string    `json:"original_path"`
	CorrectedPath string    `json:"corrected_path"`
	Reason        string    `json:"reason"`
}

// Hook intercepts save operations, corrects misplaced paths, and logs
// every correction.
type Hook struct {
	Validator *Validator
	// LogPath receives one JSON line per violation.
	LogPath string

	now func() time.Time
}

// Decision is the hook's answer for one save attempt.
type Decision struct {
	// Path is where the save should actually go.
	Path string
	// Proceed is false when the save must be blocked outright.
	Proceed bool
	Message string
}

func NewHook(v *Validator, logPath string) *Hook {
	return &Hook{Validator: v, LogPath: logPath, now: time.Now}
}

// InterceptSave validates an intended path, redirecting it to the
// proper location when the validator rejects it. The corrected
// directory is created so the caller can write immediately.
func (h *Hook) InterceptSave(path string) (Decision, error) {
	verdict := h.Validator.Validate(path)
	if verdict.Valid {
		return Decision{Path: path, Proceed: true, Message: "Path validated"}, nil
	}
	if verdict.Suggested == "" {
		return Decision{Proceed: false, Message: "Cannot determine proper location for " + path}, nil
	}

	if err := h.logViolation(path, verdict.Suggested, verdict.Message); err != nil {
		return Decision{}, err
	}
	if err := os.MkdirAll(filepath.Dir(verdict.Suggested), 0755); err != nil {
		return Decision{}, fmt.Errorf("creating target directory: %w", err)
	}
	return Decision{
		Path:    verdict.Suggested,
		Proceed: true,
		Message: fmt.Sprintf("Path corrected: %s -> %s", path, verdict.Suggested),
	}, nil
}

// InterceptBatch validates several paths in one pass.
func (h *Hook) InterceptBatch(paths []string) (map[string]Decision, error) {
	out := make(map[string]Decision, len(paths))
	for _, p := range paths {
		d, err := h.InterceptSave(p)
		if err != nil {
			return nil, err
		}
		out[p] = d
	}
	return out, nil
}

func (h *Hook) logViolation(original, corrected, reason string) error {
	if err := os.MkdirAll(filepath.Dir(h.LogPath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(h.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(Violation{
		Timestamp:     h.now(),
		OriginalPath:  original,
		CorrectedPath: corrected,
		Reason:        reason,
	})
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}
