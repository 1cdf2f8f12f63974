// Package history implements the bounded, append-only run log shared by
// all engines: a JSON document holding a single top-level array, capped at
// a fixed number of entries with FIFO eviction on append.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Log is a size-bounded JSON log of entries of type T, persisted as
// {"<key>": [ ... ]}. Appends are read-modify-write with an atomic
// temp-file rename so a concurrent reader never observes a partial write.
type Log[T any] struct {
	Path string
	Key  string
	Cap  int
}

// NewLog returns a log at path storing entries under key, capped at max
// entries.
func NewLog[T any](path, key string, max int) *Log[T] {
	return &Log[T]{Path: path, Key: key, Cap: max}
}

// load reads all entries. A missing file yields an empty log. A corrupt
// file is preserved for forensic inspection by renaming it aside, and the
// log starts fresh; the quarantine path is returned so callers can report
// it.
func (l *Log[T]) load() (entries []T, quarantined string, err error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("reading log %s: %w", l.Path, err)
	}

	var doc map[string][]T
	if err := json.Unmarshal(data, &doc); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%s", l.Path, time.Now().Format("20060102_150405"))
		if renameErr := os.Rename(l.Path, aside); renameErr != nil {
			return nil, "", fmt.Errorf("quarantining corrupt log %s: %w", l.Path, renameErr)
		}
		return nil, aside, nil
	}

	return doc[l.Key], "", nil
}

// Append adds one entry, evicting the oldest entries beyond the cap, and
// rewrites the log atomically. Returns the quarantine path if a corrupt
// pre-existing log was set aside.
func (l *Log[T]) Append(entry T) (quarantined string, err error) {
	entries, quarantined, err := l.load()
	if err != nil {
		return "", err
	}

	entries = append(entries, entry)
	if l.Cap > 0 && len(entries) > l.Cap {
		entries = entries[len(entries)-l.Cap:]
	}

	if err := l.write(entries); err != nil {
		return quarantined, err
	}
	return quarantined, nil
}

// Recent returns up to n of the most recent entries, oldest first.
func (l *Log[T]) Recent(n int) ([]T, error) {
	entries, _, err := l.load()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// Latest returns the most recent entry, if any. This doubles as the
// queryable current state of the engine that owns the log.
func (l *Log[T]) Latest() (T, bool, error) {
	var zero T
	entries, _, err := l.load()
	if err != nil {
		return zero, false, err
	}
	if len(entries) == 0 {
		return zero, false, nil
	}
	return entries[len(entries)-1], true, nil
}

// Len returns the number of stored entries.
func (l *Log[T]) Len() (int, error) {
	entries, _, err := l.load()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (l *Log[T]) write(entries []T) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	doc := map[string][]T{l.Key: entries}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing log: %w", err)
	}

	tmp := l.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	if err := os.Rename(tmp, l.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing log: %w", err)
	}
	return nil
}
