// Package lockfile provides an advisory JSON lock file that serializes
// log appends and remediation writes across concurrently running
// agentdoctor processes (a continuous monitor plus an ad-hoc invocation,
// for example). The lock records holder, PID, and hostname; a lock whose
// process no longer exists on the local host is treated as stale and
// reclaimed.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// Lock is the on-disk lock file format.
type Lock struct {
	Holder    string    `json:"holder"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`
}

// ErrHeld is returned when a live process already holds the lock.
type ErrHeld struct {
	Existing Lock
}

func (e *ErrHeld) Error() string {
	return fmt.Sprintf("lock held by %s (PID %d on %s, started %s)",
		e.Existing.Holder, e.Existing.PID, e.Existing.Hostname,
		e.Existing.StartedAt.Format(time.RFC3339))
}

// Acquire claims the lock file at path for the named holder. It fails with
// ErrHeld if a live process holds it, and silently reclaims stale locks.
// The returned release function removes the lock and should be deferred.
func Acquire(path, holder string) (release func() error, err error) {
	if data, err := os.ReadFile(path); err == nil {
		var existing Lock
		if json.Unmarshal(data, &existing) == nil {
			if isProcessAlive(existing.PID, existing.Hostname) {
				return nil, &ErrHeld{Existing: existing}
			}
			// Stale lock - reclaim it.
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("getting hostname: %w", err)
	}

	lock := Lock{
		Holder:    holder,
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
	}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling lock: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("creating lock file: %w", err)
	}

	return func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing lock file: %w", err)
		}
		return nil
	}, nil
}

// isProcessAlive checks whether the lock's owning process still exists.
// Locks from other hosts cannot be verified and are assumed alive.
func isProcessAlive(pid int, hostname string) bool {
	currentHost, err := os.Hostname()
	if err != nil {
		return true
	}
	if !strings.EqualFold(hostname, currentHost) {
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return err == syscall.EPERM
}
