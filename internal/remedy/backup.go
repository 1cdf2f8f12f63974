package remedy

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupStore writes timestamped pre-mutation snapshots of agent content.
// Backups are write-once and never evicted.
type BackupStore struct {
	Dir string

	// now is swappable for tests.
	now func() time.Time
}

// NewBackupStore returns a store writing under dir.
func NewBackupStore(dir string) *BackupStore {
	return &BackupStore{Dir: dir, now: time.Now}
}

// Save writes a snapshot named <agent>_<label>_<timestamp>.md and returns
// its path. Second-granularity timestamps are sufficient because
// remediation runs at most once per agent per run; a same-second collision
// from a different run gets a numeric suffix rather than overwriting.
func (b *BackupStore) Save(agentName, label, content string) (string, error) {
	if err := os.MkdirAll(b.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	stamp := b.now().Format("20060102_150405")
	path := filepath.Join(b.Dir, fmt.Sprintf("%s_%s_%s.md", agentName, label, stamp))
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(b.Dir, fmt.Sprintf("%s_%s_%s.%d.md", agentName, label, stamp, i))
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}
