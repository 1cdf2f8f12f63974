package lockfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	release, err := Acquire(path, "health-monitor")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var lock Lock
	require.NoError(t, json.Unmarshal(data, &lock))
	assert.Equal(t, "health-monitor", lock.Holder)
	assert.Equal(t, os.Getpid(), lock.PID)

	require.NoError(t, release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	release, err := Acquire(path, "optimizer")
	require.NoError(t, err)
	defer func() { _ = release() }()

	// Same PID, so the holder is alive by definition.
	_, err = Acquire(path, "diagnostic")
	var held *ErrHeld
	require.True(t, errors.As(err, &held))
	assert.Equal(t, "optimizer", held.Existing.Holder)
}

func TestAcquireReclaimsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	hostname, err := os.Hostname()
	require.NoError(t, err)

	stale := Lock{
		Holder:    "dead-run",
		PID:       999999999, // beyond pid_max, never a live process
		Hostname:  hostname,
		StartedAt: time.Now().Add(-time.Hour),
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	release, err := Acquire(path, "health-monitor")
	require.NoError(t, err)
	defer func() { _ = release() }()
}

func TestAcquireReplacesGarbageLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	release, err := Acquire(path, "health-monitor")
	require.NoError(t, err)
	require.NoError(t, release())
}
