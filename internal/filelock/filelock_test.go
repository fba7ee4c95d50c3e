package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	fl := New(path)
	require.NoError(t, fl.Lock())
	require.NoError(t, fl.Unlock())
}

func TestTryLockContention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	first := New(path)
	require.NoError(t, first.Lock())
	defer first.Unlock()

	// flock is per file description; a second Flock instance on the same
	// path from the same process still contends.
	second := New(path)

	acquired, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestTryLockUncontended(t *testing.T) {
	fl := New(filepath.Join(t.TempDir(), "test.lock"))

	acquired, err := fl.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, fl.Unlock())
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")

	require.NoError(t, AtomicWrite(path, []byte("hello")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestAtomicWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, AtomicWrite(path, []byte("first")))
	require.NoError(t, AtomicWrite(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, AtomicWrite(path, []byte("data")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestLockAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, LockAndWrite(path, []byte("locked write")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "locked write", string(data))
}
