package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupPerform(t *testing.T) {
	tmp := t.TempDir()
	dbPath := filepath.Join(tmp, "glowslot.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("payload"), 0o644))

	dir := filepath.Join(tmp, "backups")
	s := NewBackupService(dbPath, dir, 7, zerolog.Nop())
	require.NoError(t, s.Perform())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestBackupPerformMissingSource(t *testing.T) {
	tmp := t.TempDir()
	s := NewBackupService(filepath.Join(tmp, "missing.db"), filepath.Join(tmp, "backups"), 7, zerolog.Nop())
	assert.Error(t, s.Perform())
}

func TestBackupCleanup(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "backups")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	old := filepath.Join(dir, "backup_20200101_000000.db")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	past := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(old, past, past))

	fresh := filepath.Join(dir, "backup_fresh.db")
	require.NoError(t, os.WriteFile(fresh, []byte("fresh"), 0o644))

	unrelated := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))
	require.NoError(t, os.Chtimes(unrelated, past, past))

	s := NewBackupService("", dir, 7, zerolog.Nop())
	s.Cleanup()

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, unrelated, "only backup_ files are pruned")
}

func TestBackupCleanupDisabled(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "backups")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	old := filepath.Join(dir, "backup_old.db")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))
	past := time.Now().AddDate(0, 0, -365)
	require.NoError(t, os.Chtimes(old, past, past))

	s := NewBackupService("", dir, 0, zerolog.Nop())
	s.Cleanup()

	assert.FileExists(t, old)
}
