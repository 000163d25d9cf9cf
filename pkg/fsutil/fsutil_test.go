package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadanan/mathmate/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "a.m", "x=1;")

	content, snap, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "x=1;", string(content))
	assert.Equal(t, path, snap.Path)
	assert.Equal(t, int64(4), snap.Size)

	_, _, err = fsutil.ReadFile(ctx, filepath.Join(dir, "missing.m"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)
}

func TestReadFile_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := fsutil.ReadFile(ctx, "whatever.m")
	require.ErrorIs(t, err, context.Canceled)
}

func TestChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "a.m", "x=1;")

	_, snap, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	changed, err := fsutil.Changed(ctx, snap)
	require.NoError(t, err)
	assert.False(t, changed)

	// Same size, same mtime, different bytes: only the hash notices.
	require.NoError(t, os.WriteFile(path, []byte("y=2;"), 0o600))
	require.NoError(t, os.Chtimes(path, snap.ModTime, snap.ModTime))
	changed, err = fsutil.Changed(ctx, snap)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.Remove(path))
	changed, err = fsutil.Changed(ctx, snap)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = fsutil.Changed(ctx, nil)
	assert.ErrorIs(t, err, fsutil.ErrNilSnapshot)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "a.m", "old")

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0o600))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	err := fsutil.WriteAtomic(context.Background(), filepath.Join(t.TempDir(), "no", "a.m"), []byte("x"), 0)
	assert.Error(t, err)
}

func TestBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "a.m", "original")
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar, Suffix: ".orig"}

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	// A second backup must not overwrite the first original.
	require.NoError(t, os.WriteFile(path, []byte("formatted"), 0o600))
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	backup, err := os.ReadFile(path + ".orig")
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup))

	restored, err := fsutil.RestoreBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
	assert.NoFileExists(t, path+".orig")
}

func TestBackupConfig_Path(t *testing.T) {
	t.Parallel()

	assert.Empty(t, fsutil.BackupConfig{}.Path("a.m"))
	assert.Empty(t, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone}.Path("a.m"))
	assert.Equal(t, "a.m.bak", fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}.Path("a.m"))
}

func TestCreateBackup_Disabled(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.m", "x")
	created, err := fsutil.CreateBackup(context.Background(), path, fsutil.BackupConfig{})
	require.NoError(t, err)
	assert.False(t, created)
}
