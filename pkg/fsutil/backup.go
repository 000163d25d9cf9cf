package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups go.
type BackupMode string

// Backup modes.
const (
	BackupModeSidecar BackupMode = "sidecar"
	BackupModeNone    BackupMode = "none"
)

// DefaultBackupSuffix is appended to the file name of sidecar backups.
const DefaultBackupSuffix = ".bak"

// BackupConfig controls backups taken before a file is rewritten.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
	Suffix  string
}

// Path returns where the backup of path is stored, or "" when disabled.
func (c BackupConfig) Path(path string) string {
	if !c.Enabled || c.Mode == BackupModeNone {
		return ""
	}
	suffix := c.Suffix
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}
	return path + suffix
}

// CreateBackup copies path to its backup location unless a backup already
// exists, so the first original survives repeated runs. It reports whether
// a backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	target := cfg.Path(path)
	if target == "" {
		return false, nil
	}

	if _, err := os.Stat(target); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	content, snap, err := ReadFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("backup: %w", err)
	}

	if err := WriteAtomic(ctx, target, content, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup puts the backup of path back in place and removes it.
// It reports false when no backup exists.
func RestoreBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	target := cfg.Path(path)
	if target == "" {
		return false, nil
	}

	content, snap, err := ReadFile(ctx, target)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, snap.Mode); err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}
	if err := os.Remove(target); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
