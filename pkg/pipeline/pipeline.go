// Package pipeline formats one file safely: read with a snapshot, format,
// diff, check for concurrent modification, back up and write atomically.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shadanan/mathmate/pkg/config"
	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/fix"
	"github.com/shadanan/mathmate/pkg/format"
	"github.com/shadanan/mathmate/pkg/fsutil"
	"github.com/shadanan/mathmate/pkg/markdown"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFormatFailure indicates the content could not be formatted.
	ErrFormatFailure = errors.New("format failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Result is the outcome of processing one file.
type Result struct {
	Path string

	// Snapshot is the file state before processing; nil for in-memory
	// content.
	Snapshot *fsutil.Snapshot

	// Statements is the number of statements in a source file.
	Statements int

	// Blocks is the number of Mathematica code blocks in a Markdown file.
	Blocks int

	// Changed is true when formatting altered the content.
	Changed bool

	// Content is the formatted content, nil when unchanged.
	Content []byte

	// Diff is the unified diff of the change, nil when unchanged.
	Diff *fix.Diff

	Written       bool
	BackupCreated bool

	// Skipped is set when a changed file was not written.
	Skipped    bool
	SkipReason string

	// Warnings holds recovered problems.
	Warnings []error
}

// Summary returns a short human-readable status.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "needs formatting"
	default:
		return "ok"
	}
}

// Options controls pipeline behavior.
type Options struct {
	// Write rewrites changed files in place.
	Write bool

	Backup fsutil.BackupConfig
	Indent format.Indent

	// Markdown enables formatting of code blocks in Markdown files.
	Markdown  bool
	Languages []string
}

// OptionsFromConfig creates Options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Write:     cfg.Write,
		Backup:    cfg.BackupConfig(),
		Indent:    cfg.Indent.Format(),
		Markdown:  cfg.Markdown.Enabled,
		Languages: cfg.Markdown.Languages,
	}
}

// Pipeline processes files with fixed options. It is safe for concurrent
// use.
type Pipeline struct {
	opts Options
	md   *markdown.Formatter
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts: opts,
		md:   markdown.New(markdown.Options{Languages: opts.Languages, Indent: opts.Indent}),
	}
}

// ProcessFile runs the full pipeline for path.
//
// The pipeline performs the following steps:
//  1. Read and snapshot the file.
//  2. Format the content in memory.
//  3. Diff the original and formatted content.
//  4. Unless writing, stop here.
//  5. Check for concurrent modification.
//  6. Create a backup if enabled.
//  7. Write the formatted content atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	original, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, original)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	if !result.Changed || !p.opts.Write {
		return result, nil
	}

	modified, err := fsutil.Changed(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = fsutil.ErrFileModified.Error()
		return result, nil
	}

	if p.opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, p.opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.Content, snap.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent formats in-memory content without file I/O. The path only
// selects between source and Markdown handling.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, original []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &Result{Path: path}

	var formatted []byte
	if p.opts.Markdown && IsMarkdown(path) {
		res, err := p.md.Format(ctx, original)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormatFailure, err)
		}
		result.Blocks = res.Blocks
		result.Warnings = res.Errors
		formatted = res.Content
	} else {
		res, err := engine.Run(engine.Request{
			Text:          string(original),
			WholeDocument: true,
			Indent:        p.opts.Indent,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormatFailure, err)
		}
		result.Statements = len(res.Statements)
		result.Warnings = res.Warnings
		formatted = []byte(res.Text)
	}

	if bytes.Equal(original, formatted) {
		return result, nil
	}
	result.Changed = true
	result.Content = formatted
	result.Diff = fix.Unified(path, original, formatted)
	return result, nil
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	default:
		return false
	}
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrFormatFailure) ||
		errors.Is(err, ErrWriteFailure)
}
