package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shadanan/mathmate/pkg/langdetect"
	"github.com/shadanan/mathmate/pkg/pipeline"
)

// sniffSize is how much of an ambiguous file is read for classification.
const sniffSize = 8 << 10

// Discover finds the files opts selects and returns their absolute paths
// sorted. Files named explicitly are taken when their extension matches;
// files found in directories with an ambiguous extension must also look
// like Mathematica.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{opts: opts, workDir: workDir, extensions: opts.effectiveExtensions()}
	seen := make(map[string]struct{})
	var files []string
	add := func(f string) {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if d.selected(abs) && !d.excluded(abs) {
				add(abs)
			}
			continue
		}

		found, err := d.walk(ctx, abs)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

type discoverer struct {
	opts       Options
	workDir    string
	extensions []string
}

func (d *discoverer) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || d.excluded(p) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				// Walk the target so WalkDir's Lstat does not loop.
				sub, err := d.walk(ctx, target)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if hidden || d.excluded(p) || !d.selected(p) {
			return nil
		}
		if !d.looksLikeMathematica(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// selected reports whether the extension of p is processed.
func (d *discoverer) selected(p string) bool {
	if d.opts.Markdown && pipeline.IsMarkdown(p) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(p))
	return slices.ContainsFunc(d.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func (d *discoverer) excluded(p string) bool {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		rel = p
	}
	return slices.ContainsFunc(d.opts.ExcludeGlobs, func(pattern string) bool {
		return matchGlob(rel, pattern)
	})
}

// looksLikeMathematica classifies files whose extension other languages
// share. Markdown and unambiguous extensions pass unread.
func (d *discoverer) looksLikeMathematica(p string) bool {
	if pipeline.IsMarkdown(p) || !strings.EqualFold(filepath.Ext(p), ".m") {
		return true
	}

	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, sniffSize))
	if err != nil {
		return false
	}
	return langdetect.IsMathematica(p, head)
}

// matchGlob matches a relative path against a glob. Besides path.Match
// syntax it accepts "dir/**" for everything below dir and "**/pattern" for
// pattern at any depth. A single-segment "dir/**" matches dir at any depth
// and patterns without a slash also match the base name.
func matchGlob(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)
	pattern = filepath.ToSlash(pattern)

	if pattern == "**" {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
		if strings.Contains(prefix, "/") {
			return false
		}
		return slices.ContainsFunc(strings.Split(rel, "/"), func(part string) bool {
			ok, _ := path.Match(prefix, part)
			return ok
		})
	}

	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		parts := strings.Split(rel, "/")
		for i := range parts {
			if matchGlob(strings.Join(parts[i:], "/"), rest) {
				return true
			}
		}
		return false
	}

	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	}
	return false
}
