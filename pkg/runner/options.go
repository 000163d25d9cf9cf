// Package runner formats many files concurrently.
package runner

import "github.com/shadanan/mathmate/pkg/config"

// Options controls discovery and the worker pool.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors ignore globs. Empty
	// means the process working directory.
	WorkingDir string

	// Extensions are the lowercase source extensions, with leading dot,
	// picked up in directories. Defaults to config.DefaultExtensions.
	Extensions []string

	// Markdown also picks up ".md" and ".markdown" files.
	Markdown bool

	// ExcludeGlobs skip files or directories, relative to WorkingDir.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs bounds the number of workers; 0 or negative means NumCPU.
	Jobs int
}

// OptionsFromConfig creates Options for paths from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:        paths,
		Extensions:   cfg.Extensions,
		Markdown:     cfg.Markdown.Enabled,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
