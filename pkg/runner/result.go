package runner

import (
	"errors"
	"fmt"

	"github.com/shadanan/mathmate/pkg/pipeline"
)

// FileOutcome is the result of one file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *pipeline.Result
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesChanged    int
	FilesWritten    int
	FilesSkipped    int
	FilesErrored    int

	Statements int
	Blocks     int
	Additions  int
	Deletions  int
	Warnings   int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// NeedsFormatting reports whether a file changed without being written.
func (r *Result) NeedsFormatting() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > r.Stats.FilesWritten
}

// Err joins the errors of every failed file, or returns nil.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Error))
		}
	}
	return errors.Join(errs...)
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Statements += res.Statements
	r.Stats.Blocks += res.Blocks
	r.Stats.Warnings += len(res.Warnings)

	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.Skipped {
		r.Stats.FilesSkipped++
	}
	if res.Diff != nil {
		r.Stats.Additions += res.Diff.Additions
		r.Stats.Deletions += res.Diff.Deletions
	}
}
