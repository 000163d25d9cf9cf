// Package reporter renders formatting results for the terminal and for
// machines.
package reporter

import (
	"context"
	"fmt"

	"github.com/shadanan/mathmate/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result. It returns the
	// number of files that changed and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
	_ Reporter = (*DiffReporter)(nil)
	_ Reporter = (*SummaryReporter)(nil)
)

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}

// changedFiles counts files whose content changed.
func changedFiles(result *runner.Result) int {
	if result == nil {
		return 0
	}
	return result.Stats.FilesChanged
}
