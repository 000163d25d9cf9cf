package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shadanan/mathmate/internal/ui/pretty"
	"github.com/shadanan/mathmate/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90 // Width of table separators.
	fileColWidth      = 50 // Width of the file path column.
	statusColWidth    = 18 // Width of the status column.
	numColWidth       = 7  // Width of numeric columns.
	maxFilePathLength = 48 // Maximum characters for file path before truncation.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryReporter formats results as a table of changed files followed by
// aggregate statistics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		return 0, nil
	}

	r.renderFileTable(result)
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return changedFiles(result), nil
}

func (r *SummaryReporter) renderFileTable(result *runner.Result) {
	var rows []runner.FileOutcome
	for _, file := range result.Files {
		if file.Error != nil || (file.Result != nil && (file.Result.Changed || file.Result.Skipped)) {
			rows = append(rows, file)
		}
	}
	if len(rows) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.bw, r.styles.Dim.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.bw, "%s %s %s %s\n",
		r.styles.Bold.Render(padRight("File", fileColWidth)),
		r.styles.Bold.Render(padRight("Status", statusColWidth)),
		r.styles.Bold.Render(padLeft("Added", numColWidth)),
		r.styles.Bold.Render(padLeft("Removed", numColWidth)),
	)
	fmt.Fprintln(r.bw, r.styles.Dim.Render(strings.Repeat("─", tableWidth)))

	for _, file := range rows {
		path := displayPath(file.Path, r.opts.WorkingDir)
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		status, added, removed := "error", 0, 0
		if file.Result != nil {
			status = file.Result.Summary()
			if file.Result.Diff != nil {
				added, removed = file.Result.Diff.Additions, file.Result.Diff.Deletions
			}
		}
		if len(status) > statusColWidth {
			status = status[:statusColWidth-1] + "…"
		}

		paddedStatus := padRight(status, statusColWidth)
		var styledStatus string
		switch {
		case file.Error != nil:
			styledStatus = r.styles.Error.Render(paddedStatus)
		case file.Result.Written:
			styledStatus = r.styles.Success.Render(paddedStatus)
		default:
			styledStatus = r.styles.Warning.Render(paddedStatus)
		}

		fmt.Fprintf(r.bw, "%s %s %s %s\n",
			padRight(path, fileColWidth),
			styledStatus,
			padLeft(strconv.Itoa(added), numColWidth),
			padLeft(strconv.Itoa(removed), numColWidth),
		)
	}
}
