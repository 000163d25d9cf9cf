package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/shadanan/mathmate/internal/ui/pretty"
	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/statement"
)

// ShowReporter writes the cursor and affected statements of one engine
// request.
type ShowReporter interface {
	Show(ctx context.Context, result *engine.Result) error
}

// Compile-time interface checks.
var (
	_ ShowReporter = (*TextShowReporter)(nil)
	_ ShowReporter = (*JSONShowReporter)(nil)
)

// NewShow creates a ShowReporter. Only text and json are supported.
func NewShow(opts Options) (ShowReporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextShowReporter(opts), nil
	case FormatJSON:
		return NewJSONShowReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported show format: %s", opts.Format)
	}
}

// TextShowReporter renders a show result for the terminal.
type TextShowReporter struct {
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTextShowReporter creates a text show reporter. Rules between
// statement texts span the terminal width.
func NewTextShowReporter(opts Options) *TextShowReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextShowReporter{
		styles: pretty.NewStyles(colorEnabled),
		width:  pretty.Width(opts.Writer),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Show implements ShowReporter.
func (r *TextShowReporter) Show(_ context.Context, result *engine.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	fmt.Fprint(r.bw, r.styles.FormatCursor(result.Cursor))

	stmts := result.SelectedStatements()
	if len(stmts) == 0 {
		fmt.Fprintln(r.bw, r.styles.Dim.Render(pretty.EmptyStatement))
	}
	for i, stmt := range stmts {
		fmt.Fprint(r.bw, r.styles.FormatBoundaries(i+1, stmt))
		fmt.Fprint(r.bw, r.styles.FormatStatement(stmt, r.width))
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(r.bw, r.styles.Warning.Render("warning: ")+w.Error())
	}
	return nil
}

// JSONShow is the JSON structure of a show result.
type JSONShow struct {
	Version    string                `json:"version"`
	Mode       string                `json:"mode"`
	Cursor     engine.Cursor         `json:"cursor"`
	Statements []statement.Statement `json:"statements"`
	Changed    bool                  `json:"changed"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// JSONShowReporter renders a show result as JSON.
type JSONShowReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONShowReporter creates a JSON show reporter.
func NewJSONShowReporter(opts Options) *JSONShowReporter {
	return &JSONShowReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Show implements ShowReporter.
func (r *JSONShowReporter) Show(_ context.Context, result *engine.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	out := JSONShow{
		Version:    jsonVersion,
		Mode:       result.Mode.String(),
		Cursor:     result.Cursor,
		Statements: result.SelectedStatements(),
		Changed:    result.Changed,
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return encodeJSON(r.bw, out, r.opts.Compact)
}
