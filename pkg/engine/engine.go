// Package engine runs one formatting or locate request against a buffer.
//
// A request segments the buffer into statements, resolves the cursor,
// selects the statements its mode covers and reformats them in place.
// Every call builds its own state, so concurrent requests never share
// anything.
package engine

import (
	"fmt"
	"strings"

	"github.com/shadanan/mathmate/pkg/fix"
	"github.com/shadanan/mathmate/pkg/format"
	"github.com/shadanan/mathmate/pkg/locate"
	"github.com/shadanan/mathmate/pkg/statement"
)

// Mode selects which statements a request affects.
type Mode uint8

// Request modes.
const (
	// ModeStatement affects the statement containing the cursor, or the
	// nearest one before it.
	ModeStatement Mode = iota

	// ModeDocument affects every statement.
	ModeDocument

	// ModeUpToCursor affects every statement starting before the cursor.
	ModeUpToCursor
)

func (m Mode) String() string {
	switch m {
	case ModeDocument:
		return "document"
	case ModeUpToCursor:
		return "up-to-cursor"
	default:
		return "statement"
	}
}

// Request is one engine invocation.
type Request struct {
	// Text is the buffer. With a selection, the editor passes the selected
	// text here.
	Text string

	// Line is 1-based and Column 0-based. Out of range values clamp.
	Line   int
	Column int

	// Selection is the selected text, if any. A non-empty selection
	// switches the request to ModeDocument.
	Selection string

	WholeDocument bool
	UpToCursor    bool

	Indent format.Indent
}

// Mode resolves the request flags. UpToCursor wins over the others.
func (r Request) Mode() Mode {
	switch {
	case r.UpToCursor:
		return ModeUpToCursor
	case r.WholeDocument || r.Selection != "":
		return ModeDocument
	default:
		return ModeStatement
	}
}

// Cursor describes the resolved cursor position.
type Cursor struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Offset    int    `json:"offset"`
	ScopePath string `json:"scope_path"`
	Symbol    string `json:"symbol,omitempty"`
}

// Result is the outcome of Run.
type Result struct {
	Mode   Mode
	Cursor Cursor

	// Statements lists every statement of the buffer. Entries named by
	// Selected carry their reformatted text.
	Statements []statement.Statement
	Selected   []int

	// Text is the buffer with the selected statements replaced.
	Text    string
	Changed bool

	// Warnings holds recovered problems such as unterminated literals.
	Warnings []error
}

// SelectedStatements returns the statements the request affected.
func (r *Result) SelectedStatements() []statement.Statement {
	out := make([]statement.Statement, 0, len(r.Selected))
	for _, i := range r.Selected {
		out = append(out, r.Statements[i])
	}
	return out
}

// Run executes req. The only error is an unmatched closing bracket.
func Run(req Request) (*Result, error) {
	src := []rune(req.Text)
	ix := locate.NewIndex(src)
	offset := ix.ToOffset(req.Line, req.Column)

	seg, err := statement.Segment(src, statement.Options{Cursor: offset})
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	line, col := ix.ToLineCol(offset)
	res := &Result{
		Mode: req.Mode(),
		Cursor: Cursor{
			Line:      line,
			Column:    col,
			Offset:    offset,
			ScopePath: seg.ScopePath,
			Symbol:    SymbolAt(src, offset),
		},
		Statements: seg.Statements,
		Warnings:   seg.Warnings,
		Text:       req.Text,
	}
	res.Selected = selectStatements(res.Mode, offset, seg.Statements)

	level := req.Indent.FirstLineLevel(req.Text)
	f := format.New(format.Options{Indent: req.Indent, Level: level})

	for _, i := range res.Selected {
		stmt := &res.Statements[i]
		stmt.Reformatted, err = f.FormatStatement(stmt.Raw)
		if err != nil {
			return nil, fmt.Errorf("format statement %d: %w", i, err)
		}
	}

	if res.Mode == ModeDocument {
		res.Text, err = f.Format(req.Text)
		if err != nil {
			return nil, fmt.Errorf("format document: %w", err)
		}
	} else {
		res.Text, err = replace(src, ix, res, strings.Repeat(req.Indent.Unit(), level))
		if err != nil {
			return nil, err
		}
	}

	res.Changed = res.Text != req.Text
	return res, nil
}

func selectStatements(mode Mode, offset int, stmts []statement.Statement) []int {
	var selected []int
	switch mode {
	case ModeDocument:
		for i := range stmts {
			selected = append(selected, i)
		}
	case ModeUpToCursor:
		for i, s := range stmts {
			if s.StartOffset >= offset {
				break
			}
			selected = append(selected, i)
		}
	default:
		if i, ok := locate.FindStatement(offset, stmts); ok {
			selected = append(selected, i)
		}
	}
	return selected
}

// replace splices the reformatted statements into src. A statement that
// starts its line also has the line's indentation rewritten to prefix.
func replace(src []rune, ix *locate.Index, res *Result, prefix string) (string, error) {
	edits := make([]fix.TextEdit, 0, len(res.Selected))
	for _, i := range res.Selected {
		stmt := res.Statements[i]
		start, text := stmt.StartOffset, stmt.Reformatted

		lineStart := ix.LineStart(stmt.StartLine)
		if strings.TrimLeft(string(src[lineStart:start]), " \t") == "" {
			start, text = lineStart, prefix+text
		}

		edits = append(edits, fix.TextEdit{
			StartOffset: start,
			EndOffset:   stmt.EndOffset,
			NewText:     text,
		})
	}

	out, err := fix.ApplyString(string(src), edits)
	if err != nil {
		return "", fmt.Errorf("apply edits: %w", err)
	}
	return out, nil
}
