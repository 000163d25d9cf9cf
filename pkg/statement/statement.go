// Package statement splits a document into top-level statements.
package statement

import (
	"strings"

	"github.com/shadanan/mathmate/pkg/scanner"
	"github.com/shadanan/mathmate/pkg/scope"
)

// Kind classifies a statement by its top-level assignment.
type Kind uint8

// Statement kinds.
const (
	KindExpression Kind = iota
	KindAssignment
	KindDelayed
)

func (k Kind) String() string {
	switch k {
	case KindAssignment:
		return "assignment"
	case KindDelayed:
		return "delayed"
	default:
		return "expression"
	}
}

// Statement is one top-level unit of the document.
type Statement struct {
	// StartOffset and EndOffset delimit Raw in runes, EndOffset exclusive.
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`

	// Lines are 1-based, columns 0-based.
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`

	Raw         string `json:"raw"`
	Reformatted string `json:"reformatted,omitempty"`

	Kind Kind `json:"-"`

	// Head is the left-hand side of a top-level assignment.
	Head string `json:"head,omitempty"`
}

// Contains reports whether offset falls inside the statement.
func (s Statement) Contains(offset int) bool {
	return offset >= s.StartOffset && offset < s.EndOffset
}

// Empty reports whether the statement has no visible text.
func (s Statement) Empty() bool {
	return strings.TrimSpace(s.Raw) == ""
}

// Result is the output of Segment.
type Result struct {
	Statements []Statement

	// ScopePath is the scope path at the tracked cursor; empty between
	// statements.
	ScopePath string

	// Warnings holds recoverable problems such as unterminated literals.
	Warnings []error
}

// Options configures Segment.
type Options struct {
	// Cursor is the offset whose scope path is reported. Negative disables
	// tracking.
	Cursor int
}

// Segment scans src and returns its statements in document order.
// The only fatal error is an unmatched closing bracket.
func Segment(src []rune, opts Options) (*Result, error) {
	tz := scanner.NewTokenizer(src)
	if opts.Cursor >= 0 {
		tz.TrackCursor(opts.Cursor)
	}

	var (
		stmts   []Statement
		current *Statement
	)

	for {
		tok, err := tz.Next()
		if err != nil {
			return nil, err
		}

		if tok.Kind == scanner.KindStatementStart {
			current = &Statement{
				StartOffset: tok.Start,
				StartLine:   tok.Line + 1,
				StartColumn: tok.Column,
			}
		}

		if current != nil && tok.Kind == scanner.KindOperator && tok.Pushed == scope.Define {
			current.Kind = assignmentKind(tok.Op.Text)
			current.Head = strings.TrimSpace(string(src[current.StartOffset:tok.Start]))
		}

		if tok.Ends && current != nil {
			end := tok.Start
			if tok.Kind == scanner.KindSemicolon {
				end = tok.End
			}
			current.EndOffset = end
			current.EndLine = tok.Line + 1
			current.EndColumn = tok.Column + (end - tok.Start)
			current.Raw = string(src[current.StartOffset:end])
			stmts = append(stmts, *current)
			current = nil
		}

		if tok.Kind == scanner.KindEOF {
			break
		}
	}

	path, _ := tz.ScopePath()
	return &Result{
		Statements: stmts,
		ScopePath:  path,
		Warnings:   tz.Warnings(),
	}, nil
}

func assignmentKind(op string) Kind {
	if strings.HasSuffix(op, ":=") {
		return KindDelayed
	}
	return KindAssignment
}
