// Package format renders statements with canonical spacing and indentation.
package format

import (
	"strings"
	"unicode/utf8"

	"github.com/shadanan/mathmate/pkg/scanner"
)

// Options configures a Formatter.
type Options struct {
	Indent Indent

	// Level is the indentation level every statement starts at.
	Level int
}

// Formatter reformats Mathematica source text. It is stateless between
// calls and safe for concurrent use.
type Formatter struct {
	unit  string
	level int
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	return &Formatter{
		unit:  opts.Indent.Unit(),
		level: max(opts.Level, 0),
	}
}

// Format reformats a whole document. Blank lines between statements are
// kept and statements sharing a line are separated by one space.
func (f *Formatter) Format(text string) (string, error) {
	return f.run(text, false)
}

// FormatStatement reformats the raw text of one statement. The result has
// no indentation on its first line; continuation lines are indented
// relative to the formatter's level.
func (f *Formatter) FormatStatement(raw string) (string, error) {
	return f.run(raw, true)
}

func (f *Formatter) run(text string, inline bool) (string, error) {
	tz := scanner.NewTokenizer([]rune(text))
	w := &writer{unit: f.unit, level: f.level, skipIndent: inline}
	w.out.Grow(len(text) + len(text)/8)

	sc := tz.Scanner()
	for {
		tok, err := tz.Next()
		if err != nil {
			return "", err
		}
		if tok.Kind == scanner.KindEOF {
			return w.out.String(), nil
		}
		if tok.InLiteral {
			w.literal(tok.Text)
			continue
		}

		switch tok.Kind {
		case scanner.KindStatementStart:
			if w.lineContent {
				w.pending = true
			}
		case scanner.KindSpace:
			if !tok.Gap && keepsSpace(sc, tok) {
				w.pending = true
			}
		case scanner.KindNewline:
			w.newline()
		case scanner.KindWord:
			if prev, ok := sc.Prev(tok.Start); ok && scanner.IsCloser(prev) {
				w.pending = true
			}
			w.write(tok.Text, tok.Indent)
		case scanner.KindCommentStart:
			if prev, ok := sc.PrevNonSpace(tok.Start); ok && scanner.IsWordChar(prev) {
				w.pending = true
			}
			w.write(tok.Text, tok.Indent)
		case scanner.KindOperator:
			f.operator(w, tok)
		case scanner.KindComma:
			w.pending = false
			w.write(tok.Text, tok.Indent)
			w.pending = true
		case scanner.KindSemicolon, scanner.KindClose:
			w.pending = false
			w.write(tok.Text, tok.Indent)
		default:
			w.write(tok.Text, tok.Indent)
		}
	}
}

func (f *Formatter) operator(w *writer, tok scanner.Token) {
	switch {
	case tok.Unary || tok.Op.Spacing == scanner.Tight:
		w.write(tok.Text, tok.Indent)
	case tok.Op.Spacing == scanner.Around:
		w.space()
		w.write(tok.Text, tok.Indent)
		w.pending = true
	case tok.Op.Spacing == scanner.Before:
		w.space()
		w.write(tok.Text, tok.Indent)
	case tok.Op.Spacing == scanner.After:
		w.write(tok.Text, tok.Indent)
		w.pending = true
	}
}

// keepsSpace reports whether a whitespace run separates two word
// characters, or a closing bracket and a word character.
func keepsSpace(sc *scanner.Scanner, tok scanner.Token) bool {
	prev, ok := sc.Prev(tok.Start)
	if !ok || !(scanner.IsWordChar(prev) || scanner.IsCloser(prev)) {
		return false
	}
	next, ok := sc.NextNonSpace(tok.End)
	return ok && scanner.IsWordChar(next)
}

// glues reports whether text written directly after out would run into
// the preceding runes and lex as a different token, such as "/" followed
// by ".5" reading as "/.", or "(" followed by "*" opening a comment.
func glues(out, text string) bool {
	tail := lastRunes(out, 2)
	head := []rune(text)
	for i := 1; i <= len(tail); i++ {
		for j := 1; j <= len(head) && i+j <= 3; j++ {
			joined := string(tail[len(tail)-i:]) + string(head[:j])
			if _, ok := scanner.LookupOperator(joined); ok || joined == "(*" || joined == "[[" {
				return true
			}
		}
	}
	return false
}

// lastRunes returns up to n runes from the end of s.
func lastRunes(s string, n int) []rune {
	out := make([]rune, 0, n)
	for len(out) < n && s != "" {
		r, size := utf8.DecodeLastRuneInString(s)
		out = append([]rune{r}, out...)
		s = s[:len(s)-size]
	}
	return out
}

// writer accumulates output and owns line-level state.
type writer struct {
	out   strings.Builder
	unit  string
	level int

	// lineContent is set once anything is written on the current line.
	lineContent bool

	// pending holds a single space owed before the next token on the line.
	pending bool

	// skipIndent suppresses indentation of the first line.
	skipIndent bool
}

func (w *writer) write(text string, depth int) {
	switch {
	case !w.lineContent:
		if !w.skipIndent {
			for range w.level + depth {
				w.out.WriteString(w.unit)
			}
		}
	case w.pending || glues(w.out.String(), text):
		w.out.WriteByte(' ')
	}
	w.skipIndent = false
	w.pending = false
	w.lineContent = true
	w.out.WriteString(text)
}

// literal copies string and comment content verbatim.
func (w *writer) literal(text string) {
	if w.pending && w.lineContent {
		w.out.WriteByte(' ')
	}
	w.pending = false
	w.skipIndent = false
	w.out.WriteString(text)
	w.lineContent = !strings.HasSuffix(text, "\n")
}

func (w *writer) space() {
	if w.lineContent {
		w.pending = true
	}
}

func (w *writer) newline() {
	w.out.WriteByte('\n')
	w.pending = false
	w.lineContent = false
	w.skipIndent = false
}
