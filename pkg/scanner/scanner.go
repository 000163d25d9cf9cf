// Package scanner provides the character-level queries and the tokenizer
// that drive statement segmentation and reformatting.
//
// All positions are rune offsets into the document.
package scanner

import "unicode"

// Scanner answers lookahead and lookbehind queries over a document.
// It holds no cursor of its own; callers pass the position they are at.
type Scanner struct {
	src []rune
}

// New creates a scanner over src. The slice must not be modified while the
// scanner is in use.
func New(src []rune) *Scanner {
	return &Scanner{src: src}
}

// Len returns the document length in runes.
func (s *Scanner) Len() int {
	return len(s.src)
}

// At returns the rune at pos, or 0 outside the document.
func (s *Scanner) At(pos int) rune {
	if pos < 0 || pos >= len(s.src) {
		return 0
	}
	return s.src[pos]
}

// Peek returns up to n runes starting at pos. Near the end of the document
// the result is shorter than n.
func (s *Scanner) Peek(pos, n int) string {
	if pos < 0 || pos >= len(s.src) {
		return ""
	}
	end := min(pos+n, len(s.src))
	return string(s.src[pos:end])
}

// Slice returns the text in [start, end).
func (s *Scanner) Slice(start, end int) string {
	start = max(start, 0)
	end = min(end, len(s.src))
	if start >= end {
		return ""
	}
	return string(s.src[start:end])
}

// Prev returns the rune before pos.
func (s *Scanner) Prev(pos int) (rune, bool) {
	if pos <= 0 || pos > len(s.src) {
		return 0, false
	}
	return s.src[pos-1], true
}

// NextNonSpace returns the first non-blank rune at or after pos that is on
// the same line. It reports false if the rest of the line is blank.
func (s *Scanner) NextNonSpace(pos int) (rune, bool) {
	for i := max(pos, 0); i < len(s.src); i++ {
		r := s.src[i]
		if r == '\n' {
			return 0, false
		}
		if !IsBlank(r) {
			return r, true
		}
	}
	return 0, false
}

// PrevNonSpace returns the last non-blank rune before pos on the same line.
// It reports false if only blanks precede pos on its line.
func (s *Scanner) PrevNonSpace(pos int) (rune, bool) {
	for i := min(pos, len(s.src)) - 1; i >= 0; i-- {
		r := s.src[i]
		if r == '\n' {
			return 0, false
		}
		if !IsBlank(r) {
			return r, true
		}
	}
	return 0, false
}

// IsEndOfLine reports whether everything from pos up to the next newline
// is blank.
func (s *Scanner) IsEndOfLine(pos int) bool {
	_, ok := s.NextNonSpace(pos)
	return !ok
}

// LineStart returns the offset of the first rune on the line containing pos.
func (s *Scanner) LineStart(pos int) int {
	for i := min(pos, len(s.src)) - 1; i >= 0; i-- {
		if s.src[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

// IsWordChar reports whether r can be part of a symbol or number.
func IsWordChar(r rune) bool {
	return r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsBlank reports whether r is horizontal whitespace.
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

// IsCloser reports whether r closes a bracket.
func IsCloser(r rune) bool {
	return r == ']' || r == '}' || r == ')'
}
