package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shadanan/mathmate/pkg/scanner"
)

func TestScanner_Peek(t *testing.T) {
	t.Parallel()

	s := scanner.New([]rune("a:=b"))

	assert.Equal(t, "a", s.Peek(0, 1))
	assert.Equal(t, ":=", s.Peek(1, 2))
	assert.Equal(t, ":=b", s.Peek(1, 3))
	assert.Equal(t, "b", s.Peek(3, 3))
	assert.Empty(t, s.Peek(4, 1))
	assert.Empty(t, s.Peek(-1, 1))
}

func TestScanner_PrevAndNonSpace(t *testing.T) {
	t.Parallel()

	s := scanner.New([]rune("f[x] \t\n  y"))

	_, ok := s.Prev(0)
	assert.False(t, ok)

	r, ok := s.Prev(4)
	assert.True(t, ok)
	assert.Equal(t, ']', r)

	_, ok = s.NextNonSpace(4)
	assert.False(t, ok, "rest of line is blank")
	assert.True(t, s.IsEndOfLine(4))

	r, ok = s.NextNonSpace(7)
	assert.True(t, ok)
	assert.Equal(t, 'y', r)

	_, ok = s.PrevNonSpace(9)
	assert.False(t, ok, "only blanks before y on its line")

	r, ok = s.PrevNonSpace(6)
	assert.True(t, ok)
	assert.Equal(t, ']', r)

	assert.Equal(t, 7, s.LineStart(9))
	assert.Equal(t, 0, s.LineStart(3))
}

func TestIsWordChar(t *testing.T) {
	t.Parallel()

	for _, r := range "aZ09$αβ" {
		assert.True(t, scanner.IsWordChar(r), string(r))
	}
	for _, r := range "_[]{}() ;,.`#" {
		assert.False(t, scanner.IsWordChar(r), string(r))
	}
}

func TestMatchOperator_LongestFirst(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"===x", "==="},
		{"==x", "=="},
		{"=x", "="},
		{"=!=x", "=!="},
		{"^:=x", "^:="},
		{"^=x", "^="},
		{"^x", "^"},
		{"//.x", "//."},
		{"//@x", "//@"},
		{"//x", "//"},
		{"/.x", "/."},
		{"/x", "/"},
		{"->x", "->"},
		{"--x", "--"},
		{"-x", "-"},
		{"@@@x", "@@@"},
		{"@@x", "@@"},
		{"@x", "@"},
		{";;x", ";;"},
		{"...", "..."},
		{"..", ".."},
		{"=.", "=."},
		{"*^", "*^"},
		{"&&", "&&"},
		{"&", "&"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			op, ok := scanner.New([]rune(tt.input)).MatchOperator(0)
			assert.True(t, ok)
			assert.Equal(t, tt.want, op.Text)
		})
	}
}

func TestMatchOperator_NotOperators(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"x", "[", ";", ",", ".", "_", ":"} {
		_, ok := scanner.New([]rune(input)).MatchOperator(0)
		assert.False(t, ok, input)
	}
}

func TestLookupOperator_Classes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		spacing scanner.Spacing
		binary  bool
		assign  bool
	}{
		{":=", scanner.Around, true, true},
		{"^:=", scanner.Around, true, true},
		{"=", scanner.Around, true, true},
		{"+=", scanner.Around, true, false},
		{"&&", scanner.Around, true, false},
		{"^", scanner.Tight, true, false},
		{"++", scanner.Tight, false, false},
		{"!", scanner.After, false, false},
		{"&", scanner.Before, false, false},
		{"..", scanner.Before, false, false},
		{"?", scanner.Tight, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			op, ok := scanner.LookupOperator(tt.text)
			assert.True(t, ok)
			assert.Equal(t, tt.spacing, op.Spacing)
			assert.Equal(t, tt.binary, op.Binary)
			assert.Equal(t, tt.assign, op.Assign)
		})
	}

	_, ok := scanner.LookupOperator("====")
	assert.False(t, ok)
}
