package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadanan/mathmate/pkg/scanner"
	"github.com/shadanan/mathmate/pkg/scope"
)

func tokenize(t *testing.T, input string) []scanner.Token {
	t.Helper()

	tz := scanner.NewTokenizer([]rune(input))
	var toks []scanner.Token
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == scanner.KindEOF {
			return toks
		}
	}
}

func kinds(toks []scanner.Token) []scanner.Kind {
	out := make([]scanner.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizer_Assignment(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "x=1;")

	assert.Equal(t, []scanner.Kind{
		scanner.KindStatementStart,
		scanner.KindWord,
		scanner.KindOperator,
		scanner.KindWord,
		scanner.KindSemicolon,
		scanner.KindEOF,
	}, kinds(toks))

	assert.Equal(t, scope.Define, toks[2].Pushed)
	assert.True(t, toks[4].Ends)
	assert.False(t, toks[5].Ends, "statement already closed by ';'")
}

func TestTokenizer_NewlineTerminates(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "a\nb")

	require.Len(t, toks, 6)
	assert.Equal(t, scanner.KindNewline, toks[2].Kind)
	assert.True(t, toks[2].Ends)
	assert.Equal(t, scanner.KindStatementStart, toks[3].Kind)
	assert.Equal(t, 1, toks[4].Line)
	assert.Equal(t, 0, toks[4].Column)
	assert.True(t, toks[5].Ends, "end of input closes the open statement")
}

func TestTokenizer_NewlineInsideBracketsContinues(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "f[a,\nb]")
	for _, tok := range toks[:len(toks)-1] {
		assert.False(t, tok.Ends, "token %q", tok.Text)
	}
}

func TestTokenizer_StringSemicolon(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, `x = "a;b";`)

	var ends []int
	for _, tok := range toks {
		if tok.Ends {
			ends = append(ends, tok.End)
		}
	}
	assert.Equal(t, []int{10}, ends)
}

func TestTokenizer_StringEscapes(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, `"a\"b\\";c`)

	var literal []string
	for _, tok := range toks {
		if tok.Kind == scanner.KindLiteral {
			literal = append(literal, tok.Text)
		}
	}
	assert.Equal(t, []string{"a", `\"`, "b", `\\`}, literal)
	assert.Equal(t, scanner.KindSemicolon, toks[7].Kind)
	assert.True(t, toks[7].Ends)
}

func TestTokenizer_NestedComments(t *testing.T) {
	t.Parallel()

	input := "(* outer (* inner *) still; outer *)x"
	tz := scanner.NewTokenizer([]rune(input))
	tz.TrackCursor(len("(* outer (* inn"))

	var sawStatementEnd bool
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		if tok.Kind == scanner.KindSemicolon {
			sawStatementEnd = true
		}
		if tok.Kind == scanner.KindEOF {
			break
		}
	}

	assert.False(t, sawStatementEnd, "';' inside a comment is literal text")
	path, ok := tz.ScopePath()
	require.True(t, ok)
	assert.Equal(t, "root.comment.comment", path)
	assert.Empty(t, tz.Warnings())
}

func TestTokenizer_EscapedCommentClose(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, `(* a \*) b *)`)

	var closes int
	for _, tok := range toks {
		if tok.Kind == scanner.KindCommentEnd {
			closes++
		}
	}
	assert.Equal(t, 1, closes)
}

func TestTokenizer_Part(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "a[[b[c]]]")

	var got []string
	for _, tok := range toks {
		if tok.Kind == scanner.KindOpen || tok.Kind == scanner.KindClose {
			got = append(got, tok.Text+":"+tok.Scope.String())
		}
	}
	assert.Equal(t, []string{"[[:part", "[:function", "]:function", "]]:part"}, got)
}

func TestTokenizer_TrailingOperatorContinuation(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "r = a &&\nb;\nc")

	var and, b scanner.Token
	for _, tok := range toks {
		switch tok.Text {
		case "&&":
			and = tok
		case "b":
			b = tok
		}
	}

	assert.Equal(t, scope.Continuation, and.Pushed)
	assert.Equal(t, 1, b.Indent)

	last := toks[len(toks)-2]
	assert.Equal(t, "c", last.Text)
	assert.Equal(t, 0, last.Indent)
}

func TestTokenizer_ContinuationDoesNotAccumulate(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "a +\nb +\nc")

	for _, tok := range toks {
		if tok.Text == "b" || tok.Text == "c" {
			assert.Equal(t, 1, tok.Indent, tok.Text)
		}
	}
}

func TestTokenizer_HangingDefineIndents(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "f[x_] :=\nx^2\ng")

	for _, tok := range toks {
		switch tok.Text {
		case "x":
			if tok.Line == 1 {
				assert.Equal(t, 1, tok.Indent)
			}
		case "g":
			assert.Equal(t, 0, tok.Indent)
			assert.Equal(t, 2, tok.Line)
		}
	}
}

func TestTokenizer_CloserIndent(t *testing.T) {
	t.Parallel()

	toks := tokenize(t, "f[\na +\n]")

	closer := toks[len(toks)-2]
	require.Equal(t, scanner.KindClose, closer.Kind)
	assert.Equal(t, 0, closer.Indent)
}

func TestTokenizer_UnaryMinus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		unary bool
	}{
		{"-x", true},
		{"f[-x]", true},
		{"{a,-b}", true},
		{"x=-1", true},
		{"a;-b", true},
		{"a-b", false},
		{"f[x]-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			for _, tok := range tokenize(t, tt.input) {
				if tok.Kind == scanner.KindOperator && tok.Op.Text == "-" {
					assert.Equal(t, tt.unary, tok.Unary)
				}
			}
		})
	}
}

func TestTokenizer_ScopeUnderflow(t *testing.T) {
	t.Parallel()

	tz := scanner.NewTokenizer([]rune("x]"))
	var err error
	for err == nil {
		var tok scanner.Token
		tok, err = tz.Next()
		if tok.Kind == scanner.KindEOF {
			break
		}
	}

	require.ErrorIs(t, err, scope.ErrScopeUnderflow)
	var posErr *scanner.PosError
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, 1, posErr.Offset)
}

func TestTokenizer_MismatchedBracket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{name: "list closed by paren", input: "{a)", offset: 2},
		{name: "function closed by brace", input: "f[a}", offset: 3},
		{name: "group closed by bracket", input: "(a]", offset: 2},
		{name: "part closed by single bracket", input: "a[[1]", offset: 4},
		{name: "function closed inside part", input: "a[[f[x}]]", offset: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tz := scanner.NewTokenizer([]rune(tt.input))
			var err error
			for err == nil {
				var tok scanner.Token
				tok, err = tz.Next()
				if tok.Kind == scanner.KindEOF {
					break
				}
			}

			require.ErrorIs(t, err, scanner.ErrMismatchedBracket)
			assert.ErrorIs(t, err, scope.ErrScopeUnderflow)
			var posErr *scanner.PosError
			require.ErrorAs(t, err, &posErr)
			assert.Equal(t, tt.offset, posErr.Offset)
		})
	}
}

func TestTokenizer_MatchedBrackets(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"{a, (b)}", "f[{1}, (2)]", "a[[f[{x}]]]", "m[[1]][[2]]"} {
		toks := tokenize(t, input)
		assert.Equal(t, scanner.KindEOF, toks[len(toks)-1].Kind, input)
	}
}

func TestTokenizer_UnterminatedLiteral(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`x = "abc`, "(* open (* nested *)"} {
		tz := scanner.NewTokenizer([]rune(input))
		var last scanner.Token
		for {
			tok, err := tz.Next()
			require.NoError(t, err)
			if tok.Kind == scanner.KindEOF {
				last = tok
				break
			}
		}

		assert.True(t, last.Ends, input)
		require.Len(t, tz.Warnings(), 1, input)
		assert.ErrorIs(t, tz.Warnings()[0], scanner.ErrUnterminatedLiteral)
		assert.Equal(t, 0, tz.Depth())
	}
}

func TestTokenizer_UnclosedBracket(t *testing.T) {
	t.Parallel()

	tz := scanner.NewTokenizer([]rune("f[x"))
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		if tok.Kind == scanner.KindEOF {
			break
		}
	}

	require.Len(t, tz.Warnings(), 1)
	assert.ErrorIs(t, tz.Warnings()[0], scanner.ErrUnclosedBracket)
}

func TestTokenizer_CursorBetweenStatements(t *testing.T) {
	t.Parallel()

	tz := scanner.NewTokenizer([]rune("a;  b"))
	tz.TrackCursor(3)
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		if tok.Kind == scanner.KindEOF {
			break
		}
	}

	path, ok := tz.ScopePath()
	require.True(t, ok)
	assert.Empty(t, path)
}

func TestTokenizer_CursorAtEnd(t *testing.T) {
	t.Parallel()

	tz := scanner.NewTokenizer([]rune("f[x"))
	tz.TrackCursor(3)
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		if tok.Kind == scanner.KindEOF {
			break
		}
	}

	path, ok := tz.ScopePath()
	require.True(t, ok)
	assert.Equal(t, "root.function", path)
}
