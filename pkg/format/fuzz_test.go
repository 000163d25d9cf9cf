package format_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shadanan/mathmate/pkg/statement"
)

func FuzzFormat(f *testing.F) {
	for _, input := range idempotentInputs {
		f.Add(input)
	}

	fm := spaces2()
	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			return
		}

		once, err := fm.Format(input)
		if err != nil {
			return
		}
		twice, err := fm.Format(once)
		if err != nil {
			t.Fatalf("formatted output no longer scans: %v\ninput: %q\nonce:  %q", err, input, once)
		}
		if once != twice {
			t.Fatalf("not a fixed point\ninput: %q\nonce:  %q\ntwice: %q", input, once, twice)
		}

		src := []rune(input)
		res, err := statement.Segment(src, statement.Options{Cursor: -1})
		if err != nil {
			return
		}

		var b strings.Builder
		prev := 0
		for i, s := range res.Statements {
			if s.StartOffset < prev {
				t.Fatalf("statement %d starts at %d before %d", i, s.StartOffset, prev)
			}
			gap := string(src[prev:s.StartOffset])
			if strings.TrimSpace(gap) != "" {
				t.Fatalf("gap before statement %d holds %q", i, gap)
			}
			b.WriteString(gap)
			b.WriteString(s.Raw)
			prev = s.EndOffset
		}
		b.WriteString(string(src[prev:]))
		if b.String() != input {
			t.Fatalf("statements do not rebuild the input\ninput: %q\ngot:   %q", input, b.String())
		}
	})
}
