package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// LineKind tells whether a diff line is kept, added or removed.
type LineKind uint8

// Diff line kinds.
const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

var linePrefix = [...]byte{LineContext: ' ', LineAdd: '+', LineRemove: '-'}

// Line is one line of a hunk, without its prefix or newline.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is a line-level unified diff of one file.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Unified compares original and modified line by line. It returns nil when
// they have the same lines.
func Unified(path string, original, modified []byte) *Diff {
	a, b := splitLines(string(original)), splitLines(string(modified))

	ops := diffLines(a, b)
	d := &Diff{Path: path}
	for _, op := range ops {
		switch op.Kind {
		case LineAdd:
			d.Additions++
		case LineRemove:
			d.Deletions++
		}
	}
	if d.Additions == 0 && d.Deletions == 0 {
		return nil
	}
	d.Hunks = hunks(ops)
	return d
}

// HasChanges reports whether d holds at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			sb.WriteByte(linePrefix[l.Kind])
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// diffLines returns the edit script turning a into b. Common prefix and
// suffix are matched directly; the middle uses a longest common
// subsequence table.
func diffLines(a, b []string) []Line {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]Line, 0, len(a)+len(b))
	for _, s := range a[:prefix] {
		ops = append(ops, Line{Kind: LineContext, Text: s})
	}

	ma, mb := a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]
	table := make([][]int, len(ma)+1)
	for i := range table {
		table[i] = make([]int, len(mb)+1)
	}
	for i := len(ma) - 1; i >= 0; i-- {
		for j := len(mb) - 1; j >= 0; j-- {
			if ma[i] == mb[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(ma) || j < len(mb) {
		switch {
		case i < len(ma) && j < len(mb) && ma[i] == mb[j]:
			ops = append(ops, Line{Kind: LineContext, Text: ma[i]})
			i++
			j++
		case j < len(mb) && (i == len(ma) || table[i][j+1] > table[i+1][j]):
			ops = append(ops, Line{Kind: LineAdd, Text: mb[j]})
			j++
		default:
			ops = append(ops, Line{Kind: LineRemove, Text: ma[i]})
			i++
		}
	}

	for _, s := range a[len(a)-suffix:] {
		ops = append(ops, Line{Kind: LineContext, Text: s})
	}
	return ops
}

// hunks groups an edit script into hunks, merging changes whose context
// would overlap.
func hunks(ops []Line) []Hunk {
	// oldAt[i] and newAt[i] are the 1-based line numbers of ops[i].
	oldAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	oldAt[0], newAt[0] = 1, 1
	for i, op := range ops {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if op.Kind != LineAdd {
			oldAt[i+1]++
		}
		if op.Kind != LineRemove {
			newAt[i+1]++
		}
	}

	var out []Hunk
	for i := 0; i < len(ops); {
		if ops[i].Kind == LineContext {
			i++
			continue
		}

		first, last := i, i
		for j := i + 1; j < len(ops) && j-last <= 2*contextLines; j++ {
			if ops[j].Kind != LineContext {
				last = j
			}
		}

		start := max(first-contextLines, 0)
		end := min(last+contextLines+1, len(ops))
		h := Hunk{OldStart: oldAt[start], NewStart: newAt[start]}
		for _, l := range ops[start:end] {
			h.add(l)
		}
		out = append(out, h)
		i = end
	}
	return out
}

func (h *Hunk) add(l Line) {
	h.Lines = append(h.Lines, l)
	if l.Kind != LineAdd {
		h.OldCount++
	}
	if l.Kind != LineRemove {
		h.NewCount++
	}
}
