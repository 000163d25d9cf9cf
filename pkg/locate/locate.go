// Package locate converts between cursor coordinates and document offsets
// and resolves a cursor to a statement.
package locate

import (
	"sort"

	"github.com/shadanan/mathmate/pkg/statement"
)

// Index maps between rune offsets and (line, column) positions.
// Lines are 1-based and columns 0-based.
type Index struct {
	starts []int
	size   int
}

// NewIndex builds the line table for src.
func NewIndex(src []rune) *Index {
	starts := make([]int, 1, 64)
	for i, r := range src {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{starts: starts, size: len(src)}
}

// Lines returns the number of lines; a trailing newline opens an empty
// last line.
func (ix *Index) Lines() int {
	return len(ix.starts)
}

// Len returns the document length.
func (ix *Index) Len() int {
	return ix.size
}

// ToOffset converts a position to an offset. Lines past the end resolve to
// the document length and columns past the end of their line resolve to
// the line's end.
func (ix *Index) ToOffset(line, col int) int {
	if line < 1 {
		return 0
	}
	if line > len(ix.starts) {
		return ix.size
	}
	start := ix.starts[line-1]
	end := ix.lineEnd(line - 1)
	return start + min(max(col, 0), end-start)
}

// ToLineCol converts an offset to a position, clamping to the document.
func (ix *Index) ToLineCol(offset int) (int, int) {
	offset = min(max(offset, 0), ix.size)
	i := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1
	return i + 1, offset - ix.starts[i]
}

// LineStart returns the offset of the first rune of line.
func (ix *Index) LineStart(line int) int {
	line = min(max(line, 1), len(ix.starts))
	return ix.starts[line-1]
}

// lineEnd returns the offset of the newline ending line i (zero-based), or
// the document length for the last line.
func (ix *Index) lineEnd(i int) int {
	if i+1 < len(ix.starts) {
		return ix.starts[i+1] - 1
	}
	return ix.size
}

// ToOffset converts a position in src without building a reusable index.
func ToOffset(src []rune, line, col int) int {
	return NewIndex(src).ToOffset(line, col)
}

// FindStatement returns the index of the statement containing offset. When
// offset lies between or after statements, the nearest preceding statement
// is returned. It reports false if offset precedes every statement.
func FindStatement(offset int, stmts []statement.Statement) (int, bool) {
	i := sort.Search(len(stmts), func(i int) bool {
		return stmts[i].StartOffset > offset
	}) - 1
	if i < 0 {
		return 0, false
	}
	return i, true
}
