package format

import "strings"

// DefaultIndentSize is the number of spaces per level when none is given.
const DefaultIndentSize = 2

// Indent describes one indentation unit.
type Indent struct {
	// Tabs selects a tab character per level instead of spaces.
	Tabs bool

	// Size is the number of spaces per level. With Tabs set it is the
	// width a tab is counted as when measuring existing indentation.
	Size int
}

// Unit returns the text of one indentation level.
func (i Indent) Unit() string {
	if i.Tabs {
		return "\t"
	}
	return strings.Repeat(" ", i.size())
}

func (i Indent) size() int {
	if i.Size <= 0 {
		return DefaultIndentSize
	}
	return i.Size
}

// Level measures the indentation of line in levels: every tab counts as
// one level and every Size consecutive spaces count as one.
func (i Indent) Level(line string) int {
	size := i.size()
	level, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			level++
			spaces = 0
		case ' ':
			spaces++
			if spaces == size {
				level++
				spaces = 0
			}
		default:
			return level
		}
	}
	return level
}

// FirstLineLevel measures the indentation of the first line of text.
func (i Indent) FirstLineLevel(text string) int {
	line, _, _ := strings.Cut(text, "\n")
	return i.Level(line)
}
