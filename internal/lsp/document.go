package lsp

import (
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shadanan/mathmate/pkg/locate"
)

// document is an open text document. Protocol positions count UTF-16 code
// units; the engine counts runes, so every position crosses this type.
type document struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    string
	runes   []rune
	index   *locate.Index
}

func newDocument(uri protocol.DocumentUri, version protocol.Integer, text string) *document {
	runes := []rune(text)
	return &document{
		uri:     uri,
		version: version,
		text:    text,
		runes:   runes,
		index:   locate.NewIndex(runes),
	}
}

// offset converts a protocol position to a rune offset, clamping to the
// line and the document.
func (d *document) offset(pos protocol.Position) int {
	line := int(pos.Line) + 1
	if line > d.index.Lines() {
		return len(d.runes)
	}
	start := d.index.LineStart(line)
	end := d.index.ToOffset(line, len(d.runes))

	units := int(pos.Character)
	i := start
	for i < end && units > 0 {
		units -= utf16.RuneLen(d.runes[i])
		i++
	}
	return i
}

// position converts a rune offset to a protocol position.
func (d *document) position(offset int) protocol.Position {
	line, col := d.index.ToLineCol(offset)
	start := d.index.LineStart(line)

	units := 0
	for _, r := range d.runes[start : start+col] {
		units += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(line - 1),
		Character: protocol.UInteger(units),
	}
}

func (d *document) span(start, end int) protocol.Range {
	return protocol.Range{Start: d.position(start), End: d.position(end)}
}

// fullRange covers the whole document.
func (d *document) fullRange() protocol.Range {
	return d.span(0, len(d.runes))
}

// lineColumn converts a protocol position to the engine's 1-based line and
// 0-based rune column.
func (d *document) lineColumn(pos protocol.Position) (int, int) {
	return d.index.ToLineCol(d.offset(pos))
}
