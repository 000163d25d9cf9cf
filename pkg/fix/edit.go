// Package fix applies text edits and renders the difference between two
// versions of a document.
package fix

// TextEdit replaces the range [StartOffset, EndOffset) with NewText.
// Offsets are in the units of the slice the edit is applied to: bytes for
// file content, runes for engine documents.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Len returns the length of the replaced range.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// EditBuilder accumulates edits for one document.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates an empty builder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{Edits: make([]TextEdit, 0)}
}

// ReplaceRange records a replacement of [start, end).
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{StartOffset: start, EndOffset: end, NewText: newText})
}

// Insert records an insertion at offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete records a deletion of [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}
