package fix

import "bytes"

// ApplyEdits applies edits prepared by PrepareEdits to byte content.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	grow := 0
	for _, e := range edits {
		grow += len(e.NewText) - e.Len()
	}

	var out bytes.Buffer
	out.Grow(max(len(content)+grow, 0))

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])
	return out.Bytes()
}

// ApplyRuneEdits applies edits prepared by PrepareEdits to rune content.
func ApplyRuneEdits(content []rune, edits []TextEdit) []rune {
	if len(edits) == 0 {
		return content
	}

	out := make([]rune, 0, len(content))
	cursor := 0
	for _, e := range edits {
		out = append(out, content[cursor:e.StartOffset]...)
		out = append(out, []rune(e.NewText)...)
		cursor = e.EndOffset
	}
	return append(out, content[cursor:]...)
}

// ApplyString prepares rune-offset edits against text and applies them.
func ApplyString(text string, edits []TextEdit) (string, error) {
	runes := []rune(text)
	prepared, err := PrepareEdits(edits, len(runes))
	if err != nil {
		return "", err
	}
	return string(ApplyRuneEdits(runes, prepared)), nil
}
