package engine

import "unicode"

// SymbolAt returns the symbol around offset in src: the longest run of
// letters, digits, '$' and '`' touching offset, with leading digits
// dropped. It returns "" when the cursor is not on a symbol.
func SymbolAt(src []rune, offset int) string {
	offset = min(max(offset, 0), len(src))

	start := offset
	for start > 0 && isSymbolChar(src[start-1]) {
		start--
	}
	end := offset
	for end < len(src) && isSymbolChar(src[end]) {
		end++
	}

	for start < end && unicode.IsDigit(src[start]) {
		start++
	}
	return string(src[start:end])
}

func isSymbolChar(r rune) bool {
	return r == '$' || r == '`' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
