package scanner

// Spacing describes the whitespace the reformatter places around a token.
type Spacing uint8

// Spacing classes.
const (
	// Tight operators are emitted with no added whitespace.
	Tight Spacing = iota
	// Around operators get one space on each side.
	Around
	// Before operators get one leading space.
	Before
	// After operators get one trailing space.
	After
)

// Operator describes a recognized operator token.
type Operator struct {
	Text    string
	Spacing Spacing

	// Binary operators that end their line push a Continuation scope.
	Binary bool

	// Assign operators open a Define scope at statement level.
	Assign bool
}

func spaced(text string) Operator {
	return Operator{Text: text, Spacing: Around, Binary: true}
}

func assign(text string) Operator {
	return Operator{Text: text, Spacing: Around, Binary: true, Assign: true}
}

func tight(text string, binary bool) Operator {
	return Operator{Text: text, Spacing: Tight, Binary: binary}
}

// operatorTable is indexed by length so matching is longest first.
var operatorTable = [4]map[string]Operator{
	3: {
		"===": spaced("==="),
		"=!=": spaced("=!="),
		">>>": spaced(">>>"),
		"^:=": assign("^:="),
		"//@": spaced("//@"),
		"//.": spaced("//."),
		"@@@": spaced("@@@"),
		"...": {Text: "...", Spacing: Before},
	},
	2: {
		"*^": spaced("*^"),
		"&&": spaced("&&"),
		"||": spaced("||"),
		"==": spaced("=="),
		"!=": spaced("!="),
		">=": spaced(">="),
		"<=": spaced("<="),
		";;": spaced(";;"),
		"/.": spaced("/."),
		"->": spaced("->"),
		":>": spaced(":>"),
		"<>": spaced("<>"),
		">>": spaced(">>"),
		"/@": spaced("/@"),
		"/;": spaced("/;"),
		"/:": spaced("/:"),
		"//": spaced("//"),
		"~~": spaced("~~"),
		":=": assign(":="),
		"^=": assign("^="),
		"+=": spaced("+="),
		"-=": spaced("-="),
		"*=": spaced("*="),
		"/=": spaced("/="),
		"@@": spaced("@@"),
		"++": tight("++", false),
		"--": tight("--", false),
		"<<": tight("<<", false),
		"..": {Text: "..", Spacing: Before},
		"=.": {Text: "=.", Spacing: Before},
	},
	1: {
		"+": spaced("+"),
		"-": spaced("-"),
		">": spaced(">"),
		"<": spaced("<"),
		"|": spaced("|"),
		"=": assign("="),
		"*": tight("*", true),
		"/": tight("/", true),
		"^": tight("^", true),
		"!": {Text: "!", Spacing: After},
		"&": {Text: "&", Spacing: Before},
		"?": tight("?", false),
		"@": tight("@", false),
		"#": tight("#", false),
	},
}

// MatchOperator returns the longest operator starting at pos.
func (s *Scanner) MatchOperator(pos int) (Operator, bool) {
	for n := 3; n >= 1; n-- {
		if op, ok := operatorTable[n][s.Peek(pos, n)]; ok {
			return op, true
		}
	}
	return Operator{}, false
}

// LookupOperator returns the table entry for text.
func LookupOperator(text string) (Operator, bool) {
	n := len([]rune(text))
	if n < 1 || n > 3 {
		return Operator{}, false
	}
	op, ok := operatorTable[n][text]
	return op, ok
}

// unaryContext holds the characters after which '-' is a sign.
const unaryContext = "{([,;="

// isUnaryMinus reports whether the '-' at pos is a prefix sign.
func (s *Scanner) isUnaryMinus(pos int) bool {
	prev, ok := s.PrevNonSpace(pos)
	if !ok {
		return true
	}
	for _, r := range unaryContext {
		if prev == r {
			return true
		}
	}
	return false
}
