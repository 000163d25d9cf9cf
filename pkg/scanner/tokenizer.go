package scanner

import (
	"strings"

	"github.com/shadanan/mathmate/pkg/scope"
)

// Kind classifies a token.
type Kind uint8

// Token kinds.
const (
	KindEOF Kind = iota
	KindStatementStart
	KindSpace
	KindNewline
	KindWord
	KindOperator
	KindOpen
	KindClose
	KindComma
	KindSemicolon
	KindStringStart
	KindStringEnd
	KindCommentStart
	KindCommentEnd
	KindLiteral
	KindOther
)

var kindNames = [...]string{
	KindEOF:            "eof",
	KindStatementStart: "statement-start",
	KindSpace:          "space",
	KindNewline:        "newline",
	KindWord:           "word",
	KindOperator:       "operator",
	KindOpen:           "open",
	KindClose:          "close",
	KindComma:          "comma",
	KindSemicolon:      "semicolon",
	KindStringStart:    "string-start",
	KindStringEnd:      "string-end",
	KindCommentStart:   "comment-start",
	KindCommentEnd:     "comment-end",
	KindLiteral:        "literal",
	KindOther:          "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is one unit of the scan together with the scope transition it caused.
type Token struct {
	Kind Kind
	Text string

	// Start and End delimit the token, End exclusive.
	Start, End int

	// Line and Column locate Start (zero-based).
	Line, Column int

	// Op is set for KindOperator.
	Op Operator

	// Unary marks a '-' used as a sign.
	Unary bool

	// Scope is the bracket tag opened or closed by KindOpen/KindClose.
	Scope scope.Tag

	// Pushed is the scope this token opened, if any.
	Pushed scope.Tag

	// Indent is the indentation depth a line starting with this token gets.
	Indent int

	// InLiteral marks tokens scanned inside a string or comment.
	InLiteral bool

	// Gap marks whitespace between statements.
	Gap bool

	// Ends marks the token that terminated the current statement.
	Ends bool
}

// Tokenizer walks a document once, maintaining the scope stack.
type Tokenizer struct {
	sc    *Scanner
	stack *scope.Stack

	pos       int
	line      int
	lineStart int
	done      bool

	cursor    int
	hasCursor bool
	path      string
	pathSet   bool

	warnings []error
}

// NewTokenizer creates a tokenizer over src.
func NewTokenizer(src []rune) *Tokenizer {
	return &Tokenizer{
		sc:    New(src),
		stack: scope.New(),
	}
}

// TrackCursor records the scope path in effect at offset.
func (t *Tokenizer) TrackCursor(offset int) {
	t.cursor = offset
	t.hasCursor = true
}

// ScopePath returns the path captured at the tracked cursor.
func (t *Tokenizer) ScopePath() (string, bool) {
	return t.path, t.pathSet
}

// Scanner returns the underlying scanner.
func (t *Tokenizer) Scanner() *Scanner {
	return t.sc
}

// Depth returns the current stack depth.
func (t *Tokenizer) Depth() int {
	return t.stack.Depth()
}

// Warnings returns the recoverable problems found so far.
func (t *Tokenizer) Warnings() []error {
	return t.warnings
}

// Next scans one token and applies its scope transition. After the end of
// input it keeps returning KindEOF. A closing bracket without an opener
// yields an error wrapping scope.ErrScopeUnderflow.
func (t *Tokenizer) Next() (Token, error) {
	if t.done {
		return t.eof(), nil
	}
	if t.pos >= t.sc.Len() {
		return t.finish(), nil
	}

	tok := t.classify()
	tok.Line = t.line
	tok.Column = tok.Start - t.lineStart
	tok.Indent = t.indentFor(tok)
	t.capture(tok.Start, tok.End)

	if err := t.apply(&tok); err != nil {
		return tok, err
	}

	t.pos = tok.End
	if n := strings.Count(tok.Text, "\n"); n > 0 {
		t.line += n
		t.lineStart = tok.Start + strings.LastIndex(tok.Text, "\n") + 1
	}
	return tok, nil
}

func (t *Tokenizer) eof() Token {
	n := t.sc.Len()
	return Token{Kind: KindEOF, Start: n, End: n, Line: t.line, Column: n - t.lineStart}
}

func (t *Tokenizer) finish() Token {
	t.done = true
	tok := t.eof()
	t.capture(tok.Start, tok.Start+1)
	if t.stack.Depth() == 0 {
		return tok
	}
	switch {
	case t.stack.Contains(scope.String), t.stack.Contains(scope.Comment):
		t.warnings = append(t.warnings, &PosError{Offset: tok.Start, Err: ErrUnterminatedLiteral})
	case t.stack.InnermostBracket() >= 0:
		t.warnings = append(t.warnings, &PosError{Offset: tok.Start, Err: ErrUnclosedBracket})
	}
	t.stack.Reset()
	tok.Ends = true
	return tok
}

func (t *Tokenizer) capture(start, end int) {
	if !t.hasCursor || t.pathSet {
		return
	}
	if t.cursor >= start && t.cursor < end {
		t.path = t.stack.Path()
		t.pathSet = true
	}
}

func (t *Tokenizer) token(kind Kind, n int) Token {
	return Token{Kind: kind, Start: t.pos, End: t.pos + n, Text: t.sc.Slice(t.pos, t.pos+n)}
}

func (t *Tokenizer) blankRun() Token {
	end := t.pos
	for end < t.sc.Len() && IsBlank(t.sc.At(end)) {
		end++
	}
	return t.token(KindSpace, end-t.pos)
}

func (t *Tokenizer) classify() Token {
	switch t.stack.Top() {
	case 0:
		return t.classifyGap()
	case scope.String:
		return t.classifyString()
	case scope.Comment:
		return t.classifyComment()
	default:
		return t.classifyCode()
	}
}

func (t *Tokenizer) classifyGap() Token {
	r := t.sc.At(t.pos)
	switch {
	case IsBlank(r):
		tok := t.blankRun()
		tok.Gap = true
		return tok
	case r == '\n':
		tok := t.token(KindNewline, 1)
		tok.Gap = true
		return tok
	default:
		return Token{Kind: KindStatementStart, Start: t.pos, End: t.pos}
	}
}

func (t *Tokenizer) classifyString() Token {
	var tok Token
	switch two := t.sc.Peek(t.pos, 2); {
	case two == `\"` || two == `\\`:
		tok = t.token(KindLiteral, 2)
	case t.sc.At(t.pos) == '"':
		tok = t.token(KindStringEnd, 1)
	default:
		tok = t.token(KindLiteral, 1)
	}
	tok.InLiteral = true
	return tok
}

func (t *Tokenizer) classifyComment() Token {
	var tok Token
	switch {
	case t.sc.Peek(t.pos, 3) == `\*)`:
		tok = t.token(KindLiteral, 3)
	case t.sc.Peek(t.pos, 2) == "(*":
		tok = t.token(KindCommentStart, 2)
	case t.sc.Peek(t.pos, 2) == "*)":
		tok = t.token(KindCommentEnd, 2)
	default:
		tok = t.token(KindLiteral, 1)
	}
	tok.InLiteral = true
	return tok
}

func (t *Tokenizer) classifyCode() Token {
	r := t.sc.At(t.pos)
	two := t.sc.Peek(t.pos, 2)

	switch {
	case IsBlank(r):
		return t.blankRun()
	case r == '\n':
		return t.token(KindNewline, 1)
	case r == '"':
		return t.token(KindStringStart, 1)
	case two == "(*":
		return t.token(KindCommentStart, 2)
	case two == "[[":
		tok := t.token(KindOpen, 2)
		tok.Scope = scope.Part
		return tok
	case two == "]]" && t.closesPart():
		tok := t.token(KindClose, 2)
		tok.Scope = scope.Part
		return tok
	}

	if op, ok := t.sc.MatchOperator(t.pos); ok {
		tok := t.token(KindOperator, len([]rune(op.Text)))
		tok.Op = op
		tok.Unary = op.Text == "-" && t.sc.isUnaryMinus(t.pos)
		return tok
	}

	switch r {
	case '[':
		return t.bracket(KindOpen, scope.Function)
	case '{':
		return t.bracket(KindOpen, scope.List)
	case '(':
		return t.bracket(KindOpen, scope.Group)
	case ']':
		return t.bracket(KindClose, scope.Function)
	case '}':
		return t.bracket(KindClose, scope.List)
	case ')':
		return t.bracket(KindClose, scope.Group)
	case ',':
		return t.token(KindComma, 1)
	case ';':
		return t.token(KindSemicolon, 1)
	}

	if IsWordChar(r) {
		end := t.pos
		for end < t.sc.Len() && IsWordChar(t.sc.At(end)) {
			end++
		}
		return t.token(KindWord, end-t.pos)
	}
	return t.token(KindOther, 1)
}

func (t *Tokenizer) bracket(kind Kind, tag scope.Tag) Token {
	tok := t.token(kind, 1)
	tok.Scope = tag
	return tok
}

// closesPart reports whether the innermost bracket, ignoring transient
// scopes, is a Part.
func (t *Tokenizer) closesPart() bool {
	i := t.stack.InnermostBracket()
	return i >= 0 && t.stack.Tags()[i] == scope.Part
}

func (t *Tokenizer) indentFor(tok Token) int {
	if t.stack.Depth() == 0 {
		return 0
	}
	if tok.Kind == KindClose {
		return t.stack.IndentDepth(t.stack.InnermostBracket())
	}
	return t.stack.IndentDepth(-1)
}

func (t *Tokenizer) apply(tok *Token) error {
	switch tok.Kind {
	case KindStatementStart:
		t.push(tok, scope.Frame{Tag: scope.Root, Line: t.line})
	case KindNewline:
		if t.stack.Depth() > 0 {
			t.endLine(tok)
		}
	case KindStringStart:
		t.fill()
		t.push(tok, scope.Frame{Tag: scope.String, Line: t.line})
	case KindCommentStart:
		t.push(tok, scope.Frame{Tag: scope.Comment, Line: t.line})
	case KindStringEnd, KindCommentEnd:
		if _, err := t.stack.Pop(); err != nil {
			return &PosError{Offset: tok.Start, Err: err}
		}
	case KindWord, KindOther:
		t.fill()
	case KindOperator:
		t.fill()
		t.operator(tok)
	case KindOpen:
		t.fill()
		t.push(tok, scope.Frame{Tag: tok.Scope, Line: t.line})
	case KindClose:
		t.discharge(true)
		top := t.stack.Top()
		if !top.IsBracket() {
			return &PosError{Offset: tok.Start, Err: scope.ErrScopeUnderflow}
		}
		if top != tok.Scope {
			return &PosError{Offset: tok.Start, Err: ErrMismatchedBracket}
		}
		if _, err := t.stack.Pop(); err != nil {
			return &PosError{Offset: tok.Start, Err: err}
		}
	case KindComma:
		t.discharge(false)
	case KindSemicolon:
		t.discharge(true)
		if t.stack.Top() == scope.Root {
			_, _ = t.stack.Pop()
			tok.Ends = true
		}
	}
	return nil
}

func (t *Tokenizer) push(tok *Token, frame scope.Frame) {
	t.stack.PushFrame(frame)
	tok.Pushed = frame.Tag
}

func (t *Tokenizer) operator(tok *Token) {
	trailing := t.sc.IsEndOfLine(tok.End)
	switch {
	case tok.Op.Assign && t.stack.Top() == scope.Root:
		t.push(tok, scope.Frame{Tag: scope.Define, Line: t.line, Trailing: trailing})
	case tok.Op.Binary && !tok.Unary && trailing:
		if top := t.stack.TopFrame(); top != nil && top.Tag == scope.Continuation {
			top.Line = t.line
			return
		}
		t.push(tok, scope.Frame{Tag: scope.Continuation, Line: t.line, Trailing: true})
	}
}

// fill marks an open Define as having right-hand side content.
func (t *Tokenizer) fill() {
	if top := t.stack.TopFrame(); top != nil && top.Tag == scope.Define {
		top.Filled = true
	}
}

// discharge pops Continuation scopes, and Define scopes too when
// withDefine is set, from the top of the stack.
func (t *Tokenizer) discharge(withDefine bool) {
	for {
		switch t.stack.Top() {
		case scope.Continuation:
		case scope.Define:
			if !withDefine {
				return
			}
		default:
			return
		}
		_, _ = t.stack.Pop()
	}
}

// endLine applies the newline rules: continuations from earlier lines
// lapse, a Define with content closes, and a lone Root ends the statement.
func (t *Tokenizer) endLine(tok *Token) {
	for {
		top := t.stack.TopFrame()
		if top == nil || top.Tag != scope.Continuation || top.Line >= t.line {
			break
		}
		_, _ = t.stack.Pop()
	}
	if top := t.stack.TopFrame(); top != nil && top.Tag == scope.Define && top.Filled {
		_, _ = t.stack.Pop()
	}
	if t.stack.Top() == scope.Root {
		_, _ = t.stack.Pop()
		tok.Ends = true
	}
}
