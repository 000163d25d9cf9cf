// Package scope implements the nesting state shared by the tokenizer, the
// statement segmenter and the reformatter.
//
// A Stack holds one Frame per open syntactic context, innermost last. An
// empty stack means the scan is between statements.
package scope

import (
	"errors"
	"strings"
)

// ErrScopeUnderflow is returned when a scope is popped from an empty stack
// or a closing bracket has no matching opener.
var ErrScopeUnderflow = errors.New("scope underflow")

// Tag names a syntactic context.
type Tag uint8

// Scope tags.
const (
	Root Tag = iota + 1
	String
	Comment
	List
	Function
	Part
	Group
	Define
	Continuation
)

var tagNames = map[Tag]string{
	Root:         "root",
	String:       "string",
	Comment:      "comment",
	List:         "list",
	Function:     "function",
	Part:         "part",
	Group:        "group",
	Define:       "define",
	Continuation: "continuation",
}

// String returns the lower-case tag name used in scope paths.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsBracket reports whether the tag is opened and closed by a bracket token.
func (t Tag) IsBracket() bool {
	switch t {
	case List, Function, Part, Group:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the tag is a literal region whose content is
// copied verbatim.
func (t Tag) IsLiteral() bool {
	return t == String || t == Comment
}

// IsTransient reports whether the tag is discharged before its enclosing
// bracket or statement closes.
func (t Tag) IsTransient() bool {
	return t == Define || t == Continuation
}

// Frame is one entry on the stack.
type Frame struct {
	Tag Tag

	// Line is the zero-based line on which the frame was pushed.
	Line int

	// Trailing is set on Define and Continuation frames whose operator was
	// the last token on its line.
	Trailing bool

	// Filled is set on Define frames once the right-hand side has content.
	Filled bool
}

// Indents reports whether the frame contributes an indentation level.
func (f Frame) Indents() bool {
	switch {
	case f.Tag.IsBracket(), f.Tag == Continuation:
		return true
	case f.Tag == Define:
		return f.Trailing
	default:
		return false
	}
}

// Stack is the ordered sequence of open scopes.
type Stack struct {
	frames []Frame
}

// New creates an empty stack.
func New() *Stack {
	return &Stack{frames: make([]Frame, 0, 16)}
}

// Push opens a scope with no line information.
func (s *Stack) Push(tag Tag) {
	s.frames = append(s.frames, Frame{Tag: tag})
}

// PushFrame opens a scope described by frame.
func (s *Stack) PushFrame(frame Frame) {
	s.frames = append(s.frames, frame)
}

// Pop removes the innermost scope.
func (s *Stack) Pop() (Frame, error) {
	if len(s.frames) == 0 {
		return Frame{}, ErrScopeUnderflow
	}
	last := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return last, nil
}

// Top returns the innermost tag, or zero when the stack is empty.
func (s *Stack) Top() Tag {
	if len(s.frames) == 0 {
		return 0
	}
	return s.frames[len(s.frames)-1].Tag
}

// TopFrame returns a pointer to the innermost frame, or nil.
func (s *Stack) TopFrame() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Depth returns the number of open scopes.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Contains reports whether any open scope has the given tag.
func (s *Stack) Contains(tag Tag) bool {
	for _, f := range s.frames {
		if f.Tag == tag {
			return true
		}
	}
	return false
}

// InnermostBracket returns the index of the innermost bracket frame, or -1.
func (s *Stack) InnermostBracket() int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Tag.IsBracket() {
			return i
		}
	}
	return -1
}

// IndentDepth counts the indenting frames below index limit.
// A negative limit counts the whole stack.
func (s *Stack) IndentDepth(limit int) int {
	if limit < 0 || limit > len(s.frames) {
		limit = len(s.frames)
	}
	n := 0
	for _, f := range s.frames[:limit] {
		if f.Indents() {
			n++
		}
	}
	return n
}

// Path joins the open tags with dots, outermost first.
func (s *Stack) Path() string {
	names := make([]string, len(s.frames))
	for i, f := range s.frames {
		names[i] = f.Tag.String()
	}
	return strings.Join(names, ".")
}

// Tags returns a copy of the open tags, outermost first.
func (s *Stack) Tags() []Tag {
	tags := make([]Tag, len(s.frames))
	for i, f := range s.frames {
		tags[i] = f.Tag
	}
	return tags
}

// Reset empties the stack.
func (s *Stack) Reset() {
	s.frames = s.frames[:0]
}
