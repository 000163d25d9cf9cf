// Package markdown reformats Mathematica code blocks embedded in Markdown.
//
// Fenced code blocks whose info string names Mathematica are reformatted
// in place. Everything outside those blocks is left byte-for-byte intact.
package markdown

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/shadanan/mathmate/pkg/fix"
	"github.com/shadanan/mathmate/pkg/format"
	"github.com/shadanan/mathmate/pkg/langdetect"
)

// Options configures a Formatter.
type Options struct {
	// Languages are the info strings that mark a Mathematica block.
	Languages []string

	Indent format.Indent
}

// Block is one Mathematica fenced code block. Start and End delimit its
// content in bytes; Line is the 1-based line of its first content line.
type Block struct {
	Info  string
	Start int
	End   int
	Line  int
}

// BlockError reports a block that could not be reformatted.
type BlockError struct {
	Line int
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("code block at line %d: %v", e.Line, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Formatter finds and reformats Mathematica blocks.
type Formatter struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a Formatter. Documents are parsed as GitHub flavored
// Markdown so that fences inside tables and task lists are found.
func New(opts Options) *Formatter {
	return &Formatter{
		opts: opts,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Blocks returns the Mathematica blocks of content in document order.
// Blocks whose content lines are not contiguous in the source, such as
// fences inside block quotes or indented list items, are skipped because
// they cannot be rewritten as one span.
func (f *Formatter) Blocks(content []byte) []Block {
	doc := f.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		info := ""
		if fence.Info != nil {
			info = string(fence.Info.Value(content))
		}
		if !langdetect.IsMathematicaFence(info, f.opts.Languages) {
			return ast.WalkSkipChildren, nil
		}

		if block, ok := contiguous(content, fence.Lines()); ok {
			block.Info = info
			blocks = append(blocks, block)
		}
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// contiguous converts the segments of a block into one span, reporting
// false when the segments leave gaps.
func contiguous(content []byte, lines *text.Segments) (Block, bool) {
	if lines.Len() == 0 {
		return Block{}, false
	}

	first := lines.At(0)
	if first.Padding > 0 || (first.Start > 0 && content[first.Start-1] != '\n') {
		return Block{}, false
	}
	prev := first
	for i := 1; i < lines.Len(); i++ {
		seg := lines.At(i)
		if seg.Padding > 0 || seg.Start != prev.Stop {
			return Block{}, false
		}
		prev = seg
	}

	return Block{
		Start: first.Start,
		End:   prev.Stop,
		Line:  lineOf(content, first.Start),
	}, true
}

func lineOf(content []byte, offset int) int {
	line := 1
	for _, b := range content[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}

// Result is the outcome of Format.
type Result struct {
	Content []byte
	Blocks  int
	Edits   []fix.TextEdit

	// Errors lists blocks left untouched because they failed to format.
	Errors []error
}

// Format reformats every Mathematica block of content. A block that fails
// to format is reported in Result.Errors and left as is.
func (f *Formatter) Format(ctx context.Context, content []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("format cancelled: %w", err)
	}

	blocks := f.Blocks(content)
	res := &Result{Content: content, Blocks: len(blocks)}

	for _, b := range blocks {
		code := string(content[b.Start:b.End])
		level := f.opts.Indent.FirstLineLevel(code)
		out, err := format.New(format.Options{Indent: f.opts.Indent, Level: level}).Format(code)
		if err != nil {
			res.Errors = append(res.Errors, &BlockError{Line: b.Line, Err: err})
			continue
		}
		if out != code {
			res.Edits = append(res.Edits, fix.TextEdit{StartOffset: b.Start, EndOffset: b.End, NewText: out})
		}
	}

	if len(res.Edits) == 0 {
		return res, nil
	}

	prepared, err := fix.PrepareEdits(res.Edits, len(content))
	if err != nil {
		return nil, fmt.Errorf("prepare edits: %w", err)
	}
	res.Content = fix.ApplyEdits(content, prepared)
	return res, nil
}
