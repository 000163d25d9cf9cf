package lsp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/engine"
	"github.com/shadanan/mathmate/pkg/fix"
	"github.com/shadanan/mathmate/pkg/format"
	"github.com/shadanan/mathmate/pkg/scanner"
	"github.com/shadanan/mathmate/pkg/statement"
)

// maxSymbolName bounds document symbol names taken from statement text.
const maxSymbolName = 40

func (s *Server) formatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	res, err := engine.Run(engine.Request{
		Text:          doc.text,
		WholeDocument: true,
		Indent:        s.indent(params.Options),
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", doc.uri, err)
	}
	s.logger.Debug("formatted", logging.FieldURI, doc.uri, logging.FieldStatements, len(res.Statements))

	if !res.Changed {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{Range: doc.fullRange(), NewText: res.Text}}, nil
}

// rangeFormatting reformats every statement overlapping the range. A
// statement that starts its line also has the line's indentation rewritten.
func (s *Server) rangeFormatting(_ *glsp.Context, params *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	indent := s.indent(params.Options)
	res, err := engine.Run(engine.Request{
		Text:          doc.text,
		WholeDocument: true,
		Indent:        indent,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", doc.uri, err)
	}

	start, end := doc.offset(params.Range.Start), doc.offset(params.Range.End)
	prefix := strings.Repeat(indent.Unit(), indent.FirstLineLevel(doc.text))

	var edits []fix.TextEdit
	for _, stmt := range res.Statements {
		if !overlaps(stmt, start, end) {
			continue
		}

		from, text := stmt.StartOffset, stmt.Reformatted
		lineStart := doc.index.LineStart(stmt.StartLine)
		if strings.TrimLeft(string(doc.runes[lineStart:from]), " \t") == "" {
			from, text = lineStart, prefix+text
		}
		if string(doc.runes[from:stmt.EndOffset]) == text {
			continue
		}

		edits = append(edits, fix.TextEdit{StartOffset: from, EndOffset: stmt.EndOffset, NewText: text})
	}
	return doc.edits(edits), nil
}

// overlaps reports whether stmt intersects [start, end). An empty range
// selects the statement it touches.
func overlaps(stmt statement.Statement, start, end int) bool {
	if start == end {
		return start >= stmt.StartOffset && start <= stmt.EndOffset
	}
	return stmt.StartOffset < end && stmt.EndOffset > start
}

func (s *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	line, col := doc.lineColumn(params.Position)
	res, err := engine.Run(engine.Request{
		Text:   doc.text,
		Line:   line,
		Column: col,
		Indent: s.opts.Indent,
	})
	if err != nil {
		// An unbalanced document still gets the symbol.
		symbol := engine.SymbolAt(doc.runes, doc.offset(params.Position))
		if symbol == "" {
			return nil, nil //nolint:nilnil // no hover is a valid answer
		}
		return &protocol.Hover{Contents: markdown("**" + symbol + "**")}, nil
	}

	stmts := res.SelectedStatements()
	if res.Cursor.Symbol == "" && res.Cursor.ScopePath == "" && len(stmts) == 0 {
		return nil, nil //nolint:nilnil // no hover is a valid answer
	}

	var b strings.Builder
	if res.Cursor.Symbol != "" {
		fmt.Fprintf(&b, "**%s**\n\n", res.Cursor.Symbol)
	}
	if res.Cursor.ScopePath != "" {
		fmt.Fprintf(&b, "Scope: `%s`\n\n", res.Cursor.ScopePath)
	}
	for _, stmt := range stmts {
		fmt.Fprintf(&b, "Statement: (%d, %d) -> (%d, %d)\n\n",
			stmt.StartLine, stmt.StartColumn, stmt.EndLine, stmt.EndColumn)
	}

	hover := &protocol.Hover{Contents: markdown(strings.TrimRight(b.String(), "\n"))}
	if len(stmts) == 1 {
		r := doc.span(stmts[0].StartOffset, stmts[0].EndOffset)
		hover.Range = &r
	}
	return hover, nil
}

func markdown(value string) protocol.MarkupContent {
	return protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value}
}

func (s *Server) documentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	seg, err := statement.Segment(doc.runes, statement.Options{Cursor: -1})
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", doc.uri, err)
	}

	symbols := []protocol.DocumentSymbol{}
	for _, stmt := range seg.Statements {
		if stmt.Empty() {
			continue
		}
		detail := stmt.Kind.String()
		r := doc.span(stmt.StartOffset, stmt.EndOffset)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           symbolName(stmt),
			Detail:         &detail,
			Kind:           symbolKind(stmt.Kind),
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

// symbolName names a statement by its assignment head, or by its first
// line when it assigns nothing.
func symbolName(stmt statement.Statement) string {
	if stmt.Head != "" {
		return stmt.Head
	}
	name, _, _ := strings.Cut(strings.TrimSpace(stmt.Raw), "\n")
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxSymbolName {
		name = string(runes[:maxSymbolName-1]) + "…"
	}
	return name
}

func symbolKind(kind statement.Kind) protocol.SymbolKind {
	switch kind {
	case statement.KindDelayed:
		return protocol.SymbolKindFunction
	case statement.KindAssignment:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindObject
	}
}

// publishDiagnostics reports the document's scanning problems: recovered
// warnings and the unmatched closer that stops formatting.
func (s *Server) publishDiagnostics(ctx *glsp.Context, doc *document) {
	diagnostics := []protocol.Diagnostic{}

	seg, err := statement.Segment(doc.runes, statement.Options{Cursor: -1})
	if err != nil {
		diagnostics = append(diagnostics, diagnostic(doc, err, protocol.DiagnosticSeverityError))
	} else {
		for _, w := range seg.Warnings {
			diagnostics = append(diagnostics, diagnostic(doc, w, protocol.DiagnosticSeverityWarning))
		}
	}

	version := protocol.UInteger(doc.version)
	notify(ctx, protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

func diagnostic(doc *document, err error, severity protocol.DiagnosticSeverity) protocol.Diagnostic {
	offset := len(doc.runes)
	var posErr *scanner.PosError
	if errors.As(err, &posErr) {
		offset = posErr.Offset
		err = posErr.Err
	}

	source := DefaultName
	return protocol.Diagnostic{
		Range:    doc.span(offset, min(offset+1, len(doc.runes))),
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	}
}

// indent maps the client's formatting options onto an indentation unit,
// falling back to the configured one for missing keys.
func (s *Server) indent(options protocol.FormattingOptions) format.Indent {
	indent := s.opts.Indent
	if size, ok := intOption(options[protocol.FormattingOptionTabSize]); ok && size > 0 {
		indent.Size = size
	}
	if spaces, ok := options[protocol.FormattingOptionInsertSpaces].(bool); ok {
		indent.Tabs = !spaces
	}
	return indent
}

// intOption reads a number that may have been decoded from JSON.
func intOption(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case protocol.UInteger:
		return int(n), true
	default:
		return 0, false
	}
}

// edits converts engine text edits into protocol edits.
func (d *document) edits(in []fix.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(in))
	for _, e := range in {
		out = append(out, protocol.TextEdit{Range: d.span(e.StartOffset, e.EndOffset), NewText: e.NewText})
	}
	return out
}
