package lsp

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/format"
)

const testURI = "file:///tmp/test.wl"

type notifications struct {
	mu     sync.Mutex
	params []protocol.PublishDiagnosticsParams
}

func (n *notifications) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		if method != protocol.ServerTextDocumentPublishDiagnostics {
			return
		}
		n.mu.Lock()
		defer n.mu.Unlock()
		n.params = append(n.params, params.(protocol.PublishDiagnosticsParams))
	}}
}

func (n *notifications) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()

	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.params)
	return n.params[len(n.params)-1]
}

func newServer() *Server {
	return New(Options{
		Version: "test",
		Indent:  format.Indent{Size: 2},
		Logger:  logging.NewWithWriter(io.Discard, "debug"),
	})
}

func open(t *testing.T, s *Server, text string) {
	t.Helper()

	err := s.didOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "wolfram", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func span(startLine, startChar, endLine, endChar uint32) protocol.Range {
	return protocol.Range{Start: pos(startLine, startChar), End: pos(endLine, endChar)}
}

func docID() protocol.TextDocumentIdentifier {
	return protocol.TextDocumentIdentifier{URI: testURI}
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	s := newServer()
	res, err := s.initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	result, ok := res.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, DefaultName, result.ServerInfo.Name)
	assert.Equal(t, "test", *result.ServerInfo.Version)

	caps := result.Capabilities
	assert.Equal(t, true, caps.DocumentFormattingProvider)
	assert.Equal(t, true, caps.DocumentRangeFormattingProvider)
	assert.Equal(t, true, caps.HoverProvider)
	assert.Equal(t, true, caps.DocumentSymbolProvider)

	syncOpts, ok := caps.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *syncOpts.Change)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		options protocol.FormattingOptions
		want    []protocol.TextEdit
	}{
		{
			name: "whole document",
			text: "x=1;y=2;\n",
			want: []protocol.TextEdit{{Range: span(0, 0, 1, 0), NewText: "x = 1; y = 2;\n"}},
		},
		{
			name: "already formatted",
			text: "f[x_] := x^2",
			want: []protocol.TextEdit{},
		},
		{
			name: "tabs from client options",
			text: "f[\nx]",
			options: protocol.FormattingOptions{
				protocol.FormattingOptionTabSize:      float64(4),
				protocol.FormattingOptionInsertSpaces: false,
			},
			want: []protocol.TextEdit{{Range: span(0, 0, 1, 2), NewText: "f[\n\tx]"}},
		},
		{
			name: "tab size from client options",
			text: "f[\nx]",
			options: protocol.FormattingOptions{
				protocol.FormattingOptionTabSize:      float64(4),
				protocol.FormattingOptionInsertSpaces: true,
			},
			want: []protocol.TextEdit{{Range: span(0, 0, 1, 2), NewText: "f[\n    x]"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newServer()
			open(t, s, tt.text)

			edits, err := s.formatting(nil, &protocol.DocumentFormattingParams{
				TextDocument: docID(),
				Options:      tt.options,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, edits)
		})
	}
}

func TestFormatting_UnknownDocument(t *testing.T) {
	t.Parallel()

	_, err := newServer().formatting(nil, &protocol.DocumentFormattingParams{TextDocument: docID()})
	require.ErrorIs(t, err, ErrUnknownDocument)
}

func TestRangeFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		rng  protocol.Range
		want []protocol.TextEdit
	}{
		{
			name: "one line",
			text: "a=1\nb=2\nc=3",
			rng:  span(1, 0, 1, 3),
			want: []protocol.TextEdit{{Range: span(1, 0, 1, 3), NewText: "b = 2"}},
		},
		{
			name: "empty range selects touching statement",
			text: "a=1\nb=2",
			rng:  span(0, 1, 0, 1),
			want: []protocol.TextEdit{{Range: span(0, 0, 0, 3), NewText: "a = 1"}},
		},
		{
			name: "spanning statements",
			text: "a=1\nb=2\nc=3",
			rng:  span(0, 2, 2, 1),
			want: []protocol.TextEdit{
				{Range: span(0, 0, 0, 3), NewText: "a = 1"},
				{Range: span(1, 0, 1, 3), NewText: "b = 2"},
				{Range: span(2, 0, 2, 3), NewText: "c = 3"},
			},
		},
		{
			name: "formatted statements produce no edits",
			text: "a = 1\nb=2",
			rng:  span(0, 0, 0, 5),
			want: []protocol.TextEdit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newServer()
			open(t, s, tt.text)

			edits, err := s.rangeFormatting(nil, &protocol.DocumentRangeFormattingParams{
				TextDocument: docID(),
				Range:        tt.rng,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, edits)
		})
	}
}

func TestHover(t *testing.T) {
	t.Parallel()

	s := newServer()
	open(t, s, "x=1;\nf[a_]:=a")

	hover, err := s.hover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: docID(),
			Position:     pos(1, 7),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)

	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	assert.Equal(t, "**a**\n\nScope: `root.define`\n\nStatement: (2, 0) -> (2, 8)", content.Value)

	require.NotNil(t, hover.Range)
	assert.Equal(t, span(1, 0, 1, 8), *hover.Range)
}

func TestHover_EmptyDocument(t *testing.T) {
	t.Parallel()

	s := newServer()
	open(t, s, "")

	hover, err := s.hover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: docID(),
			Position:     pos(0, 0),
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestHover_UnbalancedDocument(t *testing.T) {
	t.Parallel()

	s := newServer()
	open(t, s, "foo]]")

	hover, err := s.hover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: docID(),
			Position:     pos(0, 1),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Equal(t, "**foo**", hover.Contents.(protocol.MarkupContent).Value)
}

func TestDocumentSymbol(t *testing.T) {
	t.Parallel()

	s := newServer()
	open(t, s, "x=1;\nf[a_]:=a\n\nPlot[x]")

	res, err := s.documentSymbol(nil, &protocol.DocumentSymbolParams{TextDocument: docID()})
	require.NoError(t, err)

	symbols, ok := res.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, symbols, 3)

	names := make([]string, 0, len(symbols))
	kinds := make([]protocol.SymbolKind, 0, len(symbols))
	for _, sym := range symbols {
		names = append(names, sym.Name)
		kinds = append(kinds, sym.Kind)
	}
	assert.Equal(t, []string{"x", "f[a_]", "Plot[x]"}, names)
	assert.Equal(t, []protocol.SymbolKind{
		protocol.SymbolKindVariable,
		protocol.SymbolKindFunction,
		protocol.SymbolKindObject,
	}, kinds)

	assert.Equal(t, span(1, 0, 1, 8), symbols[1].Range)
	assert.Equal(t, "delayed", *symbols[1].Detail)
}

func TestSymbolName_Truncates(t *testing.T) {
	t.Parallel()

	s := newServer()
	long := "Plot[Sin[x] + Cos[x] + Tan[x], {x, 0, 2 Pi}, PlotRange -> All]"
	open(t, s, long)

	res, err := s.documentSymbol(nil, &protocol.DocumentSymbolParams{TextDocument: docID()})
	require.NoError(t, err)

	symbols := res.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 1)
	assert.Len(t, []rune(symbols[0].Name), maxSymbolName)
	assert.Equal(t, long[:maxSymbolName-1]+"…", symbols[0].Name)
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		severity protocol.DiagnosticSeverity
		rng      protocol.Range
		message  string
	}{
		{
			name:     "unmatched closer",
			text:     "f[x]]",
			severity: protocol.DiagnosticSeverityError,
			rng:      span(0, 4, 0, 5),
			message:  "scope underflow",
		},
		{
			name:     "mismatched closer",
			text:     "x = {a)",
			severity: protocol.DiagnosticSeverityError,
			rng:      span(0, 6, 0, 7),
			message:  "mismatched bracket: scope underflow",
		},
		{
			name:     "unterminated string",
			text:     "a = \"open",
			severity: protocol.DiagnosticSeverityWarning,
			rng:      span(0, 9, 0, 9),
			message:  "unterminated literal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n notifications
			s := newServer()
			err := s.didOpen(n.context(), &protocol.DidOpenTextDocumentParams{
				TextDocument: protocol.TextDocumentItem{URI: testURI, Version: 3, Text: tt.text},
			})
			require.NoError(t, err)

			got := n.last(t)
			assert.Equal(t, testURI, got.URI)
			require.NotNil(t, got.Version)
			assert.Equal(t, protocol.UInteger(3), *got.Version)
			require.Len(t, got.Diagnostics, 1)

			d := got.Diagnostics[0]
			assert.Equal(t, tt.severity, *d.Severity)
			assert.Equal(t, tt.rng, d.Range)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestDidChangeAndClose(t *testing.T) {
	t.Parallel()

	var n notifications
	s := newServer()
	open(t, s, "a=1")

	err := s.didChange(n.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: docID(),
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "b=2"}},
	})
	require.NoError(t, err)
	assert.Empty(t, n.last(t).Diagnostics)

	edits, err := s.formatting(nil, &protocol.DocumentFormattingParams{TextDocument: docID()})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "b = 2", edits[0].NewText)

	err = s.didChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: docID()},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{Text: "c"}},
	})
	require.Error(t, err)

	require.NoError(t, s.didClose(n.context(), &protocol.DidCloseTextDocumentParams{TextDocument: docID()}))
	assert.Empty(t, n.last(t).Diagnostics)

	_, err = s.formatting(nil, &protocol.DocumentFormattingParams{TextDocument: docID()})
	require.ErrorIs(t, err, ErrUnknownDocument)
}

func TestDocumentPositions(t *testing.T) {
	t.Parallel()

	doc := newDocument(testURI, 1, "αβ😀x\nbc")

	tests := []struct {
		name   string
		pos    protocol.Position
		offset int
	}{
		{name: "start", pos: pos(0, 0), offset: 0},
		{name: "after surrogate pair", pos: pos(0, 4), offset: 3},
		{name: "past line end clamps", pos: pos(0, 40), offset: 4},
		{name: "second line", pos: pos(1, 1), offset: 6},
		{name: "past last line", pos: pos(9, 0), offset: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.offset, doc.offset(tt.pos))
		})
	}

	assert.Equal(t, pos(0, 5), doc.position(4))
	assert.Equal(t, pos(1, 2), doc.position(7))
	assert.Equal(t, span(0, 0, 1, 2), doc.fullRange())

	line, col := doc.lineColumn(pos(1, 1))
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}

func TestIndentOptions(t *testing.T) {
	t.Parallel()

	s := newServer()

	assert.Equal(t, format.Indent{Size: 2}, s.indent(nil))
	assert.Equal(t, format.Indent{Size: 8}, s.indent(protocol.FormattingOptions{
		protocol.FormattingOptionTabSize: float64(8),
	}))
	assert.Equal(t, format.Indent{Tabs: true, Size: 2}, s.indent(protocol.FormattingOptions{
		protocol.FormattingOptionInsertSpaces: false,
	}))
	assert.Equal(t, format.Indent{Size: 2}, s.indent(protocol.FormattingOptions{
		protocol.FormattingOptionTabSize: "wide",
	}))
}
