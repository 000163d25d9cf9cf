// Package lsp serves the formatter over the Language Server Protocol.
package lsp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	// Registers the commonlog backend glsp logs through.
	_ "github.com/tliron/commonlog/simple"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/format"
)

// DefaultName is the server name reported to clients.
const DefaultName = "mathmate"

// ErrUnknownDocument is returned for requests on documents that were never
// opened.
var ErrUnknownDocument = errors.New("unknown document")

// Options configures a Server.
type Options struct {
	Name    string
	Version string

	// Indent is used when a formatting request carries no options.
	Indent format.Indent

	// Debug enables glsp's protocol logging.
	Debug bool

	Logger *log.Logger
}

// Server holds open documents and answers protocol requests. Every request
// builds its own engine state, so handlers run concurrently.
type Server struct {
	opts    Options
	handler protocol.Handler
	logger  *log.Logger

	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		docs:   make(map[protocol.DocumentUri]*document),
	}
	s.handler = protocol.Handler{
		Initialize:                  s.initialize,
		Initialized:                 s.initialized,
		Shutdown:                    s.shutdown,
		SetTrace:                    s.setTrace,
		TextDocumentDidOpen:         s.didOpen,
		TextDocumentDidChange:       s.didChange,
		TextDocumentDidClose:        s.didClose,
		TextDocumentFormatting:      s.formatting,
		TextDocumentRangeFormatting: s.rangeFormatting,
		TextDocumentHover:           s.hover,
		TextDocumentDocumentSymbol:  s.documentSymbol,
	}
	return s
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	verbosity := 0
	if s.opts.Debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	s.logger.Debug("starting language server", logging.FieldVersion, s.opts.Version)
	if err := server.NewServer(&s.handler, s.opts.Name, s.opts.Debug).RunStdio(); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

func (s *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}

	version := s.opts.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    s.opts.Name,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	s.logger.Debug("client initialized")
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.logger.Debug("shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	doc := newDocument(item.URI, item.Version, item.Text)
	s.store(doc)

	s.logger.Debug("opened", logging.FieldURI, item.URI)
	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	var doc *document
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc = newDocument(uri, params.TextDocument.Version, c.Text)
		default:
			return fmt.Errorf("%s: incremental change not supported", uri)
		}
	}
	if doc == nil {
		return nil
	}

	s.store(doc)
	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	s.logger.Debug("closed", logging.FieldURI, uri)
	notify(ctx, protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) store(doc *document) {
	s.mu.Lock()
	s.docs[doc.uri] = doc
	s.mu.Unlock()
}

func (s *Server) document(uri protocol.DocumentUri) (*document, error) {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	return doc, nil
}

func notify(ctx *glsp.Context, method string, params any) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(method, params)
}
