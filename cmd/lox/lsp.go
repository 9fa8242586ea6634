package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/mgomes/golox/lox"
)

const lspName = "lox-lsp"

// lspServer publishes static errors and lint warnings for open documents
// and answers completion and hover requests from their declarations.
type lspServer struct {
	engine *lox.Engine

	mu   sync.Mutex
	docs map[string]string

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

func newLSPServer(engine *lox.Engine) *lspServer {
	s := &lspServer{
		engine:  engine,
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)
	return s
}

func lspCommand(args []string) error {
	fs := flag.NewFlagSet("lsp", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts commonOptions
	opts.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	engine, err := lox.NewEngine(cfg.engineConfig(nil))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	log.Info("starting language server")
	return newLSPServer(engine).server.RunStdio()
}

func (s *lspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("language server initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *lspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *lspServer) shutdown(ctx *glsp.Context) error {
	log.Info("language server shutting down")
	return nil
}

func (s *lspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *lspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()

	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *lspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync: the last change carries the whole document.
	last := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := last.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.docs[uri] = whole.Text
	s.mu.Unlock()

	s.publishDiagnostics(ctx, uri, whole.Text)
	return nil
}

func (s *lspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *lspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	prefix := wordBefore(text, params.Position)
	return completionItems(prefix, text), nil
}

func (s *lspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	word := wordAt(text, params.Position)
	if word == "" {
		return nil, nil
	}
	summary := hoverSummary(word, text)
	if summary == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: summary,
		},
	}, nil
}

func (s *lspServer) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *lspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := diagnosticsForSource(s.engine, text)
	log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// diagnosticsForSource compiles source and converts every static error into
// an error diagnostic. Sources that compile are linted for unreachable code.
func diagnosticsForSource(engine *lox.Engine, source string) []protocol.Diagnostic {
	script, err := engine.Compile(source)
	if err != nil {
		var static lox.StaticErrors
		if !errors.As(err, &static) {
			return []protocol.Diagnostic{newDiagnostic(protocol.Range{}, protocol.DiagnosticSeverityError, err.Error())}
		}
		out := make([]protocol.Diagnostic, 0, len(static))
		for _, e := range static {
			out = append(out, newDiagnostic(staticErrorRange(e), protocol.DiagnosticSeverityError, e.Message))
		}
		return out
	}

	warnings := analyzeStatements(script.Statements())
	out := make([]protocol.Diagnostic, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, newDiagnostic(pointRange(w.Pos, 1), protocol.DiagnosticSeverityWarning, w.Message))
	}
	return out
}

func newDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, message string) protocol.Diagnostic {
	source := lspName
	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// staticErrorRange spans the offending lexeme. Lox positions are 1-based,
// protocol positions 0-based.
func staticErrorRange(e *lox.StaticError) protocol.Range {
	return pointRange(e.Pos, max(len([]rune(e.Lexeme)), 1))
}

func pointRange(pos lox.Position, width int) protocol.Range {
	line := protocol.UInteger(max(pos.Line-1, 0))
	col := protocol.UInteger(max(pos.Column-1, 0))
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: col},
		End:   protocol.Position{Line: line, Character: col + protocol.UInteger(width)},
	}
}

// declaredNames lists top-level declarations of source. Parse errors are
// tolerated so completion keeps working while the user types.
func declaredNames(source string) map[string]lox.Statement {
	tokens, _ := lox.Scan(source)
	stmts, _ := lox.Parse(tokens)
	names := make(map[string]lox.Statement)
	for _, stmt := range stmts {
		switch typed := stmt.(type) {
		case *lox.VarStmt:
			names[typed.Name.Lexeme] = stmt
		case *lox.FunctionStmt:
			names[typed.Name.Lexeme] = stmt
		case *lox.ClassStmt:
			names[typed.Name.Lexeme] = stmt
		}
	}
	return names
}

func completionItems(prefix, source string) []protocol.CompletionItem {
	declared := declaredNames(source)
	names := make([]string, 0, len(declared)+1)
	for name := range declared {
		names = append(names, name)
	}
	names = append(names, "clock")

	items := make([]protocol.CompletionItem, 0)
	for _, label := range completeWord(prefix, names) {
		kind := protocol.CompletionItemKindVariable
		detail := "variable"
		switch declared[label].(type) {
		case *lox.FunctionStmt:
			kind, detail = protocol.CompletionItemKindFunction, "function"
		case *lox.ClassStmt:
			kind, detail = protocol.CompletionItemKindClass, "class"
		case nil:
			if isKeyword(label) {
				kind, detail = protocol.CompletionItemKindKeyword, "keyword"
			} else {
				kind, detail = protocol.CompletionItemKindFunction, "native"
			}
		}
		items = append(items, protocol.CompletionItem{
			Label:  label,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items
}

func hoverSummary(word, source string) string {
	if isKeyword(word) {
		return fmt.Sprintf("`%s`\n\nLox keyword", word)
	}
	if word == "clock" {
		return "```lox\nfun clock()\n```\n\nSeconds since the Unix epoch."
	}

	switch stmt := declaredNames(source)[word].(type) {
	case *lox.ClassStmt:
		header := "class " + stmt.Name.Lexeme
		if stmt.Superclass != nil {
			header += " < " + stmt.Superclass.Name.Lexeme
		}
		return fmt.Sprintf("```lox\n%s\n```\n\n%d methods, %d class methods", header, len(stmt.Methods), len(stmt.ClassMethods))
	case *lox.FunctionStmt:
		return fmt.Sprintf("```lox\n%s\n```", functionSignature(stmt.Name.Lexeme, stmt.Function))
	case *lox.VarStmt:
		return fmt.Sprintf("```lox\nvar %s\n```", stmt.Name.Lexeme)
	default:
		return ""
	}
}

func functionSignature(name string, fn *lox.FunctionExpr) string {
	if fn.Getter {
		return "fun " + name
	}
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Lexeme
	}
	return "fun " + name + "(" + strings.Join(params, ", ") + ")"
}

// wordBefore returns the identifier fragment ending at pos.
func wordBefore(text string, pos protocol.Position) string {
	runes, col, ok := lineRunes(text, pos)
	if !ok {
		return ""
	}
	start := col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	return string(runes[start:col])
}

// wordAt returns the whole identifier under pos.
func wordAt(text string, pos protocol.Position) string {
	runes, col, ok := lineRunes(text, pos)
	if !ok || len(runes) == 0 {
		return ""
	}
	start := col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := col
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func lineRunes(text string, pos protocol.Position) ([]rune, int, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return nil, 0, false
	}
	runes := []rune(strings.TrimRight(lines[pos.Line], "\r"))
	return runes, min(int(pos.Character), len(runes)), true
}

func boolPtr(b bool) *bool {
	return &b
}
