package codebase

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/java"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "javatree"

// LSPServer answers hover and go-to-definition requests for class names
// from the hierarchy of the workspace root.
type LSPServer struct {
	cfg      config.Config
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger

	mu   sync.Mutex
	docs map[string]string
}

func NewLSPServer(cfg config.Config, version string) *LSPServer {
	ls := &LSPServer{
		cfg:     cfg,
		version: version,
		log:     commonlog.GetLogger("javatree.lsp"),
		docs:    make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentHover:      ls.textDocumentHover,
		TextDocumentDefinition: ls.textDocumentDefinition,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(ls.cfg, nil)
	ls.codebase.roots = []string{rootDir}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(false),
		},
	}
	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	result, err := ls.codebase.Rescan()
	if err != nil {
		ls.log.Errorf("initial scan: %s", err)
		return nil
	}
	ls.log.Infof("%d files parsed, %d classes found", result.FilesParsed, result.ClassCount())

	watcher, err := NewFileWatcher(ls.codebase)
	if err != nil {
		ls.log.Warningf("file watcher: %s", err)
		return nil
	}
	if err := watcher.Start(); err != nil {
		ls.log.Warningf("file watcher: %s", err)
		return nil
	}
	ls.watcher = watcher
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setDocument(params.TextDocument.URI, params.TextDocument.Text)
	ls.rescan()
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.setDocument(params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	ls.rescan()
	return nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	word := ls.wordAt(params.TextDocument.URI, params.Position)
	if word == "" {
		return nil, nil
	}
	summary, ok := ls.codebase.Summary(word)
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: summary,
		},
	}, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	word := ls.wordAt(params.TextDocument.URI, params.Position)
	if word == "" {
		return nil, nil
	}
	sig, ok := ls.codebase.Signature(word)
	if !ok || sig.Path == "" {
		return nil, nil
	}
	line := protocol.UInteger(0)
	if sig.Line > 0 {
		line = protocol.UInteger(sig.Line - 1)
	}
	pos := protocol.Position{Line: line, Character: 0}
	return protocol.Location{
		URI:   pathToURI(sig.Path),
		Range: protocol.Range{Start: pos, End: pos},
	}, nil
}

func (ls *LSPServer) rescan() {
	if _, err := ls.codebase.Rescan(); err != nil {
		ls.log.Errorf("rescan: %s", err)
	}
}

func (ls *LSPServer) setDocument(uri, text string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.docs[uri] = text
}

// wordAt returns the identifier under pos in the open document, reading
// the file from disk when the client never opened it.
func (ls *LSPServer) wordAt(uri string, pos protocol.Position) string {
	ls.mu.Lock()
	text, ok := ls.docs[uri]
	ls.mu.Unlock()
	if !ok {
		path, err := uriToPath(uri)
		if err != nil {
			return ""
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		text = string(data)
	}
	return wordAt(text, int(pos.Line), int(pos.Character))
}

func wordAt(text string, line, col int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	s := lines[line]
	if col > len(s) {
		col = len(s)
	}
	start, end := col, col
	for start > 0 && isIdentByte(s[start-1]) {
		start--
	}
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	return s[start:end]
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || b == '.' ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// Describe renders a class summary as markdown.
func Describe(sig java.ClassSignature, subclasses []string) string {
	var sb strings.Builder
	sb.WriteString("```java\n")
	if sig.Modifiers != "" {
		sb.WriteString(sig.Modifiers + " ")
	}
	sb.WriteString("class " + sig.DeclaredName)
	if len(sig.SuperClasses) > 0 {
		sb.WriteString(" extends " + strings.Join(sig.SuperClasses, ", "))
	}
	if len(sig.Interfaces) > 0 {
		sb.WriteString(" implements " + strings.Join(sig.Interfaces, ", "))
	}
	sb.WriteString("\n```\n")
	if sig.Package != "" {
		fmt.Fprintf(&sb, "\npackage `%s`", sig.Package)
	}
	if sig.FullName != sig.SimpleName {
		fmt.Fprintf(&sb, "\n\nnested as `%s`", sig.FullName)
	}
	if len(subclasses) > 0 {
		fmt.Fprintf(&sb, "\n\nsubclasses: %s", strings.Join(subclasses, ", "))
	}
	fmt.Fprintf(&sb, "\n\n%s:%d", sig.File, sig.Line)
	return sb.String()
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
