// Package ui serves a browsable view of the class hierarchy over HTTP.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/graph"
	"github.com/dhamidi/javatree/java"
	"github.com/dhamidi/javatree/java/codebase"
	"github.com/tliron/commonlog"
)

//go:embed static all:templates
var embeddedFS embed.FS

const maxResults = 20

type Server struct {
	codebase   *codebase.Codebase
	opts       format.Options
	staticFS   fs.FS
	templateFS fs.FS
	funcMap    template.FuncMap
	mux        *http.ServeMux
	log        commonlog.Logger
}

// NewServer serves c. Templates and static files under ui/ in the working
// directory take precedence over the embedded copies.
func NewServer(c *codebase.Codebase, opts format.Options) (*Server, error) {
	opts.Color = false
	s := &Server{
		codebase:   c,
		opts:       opts,
		staticFS:   overlayFS("ui/static", mustSub(embeddedFS, "static")),
		templateFS: overlayFS("ui/templates", mustSub(embeddedFS, "templates")),
		mux:        http.NewServeMux(),
		log:        commonlog.GetLogger("javatree.ui"),
	}
	s.funcMap = template.FuncMap{
		"classLink": func(name string) template.HTML {
			escaped := template.HTMLEscapeString(name)
			return template.HTML(fmt.Sprintf(`<a href="/c/%s">%s</a>`, url.PathEscape(name), escaped))
		},
	}
	if _, err := s.parse(); err != nil {
		return nil, err
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFS))))
	s.mux.HandleFunc("GET /c/{className...}", s.handleClass)
	s.mux.HandleFunc("GET /sidebar", s.handleSidebar)
	s.mux.HandleFunc("GET /table", s.handleTable)
	s.mux.HandleFunc("GET /graph.json", s.handleJSON)
	s.mux.HandleFunc("POST /rescan", s.handleRescan)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) parse() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := s.parse()
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) title() string {
	if s.opts.Title != "" {
		return s.opts.Title
	}
	return "javatree"
}

// tree renders the text tree below root, or below every root when root is
// empty.
func (s *Server) tree(g *graph.Graph, root string) string {
	opts := s.opts
	opts.Root = root
	var buf bytes.Buffer
	if err := format.NewTreeEncoder(&buf, format.Charsets[config.FormatGraphics], opts).Encode(g); err != nil {
		s.log.Errorf("render tree: %s", err)
	}
	return buf.String()
}

type rootView struct {
	Name        string
	Descendants int
}

type IndexViewData struct {
	Title       string
	FilesParsed int
	ClassCount  int
	Roots       []rootView
	Tree        string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexViewData{Title: s.title()}
	s.codebase.View(func(res *codebase.Result) {
		data.FilesParsed = res.FilesParsed
		data.ClassCount = res.ClassCount()
		roots := res.Graph.Roots()
		if s.opts.Sort {
			graph.SortByName(roots)
		}
		for _, n := range roots {
			data.Roots = append(data.Roots, rootView{Name: n.Name(), Descendants: res.Graph.CountDescendants(n)})
		}
		data.Tree = s.tree(res.Graph, "")
	})
	s.render(w, "index.html", data)
}

type ClassViewData struct {
	Title        string
	Signature    *java.ClassSignature
	Parents      []string
	Interfaces   []string
	Implementers []string
	Tree         string
}

func (s *Server) handleClass(w http.ResponseWriter, r *http.Request) {
	className := r.PathValue("className")
	data := ClassViewData{Title: s.title()}
	found := false
	s.codebase.View(func(res *codebase.Result) {
		n, ok := res.Graph.Lookup(java.ErasedName(className))
		if !ok {
			return
		}
		found = true
		if sig, ok := codebase.FindSignature(res.Signatures, n.Name()); ok {
			data.Signature = &sig
		}
		data.Parents = names(n.Parents())
		data.Interfaces = names(n.Interfaces())
		for _, other := range res.Graph.Nodes() {
			if other.HasInterface(n) {
				data.Implementers = append(data.Implementers, other.Name())
			}
		}
		if n.ChildCount() > 0 {
			data.Tree = s.tree(res.Graph, n.Name())
		}
	})
	if !found {
		http.Error(w, "class not found", http.StatusNotFound)
		return
	}
	s.render(w, "class.html", data)
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	needle := strings.ToLower(query)

	var classes []string
	total := 0
	s.codebase.View(func(res *codebase.Result) {
		nodes := res.Graph.Nodes()
		if s.opts.Sort {
			graph.SortByName(nodes)
		}
		for _, n := range nodes {
			if needle != "" && !strings.Contains(strings.ToLower(n.Name()), needle) {
				continue
			}
			total++
			if len(classes) < maxResults {
				classes = append(classes, n.Name())
			}
		}
	})

	data := struct {
		Title        string
		Query        string
		Classes      []string
		TotalMatches int
		HasMore      bool
	}{
		Title:        s.title(),
		Query:        query,
		Classes:      classes,
		TotalMatches: total,
		HasMore:      total > maxResults,
	}
	s.render(w, "_sidebar.html", data)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var err error
	s.codebase.View(func(res *codebase.Result) {
		err = format.NewTableEncoder(&buf, s.opts).Encode(res.Signatures)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var err error
	s.codebase.View(func(res *codebase.Result) {
		err = format.NewJSONEncoder(&buf, s.opts).Encode(res.Graph)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	buf.WriteTo(w)
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	if _, err := s.codebase.Rescan(); err != nil {
		http.Error(w, "rescan: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func names(nodes []*graph.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name())
	}
	return out
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}
