package codebase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/graph"
	"github.com/dhamidi/javatree/java"
	"github.com/dhamidi/javatree/java/scanner"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/tliron/commonlog"
)

// Result is one complete scan of a set of source roots.
type Result struct {
	Graph       *graph.Graph
	Signatures  []java.ClassSignature
	Imports     []java.ImportSet
	FilesParsed int
	Diagnostics []scanner.Diagnostic
}

// ClassCount is the number of declarations found, or the number of graph
// nodes in import mode.
func (r *Result) ClassCount() int {
	if len(r.Imports) > 0 {
		return r.Graph.Len()
	}
	return len(r.Signatures)
}

// Codebase walks source roots and holds the graph of the latest scan.
// Readers go through View so a concurrent Rescan never releases a graph
// that is still being read.
type Codebase struct {
	cfg     config.Config
	log     commonlog.Logger
	ignored *ignore.GitIgnore

	mu     sync.RWMutex
	roots  []string
	result *Result
}

func New(cfg config.Config, log commonlog.Logger) *Codebase {
	if log == nil {
		log = commonlog.GetLogger("javatree.codebase")
	}
	return &Codebase{
		cfg:     cfg,
		log:     log,
		ignored: ignore.CompileIgnoreLines(cfg.Ignore...),
		result:  &Result{Graph: graph.New()},
	}
}

func (c *Codebase) Roots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.roots...)
}

// Scan walks every root, builds a fresh graph and makes it current. A root
// that cannot be walked fails the whole scan; unreadable files are logged
// and skipped.
func (c *Codebase) Scan(roots ...string) (*Result, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	result := &Result{Graph: graph.New()}
	extractor := scanner.NewExtractor(scanner.Options{
		AllClasses: c.cfg.AllClasses,
		FileLabel:  c.fileLabel,
	}, commonlog.GetLogger("javatree.scanner"))

	for _, root := range roots {
		if err := c.walk(root, func(path string) {
			c.scanFile(extractor, result, path)
		}); err != nil {
			return nil, err
		}
	}

	c.log.Infof("scanned %d files, %d declarations, %d diagnostics",
		result.FilesParsed, len(result.Signatures), len(result.Diagnostics))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result != nil {
		c.result.Graph.Release()
	}
	c.result = result
	c.roots = append([]string(nil), roots...)
	return result, nil
}

// Rescan repeats the last Scan with the same roots.
func (c *Codebase) Rescan() (*Result, error) {
	return c.Scan(c.Roots()...)
}

// View calls fn with the current result while holding the read lock.
func (c *Codebase) View(fn func(r *Result)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.result)
}

// Signature finds the declaration of name, trying the fully qualified
// nesting path before the simple name.
func (c *Codebase) Signature(name string) (java.ClassSignature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FindSignature(c.result.Signatures, name)
}

// Summary describes the class called name together with its direct
// subclasses.
func (c *Codebase) Summary(name string) (string, bool) {
	var summary string
	c.View(func(r *Result) {
		sig, ok := FindSignature(r.Signatures, name)
		if !ok {
			return
		}
		var subclasses []string
		if n, ok := r.Graph.Lookup(sig.FullName); ok {
			for _, child := range n.Children() {
				subclasses = append(subclasses, child.Name())
			}
		}
		summary = Describe(sig, subclasses)
	})
	return summary, summary != ""
}

// FindSignature returns the declaration whose full name, or failing that
// simple name, matches name with generic parameters erased.
func FindSignature(sigs []java.ClassSignature, name string) (java.ClassSignature, bool) {
	name = java.ErasedName(name)
	for _, sig := range sigs {
		if sig.FullName == name {
			return sig, true
		}
	}
	for _, sig := range sigs {
		if sig.SimpleName == name {
			return sig, true
		}
	}
	return java.ClassSignature{}, false
}

func (c *Codebase) walk(root string, visit func(path string)) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		visit(root)
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			c.log.Warningf("skipping %s: %s", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && c.isIgnored(root, path, d.IsDir()) {
			c.log.Debugf("ignoring %s", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".java") {
			visit(path)
		}
		return nil
	})
}

func (c *Codebase) isIgnored(root, path string, dir bool) bool {
	if len(c.cfg.Ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		rel += "/"
	}
	return c.ignored.MatchesPath(rel)
}

func (c *Codebase) scanFile(extractor *scanner.Extractor, result *Result, path string) {
	if c.cfg.Imports {
		set, err := scanner.ScanImportFile(path, scanner.ImportOptions{
			Prefix:    c.cfg.ImportPrefix,
			FileLabel: c.fileLabel,
		})
		if err != nil {
			c.logUnreadable(path, err)
			return
		}
		result.FilesParsed++
		result.Imports = append(result.Imports, set)
		result.Graph.RecordImports(set)
		return
	}

	sigs, diags, err := extractor.ScanFile(path)
	if err != nil {
		c.logUnreadable(path, err)
		return
	}
	result.FilesParsed++
	result.Diagnostics = append(result.Diagnostics, diags...)
	for _, sig := range sigs {
		result.Graph.RecordClass(sig)
	}
	result.Signatures = append(result.Signatures, sigs...)
}

func (c *Codebase) logUnreadable(path string, err error) {
	if errors.Is(err, fs.ErrPermission) {
		c.log.Warningf("cannot read %s: permission denied", path)
		return
	}
	c.log.Errorf("cannot open %s: %s", path, err)
}

// fileLabel is the file recorded on graph nodes: the base name, or a
// file:// URL for the dtree page so entries link to their source.
func (c *Codebase) fileLabel(path string) string {
	if c.cfg.Format != config.FormatDTree {
		return filepath.Base(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}
