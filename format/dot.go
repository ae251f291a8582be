package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dhamidi/javatree/graph"
	"github.com/dhamidi/javatree/java"
)

// DotOptions controls splitting of GraphViz output. Without Split or
// NodesPerFile everything goes to the encoder's writer as one digraph.
type DotOptions struct {
	// Split writes one .gv file per root tree.
	Split bool
	// NodesPerFile starts a new .gv file once the current one holds about
	// this many nodes.
	NodesPerFile int
	// OutDir receives the .gv files.
	OutDir string
	// Imports drops isolated roots, which in the import graph are packages
	// nothing else refers to.
	Imports bool
}

func (o DotOptions) splitting() bool {
	return o.Split || o.NodesPerFile > 0
}

// DotEncoder writes the graph as GraphViz digraphs. Abstract classes are
// green, classes that are not public red, and interfaces yellow with red
// edges to the classes implementing them.
type DotEncoder struct {
	w       io.Writer
	g       *graph.Graph
	opts    Options
	dot     DotOptions
	files   []string
	create  func(path string) (io.WriteCloser, error)
	skipped []string
}

func NewDotEncoder(w io.Writer, opts Options, dot DotOptions) *DotEncoder {
	return &DotEncoder{
		w:    w,
		opts: opts,
		dot:  dot,
		create: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
	}
}

// Files lists the .gv files written by the last Encode.
func (e *DotEncoder) Files() []string {
	return e.files
}

// Isolated lists the roots left out in import mode.
func (e *DotEncoder) Isolated() []string {
	return e.skipped
}

func (e *DotEncoder) Encode(g *graph.Graph) error {
	e.g = g
	if !e.dot.splitting() {
		text, err := e.MarshalText()
		if err != nil {
			return err
		}
		_, err = e.w.Write(text)
		return err
	}
	return e.encodeFiles()
}

// MarshalText renders the whole graph as a single digraph.
func (e *DotEncoder) MarshalText() ([]byte, error) {
	e.skipped = nil
	var sb strings.Builder
	e.writeHeader(&sb)
	for _, root := range e.opts.roots(e.g) {
		e.writeTree(&sb, root)
	}
	e.writeTrailer(&sb)
	return []byte(sb.String()), nil
}

func (e *DotEncoder) encodeFiles() error {
	e.files = nil
	e.skipped = nil

	var sb strings.Builder
	var current string
	count := -1

	flush := func() error {
		if current == "" {
			return nil
		}
		e.writeTrailer(&sb)
		f, err := e.create(current)
		if err != nil {
			return fmt.Errorf("create %s: %w", current, err)
		}
		if _, err := io.WriteString(f, sb.String()); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", current, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", current, err)
		}
		e.files = append(e.files, current)
		sb.Reset()
		current = ""
		return nil
	}

	for _, root := range e.opts.roots(e.g) {
		if e.nextFile(count, e.treeSize(root)) {
			if err := flush(); err != nil {
				return err
			}
			current = filepath.Join(e.dot.OutDir, GraphFileName(root.Name()))
			e.writeHeader(&sb)
			count = 0
		}
		count += e.writeTree(&sb, root)
	}
	return flush()
}

// nextFile reports whether the tree about to be written starts a new file.
// A file is closed once it is more than half full and adding half of the
// next tree would overflow it.
func (e *DotEncoder) nextFile(count, next int) bool {
	switch {
	case count < 0:
		return true
	case e.dot.Split:
		return true
	case e.dot.NodesPerFile > 0:
		n := e.dot.NodesPerFile
		return count*2 > n && count+next/2 > n
	}
	return false
}

var fileSpecial = regexp.MustCompile(`[<,>?]`)

// GraphFileName is the .gv file name for the tree rooted at name.
func GraphFileName(name string) string {
	return fileSpecial.ReplaceAllString(name, "_") + ".gv"
}

func (e *DotEncoder) writeHeader(sb *strings.Builder) {
	title := e.opts.title()
	fmt.Fprintf(sb, "digraph %s {\n", quoteID(title))
	sb.WriteString("bgcolor=transparent\n")
	sb.WriteString("overlap=false;\n")
	fmt.Fprintf(sb, "label=%s;\n", quoteID(title+" Class Hierarchy"))
	sb.WriteString("fontsize=12;\n")
	sb.WriteString("node [shape=box,style=filled,fillcolor=white];\n")
}

func (e *DotEncoder) writeTrailer(sb *strings.Builder) {
	sb.WriteString("}\n")
}

// writeTree writes root and everything below it and returns the number of
// nodes written.
func (e *DotEncoder) writeTree(sb *strings.Builder, root *graph.Node) int {
	if root.ChildCount() == 0 {
		if e.dot.Imports {
			e.skipped = append(e.skipped, root.Name())
			return 0
		}
		if attr := childAttr(root); attr != "" {
			fmt.Fprintf(sb, "%s %s\n", dotName(root), attr)
		}
		fmt.Fprintf(sb, "%s\n", dotName(root))
		return 1
	}

	count := 0
	var path []*graph.Node
	e.g.Traverse(root, func(depth int, n *graph.Node, _, cycle bool) {
		path = append(path[:depth], n)
		if depth > 0 {
			parent := path[depth-1]
			if attr := childAttr(n); attr != "" && !cycle {
				fmt.Fprintf(sb, "%s %s\n", dotName(n), attr)
			}
			if cycle {
				fmt.Fprintf(sb, "%s -> %s [style=dashed,label=%s]\n", dotName(parent), dotName(n), quoteID(RecursionMarker))
			} else {
				fmt.Fprintf(sb, "%s -> %s\n", dotName(parent), dotName(n))
			}
			count++
		}
		if cycle || n.ChildCount() == 0 {
			return
		}
		count += e.writeInterfaces(sb, n)
		fmt.Fprintf(sb, "%s %s\n", dotName(n), parentAttr(n, depth == 0))
	})
	return count
}

func (e *DotEncoder) writeInterfaces(sb *strings.Builder, n *graph.Node) int {
	count := 0
	for _, iface := range n.Interfaces() {
		if iface.Modifier() == java.ModifierFile {
			continue
		}
		fmt.Fprintf(sb, "%s [style=filled, fillcolor=yellow]\n", dotName(iface))
		fmt.Fprintf(sb, "%s -> %s [color=red,penwidth=3.0]\n", dotName(iface), dotName(n))
		count++
	}
	return count
}

// treeSize counts the nodes writeTree would write for root.
func (e *DotEncoder) treeSize(root *graph.Node) int {
	if root.ChildCount() == 0 {
		if e.dot.Imports {
			return 0
		}
		return 1
	}
	count := 0
	e.g.Traverse(root, func(depth int, n *graph.Node, _, cycle bool) {
		if depth > 0 {
			count++
		}
		if !cycle && n.ChildCount() > 0 {
			count += len(interfaceNames(n))
		}
	})
	return count
}

func parentAttr(n *graph.Node, root bool) string {
	switch {
	case isAbstract(n) && root:
		return "[color=green]"
	case isAbstract(n):
		return "[fillcolor=chartreuse]"
	case root:
		return "[fillcolor=cyan1]"
	}
	return "[fillcolor=cyan4]"
}

func childAttr(n *graph.Node) string {
	switch {
	case !isPublic(n):
		return "[color=red]"
	case isAbstract(n):
		return "[fillcolor=chartreuse]"
	}
	return ""
}

// dotName quotes a class name as a node id, breaking the label at dots.
func dotName(name *graph.Node) string {
	return quoteID(strings.ReplaceAll(name.Name(), ".", `\n`))
}

func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
