// Package format renders a class relation graph as text trees, HTML pages,
// GraphViz digraphs, tab separated lists and JSON.
package format

import (
	"encoding"
	"path"
	"regexp"
	"strings"

	"github.com/dhamidi/javatree/graph"
	"github.com/dhamidi/javatree/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(g *graph.Graph) error
}

// RecursionMarker follows the name of a class that already appears on the
// path from its root.
const RecursionMarker = "[recursion]"

type Options struct {
	// Sort orders roots alphabetically instead of by first reference.
	Sort bool
	// Color styles class names with ANSI colours.
	Color bool
	// Title names the HTML page or digraph; see Title.
	Title string
	// Root limits the output to the tree below the named class.
	Root string
}

func (o Options) roots(g *graph.Graph) []*graph.Node {
	if o.Root != "" {
		n, ok := g.Lookup(java.ErasedName(o.Root))
		if !ok {
			return nil
		}
		return []*graph.Node{n}
	}
	roots := g.Roots()
	if o.Sort {
		graph.SortByName(roots)
	}
	return roots
}

func (o Options) nodes(g *graph.Graph) []*graph.Node {
	nodes := g.Nodes()
	if o.Sort {
		graph.SortByName(nodes)
	}
	return nodes
}

func (o Options) title() string {
	if o.Title == "" {
		return "javatree"
	}
	return o.Title
}

// interfaceNames lists the interfaces of n, leaving out the file nodes of
// the import graph.
func interfaceNames(n *graph.Node) []string {
	var names []string
	for _, iface := range n.Interfaces() {
		if iface.Modifier() == java.ModifierFile {
			continue
		}
		names = append(names, iface.Name())
	}
	return names
}

func isAbstract(n *graph.Node) bool { return java.HasModifier(n.Modifier(), "abstract") }
func isPublic(n *graph.Node) bool   { return java.HasModifier(n.Modifier(), "public") }

var titleSpecial = regexp.MustCompile(`[*?\-]+`)

// Title derives a graph title from a scanned path: a trailing file name or
// glob is dropped, a drive prefix is cut, and separators and glob
// characters become underscores. src/main/java becomes src_main_java.
func Title(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimSuffix(p, "/")
	if base := path.Base(p); path.Ext(base) != "" || strings.ContainsAny(base, "*?") {
		p = path.Dir(p)
	}
	if i := strings.Index(p, ":"); i >= 0 {
		p = p[i+1:]
	}
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		p = ""
	}
	p = titleSpecial.ReplaceAllString(p, "_")
	p = strings.ReplaceAll(p, "/", "_")
	if p == "" {
		return "javatree"
	}
	return p
}
