// Package graph holds the class relation graph: one node per fully
// qualified name, each with ordered, deduplicated parent, child and
// interface edges.
package graph

import (
	"sort"

	"github.com/dhamidi/javatree/java"
)

// DefaultPackage names the package node of files without a package
// declaration in the import graph.
const DefaultPackage = "(default package)"

// Graph owns every node through an arena; the registry maps names to
// arena slots. It is not safe for concurrent mutation.
type Graph struct {
	nodes []*Node
	index map[string]NodeID
}

func New() *Graph {
	return &Graph{index: make(map[string]NodeID)}
}

// GetOrCreate returns the node named name, creating an empty one (no file,
// no modifier) if it does not exist yet.
func (g *Graph) GetOrCreate(name string) *Node {
	if id, ok := g.index[name]; ok {
		return g.nodes[id]
	}
	if g.index == nil {
		g.index = make(map[string]NodeID)
	}
	n := &Node{g: g, id: NodeID(len(g.nodes)), name: name}
	g.nodes = append(g.nodes, n)
	g.index[name] = n.id
	return n
}

func (g *Graph) Lookup(name string) (*Node, bool) {
	id, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[id], true
}

// Node returns the node in arena slot id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Link records child extends parent as a complementary edge pair.
func (g *Graph) Link(child, parent *Node) {
	child.parents.add(parent.id)
	parent.children.add(child.id)
}

// RecordClass creates or updates the node for a declaration and links its
// supertypes. Supertypes never seen before become forward reference nodes.
func (g *Graph) RecordClass(sig java.ClassSignature) *Node {
	n := g.GetOrCreate(sig.FullName)
	n.modifier = sig.Modifiers
	n.file = sig.File
	n.line = sig.Line
	for _, super := range sig.SuperClasses {
		g.Link(n, g.GetOrCreate(super))
	}
	for _, iface := range sig.Interfaces {
		n.AddInterface(g.GetOrCreate(iface))
	}
	return n
}

// RecordImports adds one file of the import graph: the package node lists
// the file node as an interface, and every import hangs below both the
// package and the file.
func (g *Graph) RecordImports(set java.ImportSet) {
	pkgName := set.Package
	if pkgName == "" {
		pkgName = DefaultPackage
	}
	pkg := g.GetOrCreate(pkgName)
	pkg.modifier = java.ModifierPackage

	file := g.GetOrCreate(set.File)
	file.modifier = java.ModifierFile
	file.file = pkgName
	pkg.AddInterface(file)

	for _, name := range set.Imports {
		imp := g.GetOrCreate(name)
		imp.modifier = pkgName
		imp.file = set.File
		g.Link(imp, pkg)
		g.Link(imp, file)
	}
}

// Nodes returns every node in order of first reference.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// Roots returns the nodes without parents in order of first reference.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range g.nodes {
		if n.parents.len() == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// OtherParents lists the parents of n except parent, for renderers that
// annotate classes reachable from more than one parent.
func (g *Graph) OtherParents(n, parent *Node) []*Node {
	var others []*Node
	for _, p := range n.Parents() {
		if p != parent {
			others = append(others, p)
		}
	}
	return others
}

// EdgeCount is the number of parent/child pairs and interface edges.
func (g *Graph) EdgeCount() (extends, implements int) {
	for _, n := range g.nodes {
		extends += n.parents.len()
		implements += n.interfaces.len()
	}
	return extends, implements
}

// Release drops every node and edge. Nodes obtained earlier stay readable
// but report no edges.
func (g *Graph) Release() {
	for _, n := range g.nodes {
		n.g = nil
		n.parents = edgeSet{}
		n.children = edgeSet{}
		n.interfaces = edgeSet{}
	}
	g.nodes = nil
	g.index = make(map[string]NodeID)
}

// SortByName orders nodes alphabetically in place and returns them.
func SortByName(nodes []*Node) []*Node {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].name < nodes[j].name
	})
	return nodes
}
