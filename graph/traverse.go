package graph

// VisitFunc receives every step of a traversal. depth is 0 for the start
// node; last is true when n is the last child of its parent; cycle is true
// when n already appears on the path from the start node, in which case
// its children are not visited.
type VisitFunc func(depth int, n *Node, last, cycle bool)

// Traverse walks the children of start depth first in pre-order, following
// edges in insertion order. Each node on a cycle is reported once with
// cycle set instead of being expanded again, so the walk always ends.
func (g *Graph) Traverse(start *Node, visit VisitFunc) {
	if start == nil {
		return
	}
	onPath := make(map[NodeID]bool)

	var walk func(n *Node, depth int, last bool)
	walk = func(n *Node, depth int, last bool) {
		if onPath[n.id] {
			visit(depth, n, last, true)
			return
		}
		visit(depth, n, last, false)

		onPath[n.id] = true
		kids := n.children.ids
		for i, id := range kids {
			walk(g.nodes[id], depth+1, i == len(kids)-1)
		}
		delete(onPath, n.id)
	}
	walk(start, 0, true)
}

// TraverseRoots traverses from every root in order.
func (g *Graph) TraverseRoots(visit VisitFunc) {
	for _, root := range g.Roots() {
		g.Traverse(root, visit)
	}
}

// CountDescendants is the number of visits a traversal from n makes below
// n, including recursion markers.
func (g *Graph) CountDescendants(n *Node) int {
	count := 0
	g.Traverse(n, func(depth int, _ *Node, _, _ bool) {
		if depth > 0 {
			count++
		}
	})
	return count
}
