package graph

// NodeID indexes a node in its graph's arena.
type NodeID int

// edgeSet is an insertion ordered set of node ids.
type edgeSet struct {
	ids  []NodeID
	seen map[NodeID]struct{}
}

// add appends id unless it is already present and reports whether it did.
func (s *edgeSet) add(id NodeID) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[NodeID]struct{})
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

func (s *edgeSet) has(id NodeID) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *edgeSet) len() int {
	return len(s.ids)
}

// Node is one class, interface, package or file, identified by its fully
// qualified name. Edges refer to other nodes of the same graph by id.
type Node struct {
	g  *Graph
	id NodeID

	name     string
	modifier string
	file     string
	line     int

	parents    edgeSet
	children   edgeSet
	interfaces edgeSet
}

func (n *Node) ID() NodeID       { return n.id }
func (n *Node) Name() string     { return n.name }
func (n *Node) Modifier() string { return n.modifier }

// File is the label of the last file that declared the node, or "" for a
// node only ever referenced as a supertype.
func (n *Node) File() string { return n.file }
func (n *Node) Line() int    { return n.line }

// Declared reports whether a declaration for the node has been scanned.
func (n *Node) Declared() bool { return n.file != "" }

func (n *Node) Parents() []*Node    { return n.resolve(n.parents) }
func (n *Node) Children() []*Node   { return n.resolve(n.children) }
func (n *Node) Interfaces() []*Node { return n.resolve(n.interfaces) }

func (n *Node) ParentCount() int    { return n.parents.len() }
func (n *Node) ChildCount() int     { return n.children.len() }
func (n *Node) InterfaceCount() int { return n.interfaces.len() }

func (n *Node) HasParent(p *Node) bool    { return p != nil && n.parents.has(p.id) }
func (n *Node) HasChild(c *Node) bool     { return c != nil && n.children.has(c.id) }
func (n *Node) HasInterface(i *Node) bool { return i != nil && n.interfaces.has(i.id) }

// AddInterface records a one directional edge from n to iface.
func (n *Node) AddInterface(iface *Node) {
	n.interfaces.add(iface.id)
}

func (n *Node) resolve(s edgeSet) []*Node {
	if n.g == nil || len(s.ids) == 0 {
		return nil
	}
	nodes := make([]*Node, 0, len(s.ids))
	for _, id := range s.ids {
		nodes = append(nodes, n.g.nodes[id])
	}
	return nodes
}
