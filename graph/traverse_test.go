package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type step struct {
	depth int
	name  string
	last  bool
	cycle bool
}

func (s step) String() string {
	return fmt.Sprintf("%d:%s:%v:%v", s.depth, s.name, s.last, s.cycle)
}

func collect(g *Graph, start *Node) []step {
	var steps []step
	g.Traverse(start, func(depth int, n *Node, last, cycle bool) {
		steps = append(steps, step{depth, n.Name(), last, cycle})
	})
	return steps
}

func TestTraversePreOrder(t *testing.T) {
	g := New()
	g.RecordClass(classSig("B", "A"))
	g.RecordClass(classSig("C", "A"))
	g.RecordClass(classSig("D", "B"))
	g.RecordClass(classSig("E", "B"))

	a, _ := g.Lookup("A")
	assert.Equal(t, []step{
		{0, "A", true, false},
		{1, "B", false, false},
		{2, "D", false, false},
		{2, "E", true, false},
		{1, "C", true, false},
	}, collect(g, a))
	assert.Equal(t, 4, g.CountDescendants(a))
}

func TestTraverseCycle(t *testing.T) {
	g := New()
	g.RecordClass(classSig("A", "B"))
	g.RecordClass(classSig("B", "C"))
	g.RecordClass(classSig("C", "A"))

	assert.Empty(t, g.Roots())

	for _, name := range []string{"A", "B", "C"} {
		t.Run(name, func(t *testing.T) {
			start, _ := g.Lookup(name)
			steps := collect(g, start)
			assert.Len(t, steps, 4)

			markers := 0
			for _, s := range steps {
				if s.cycle {
					markers++
					assert.Equal(t, name, s.name)
					assert.Equal(t, 3, s.depth)
				}
			}
			assert.Equal(t, 1, markers)
		})
	}
}

func TestTraverseCycleFromSyntheticRoot(t *testing.T) {
	g := New()
	g.RecordClass(classSig("A", "B"))
	g.RecordClass(classSig("B", "C"))
	g.RecordClass(classSig("C", "A"))

	root := g.GetOrCreate("root")
	a, _ := g.Lookup("A")
	g.Link(a, root)

	assert.Equal(t, []string{"root"}, nodeNames(g.Roots()))
	assert.Equal(t, []step{
		{0, "root", true, false},
		{1, "A", true, false},
		{2, "C", true, false},
		{3, "B", true, false},
		{4, "A", true, true},
	}, collect(g, root))
}

func TestTraverseDiamondIsNotACycle(t *testing.T) {
	// D is reachable twice but never appears twice on one path.
	g := New()
	top := g.GetOrCreate("Top")
	left := g.GetOrCreate("Left")
	right := g.GetOrCreate("Right")
	d := g.GetOrCreate("D")
	g.Link(left, top)
	g.Link(right, top)
	g.Link(d, left)
	g.Link(d, right)

	steps := collect(g, top)
	assert.Len(t, steps, 5)
	for _, s := range steps {
		assert.False(t, s.cycle, s.String())
	}
}

func TestTraverseSelfLoop(t *testing.T) {
	g := New()
	g.RecordClass(classSig("Self", "Self"))
	self, _ := g.Lookup("Self")
	assert.Equal(t, []step{
		{0, "Self", true, false},
		{1, "Self", true, true},
	}, collect(g, self))
}

func TestTraverseRoots(t *testing.T) {
	g := New()
	g.RecordClass(classSig("A", "B"))
	g.RecordClass(classSig("X", ""))

	var visited []string
	g.TraverseRoots(func(depth int, n *Node, _, _ bool) {
		visited = append(visited, fmt.Sprintf("%d%s", depth, n.Name()))
	})
	assert.Equal(t, []string{"0B", "1A", "0X"}, visited)
}

func TestTraverseNil(t *testing.T) {
	g := New()
	called := false
	g.Traverse(nil, func(int, *Node, bool, bool) { called = true })
	assert.False(t, called)
}
