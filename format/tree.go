package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/graph"
)

// Charset holds the connector glyphs and document framing of one tree
// style. Every indent glyph occupies one level of the tree.
type Charset struct {
	None      string // no more siblings below this level
	More      string // more siblings follow at this level
	MoreAndMe string // this node, more siblings follow
	JustMe    string // this node is the last sibling

	Begin     string
	Header    string
	LineBegin string
	FileSep   string
	LineEnd   string
	End       string
}

const treeHeader = "\nClass Tree\n"

var Charsets = map[string]Charset{
	config.FormatGraphics: {
		None: "    ", More: "   │", MoreAndMe: "   ├", JustMe: "   └",
		Header: treeHeader, FileSep: ": ", LineEnd: "\n",
	},
	config.FormatText: {
		None: "    ", More: "   |", MoreAndMe: "   +", JustMe: "   -",
		Header: treeHeader, FileSep: ": ", LineEnd: "\n",
	},
	config.FormatSpaces: {
		None: "    ", More: "    ", MoreAndMe: "    ", JustMe: "    ",
		Header: treeHeader, FileSep: ": ", LineEnd: "\n",
	},
	config.FormatHTML: {
		None: "<img src='n.png'>", More: "<img src='0.png'>", MoreAndMe: "<img src='2.png'>", JustMe: "<img src='1.png'>",
		Begin: "<html>", Header: "<table>", LineBegin: "<tr><td>", FileSep: "<td>", LineEnd: "</tr>\n", End: "</table></html>",
	},
}

// minFileWidth is the narrowest file column.
const minFileWidth = 14

// TreeEncoder prints every root and its subclasses as an indented tree:
//
//	    Shape.java:  Shape
//	   Circle.java:    ├ Circle
//	     Ring.java:    │   └ Ring  (Decorated)
//	   Square.java:    └ Square
type TreeEncoder struct {
	w       io.Writer
	g       *graph.Graph
	opts    Options
	charset Charset
}

func NewTreeEncoder(w io.Writer, charset Charset, opts Options) *TreeEncoder {
	if charset.FileSep == "<td>" {
		opts.Color = false
	}
	return &TreeEncoder{w: w, opts: opts, charset: charset}
}

func (e *TreeEncoder) Encode(g *graph.Graph) error {
	e.g = g
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	cs := e.charset
	pal := newPalette(e.w, e.opts.Color)
	width := fileWidth(e.g)

	sb.WriteString(cs.Begin)
	sb.WriteString(cs.Header)

	for _, root := range e.opts.roots(e.g) {
		var path []*graph.Node
		var open []bool

		e.g.Traverse(root, func(depth int, n *graph.Node, last, cycle bool) {
			path = append(path[:depth], n)
			open = append(open[:depth], !last)

			sb.WriteString(cs.LineBegin)
			fmt.Fprintf(&sb, "%*s%s", width, n.File(), cs.FileSep)
			for level := 1; level < depth; level++ {
				if open[level] {
					sb.WriteString(cs.More)
				} else {
					sb.WriteString(cs.None)
				}
			}
			if depth > 0 {
				if last {
					sb.WriteString(cs.JustMe)
				} else {
					sb.WriteString(cs.MoreAndMe)
				}
			}
			sb.WriteString(" " + pal.name(n))
			if cycle {
				sb.WriteString(" " + pal.marker())
			}
			if depth > 0 {
				for _, other := range e.g.OtherParents(n, path[depth-1]) {
					fmt.Fprintf(&sb, "  (%s)", other.Name())
				}
			}
			sb.WriteString(cs.LineEnd)
		})
	}

	sb.WriteString(cs.End)
	return []byte(sb.String()), nil
}

func fileWidth(g *graph.Graph) int {
	width := minFileWidth
	for _, n := range g.Nodes() {
		if l := len(n.File()); l > width {
			width = l
		}
	}
	return width
}
