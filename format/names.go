package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/javatree/graph"
)

const (
	NoParent   = "_NoParent_"
	NoChildren = "_NoChildren_"
)

// NamesEncoder lists every node on one tab separated line: name,
// modifiers, first parent, first child, interfaces and file.
type NamesEncoder struct {
	w    io.Writer
	g    *graph.Graph
	opts Options
}

func NewNamesEncoder(w io.Writer, opts Options) *NamesEncoder {
	return &NamesEncoder{w: w, opts: opts}
}

func (e *NamesEncoder) Encode(g *graph.Graph) error {
	e.g = g
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *NamesEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("ClassName\tModifiers\tFirstParent\tFirstChild\tInterfaces\tFile\n")
	for _, n := range e.opts.nodes(e.g) {
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\t%s\n",
			n.Name(),
			n.Modifier(),
			firstName(n.Parents(), NoParent),
			firstName(n.Children(), NoChildren),
			strings.Join(interfaceNames(n), ", "),
			n.File(),
		)
	}

	return []byte(sb.String()), nil
}

func firstName(nodes []*graph.Node, none string) string {
	if len(nodes) == 0 {
		return none
	}
	return nodes[0].Name()
}
