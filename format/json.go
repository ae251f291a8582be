package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/javatree/graph"
)

type JSONEncoder struct {
	w    io.Writer
	g    *graph.Graph
	opts Options
}

func NewJSONEncoder(w io.Writer, opts Options) *JSONEncoder {
	return &JSONEncoder{w: w, opts: opts}
}

func (e *JSONEncoder) Encode(g *graph.Graph) error {
	e.g = g
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildGraphData(), "", "  ")
}

type jsonGraph struct {
	Title string     `json:"title"`
	Roots []string   `json:"roots"`
	Nodes []jsonNode `json:"nodes"`
}

type jsonNode struct {
	Name       string   `json:"name"`
	Modifiers  string   `json:"modifiers,omitempty"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	Parents    []string `json:"parents,omitempty"`
	Children   []string `json:"children,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
}

func (e *JSONEncoder) buildGraphData() jsonGraph {
	data := jsonGraph{
		Title: e.opts.title(),
		Roots: nodeNames(e.opts.roots(e.g)),
		Nodes: []jsonNode{},
	}
	for _, n := range e.opts.nodes(e.g) {
		data.Nodes = append(data.Nodes, jsonNode{
			Name:       n.Name(),
			Modifiers:  n.Modifier(),
			File:       n.File(),
			Line:       n.Line(),
			Parents:    nodeNames(n.Parents()),
			Children:   nodeNames(n.Children()),
			Interfaces: interfaceNames(n),
		})
	}
	if data.Roots == nil {
		data.Roots = []string{}
	}
	return data
}

func nodeNames(nodes []*graph.Node) []string {
	var names []string
	for _, n := range nodes {
		names = append(names, n.Name())
	}
	return names
}
