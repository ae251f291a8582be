package format

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dhamidi/javatree/graph"
)

// DTreeEncoder writes an HTML page that builds a collapsible tree with the
// dTree JavaScript widget. dtree.js and dtree.css are expected next to the
// page. Every node becomes d.add(id, parentID, 'name', 'file').
type DTreeEncoder struct {
	w    io.Writer
	g    *graph.Graph
	opts Options
}

func NewDTreeEncoder(w io.Writer, opts Options) *DTreeEncoder {
	return &DTreeEncoder{w: w, opts: opts}
}

func (e *DTreeEncoder) Encode(g *graph.Graph) error {
	e.g = g
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DTreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	title := e.opts.title()

	fmt.Fprintf(&sb, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta http-equiv="Content-type" content="text/html;charset=UTF-8">
	<title>%[1]s</title>
	<link rel=StyleSheet href=dtree.css type=text/css />
	<script type=text/javascript src=dtree.js></script>
</head>
<body>
<h2>%[1]s</h2>
<div class=dtree>
	<p><a href=javascript:d.openAll();>open all</a> | <a href=javascript:d.closeAll();>close all</a></p>
	<script type=text/javascript>
		<!--
		d = new dTree('d');
		d.add(0, -1, '%[2]s');
`, html.EscapeString(title), jsString(title))

	next := 1
	for _, root := range e.opts.roots(e.g) {
		ids := []int{0}
		e.g.Traverse(root, func(depth int, n *graph.Node, _, cycle bool) {
			id := next
			next++
			ids = append(ids[:depth+1], id)

			name := n.Name()
			if cycle {
				name += " " + RecursionMarker
			}
			fmt.Fprintf(&sb, "\t\td.add(%d,%d,'%s','%s');\n", id, ids[depth], jsString(name), jsString(n.File()))
		})
	}

	sb.WriteString(`		document.write(d);
		d.openAll();
		//-->
	</script>
</div>
</body>
</html>
`)
	return []byte(sb.String()), nil
}

var jsReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "<", "&lt;", "\n", " ")

// jsString escapes s for a single quoted JavaScript literal shown as HTML.
func jsString(s string) string {
	return jsReplacer.Replace(s)
}
