package format

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dhamidi/javatree/java"
)

// TableEncoder writes an HTML page with one table row per declaration,
// in scan order.
type TableEncoder struct {
	w    io.Writer
	sigs []java.ClassSignature
	opts Options
}

func NewTableEncoder(w io.Writer, opts Options) *TableEncoder {
	return &TableEncoder{w: w, opts: opts}
}

func (e *TableEncoder) Encode(sigs []java.ClassSignature) error {
	e.sigs = sigs
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TableEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	title := html.EscapeString(e.opts.title())

	fmt.Fprintf(&sb, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta http-equiv="Content-type" content="text/html;charset=UTF-8">
	<title>%[1]s</title>
</head>
<body>
<h2>Tabular List of %[1]s</h2>
<table id='class-list'>
<thead>
<tr><th>Package</th><th>FullClassName</th><th>ClassName</th><th>Modifiers</th><th>Filename</th></tr>
</thead>
<tfoot>
<tr><td colspan='5'>%[2]d classes</td></tr>
</tfoot>
<tbody>
`, title, len(e.sigs))

	for _, sig := range e.sigs {
		fmt.Fprintf(&sb, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(sig.Package),
			html.EscapeString(sig.FullName),
			html.EscapeString(sig.DeclaredName),
			html.EscapeString(sig.Modifiers),
			html.EscapeString(sig.File),
		)
	}

	sb.WriteString("</tbody>\n</table>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}
