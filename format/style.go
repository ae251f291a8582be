package format

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/graph"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	ColorAbstract  = lipgloss.Color("2")
	ColorHidden    = lipgloss.Color("1")
	ColorRecursion = lipgloss.Color("3")
)

// ColorEnabled resolves a colour mode for output written to w. In auto mode
// colour is used only for terminals and never when NO_COLOR is set.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	enabled   bool
	abstract  lipgloss.Style
	hidden    lipgloss.Style
	recursion lipgloss.Style
}

func newPalette(w io.Writer, enabled bool) palette {
	if !enabled {
		return palette{}
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	return palette{
		enabled:   true,
		abstract:  r.NewStyle().Foreground(ColorAbstract),
		hidden:    r.NewStyle().Foreground(ColorHidden),
		recursion: r.NewStyle().Foreground(ColorRecursion).Bold(true),
	}
}

// name renders a class name: abstract classes green, declared classes that
// are not public red.
func (p palette) name(n *graph.Node) string {
	if !p.enabled {
		return n.Name()
	}
	switch {
	case isAbstract(n):
		return p.abstract.Render(n.Name())
	case n.Declared() && !isPublic(n):
		return p.hidden.Render(n.Name())
	}
	return n.Name()
}

func (p palette) marker() string {
	if !p.enabled {
		return RecursionMarker
	}
	return p.recursion.Render(RecursionMarker)
}
