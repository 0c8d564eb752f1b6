// Package output renders ranked search results for the CLI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mwmbl/ranker/internal/rank"
)

// Color palette, 256-color codes.
const (
	colorTitle = "81"  // cyan for titles
	colorURL   = "245" // gray for urls
	colorScore = "106" // dim green for scores
	colorWarn  = "220"
)

// Writer provides formatted CLI output.
type Writer struct {
	out    io.Writer
	title  lipgloss.Style
	url    lipgloss.Style
	score  lipgloss.Style
	warn   lipgloss.Style
	styled bool
}

// New creates a Writer. Styling is enabled only when out is os.Stdout
// attached to a terminal.
func New(out io.Writer) *Writer {
	w := &Writer{out: out}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w.styled = true
		w.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle))
		w.url = lipgloss.NewStyle().Foreground(lipgloss.Color(colorURL))
		w.score = lipgloss.NewStyle().Foreground(lipgloss.Color(colorScore))
		w.warn = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarn))
	}
	return w
}

// Results prints the ranked sequence, one block per result.
// Write errors are intentionally ignored for console output.
func (w *Writer) Results(results []rank.Result) {
	if len(results) == 0 {
		w.Warning("no results")
		return
	}
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		_, _ = fmt.Fprintf(w.out, "%2d. %s  %s\n", i+1,
			w.render(w.title, title),
			w.render(w.score, fmt.Sprintf("(%.4f)", r.Score)))
		_, _ = fmt.Fprintf(w.out, "    %s\n", w.render(w.url, r.URL))
		if r.Extract != "" {
			_, _ = fmt.Fprintf(w.out, "    %s\n", r.Extract)
		}
		_, _ = fmt.Fprintln(w.out)
	}
}

// Terms prints derived query terms, one per line.
func (w *Writer) Terms(terms []string) {
	for _, t := range terms {
		_, _ = fmt.Fprintln(w.out, t)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s\n", w.render(w.warn, msg))
}

func (w *Writer) render(style lipgloss.Style, s string) string {
	if !w.styled {
		return s
	}
	return style.Render(s)
}
