// Package report prints a styled terminal summary of a conversion run.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/flanksource/figtex"
)

// Print writes a human summary of res to w. Styling degrades to plain
// text when w is not an interactive terminal.
func Print(w io.Writer, res *figtex.Result) {
	var opts []termenv.OutputOption
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(w, opts...)

	header := r.NewStyle().Bold(true)
	file := r.NewStyle().Foreground(lipgloss.Color("14"))
	ok := r.NewStyle().Foreground(lipgloss.Color("10"))
	warn := r.NewStyle().Foreground(lipgloss.Color("11"))

	fmt.Fprintln(w, header.Render("figtex conversion"))
	for _, path := range res.Outputs() {
		fmt.Fprintf(w, "  %s %s\n", ok.Render("wrote"), file.Render(path))
	}
	fmt.Fprintf(w, "  labels: %d registered, %d matched, %d unmanaged nodes\n",
		res.Labels, res.Matched, res.Unmanaged)
	if res.BackendVersion != "" {
		fmt.Fprintf(w, "  backend: Inkscape %s\n", res.BackendVersion)
	}
	if res.Duration > 0 {
		fmt.Fprintf(w, "  took %s\n", res.Duration.Round(time.Millisecond))
	}
	for _, msg := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warn.Render("warning:"), msg)
	}
}
