package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Styles holds the lipgloss styles shared by all commands. On a
// non-terminal writer every style renders as plain text.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
}

func newStyles(out io.Writer) *Styles {
	re := lipgloss.NewRenderer(out)
	if !writerIsTerminal(out) {
		re.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Header1: re.NewStyle().Bold(true).Underline(true),
		Header2: re.NewStyle().Bold(true),
		Bold:    re.NewStyle().Bold(true),
		Muted:   re.NewStyle().Faint(true),
		Success: re.NewStyle().Foreground(lipgloss.Color("2")),
		Failure: re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// writerIsTerminal reports whether w is a real terminal rather than a
// pipe or buffer. lipgloss does its own detection for files, but plain
// buffers (tests, captured output) need the explicit downgrade.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
