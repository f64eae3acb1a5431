// Package output renders command results as plain text or JSON, with
// terminal styling when the result stream is a TTY.
package output

import (
	"fmt"
	"io"
)

// Mode selects how command results are rendered.
type Mode string

const (
	// ModeAuto resolves to text. It exists so "auto" from config and
	// flags round-trips without special-casing at every call site.
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// ParseMode validates a --format flag or config value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeText, ModeJSON:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("output: unknown format %q (expected auto, text or json)", s)
	}
}

// Renderer writes command output. Results go to out; progress and
// warnings go to errOut so that JSON results stay machine-readable.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer builds a Renderer over the given writers. Styling is
// enabled only when out is an actual terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, mode: mode, styles: newStyles(out)}
}

// EffectiveMode resolves ModeAuto to the mode actually used for
// rendering. JSON is produced only when explicitly requested.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeJSON {
		return ModeJSON
	}
	return ModeText
}

// Writer exposes the result stream, e.g. for a json.Encoder.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter exposes the progress/warning stream.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set matching the result stream.
func (r *Renderer) Styles() *Styles { return r.styles }

func (r *Renderer) Println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Warnf writes a warning line to the error stream.
func (r *Renderer) Warnf(format string, args ...any) {
	fmt.Fprintf(r.errOut, format, args...)
}

// Header prints a section heading. Level 1 is underlined, anything
// deeper is bold.
func (r *Renderer) Header(level int, text string) {
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// KeyValue prints one "Key: value" line with the key emphasized.
func (r *Renderer) KeyValue(key, value string) {
	r.Printf("%s %s\n", r.styles.Bold.Render(key+":"), value)
}
