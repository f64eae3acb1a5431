// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

// MinimalOutputXML is a small but structurally complete results document:
// one suite, one passing test, a statistics section and a root status.
const MinimalOutputXML = `<?xml version="1.0" encoding="UTF-8"?>
<robot generator="Robot 7.1" generated="2024-10-11T22:26:20.123456Z">
<suite id="s1" name="Suite">
<test id="s1-t1" name="Passes">
<status status="PASS" start="2024-10-11T22:26:20.200000Z" elapsed="0.010000"/>
</test>
<status status="PASS" start="2024-10-11T22:26:20.195908Z" elapsed="0.041915"/>
</suite>
<statistics>
<total>
<stat pass="1" fail="0" skip="0">All Tests</stat>
</total>
</statistics>
</robot>
`

// SetupResultsDir creates a temporary results directory holding output.xml,
// log.html and report.html, the trio upload discovers by default.
func SetupResultsDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"output.xml":  MinimalOutputXML,
		"log.html":    "<html><body>log</body></html>",
		"report.html": "<html><body>report</body></html>",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return dir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer in the given mode whose output is
// captured in buffers for inspection. Buffers are never terminals, so the
// output carries no styling.
func NewTestRenderer(mode output.Mode) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the captured result stream as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the captured progress/warning stream as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}
