package robot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoveryDoc = `<?xml version="1.0" encoding="UTF-8"?>
<robot generator="Robot 7.1.1 (Python 3.12.3 on linux)" rpa="false" schemaversion="5">
<suite id="s1" name="Suite">
<test id="s1-t1" name="Case">
<kw name="Screenshot">
<msg timestamp="2024-10-11T22:26:20.310000" level="INFO" html="true">&lt;img src="screenshot.png"&gt;</msg>
<msg timestamp="2024-10-11T22:26:20.311000" level="INFO" html="true">&lt;a href="../../secret.txt"&gt;dump&lt;/a&gt;</msg>
<status status="FAIL" start="2024-10-11T22:26:20.298000" elapsed="0.012000"/>
</kw>
<status status="FAIL" start="2024-10-11T22:26:20.297000" elapsed="0.014000"/>
</test>
<status status="FAIL" start="2024-10-11T22:26:20.295908" elapsed="0.041915"/>
</suite>
<statistics>
<total>
<stat pass="1" fail="3" skip="0">All Tests</stat>
</total>
</statistics>
<errors>
</errors>
</robot>
`

// writeRunDir lays out a directory that looks like the aftermath of a test
// run: results document, discovered artifact, log and report, plus a file
// two levels up that the document tries to reference.
func writeRunDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "ci", "results")
	require.NoError(t, os.MkdirAll(dir, 0750))

	files := map[string]string{
		filepath.Join(dir, "output.xml"):     discoveryDoc,
		filepath.Join(dir, "screenshot.png"): "png",
		filepath.Join(dir, "log.html"):       "<html/>",
		filepath.Join(dir, "report.html"):    "<html/>",
		filepath.Join(root, "secret.txt"):    "keep out",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return dir
}

func TestDiscoverManifest(t *testing.T) {
	dir := writeRunDir(t)

	manifest, stats, err := DiscoverManifest(dir, WellKnownFiles{
		Results: "output.xml",
		Log:     "log.html",
		Report:  "report.html",
	})
	require.NoError(t, err)

	names := make([]string, 0, len(manifest))
	for _, e := range manifest {
		names = append(names, e.DisplayName)
		assert.True(t, filepath.IsAbs(e.Path), "manifest paths are absolute: %q", e.Path)
	}
	assert.Equal(t, []string{"output.xml", "screenshot.png", "log.html", "report.html"}, names)

	assert.Equal(t, 4, stats.TotalTests)
	assert.Equal(t, VerdictFail, stats.Verdict)
	assert.False(t, stats.StartTime.IsZero())
}

func TestDiscoverManifest_DisableSentinel(t *testing.T) {
	dir := writeRunDir(t)

	tests := []struct {
		name  string
		files WellKnownFiles
		want  []string
	}{
		{
			name:  "log and report disabled",
			files: WellKnownFiles{Results: "output.xml", Log: "NONE", Report: "NONE"},
			want:  []string{"output.xml", "screenshot.png"},
		},
		{
			name:  "sentinel is case insensitive",
			files: WellKnownFiles{Results: "output.xml", Log: "none", Report: "None"},
			want:  []string{"output.xml", "screenshot.png"},
		},
		{
			name:  "results disabled skips discovery",
			files: WellKnownFiles{Results: "NONE", Log: "log.html", Report: "report.html"},
			want:  []string{"log.html", "report.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manifest, stats, err := DiscoverManifest(dir, tt.files)
			require.NoError(t, err)

			names := make([]string, 0, len(manifest))
			for _, e := range manifest {
				names = append(names, e.DisplayName)
			}
			assert.Equal(t, tt.want, names)

			if tt.files.Results == "NONE" {
				assert.Equal(t, DefaultStatistics(), stats)
			}
		})
	}
}

func TestDiscoverManifest_MissingResultsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "log.html"), []byte("<html/>"), 0600))

	manifest, stats, err := DiscoverManifest(dir, WellKnownFiles{
		Results: "output.xml",
		Log:     "log.html",
		Report:  "report.html",
	})
	require.NoError(t, err)

	require.Len(t, manifest, 1)
	assert.Equal(t, "log.html", manifest[0].DisplayName)
	assert.Equal(t, DefaultStatistics(), stats)
}

func TestDiscoverManifest_NothingFound(t *testing.T) {
	manifest, stats, err := DiscoverManifest(t.TempDir(), WellKnownFiles{
		Results: "output.xml",
		Log:     "log.html",
		Report:  "report.html",
	})
	require.NoError(t, err)

	assert.Empty(t, manifest)
	assert.Equal(t, DefaultStatistics(), stats)
}

func TestDiscoverManifest_CustomFilenames(t *testing.T) {
	dir := writeRunDir(t)
	require.NoError(t, os.Rename(filepath.Join(dir, "output.xml"), filepath.Join(dir, "results.xml")))

	manifest, stats, err := DiscoverManifest(dir, WellKnownFiles{
		Results: "results.xml",
		Log:     "log.html",
		Report:  "NONE",
	})
	require.NoError(t, err)

	names := make([]string, 0, len(manifest))
	for _, e := range manifest {
		names = append(names, e.DisplayName)
	}
	assert.Equal(t, []string{"results.xml", "screenshot.png", "log.html"}, names)
	assert.Equal(t, 4, stats.TotalTests)
}

func TestDiscoverManifest_SubdirectoryDisplayNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "browser", "screenshot"), 0750))

	doc := `<robot><suite><test><kw>
<msg html="true">&lt;img src="browser/screenshot/step_1.png"&gt;</msg>
<status start="2024-01-01T00:00:00" elapsed="0"/>
</kw><status start="2024-01-01T00:00:00" elapsed="0"/></test>
<status start="2024-01-01T00:00:00" elapsed="0"/></suite></robot>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output.xml"), []byte(doc), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "browser", "screenshot", "step_1.png"), []byte("png"), 0600))

	manifest, _, err := DiscoverManifest(dir, WellKnownFiles{Results: "output.xml", Log: "NONE", Report: "NONE"})
	require.NoError(t, err)

	require.Len(t, manifest, 2)
	assert.Equal(t, "output.xml", manifest[0].DisplayName)
	assert.Equal(t, filepath.Join("browser", "screenshot", "step_1.png"), manifest[1].DisplayName)
}

func TestDiscoverManifest_Idempotent(t *testing.T) {
	dir := writeRunDir(t)
	files := WellKnownFiles{Results: "output.xml", Log: "log.html", Report: "report.html"}

	first, firstStats, err := DiscoverManifest(dir, files)
	require.NoError(t, err)
	second, secondStats, err := DiscoverManifest(dir, files)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstStats, secondStats)
}

func TestDiscoverManifest_UnparsableResults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output.xml"), []byte("<robot><suite>"), 0600))

	_, _, err := DiscoverManifest(dir, WellKnownFiles{Results: "output.xml", Log: "NONE", Report: "NONE"})
	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
}

func TestHTMLLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"log", "log.html", "Log"},
		{"report", "report.html", "Report"},
		{"upper case input", "REPORT.HTML", "Report"},
		{"multi word", "my_fancy_report.html", "My_fancy_report"},
		{"single letter", "x.html", "X"},
		{"basename of a nested path", "sub/dir/log.html", "Log"},
		{"bare suffix", ".html", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLLabel(tt.in))
		})
	}
}
