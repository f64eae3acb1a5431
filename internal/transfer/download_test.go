package transfer

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rflogs/rflogs-cli/internal/api"
	clitest "github.com/rflogs/rflogs-cli/internal/cli/testutil"
	"github.com/rflogs/rflogs-cli/internal/testutil"
)

func newDownloadSetup(t *testing.T) (*api.Client, *Downloader, *clitest.TestRenderer) {
	t.Helper()
	svc := testutil.NewFakeService("test-key")
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
		Logger:     testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	tr := clitest.NewTestRenderer("text")
	return client, NewDownloader(client, tr.Renderer, testutil.NewTestLogger(t)), tr
}

// seedRun stores a run with the given files through the service API and
// returns its identifier.
func seedRun(t *testing.T, client *api.Client, files map[string]string) string {
	t.Helper()
	ctx := context.Background()
	created, err := client.CreateRun(ctx, api.CreateRunRequest{Verdict: "pass"})
	require.NoError(t, err)
	for name, content := range files {
		_, err := client.UploadFile(ctx, created.RunID, name, strings.NewReader(content))
		require.NoError(t, err)
	}
	return created.RunID
}

func TestDownloader_Download(t *testing.T) {
	client, downloader, tr := newDownloadSetup(t)
	runID := seedRun(t, client, map[string]string{
		"output.xml":                            "<robot/>",
		"log.html":                              "<html>log</html>",
		"browser/screenshot/step_failure_1.png": "png bytes",
	})

	dest := t.TempDir()
	require.NoError(t, downloader.Download(context.Background(), runID, dest))

	for name, want := range map[string]string{
		"output.xml":                            "<robot/>",
		"log.html":                              "<html>log</html>",
		"browser/screenshot/step_failure_1.png": "png bytes",
	} {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(got), name)
	}
	assert.Contains(t, tr.Output(), "Downloaded output.xml")
	assert.Contains(t, tr.Output(), "Downloaded log.html")
}

func TestDownloader_Download_NoFiles(t *testing.T) {
	client, downloader, _ := newDownloadSetup(t)
	runID := seedRun(t, client, nil)

	err := downloader.Download(context.Background(), runID, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found for run ID")
}

func TestDownloader_Download_UnknownRun(t *testing.T) {
	_, downloader, _ := newDownloadSetup(t)

	err := downloader.Download(context.Background(), "does-not-exist", t.TempDir())
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
}

func TestDownloader_Download_RejectsEscapingNames(t *testing.T) {
	client, downloader, _ := newDownloadSetup(t)
	runID := seedRun(t, client, map[string]string{
		"../evil.txt": "hostile",
	})

	dest := t.TempDir()
	err := downloader.Download(context.Background(), runID, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the output directory")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestContainsPath(t *testing.T) {
	base := string(filepath.Separator) + "data"
	assert.True(t, containsPath(base, filepath.Join(base, "x")))
	assert.True(t, containsPath(base, base))
	assert.False(t, containsPath(base, base+"-other"+string(filepath.Separator)+"x"))
	assert.False(t, containsPath(base, string(filepath.Separator)+"etc"))
}
