package commands_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rflogs/rflogs-cli/internal/cli"
	clitest "github.com/rflogs/rflogs-cli/internal/cli/testutil"
	"github.com/rflogs/rflogs-cli/internal/testutil"
)

// startFakeService runs the in-memory service and points the CLI at it
// through the environment, the way users configure the real one.
func startFakeService(t *testing.T) *testutil.FakeService {
	t.Helper()
	svc := testutil.NewFakeService("test-key")
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	t.Setenv("RFLOGS_BASE_URL", srv.URL)
	t.Setenv("RFLOGS_API_KEY", "test-key")
	t.Setenv("GITHUB_ACTIONS", "")
	return svc
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := cli.NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	root.SetContext(context.Background())
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rflogs v")
}

func TestMissingAPIKey(t *testing.T) {
	if v, ok := os.LookupEnv("RFLOGS_API_KEY"); ok {
		t.Setenv("RFLOGS_API_KEY", v)
		require.NoError(t, os.Unsetenv("RFLOGS_API_KEY"))
	}

	_, _, err := runCommand(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFLOGS_API_KEY")
}

func TestUploadCommand(t *testing.T) {
	svc := startFakeService(t)
	dir := clitest.SetupResultsDir(t)

	out, _, err := runCommand(t, "upload", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Uploading results")
	assert.Contains(t, out, "Run ID:")

	ids := svc.RunIDs()
	require.Len(t, ids, 1)
	run, ok := svc.Run(ids[0])
	require.True(t, ok)
	require.Len(t, run.Files, 3)
	assert.Equal(t, "output.xml", run.Files[0].Name)
	assert.Equal(t, "pass", run.Meta["verdict"])
}

func TestUploadCommand_DisabledWellKnownFiles(t *testing.T) {
	svc := startFakeService(t)
	dir := clitest.SetupResultsDir(t)

	_, _, err := runCommand(t, "upload", "-l", "NONE", "-r", "NONE", dir)
	require.NoError(t, err)

	run, ok := svc.Run(svc.RunIDs()[0])
	require.True(t, ok)
	require.Len(t, run.Files, 1)
	assert.Equal(t, "output.xml", run.Files[0].Name)
}

func TestUploadCommand_NothingToUpload(t *testing.T) {
	startFakeService(t)

	_, _, err := runCommand(t, "upload", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Robot Framework test results found")
}

func TestListCommand(t *testing.T) {
	svc := startFakeService(t)
	dir := clitest.SetupResultsDir(t)
	_, _, err := runCommand(t, "upload", dir)
	require.NoError(t, err)

	out, _, err := runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Available runs:")
	assert.Contains(t, out, svc.RunIDs()[0])

	out, _, err = runCommand(t, "list", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"runs"`)
	assert.Contains(t, out, svc.RunIDs()[0])
}

func TestInfoCommand(t *testing.T) {
	svc := startFakeService(t)
	dir := clitest.SetupResultsDir(t)
	_, _, err := runCommand(t, "upload", dir)
	require.NoError(t, err)
	runID := svc.RunIDs()[0]

	out, _, err := runCommand(t, "info", runID)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "Verdict:")
	assert.Contains(t, out, "output.xml")

	out, _, err = runCommand(t, "info", "--format", "json", runID)
	require.NoError(t, err)
	assert.Contains(t, out, `"run_id"`)
}

func TestDownloadCommand(t *testing.T) {
	svc := startFakeService(t)
	dir := clitest.SetupResultsDir(t)
	_, _, err := runCommand(t, "upload", dir)
	require.NoError(t, err)
	runID := svc.RunIDs()[0]

	dest := t.TempDir()
	out, _, err := runCommand(t, "download", "--output-dir", dest, runID)
	require.NoError(t, err)
	assert.Contains(t, out, "Downloaded output.xml")

	original, err := os.ReadFile(filepath.Join(dir, "output.xml"))
	require.NoError(t, err)
	downloaded, err := os.ReadFile(filepath.Join(dest, "output.xml"))
	require.NoError(t, err)
	assert.Equal(t, original, downloaded)
}

func TestDeleteCommand(t *testing.T) {
	svc := startFakeService(t)
	dir := clitest.SetupResultsDir(t)
	_, _, err := runCommand(t, "upload", dir)
	require.NoError(t, err)
	runID := svc.RunIDs()[0]

	out, _, err := runCommand(t, "delete", runID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted successfully")
	assert.Empty(t, svc.RunIDs())

	_, _, err = runCommand(t, "delete", runID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found or you are not authorized")
}
