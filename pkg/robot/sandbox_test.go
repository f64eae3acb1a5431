package robot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveArtifact(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "browser", "screenshot"), 0750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data-evil"), 0750))

	files := []string{
		filepath.Join(base, "screenshot.png"),
		filepath.Join(base, "browser", "screenshot", "step_1.png"),
		filepath.Join(root, "outside.txt"),
		filepath.Join(root, "data-evil", "payload.txt"),
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0600))
	}

	tests := []struct {
		name     string
		ref      string
		wantPath string
		admitted bool
	}{
		{
			name:     "relative file inside base",
			ref:      "screenshot.png",
			wantPath: filepath.Join(base, "screenshot.png"),
			admitted: true,
		},
		{
			name:     "nested file inside base",
			ref:      "browser/screenshot/step_1.png",
			wantPath: filepath.Join(base, "browser", "screenshot", "step_1.png"),
			admitted: true,
		},
		{
			name:     "dot dot that stays inside",
			ref:      "browser/../screenshot.png",
			wantPath: filepath.Join(base, "screenshot.png"),
			admitted: true,
		},
		{
			name:     "absolute path inside base",
			ref:      filepath.Join(base, "screenshot.png"),
			wantPath: filepath.Join(base, "screenshot.png"),
			admitted: true,
		},
		{
			name:     "traversal outside base",
			ref:      "../outside.txt",
			admitted: false,
		},
		{
			name:     "deep traversal",
			ref:      "../../../../etc/passwd",
			admitted: false,
		},
		{
			name:     "sibling directory sharing a name prefix",
			ref:      "../data-evil/payload.txt",
			admitted: false,
		},
		{
			name:     "absolute sibling directory sharing a name prefix",
			ref:      filepath.Join(root, "data-evil", "payload.txt"),
			admitted: false,
		},
		{
			name:     "missing file",
			ref:      "missing.png",
			admitted: false,
		},
		{
			name:     "directory is not a file",
			ref:      "browser",
			admitted: false,
		},
		{
			name:     "empty reference resolves to base itself",
			ref:      "",
			admitted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveArtifact(base, tt.ref)
			assert.Equal(t, tt.admitted, ok)
			if tt.admitted {
				assert.Equal(t, tt.wantPath, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
