package robot

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveArtifact resolves a reference discovered in a results document
// against the base directory and admits it only when the cleaned path stays
// inside base and names an existing regular file. References are
// attacker-controllable document content, so rejection is silent: traversal
// attempts and dangling references are expected input, not errors.
func resolveArtifact(base, ref string) (string, bool) {
	var path string
	if filepath.IsAbs(ref) {
		path = filepath.Clean(ref)
	} else {
		path = filepath.Join(base, ref)
	}
	if !containsPath(base, path) {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// containsPath reports whether path is base or lies below it. Containment is
// decided on whole path segments, never on a raw string prefix, so /data does
// not admit /data-evil/x.
func containsPath(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
