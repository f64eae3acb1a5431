package transfer

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// compressThreshold is the size above which the results XML is gzipped
// before upload. Logs and reports are already compact; the XML is the file
// that grows into the tens of megabytes.
const compressThreshold = 1 << 20

// compressFile writes a gzipped sibling of path and returns its location.
// The caller removes the sibling once the upload attempt is over.
func compressFile(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("compress %s: %w", path, err)
	}
	defer in.Close()

	compressed := path + ".gz"
	out, err := os.Create(compressed)
	if err != nil {
		return "", fmt.Errorf("compress %s: %w", path, err)
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		out.Close()
		os.Remove(compressed)
		return "", fmt.Errorf("compress %s: %w", path, err)
	}
	if err := gz.Close(); err != nil {
		out.Close()
		os.Remove(compressed)
		return "", fmt.Errorf("compress %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(compressed)
		return "", fmt.Errorf("compress %s: %w", path, err)
	}
	return compressed, nil
}
