package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rflogs/rflogs-cli/internal/api"
	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

// downloadConcurrency bounds how many files are fetched at once.
const downloadConcurrency = 4

// Downloader fetches a stored run's files into a local directory.
type Downloader struct {
	client   *api.Client
	renderer *output.Renderer
	logger   *slog.Logger
}

// NewDownloader wires a Downloader. A nil logger discards.
func NewDownloader(client *api.Client, renderer *output.Renderer, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Downloader{client: client, renderer: renderer, logger: logger}
}

// Download fetches every file of runID into outputDir, creating parent
// directories for names that carry subdirectory structure. File names come
// from the server and are containment-checked against outputDir; a name that
// would escape it fails that file. Files are fetched concurrently, and any
// failure fails the whole download after all attempts.
func (d *Downloader) Download(ctx context.Context, runID, outputDir string) error {
	info, err := d.client.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if len(info.Files) == 0 {
		return fmt.Errorf("no files found for run ID: %s", runID)
	}

	base, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(base, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var total int64
	for _, f := range info.Files {
		total += f.Size
	}
	bar := d.newProgressBar(total)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for _, file := range info.Files {
		file := file
		g.Go(func() error {
			if err := d.downloadFile(ctx, base, file, bar); err != nil {
				return fmt.Errorf("download %s: %w", file.Name, err)
			}
			mu.Lock()
			d.renderer.Println("Downloaded " + file.Name)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	return err
}

func (d *Downloader) downloadFile(ctx context.Context, base string, file api.FileInfo, bar *progressbar.ProgressBar) error {
	target := filepath.Join(base, filepath.FromSlash(file.Name))
	if !containsPath(base, target) {
		return fmt.Errorf("server-provided name %q escapes the output directory", file.Name)
	}
	if dir := filepath.Dir(target); dir != base {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	body, size, err := d.client.DownloadFile(ctx, file.Path)
	if err != nil {
		return err
	}
	defer body.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	var dst io.Writer = out
	if bar != nil {
		dst = io.MultiWriter(out, bar)
	}
	if _, err := io.Copy(dst, body); err != nil {
		out.Close()
		os.Remove(target)
		return err
	}
	d.logger.Debug("file downloaded", "name", file.Name, "size", size)
	return out.Close()
}

// newProgressBar returns a byte-sized bar on the progress stream, or nil
// when the server reported no sizes to measure against.
func (d *Downloader) newProgressBar(total int64) *progressbar.ProgressBar {
	if total <= 0 {
		return nil
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(d.renderer.ErrWriter()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(30),
	)
}

// containsPath reports whether path is base or lies below it, decided on
// whole path segments so a sibling sharing a name prefix does not qualify.
func containsPath(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
