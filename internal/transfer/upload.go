// Package transfer drives the movement of run artifacts between the local
// results directory and the RF Logs service: compression, retried uploads,
// concurrent downloads and the progress/summary output around them.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/rflogs/rflogs-cli/internal/api"
	"github.com/rflogs/rflogs-cli/internal/cli/output"
	"github.com/rflogs/rflogs-cli/pkg/robot"
)

// ErrNoResults means the directory held none of the configured well-known
// files: there is nothing to upload.
var ErrNoResults = errors.New("no Robot Framework test results found")

// Uploader pushes one directory of test results to the service as a run.
type Uploader struct {
	client   *api.Client
	renderer *output.Renderer
	logger   *slog.Logger
}

// NewUploader wires an Uploader. A nil logger discards.
func NewUploader(client *api.Client, renderer *output.Renderer, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Uploader{client: client, renderer: renderer, logger: logger}
}

// UploadOptions selects what to upload. Results, Log and Report name the
// well-known files inside Directory; robot.DisableSentinel switches one off.
type UploadOptions struct {
	Directory string
	Results   string
	Log       string
	Report    string
	Tags      []string
}

// HTMLLink is a rendered link to an uploaded HTML file.
type HTMLLink struct {
	Label string
	URL   string
}

// UploadResult summarizes a fully successful upload.
type UploadResult struct {
	RunID     string
	Files     int
	TotalSize int64
	RunURL    string
	HTMLLinks []HTMLLink
}

// Upload discovers the manifest, registers the run with its statistics and
// uploads every file in manifest order. A single file failure does not stop
// the loop, but any failure fails the whole upload after it.
func (u *Uploader) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	manifest, stats, err := robot.DiscoverManifest(opts.Directory, robot.WellKnownFiles{
		Results: opts.Results,
		Log:     opts.Log,
		Report:  opts.Report,
	})
	if err != nil {
		return nil, err
	}
	if len(manifest) == 0 {
		return nil, fmt.Errorf("%w in %s with the specified filenames", ErrNoResults, opts.Directory)
	}

	tags, warnings := ProcessTags(opts.Tags)
	for _, w := range warnings {
		u.renderer.Warnf("%s\n", w)
	}

	created, err := u.client.CreateRun(ctx, api.CreateRunRequest{
		TotalTests: stats.TotalTests,
		Passed:     stats.Passed,
		Failed:     stats.Failed,
		Skipped:    stats.Skipped,
		Verdict:    string(stats.Verdict),
		StartTime:  formatTimestamp(stats.StartTime),
		EndTime:    formatTimestamp(stats.EndTime),
		Tags:       tags,
	})
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}
	u.logger.Debug("run created", "run_id", created.RunID, "files", len(manifest))

	u.renderer.Println("Uploading results")

	result := &UploadResult{
		RunID:  created.RunID,
		RunURL: u.client.BaseURL() + "/run-details.html?runId=" + created.RunID,
	}
	failed := 0
	for _, entry := range manifest {
		size, link, err := u.uploadEntry(ctx, created.RunID, opts.Results, entry)
		if err != nil {
			failed++
			u.renderer.Warnf("Error uploading %s: %v\n", entry.DisplayName, err)
			continue
		}
		result.Files++
		result.TotalSize += size
		if link != nil {
			result.HTMLLinks = append(result.HTMLLinks, *link)
		}
	}
	if failed > 0 {
		return nil, fmt.Errorf("upload failed: %d of %d files were not uploaded successfully", failed, len(manifest))
	}

	u.renderSummary(result)
	return result, nil
}

// uploadEntry uploads one manifest entry, writing its progress line as it
// goes. It returns the uploaded size and, for HTML files, the link to render.
func (u *Uploader) uploadEntry(ctx context.Context, runID, resultsName string, entry robot.ManifestEntry) (int64, *HTMLLink, error) {
	info, err := os.Stat(entry.Path)
	if err != nil {
		return 0, nil, err
	}
	u.renderer.Printf("  %-40s %8s", entry.DisplayName, output.FormatSize(info.Size()))

	uploadPath := entry.Path
	uploadName := entry.DisplayName
	if entry.DisplayName == resultsName && info.Size() > compressThreshold {
		compressed, err := compressFile(entry.Path)
		if err != nil {
			u.renderer.Printf(" [FAIL]\n")
			return 0, nil, err
		}
		defer os.Remove(compressed)
		uploadPath = compressed
		uploadName = entry.DisplayName + ".gz"
		if ci, err := os.Stat(compressed); err == nil {
			u.renderer.Printf(" - compressed to %s", output.FormatSize(ci.Size()))
		}
	}

	uploaded, size, err := u.uploadWithRetry(ctx, runID, uploadName, uploadPath)
	if err != nil {
		u.renderer.Printf(" [FAIL]\n")
		return 0, nil, err
	}
	u.renderer.Printf(" [OK]\n")

	var link *HTMLLink
	if strings.HasSuffix(strings.ToLower(entry.DisplayName), ".html") {
		link = &HTMLLink{
			Label: robot.HTMLLabel(entry.DisplayName),
			URL:   u.client.BaseURL() + uploaded.FileURL,
		}
	}
	return size, link, nil
}

// uploadWithRetry retries transient failures (network errors, 5xx) with
// capped exponential backoff. 4xx responses will not improve on retry.
func (u *Uploader) uploadWithRetry(ctx context.Context, runID, name, path string) (*api.UploadedFile, int64, error) {
	backoff := retry.WithMaxRetries(3, retry.WithCappedDuration(5*time.Second, retry.NewExponential(500*time.Millisecond)))

	var uploaded *api.UploadedFile
	var size int64
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		resp, err := u.client.UploadFile(ctx, runID, name, f)
		if err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				return err
			}
			u.logger.Debug("upload attempt failed, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		uploaded = resp
		size = info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return uploaded, size, nil
}

func (u *Uploader) renderSummary(result *UploadResult) {
	r := u.renderer
	r.Printf("\n")
	r.KeyValue("Run ID", result.RunID)
	r.KeyValue("Files", fmt.Sprintf("%d", result.Files))
	r.KeyValue("Size", output.FormatSize(result.TotalSize))

	if len(result.HTMLLinks) > 0 {
		r.Printf("\n")
		r.Header(2, "HTML Files:")
		for _, link := range result.HTMLLinks {
			r.Printf("  %-10s %s\n", link.Label+":", link.URL)
		}
	}
	r.Printf("  %-10s %s\n", "Run:", result.RunURL)

	wrote, err := writeStepSummary(result.HTMLLinks, result.RunURL)
	if err != nil {
		r.Warnf("Could not write GitHub Actions summary: %v\n", err)
	} else if wrote {
		r.Printf("\nUploaded results have been added to the GitHub Actions summary.\n")
	}
}

// formatTimestamp renders a walker timestamp as ISO-8601 with an explicit
// offset, or nil for the zero value so it marshals as null.
func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format("2006-01-02T15:04:05.999999-07:00")
	return &s
}
