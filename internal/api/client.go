// Package api is the HTTP client for the RF Logs REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the hosted RF Logs service.
const DefaultBaseURL = "https://rflogs.io"

// Config holds everything needed to construct a Client.
type Config struct {
	// BaseURL is the service root, e.g. "https://rflogs.io". Required.
	BaseURL string
	// APIKey authenticates every request via the X-API-Key header. Required.
	APIKey string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger receives debug-level request logging. If nil, a discard logger
	// is used.
	Logger *slog.Logger
	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string
}

// Client talks to one RF Logs service on behalf of one API key.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the configuration and returns a ready Client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	// The base URL is stored with its trailing slash stripped and request
	// URLs are built by plain concatenation, which keeps pre-encoded file
	// paths intact where url.URL round-tripping would re-encode them.
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("api: APIKey is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "rflogs-cli"
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the service root the client was built with, without a
// trailing slash. Link rendering concatenates server-relative URLs onto it.
func (c *Client) BaseURL() string { return c.baseURL }

// CreateRun registers a new run and returns its identifier.
func (c *Client) CreateRun(ctx context.Context, request CreateRunRequest) (*CreateRunResponse, error) {
	var response CreateRunResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/runs", request, &response); err != nil {
		return nil, fmt.Errorf("api: create run: %w", err)
	}
	return &response, nil
}

// UploadFile stores one file under the given run. name is the display name
// the file is stored as; it may contain subdirectories.
func (c *Client) UploadFile(ctx context.Context, runID, name string, content io.Reader) (*UploadedFile, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/runs/"+runID+"/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("api: upload %s: %w", name, err)
	}
	var response UploadedFile
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("api: upload %s: parse response: %w", name, err)
	}
	return &response, nil
}

// GetRun fetches the stored record of one run.
func (c *Client) GetRun(ctx context.Context, runID string) (*RunInfo, error) {
	var response RunInfo
	if err := c.doRequest(ctx, http.MethodGet, "/api/runs/"+runID, nil, &response); err != nil {
		return nil, fmt.Errorf("api: get run %s: %w", runID, err)
	}
	return &response, nil
}

// ListRuns returns the identifiers of all runs visible to the API key.
func (c *Client) ListRuns(ctx context.Context) ([]string, error) {
	var response listRunsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/runs", nil, &response); err != nil {
		return nil, fmt.Errorf("api: list runs: %w", err)
	}
	return response.Runs, nil
}

// DeleteRun removes a run and all of its files. A 404 surfaces as an
// *APIError that IsNotFound matches; the server answers it both for unknown
// runs and for runs the key is not authorized to delete.
func (c *Client) DeleteRun(ctx context.Context, runID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/runs/"+runID, nil, nil); err != nil {
		return fmt.Errorf("api: delete run %s: %w", runID, err)
	}
	return nil
}

// DownloadFile streams one stored file. path is the server-side storage path
// from FileInfo. The caller owns the returned body and must close it; size is
// the content length, or -1 when the server did not send one.
func (c *Client) DownloadFile(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/files/"+strings.TrimPrefix(path, "/"), nil)
	if err != nil {
		return nil, 0, err
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("api: download %s: %w", path, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer response.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return nil, 0, fmt.Errorf("api: download %s: %w", path, &APIError{
			StatusCode: response.StatusCode,
			Method:     http.MethodGet,
			Path:       req.URL.Path,
			Message:    strings.TrimSpace(string(body)),
		})
	}
	c.logger.Debug("api download", "path", path, "size", response.ContentLength)
	return response.Body, response.ContentLength, nil
}

// maxErrorBody caps how much of an error response is kept for the message.
const maxErrorBody = 64 << 10

// doRequest performs a JSON request/response round trip. requestBody and out
// may each be nil. Non-2xx responses come back as *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody, out any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	body, err := c.send(req)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// send executes the request and returns the response body. On non-2xx it
// returns a *APIError carrying the body text.
func (c *Client) send(req *http.Request) ([]byte, error) {
	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", response.StatusCode,
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Method:     req.Method,
			Path:       req.URL.Path,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
