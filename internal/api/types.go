package api

// CreateRunRequest registers a run's metadata before any files are uploaded.
// Timestamps are ISO-8601 strings; nil pointers marshal as null for runs
// whose results carried no timing information.
type CreateRunRequest struct {
	TotalTests int      `json:"total_tests"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Verdict    string   `json:"verdict"`
	StartTime  *string  `json:"start_time"`
	EndTime    *string  `json:"end_time"`
	Tags       []string `json:"tags"`
}

// CreateRunResponse carries the identifier assigned to a new run.
type CreateRunResponse struct {
	RunID string `json:"run_id"`
}

// UploadedFile describes one stored file, as returned by the upload endpoint.
type UploadedFile struct {
	ID      string `json:"id"`
	FileURL string `json:"file_url"`
}

// FileInfo describes one stored file of an existing run.
type FileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// RunInfo is the full record of a stored run.
type RunInfo struct {
	RunID      string     `json:"run_id"`
	Verdict    string     `json:"verdict"`
	TotalTests int        `json:"total_tests"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
	StartTime  string     `json:"start_time,omitempty"`
	EndTime    string     `json:"end_time,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Files      []FileInfo `json:"files"`
}

type listRunsResponse struct {
	Runs []string `json:"runs"`
}
