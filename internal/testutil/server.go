package testutil

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// StoredFile is one uploaded file as the fake service keeps it.
type StoredFile struct {
	ID   string
	Name string
	Path string
	Body []byte
}

// StoredRun is one run as the fake service keeps it: the metadata the client
// registered plus the files uploaded under it.
type StoredRun struct {
	ID    string
	Meta  map[string]any
	Files []StoredFile
}

// FakeService is an in-memory stand-in for the RF Logs API. It serves the
// same routes and JSON shapes as the hosted service, authenticates via
// X-API-Key, and keeps everything in memory for assertions. It deliberately
// avoids any client-side types so it can back tests in every package.
type FakeService struct {
	apiKey string

	mu          sync.Mutex
	runs        map[string]*StoredRun
	order       []string
	failUploads int
}

// NewFakeService returns a service that accepts the given API key.
func NewFakeService(apiKey string) *FakeService {
	return &FakeService{
		apiKey: apiKey,
		runs:   make(map[string]*StoredRun),
	}
}

// FailUploads makes the next n upload requests answer 503, for exercising
// retry behavior.
func (s *FakeService) FailUploads(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUploads = n
}

// Run returns a copy of one stored run.
func (s *FakeService) Run(id string) (StoredRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return StoredRun{}, false
	}
	copied := StoredRun{ID: run.ID, Meta: run.Meta, Files: append([]StoredFile(nil), run.Files...)}
	return copied, true
}

// RunIDs returns the stored run identifiers in creation order.
func (s *FakeService) RunIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Handler returns the service's router.
func (s *FakeService) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requireAPIKey)

	r.Route("/api/runs", func(r chi.Router) {
		r.Get("/", s.listRuns)
		r.Post("/", s.createRun)
		r.Get("/{runID}", s.getRun)
		r.Delete("/{runID}", s.deleteRun)
		r.Post("/{runID}/upload", s.uploadFile)
	})
	r.Get("/files/*", s.serveFile)

	return r
}

func (s *FakeService) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.apiKey {
			http.Error(w, `{"detail":"invalid API key"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FakeService) createRun(w http.ResponseWriter, r *http.Request) {
	var meta map[string]any
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		http.Error(w, `{"detail":"invalid body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	id := uuid.NewString()[:8]
	s.runs[id] = &StoredRun{ID: id, Meta: meta}
	s.order = append(s.order, id)
	s.mu.Unlock()

	writeJSON(w, map[string]any{"run_id": id})
}

func (s *FakeService) listRuns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"runs": s.RunIDs()})
}

func (s *FakeService) getRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[chi.URLParam(r, "runID")]
	if !ok {
		http.Error(w, `{"detail":"run not found"}`, http.StatusNotFound)
		return
	}

	files := make([]map[string]any, 0, len(run.Files))
	for _, f := range run.Files {
		files = append(files, map[string]any{
			"id":   f.ID,
			"name": f.Name,
			"path": f.Path,
			"size": len(f.Body),
		})
	}
	info := map[string]any{"run_id": run.ID, "files": files}
	for k, v := range run.Meta {
		info[k] = v
	}
	writeJSON(w, info)
}

func (s *FakeService) deleteRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "runID")
	if _, ok := s.runs[id]; !ok {
		http.Error(w, `{"detail":"run not found"}`, http.StatusNotFound)
		return
	}
	delete(s.runs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	writeJSON(w, map[string]any{"status": "deleted"})
}

func (s *FakeService) uploadFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.failUploads > 0 {
		s.failUploads--
		s.mu.Unlock()
		http.Error(w, `{"detail":"temporarily unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	run, ok := s.runs[chi.URLParam(r, "runID")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, `{"detail":"run not found"}`, http.StatusNotFound)
		return
	}

	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, `{"detail":"expected multipart body"}`, http.StatusBadRequest)
		return
	}
	part, err := multipart.NewReader(r.Body, params["boundary"]).NextPart()
	if err != nil || part.FormName() != "file" {
		http.Error(w, `{"detail":"expected a file field"}`, http.StatusBadRequest)
		return
	}
	// Part.FileName strips directory components, which the service must
	// keep; read the raw Content-Disposition parameter instead.
	_, cd, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		http.Error(w, `{"detail":"bad content disposition"}`, http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(part)
	if err != nil {
		http.Error(w, `{"detail":"truncated upload"}`, http.StatusBadRequest)
		return
	}

	stored := StoredFile{
		ID:   uuid.NewString()[:8],
		Name: cd["filename"],
		Path: run.ID + "/" + cd["filename"],
		Body: body,
	}

	s.mu.Lock()
	run.Files = append(run.Files, stored)
	s.mu.Unlock()

	writeJSON(w, map[string]any{"id": stored.ID, "file_url": "/files/" + stored.Path})
}

func (s *FakeService) serveFile(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, run := range s.runs {
		for _, f := range run.Files {
			if f.Path == path {
				w.Header().Set("Content-Type", "application/octet-stream")
				_, _ = w.Write(f.Body)
				return
			}
		}
	}
	http.Error(w, `{"detail":"file not found"}`, http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
