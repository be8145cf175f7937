package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkfold/imposer/pkg/canvas"
	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/pipeline"
	"github.com/inkfold/imposer/pkg/raster"
)

type stubRasterizer struct{ pages int }

func (s stubRasterizer) Rasterize(_ context.Context, path string, _ int) ([]raster.Tile, error) {
	tiles := make([]raster.Tile, s.pages)
	for i := range tiles {
		tiles[i] = raster.Tile{Path: fmt.Sprintf("%s-%d.png", path, i+1), WidthPx: 10, HeightPx: 10}
	}
	return tiles, nil
}

func (stubRasterizer) Close() error { return nil }

type stubWriter struct{}

func (stubWriter) BeginSheet(impose.SheetSpec) error            { return nil }
func (stubWriter) DrawTile(raster.Tile, impose.Placement) error { return nil }
func (stubWriter) Save(string) error                            { return nil }

func testServer(t *testing.T) (*Server, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	runner := &pipeline.Runner{
		NewRasterizer: func() (raster.Rasterizer, error) { return stubRasterizer{pages: 4}, nil },
		NewWriter:     func() canvas.Writer { return stubWriter{} },
	}
	return New(store, runner, nil), store
}

func postJob(t *testing.T, srv http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestListLayoutsAndPapers(t *testing.T) {
	s, _ := testServer(t)
	router := s.Router()

	for _, path := range []string{"/layouts", "/papers"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "8x2") && path == "/layouts" {
			t.Errorf("layouts response missing presets: %s", w.Body.String())
		}
	}
}

func TestCreateJobLifecycle(t *testing.T) {
	s, store := testServer(t)
	router := s.Router()

	out := filepath.Join(t.TempDir(), "out.pdf")
	body := fmt.Sprintf(`{"inputs": ["a.pdf"], "output": %q, "layout": "4up"}`, out)
	w := postJob(t, router, body)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if job.ID == "" {
		t.Fatal("job has no ID")
	}

	// The job runs in the background; poll until it settles.
	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := store.Get(context.Background(), job.ID)
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if got.Status == StatusDone {
			if got.Result == nil || got.Result.TileCount != 4 {
				t.Fatalf("unexpected result: %+v", got.Result)
			}
			break
		}
		if got.Status == StatusFailed {
			t.Fatalf("job failed: %s", got.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job still %s after deadline", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// And the HTTP view agrees.
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
}

// The 202 body must be a snapshot: the background worker starts mutating
// the job immediately, and encoding the live record is a data race that
// the race detector catches when the pipeline finishes fast.
func TestCreateJobResponseIsSnapshot(t *testing.T) {
	s, _ := testServer(t)
	router := s.Router()
	out := t.TempDir()

	for i := 0; i < 50; i++ {
		body := fmt.Sprintf(`{"inputs": ["a.pdf"], "output": %q, "layout": "4up"}`, filepath.Join(out, fmt.Sprintf("out-%d.pdf", i)))
		w := postJob(t, router, body)
		if w.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202: %s", w.Code, w.Body.String())
		}

		var job Job
		if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if job.Status != StatusQueued {
			t.Fatalf("accepted status = %q, want queued", job.Status)
		}
	}
}

func TestCreateJobValidation(t *testing.T) {
	s, _ := testServer(t)
	router := s.Router()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"inputs": [`},
		{"no inputs", `{"output": "out.pdf"}`},
		{"no output", `{"inputs": ["a.pdf"]}`},
		{"bad layout", `{"inputs": ["a.pdf"], "output": "out.pdf", "layout": "99up"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJob(t, router, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestGetJobNotFound(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/jobs/nope", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListJobs(t *testing.T) {
	s, store := testServer(t)

	for i := 0; i < 3; i++ {
		job := NewJob(pipeline.Options{Inputs: []string{"a.pdf"}})
		if err := store.Create(context.Background(), job); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var jobs []*Job
	if err := json.NewDecoder(w.Body).Decode(&jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 3 {
		t.Errorf("jobs = %d, want 3", len(jobs))
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); err != ErrJobNotFound {
		t.Errorf("get missing = %v, want ErrJobNotFound", err)
	}

	job := NewJob(pipeline.Options{Inputs: []string{"a.pdf"}})
	if err := store.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusQueued {
		t.Errorf("status = %q, want queued", got.Status)
	}

	// Mutating the returned copy must not affect the store.
	got.Status = StatusFailed
	again, _ := store.Get(ctx, job.ID)
	if again.Status != StatusQueued {
		t.Error("store returned a shared pointer")
	}

	job.Status = StatusDone
	if err := store.Update(ctx, job); err != nil {
		t.Fatal(err)
	}
	updated, _ := store.Get(ctx, job.ID)
	if updated.Status != StatusDone {
		t.Errorf("status = %q, want done", updated.Status)
	}

	if err := store.Update(ctx, NewJob(pipeline.Options{})); err != ErrJobNotFound {
		t.Errorf("update missing = %v, want ErrJobNotFound", err)
	}
}
