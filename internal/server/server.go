// Package server exposes the imposition pipeline over HTTP. Jobs are
// accepted asynchronously and tracked through a pluggable JobStore.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/inkfold/imposer/pkg/errors"
	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/paper"
	"github.com/inkfold/imposer/pkg/pipeline"
)

// Server handles imposition job requests.
type Server struct {
	store  JobStore
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around the given store and runner.
func New(store JobStore, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layouts", s.handleLayouts)
	r.Get("/papers", s.handlePapers)
	r.Post("/jobs", s.handleCreateJob)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{id}", s.handleGetJob)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayouts(w http.ResponseWriter, _ *http.Request) {
	names := impose.LayoutNames()
	layouts := make([]map[string]string, 0, len(names))
	for _, name := range names {
		layouts = append(layouts, map[string]string{
			"name":        name,
			"description": impose.Describe(name),
		})
	}
	writeJSON(w, http.StatusOK, layouts)
}

func (s *Server) handlePapers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, paper.Names())
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeCodedError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		code := apperrors.GetCode(err)
		if code == "" {
			code = apperrors.ErrCodeInvalidInput
		}
		writeCodedError(w, http.StatusBadRequest, code, apperrors.UserMessage(err))
		return
	}
	if opts.Output == "" {
		writeCodedError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "output path is required")
		return
	}
	opts.Logger = s.logger

	job := NewJob(opts)
	if err := s.store.Create(r.Context(), job); err != nil {
		s.logger.Error("creating job", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	// Snapshot before starting the worker: run mutates job while the
	// response below is still being encoded.
	accepted := *job
	go s.run(job)

	writeJSON(w, http.StatusAccepted, &accepted)
}

// run executes a queued job in the background. The request context is
// gone by the time this runs, so job execution uses its own.
func (s *Server) run(job *Job) {
	ctx := context.Background()

	job.Status = StatusRunning
	job.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, job); err != nil {
		s.logger.Error("updating job", "id", job.ID, "error", err)
	}

	res, err := s.runner.Execute(ctx, &job.Options)
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		s.logger.Error("job failed", "id", job.ID, "error", err)
	} else {
		job.Status = StatusDone
		job.Result = res
		s.logger.Info("job finished", "id", job.ID, "sheets", res.SheetCount)
	}
	job.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, job); err != nil {
		s.logger.Error("updating job", "id", job.ID, "error", err)
	}
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if errors.Is(err, ErrJobNotFound) {
		writeCodedError(w, http.StatusNotFound, apperrors.ErrCodeJobNotFound, "job not found")
		return
	}
	if err != nil {
		s.logger.Error("fetching job", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch job")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("listing jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeCodedError(w, status, apperrors.ErrCodeInternal, msg)
}

func writeCodedError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": string(code)})
}
