package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkfold/imposer/pkg/pipeline"
)

// Job status values.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// ErrJobNotFound is returned when a job ID is unknown.
var ErrJobNotFound = errors.New("job not found")

// Job tracks one imposition request through its lifecycle.
type Job struct {
	ID        string           `json:"id" bson:"_id"`
	Status    string           `json:"status" bson:"status"`
	Options   pipeline.Options `json:"options" bson:"options"`
	Result    *pipeline.Result `json:"result,omitempty" bson:"result,omitempty"`
	Error     string           `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
}

// NewJob creates a queued job for the given options.
func NewJob(opts pipeline.Options) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JobStore is the interface for job persistence backends.
type JobStore interface {
	// Create stores a new job.
	Create(ctx context.Context, job *Job) error

	// Get retrieves a job by ID. Returns ErrJobNotFound if the ID
	// is unknown.
	Get(ctx context.Context, id string) (*Job, error)

	// Update replaces the stored job.
	Update(ctx context.Context, job *Job) error

	// List returns all jobs, newest first.
	List(ctx context.Context) ([]*Job, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
