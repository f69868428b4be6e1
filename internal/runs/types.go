// Package runs tracks the generation cycle of each business day: when it ran,
// what it produced and whether the produced population validated.
package runs

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
)

// ErrNotFound is returned when a run id is unknown to the store.
var ErrNotFound = errors.New("run not found")

// Status represents the current status of a run.
type Status string

const (
	// StatusPending indicates the run has been recorded but not started.
	StatusPending Status = "pending"
	// StatusRunning indicates the run is generating or writing files.
	StatusRunning Status = "running"
	// StatusCompleted indicates every file was written. A completed run may
	// still carry a validation mismatch in Outcome.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the run aborted.
	StatusFailed Status = "failed"
)

// Run is the record of one day's generation cycle.
type Run struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"run_id"`

	// Day is the 1-based day index within the invocation.
	Day int `json:"day"`

	// Date is the business date of the generated files.
	Date civil.Date `json:"date"`

	// Seed is the random seed the population was drawn from.
	Seed uint64 `json:"seed"`

	Status Status `json:"status"`

	// Outcome is the validation outcome, empty until validation ran.
	Outcome string `json:"outcome,omitempty"`

	Counterparties  int   `json:"counterparties"`
	Transactions    int64 `json:"transactions"`
	PredictedVolume int64 `json:"predicted_volume"`

	// Files lists every path written by the run.
	Files []string `json:"files,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the run failed.
	Error string `json:"error,omitempty"`
}

// Duration is the wall time between start and completion, zero while the run
// has not finished.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(*r.StartedAt)
}

// Store defines the interface for storing and retrieving runs.
type Store interface {
	// SaveRun saves or updates a run.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ListRuns retrieves runs ordered by day, with optional filtering.
	ListRuns(ctx context.Context, filter Filter) ([]*Run, error)

	// UpdateRunStatus updates the status of a run.
	UpdateRunStatus(ctx context.Context, runID string, status Status, errorMsg string) error
}

// Filter defines filtering criteria for listing runs.
type Filter struct {
	// Status filters runs by status.
	Status Status

	// Outcome filters runs by validation outcome.
	Outcome string

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
