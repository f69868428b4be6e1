package inmemory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dvloznov/recgen/internal/runs"
)

// Store is an in-memory implementation of runs.Store.
// It is safe for concurrent use. Runs are lost when the process exits.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*runs.Run
	now  func() time.Time
}

// NewStore creates a new in-memory run store.
func NewStore() *Store {
	return &Store{
		runs: make(map[string]*runs.Run),
		now:  time.Now,
	}
}

func clone(r *runs.Run) *runs.Run {
	c := *r
	c.Files = slices.Clone(r.Files)
	return &c
}

// SaveRun saves or updates a run in memory.
func (s *Store) SaveRun(ctx context.Context, run *runs.Run) error {
	if run.RunID == "" {
		return fmt.Errorf("SaveRun: run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.RunID] = clone(run)
	return nil
}

// GetRun retrieves a run by ID from memory.
func (s *Store) GetRun(ctx context.Context, runID string) (*runs.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.runs[runID]
	if !exists {
		return nil, fmt.Errorf("GetRun: %s: %w", runID, runs.ErrNotFound)
	}
	return clone(run), nil
}

// ListRuns retrieves runs ordered by day then creation time.
func (s *Store) ListRuns(ctx context.Context, filter runs.Filter) ([]*runs.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*runs.Run{}
	for _, run := range s.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		if filter.Outcome != "" && run.Outcome != filter.Outcome {
			continue
		}
		result = append(result, clone(run))
	}

	slices.SortFunc(result, func(a, b *runs.Run) int {
		if c := cmp.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*runs.Run{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// UpdateRunStatus updates the status of a run in memory. Moving to running
// stamps StartedAt; moving to completed or failed stamps CompletedAt.
func (s *Store) UpdateRunStatus(ctx context.Context, runID string, status runs.Status, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, exists := s.runs[runID]
	if !exists {
		return fmt.Errorf("UpdateRunStatus: %s: %w", runID, runs.ErrNotFound)
	}

	now := s.now()
	switch status {
	case runs.StatusRunning:
		run.StartedAt = &now
	case runs.StatusCompleted, runs.StatusFailed:
		run.CompletedAt = &now
	}
	run.Status = status
	if errorMsg != "" {
		run.Error = errorMsg
	}
	return nil
}

var _ runs.Store = (*Store)(nil)
