package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/recgen/internal/distribution"
	"github.com/dvloznov/recgen/internal/logger"
	"github.com/dvloznov/recgen/internal/metrics"
	"github.com/dvloznov/recgen/internal/render"
	"github.com/dvloznov/recgen/internal/runs"
	"github.com/google/uuid"
)

// Options configure a Runner.
type Options struct {
	Counterparties  int
	MaxTransactions int
	Table           distribution.Table
	Currency        string
	OutputDir       string
	Settings        render.Settings

	// Seed drives every day of the run; day d draws from PCG(Seed, d).
	Seed uint64

	XLSX   bool
	Schema bool
}

// Runner executes the daily generation cycle and records every run.
type Runner struct {
	opts     Options
	plan     *distribution.Plan
	pipeline *Pipeline
	store    runs.Store
	now      func() time.Time
}

// NewRunner validates the plan and assembles the cycle's steps. A nil metrics
// backend discards measurements.
func NewRunner(opts Options, m metrics.Metrics, store runs.Store) (*Runner, error) {
	plan, err := distribution.NewPlan(opts.Table, opts.Counterparties, opts.MaxTransactions)
	if err != nil {
		return nil, fmt.Errorf("NewRunner: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("NewRunner: run store is required")
	}
	if m == nil {
		m = metrics.Nop{}
	}

	renderer := render.NewRenderer(opts.OutputDir, opts.Settings)
	steps := []Step{
		&GenerateStep{Currency: opts.Currency},
		&WriteCSVStep{Renderer: renderer, Metrics: m},
		&WriteStatementsStep{Renderer: renderer, Metrics: m},
	}
	if opts.XLSX {
		steps = append(steps, &WriteLedgerXLSXStep{Renderer: renderer, Metrics: m})
	}
	if opts.Schema {
		steps = append(steps, &WriteLedgerSchemaStep{Renderer: renderer, Metrics: m})
	}
	steps = append(steps, &ValidateStep{Metrics: m})

	return &Runner{
		opts:     opts,
		plan:     plan,
		pipeline: NewPipeline(m, steps...),
		store:    store,
		now:      time.Now,
	}, nil
}

// Plan returns the plan shared by every day of the run.
func (r *Runner) Plan() *distribution.Plan {
	return r.plan
}

// RunDay executes the cycle for day and returns its final record. A
// validation mismatch completes the run; any other failure marks it failed
// and is returned.
func (r *Runner) RunDay(ctx context.Context, day int, date civil.Date) (*runs.Run, error) {
	run := &runs.Run{
		RunID:           uuid.NewString(),
		Day:             day,
		Date:            date,
		Seed:            r.opts.Seed,
		Status:          runs.StatusPending,
		PredictedVolume: r.plan.TotalVolume(),
		CreatedAt:       r.now(),
	}
	if err := r.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("RunDay: day %d: %w", day, err)
	}

	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"run_id": run.RunID,
		"day":    day,
		"date":   date.String(),
	})
	ctx = logger.WithContext(ctx, log)

	if err := r.store.UpdateRunStatus(ctx, run.RunID, runs.StatusRunning, ""); err != nil {
		return nil, fmt.Errorf("RunDay: day %d: %w", day, err)
	}
	log.Info().Uint64("seed", r.opts.Seed).Msg("generation started")

	state := &State{
		Day:  day,
		Date: date,
		Plan: r.plan,
		Rng:  rand.New(rand.NewPCG(r.opts.Seed, uint64(day))),
	}
	execErr := r.pipeline.Execute(ctx, state)

	if err := r.record(ctx, run.RunID, state, execErr); err != nil {
		return nil, fmt.Errorf("RunDay: day %d: %w", day, err)
	}
	final, err := r.store.GetRun(ctx, run.RunID)
	if err != nil {
		return nil, fmt.Errorf("RunDay: day %d: %w", day, err)
	}

	if execErr != nil {
		log.Error().Err(execErr).Msg("generation failed")
		return final, fmt.Errorf("RunDay: day %d: %w", day, execErr)
	}
	log.Info().Dur("elapsed", final.Duration()).Int("files", len(final.Files)).Msg("generation completed")
	return final, nil
}

// record copies the cycle's results onto the stored run and closes it.
func (r *Runner) record(ctx context.Context, runID string, state *State, execErr error) error {
	run, err := r.store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if state.Population != nil {
		run.Counterparties = len(state.Population.Counterparties)
		run.Transactions = state.Population.TransactionCount()
	}
	run.Files = state.Files
	if state.Validated {
		run.Outcome = string(state.Report.Outcome)
	}
	if err := r.store.SaveRun(ctx, run); err != nil {
		return err
	}

	if execErr != nil {
		return r.store.UpdateRunStatus(ctx, runID, runs.StatusFailed, execErr.Error())
	}
	return r.store.UpdateRunStatus(ctx, runID, runs.StatusCompleted, "")
}
