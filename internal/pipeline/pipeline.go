// Package pipeline runs one generation cycle per business day: draw the
// population, write its files, then validate it against the plan.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/recgen/internal/distribution"
	"github.com/dvloznov/recgen/internal/domain"
	"github.com/dvloznov/recgen/internal/logger"
	"github.com/dvloznov/recgen/internal/metrics"
	"github.com/dvloznov/recgen/internal/validate"
)

// Step is a single step of a generation cycle.
type Step interface {
	// Name is the phase label used in logs and metrics.
	Name() string
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all steps of one cycle.
type State struct {
	Day  int
	Date civil.Date
	Plan *distribution.Plan
	Rng  *rand.Rand

	Population *domain.Population
	Files      []string

	Report    validate.Report
	Validated bool
}

var phaseMessages = map[string]string{
	metrics.PhaseGenerate:   "counterparty creation took",
	metrics.PhaseCSV:        "CSV creation took",
	metrics.PhaseStatements: "statement creation took",
	metrics.PhaseXLSX:       "XLSX creation took",
	metrics.PhaseSchema:     "schema export took",
	metrics.PhaseValidate:   "validation took",
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps   []Step
	metrics metrics.Metrics
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(m metrics.Metrics, steps ...Step) *Pipeline {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Pipeline{steps: steps, metrics: m}
}

// Execute runs all steps sequentially and stops at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx)

	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline step %d (%s) not started: %w", i+1, step.Name(), err)
		}

		start := time.Now()
		err := step.Execute(ctx, state)
		elapsed := time.Since(start)
		p.metrics.ObservePhase(step.Name(), elapsed)

		if err != nil {
			return fmt.Errorf("pipeline step %d (%s) failed: %w", i+1, step.Name(), err)
		}

		msg, ok := phaseMessages[step.Name()]
		if !ok {
			msg = step.Name() + " took"
		}
		log.Info().Dur("elapsed", elapsed).Msg(msg)
	}
	return nil
}
