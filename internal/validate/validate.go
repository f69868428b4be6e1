// Package validate re-derives the distribution and volume of a generated
// population and compares them with what the plan promised.
package validate

import (
	"fmt"
	"slices"

	"github.com/dvloznov/recgen/internal/distribution"
	"github.com/dvloznov/recgen/internal/domain"
)

// Outcome classifies a validation report.
type Outcome string

const (
	OutcomeValid                Outcome = "valid"
	OutcomeDistributionMismatch Outcome = "distribution_mismatch"
	OutcomeVolumeMismatch       Outcome = "volume_mismatch"
)

// Report is the result of Check. It is diagnostic only.
type Report struct {
	Outcome Outcome

	// Per-bucket share of counterparties, in percent.
	Percentages []int
	Expected    []int

	PredictedVolume int64
	ActualVolume    int64

	// Counterparties whose transaction count matched no bucket.
	Unmatched int
}

// Valid reports whether both checks passed.
func (r Report) Valid() bool { return r.Outcome == OutcomeValid }

func (r Report) String() string {
	switch r.Outcome {
	case OutcomeValid:
		return "result is valid"
	case OutcomeDistributionMismatch:
		return fmt.Sprintf("distribution differs from table: got %v, want %v (%d unmatched counterparties)",
			r.Percentages, r.Expected, r.Unmatched)
	default:
		return fmt.Sprintf("transaction volume differs from plan: predicted %d, actual %d",
			r.PredictedVolume, r.ActualVolume)
	}
}

// Check tallies counterparties per bucket from their transaction counts,
// then compares the percentage vector and the total volume. The distribution
// is checked first.
func Check(plan *distribution.Plan, pop *domain.Population) Report {
	table := plan.Table()
	tally := make([]int, table.Len())
	unmatched := 0

	for _, c := range pop.Counterparties {
		bucket, ok := plan.BucketForCount(len(c.Transactions))
		if !ok {
			unmatched++
			continue
		}
		tally[bucket]++
	}

	percentages := make([]int, len(tally))
	for i, n := range tally {
		percentages[i] = n * 100 / plan.Counterparties()
	}

	r := Report{
		Percentages:     percentages,
		Expected:        table.Percentages(),
		PredictedVolume: plan.TotalVolume(),
		ActualVolume:    pop.TransactionCount(),
		Unmatched:       unmatched,
	}

	switch {
	case !slices.Equal(r.Percentages, r.Expected):
		r.Outcome = OutcomeDistributionMismatch
	case r.PredictedVolume != r.ActualVolume:
		r.Outcome = OutcomeVolumeMismatch
	default:
		r.Outcome = OutcomeValid
	}
	return r
}
