package validate

import (
	"math/rand/v2"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/recgen/internal/distribution"
	"github.com/dvloznov/recgen/internal/domain"
	"github.com/dvloznov/recgen/internal/population"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, counterparties, maxTransactions int, seed uint64) (*distribution.Plan, *domain.Population) {
	t.Helper()
	plan, err := distribution.NewPlan(distribution.DefaultTable(), counterparties, maxTransactions)
	require.NoError(t, err)
	pop, err := population.NewGenerator(plan, rand.New(rand.NewPCG(seed, seed+1)), "EUR").
		Generate(civil.Date{Year: 2010, Month: 4, Day: 30})
	require.NoError(t, err)
	return plan, pop
}

func TestCheck_GeneratedPopulationsAreValid(t *testing.T) {
	tests := []struct {
		counterparties  int
		maxTransactions int
	}{
		{100, 100},
		{200, 100},
		{100, 300},
		{500, 200},
		{1200, 100},
	}

	for _, tt := range tests {
		plan, pop := generate(t, tt.counterparties, tt.maxTransactions, uint64(tt.counterparties+tt.maxTransactions))
		report := Check(plan, pop)

		assert.True(t, report.Valid(), "c=%d t=%d: %s", tt.counterparties, tt.maxTransactions, report)
		assert.Equal(t, distribution.DefaultPercentages, report.Percentages)
		assert.Equal(t, plan.TotalVolume(), report.ActualVolume)
		assert.Zero(t, report.Unmatched)
	}
}

func TestCheck_DistributionMismatch(t *testing.T) {
	plan, pop := generate(t, 100, 100, 1)

	// Move the single top-bucket counterparty down to the bottom bucket.
	top := &pop.Counterparties[0]
	require.Len(t, top.Transactions, 100)
	top.Transactions = top.Transactions[:1]

	report := Check(plan, pop)
	assert.Equal(t, OutcomeDistributionMismatch, report.Outcome)
	assert.Equal(t, []int{0, 2, 3, 4, 5, 15, 30, 41}, report.Percentages)
	assert.Contains(t, report.String(), "distribution differs")
}

func TestCheck_UnmatchedCountIsADistributionMismatch(t *testing.T) {
	plan, pop := generate(t, 100, 100, 2)
	pop.Counterparties[0].Transactions = pop.Counterparties[0].Transactions[:7]

	report := Check(plan, pop)
	assert.Equal(t, OutcomeDistributionMismatch, report.Outcome)
	assert.Equal(t, 1, report.Unmatched)
}

func TestCheck_VolumeMismatch(t *testing.T) {
	plan, pop := generate(t, 200, 100, 3)

	// 3 transactions match no bucket, so the percentages stay intact.
	pop.Counterparties = append(pop.Counterparties, domain.Counterparty{
		Ordinal: 200, Name: "CTP_201_EUR", Transactions: make([]domain.Transaction, 3),
	})

	report := Check(plan, pop)
	assert.Equal(t, OutcomeVolumeMismatch, report.Outcome)
	assert.Equal(t, plan.TotalVolume(), report.PredictedVolume)
	assert.Equal(t, plan.TotalVolume()+3, report.ActualVolume)
	assert.Contains(t, report.String(), "predicted")
}

func TestReport_String(t *testing.T) {
	assert.Equal(t, "result is valid", Report{Outcome: OutcomeValid}.String())
}
