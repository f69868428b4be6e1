package distribution

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidPlan is returned for counts that cannot be split across the table.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan binds a table to the counterparty and max-transaction counts of a run.
type Plan struct {
	table           Table
	counterparties  int
	maxTransactions int
}

// NewPlan checks that both counts are positive multiples of 100.
func NewPlan(table Table, counterparties, maxTransactions int) (*Plan, error) {
	if counterparties <= 0 || counterparties%100 != 0 {
		return nil, fmt.Errorf("NewPlan: counterparty count %d is not a positive multiple of 100: %w", counterparties, ErrInvalidPlan)
	}
	if maxTransactions <= 0 || maxTransactions%100 != 0 {
		return nil, fmt.Errorf("NewPlan: max transaction count %d is not a positive multiple of 100: %w", maxTransactions, ErrInvalidPlan)
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("NewPlan: empty table: %w", ErrInvalidPlan)
	}

	p := &Plan{table: table, counterparties: counterparties, maxTransactions: maxTransactions}

	// Buckets must stay distinguishable by transaction count alone.
	for i := 1; i < table.Len(); i++ {
		if p.TransactionCount(i) >= p.TransactionCount(i-1) || p.TransactionCount(i) == 0 {
			return nil, fmt.Errorf("NewPlan: bucket %d yields %d transactions after bucket %d yields %d: %w",
				i, p.TransactionCount(i), i-1, p.TransactionCount(i-1), ErrInvalidPlan)
		}
	}
	return p, nil
}

func (p *Plan) Table() Table { return p.table }

func (p *Plan) Counterparties() int { return p.counterparties }

func (p *Plan) MaxTransactions() int { return p.maxTransactions }

// BucketSize is floor(counterparties * percentage / 100).
func (p *Plan) BucketSize(bucket int) int {
	return p.counterparties * p.table.Bucket(bucket).Percentage / 100
}

// BucketSizes returns BucketSize for every bucket.
func (p *Plan) BucketSizes() []int {
	out := make([]int, p.table.Len())
	for i := range out {
		out[i] = p.BucketSize(i)
	}
	return out
}

// TransactionCount is floor(multiplier * maxTransactions) for the bucket.
func (p *Plan) TransactionCount(bucket int) int {
	m := p.table.Bucket(bucket).Multiplier
	return int(m.Mul(decimal.NewFromInt(int64(p.maxTransactions))).Floor().IntPart())
}

// TotalVolume is the number of transactions the whole run must produce.
func (p *Plan) TotalVolume() int64 {
	var total int64
	for i := 0; i < p.table.Len(); i++ {
		total += int64(p.BucketSize(i)) * int64(p.TransactionCount(i))
	}
	return total
}

// BucketIndexFor maps a 0-based ordinal to its bucket: the first bucket whose
// cumulative percentage reaches (ordinal+1)/counterparties*100. The comparison
// is done in integers so boundary values are exact. Ordinals past every
// threshold land in the last bucket.
func (p *Plan) BucketIndexFor(ordinal int) int {
	position := int64(ordinal+1) * 100
	cumulative := int64(0)
	for i := 0; i < p.table.Len(); i++ {
		cumulative += int64(p.table.Bucket(i).Percentage)
		if position <= cumulative*int64(p.counterparties) {
			return i
		}
	}
	return p.table.Len() - 1
}

// BucketForCount is the inverse of TransactionCount.
func (p *Plan) BucketForCount(count int) (int, bool) {
	for i := 0; i < p.table.Len(); i++ {
		if p.TransactionCount(i) == count {
			return i, true
		}
	}
	return 0, false
}
