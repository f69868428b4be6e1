// Package distribution plans how many counterparties fall into each bucket of
// a distribution table and how many transactions each of them carries.
package distribution

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTable is returned when a distribution table breaks one of its invariants.
var ErrInvalidTable = errors.New("invalid distribution table")

// Bucket pairs a share of the population with a transaction-count multiplier.
type Bucket struct {
	Percentage int
	Multiplier decimal.Decimal
}

// Table is an ordered, immutable sequence of buckets.
type Table struct {
	buckets []Bucket
}

// Default percentages and multipliers: few counterparties get many
// transactions, many get few.
var (
	DefaultPercentages = []int{1, 2, 3, 4, 5, 15, 30, 40}
	DefaultMultipliers = []string{"1", "0.8", "0.6", "0.4", "0.2", "0.1", "0.05", "0.01"}
)

// DefaultTable returns the standard eight-bucket table.
func DefaultTable() Table {
	t, err := TableFromStrings(DefaultPercentages, DefaultMultipliers)
	if err != nil {
		panic(fmt.Sprintf("distribution: default table: %v", err))
	}
	return t
}

// TableFromStrings builds a table from parallel percentage and decimal-string
// multiplier slices, as they appear in configuration files.
func TableFromStrings(percentages []int, multipliers []string) (Table, error) {
	if len(percentages) != len(multipliers) {
		return Table{}, fmt.Errorf("TableFromStrings: %d percentages for %d multipliers: %w",
			len(percentages), len(multipliers), ErrInvalidTable)
	}
	buckets := make([]Bucket, len(percentages))
	for i, p := range percentages {
		m, err := decimal.NewFromString(multipliers[i])
		if err != nil {
			return Table{}, fmt.Errorf("TableFromStrings: multiplier %d %q: %w", i, multipliers[i], err)
		}
		buckets[i] = Bucket{Percentage: p, Multiplier: m}
	}
	return NewTable(buckets)
}

// NewTable validates and copies the buckets.
func NewTable(buckets []Bucket) (Table, error) {
	if len(buckets) == 0 {
		return Table{}, fmt.Errorf("NewTable: no buckets: %w", ErrInvalidTable)
	}

	one := decimal.NewFromInt(1)
	sum := 0
	for i, b := range buckets {
		if b.Percentage <= 0 {
			return Table{}, fmt.Errorf("NewTable: bucket %d percentage %d must be positive: %w", i, b.Percentage, ErrInvalidTable)
		}
		if !b.Multiplier.IsPositive() || b.Multiplier.GreaterThan(one) {
			return Table{}, fmt.Errorf("NewTable: bucket %d multiplier %s outside (0, 1]: %w", i, b.Multiplier, ErrInvalidTable)
		}
		if i > 0 && !b.Multiplier.LessThan(buckets[i-1].Multiplier) {
			return Table{}, fmt.Errorf("NewTable: bucket %d multiplier %s not below %s: %w",
				i, b.Multiplier, buckets[i-1].Multiplier, ErrInvalidTable)
		}
		sum += b.Percentage
	}
	if sum != 100 {
		return Table{}, fmt.Errorf("NewTable: percentages sum to %d, want 100: %w", sum, ErrInvalidTable)
	}

	return Table{buckets: append([]Bucket(nil), buckets...)}, nil
}

// Len returns the number of buckets.
func (t Table) Len() int { return len(t.buckets) }

// Bucket returns the i-th bucket.
func (t Table) Bucket(i int) Bucket { return t.buckets[i] }

// Percentages returns a copy of the percentage column.
func (t Table) Percentages() []int {
	out := make([]int, len(t.buckets))
	for i, b := range t.buckets {
		out[i] = b.Percentage
	}
	return out
}
