// Package population builds the counterparties of one business date and
// assigns each of them uniquely identified, signed transactions.
package population

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/recgen/internal/distribution"
	"github.com/dvloznov/recgen/internal/domain"
)

// MagnitudeFactor sizes the amount pool: magnitudes are drawn from
// [1, MagnitudeFactor*maxTransactions - 1].
const MagnitudeFactor = 1000

// Generator draws populations for a plan. It is not safe for concurrent use:
// pool consumption is order dependent.
type Generator struct {
	plan     *distribution.Plan
	rng      *rand.Rand
	currency string
}

// NewGenerator returns a generator drawing every random choice from rng.
func NewGenerator(plan *distribution.Plan, rng *rand.Rand, currency string) *Generator {
	return &Generator{plan: plan, rng: rng, currency: currency}
}

// CounterpartyName formats the identifier of the n-th counterparty (1-based).
func CounterpartyName(n int, currency string) string {
	return "CTP_" + strconv.Itoa(n) + "_" + currency
}

// Generate builds the population for date. It fails with ErrPoolExhausted
// before drawing anything when the plan needs more unique values than the
// pools hold.
func (g *Generator) Generate(date civil.Date) (*domain.Population, error) {
	total := g.plan.TotalVolume()
	flowIDs := NewPool("flow id", int(total)+1, g.rng)
	magnitudes := NewPool("magnitude", MagnitudeFactor*g.plan.MaxTransactions()-1, g.rng)

	if total > int64(magnitudes.Len()) {
		return nil, fmt.Errorf("Generate: %d transactions needed, magnitude pool holds %d: %w",
			total, magnitudes.Len(), ErrPoolExhausted)
	}

	names := make([]string, g.plan.Counterparties())
	for i := range names {
		names[i] = CounterpartyName(i+1, g.currency)
	}
	g.rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	counterparties := make([]domain.Counterparty, len(names))
	for i, name := range names {
		bucket := g.plan.BucketIndexFor(i)
		n := g.plan.TransactionCount(bucket)

		txs := make([]domain.Transaction, 0, n)
		for k := 0; k < n; k++ {
			flowID, err := flowIDs.Pop()
			if err != nil {
				return nil, fmt.Errorf("Generate: counterparty %s: %w", name, err)
			}
			magnitude, err := magnitudes.Pop()
			if err != nil {
				return nil, fmt.Errorf("Generate: counterparty %s: %w", name, err)
			}
			if g.rng.IntN(2) == 1 {
				magnitude = -magnitude
			}
			txs = append(txs, domain.Transaction{FlowID: flowID, Amount: magnitude})
		}

		counterparties[i] = domain.Counterparty{
			Ordinal:      i,
			Name:         name,
			Bucket:       bucket,
			Transactions: txs,
		}
	}

	return &domain.Population{
		Date:           date,
		Currency:       g.currency,
		Counterparties: counterparties,
	}, nil
}
