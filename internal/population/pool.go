package population

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrPoolExhausted is returned when a run asks for more unique values than a
// pool holds.
var ErrPoolExhausted = errors.New("pool exhausted")

// Pool hands out the integers 1..n in random order, each at most once.
// The backing array is shuffled lazily: every Pop performs one Fisher-Yates
// step and advances the cursor.
type Pool struct {
	name   string
	values []int64
	cursor int
	rng    *rand.Rand
}

// NewPool allocates a pool over [1, size].
func NewPool(name string, size int, rng *rand.Rand) *Pool {
	if size < 0 {
		size = 0
	}
	values := make([]int64, size)
	for i := range values {
		values[i] = int64(i + 1)
	}
	return &Pool{name: name, values: values, rng: rng}
}

// Len is the pool capacity.
func (p *Pool) Len() int { return len(p.values) }

// Remaining is the number of values not yet handed out.
func (p *Pool) Remaining() int { return len(p.values) - p.cursor }

// Pop returns the next unused value.
func (p *Pool) Pop() (int64, error) {
	if p.cursor >= len(p.values) {
		return 0, fmt.Errorf("Pop: %s pool of %d values: %w", p.name, len(p.values), ErrPoolExhausted)
	}
	j := p.cursor + p.rng.IntN(len(p.values)-p.cursor)
	p.values[p.cursor], p.values[j] = p.values[j], p.values[p.cursor]
	v := p.values[p.cursor]
	p.cursor++
	return v, nil
}
