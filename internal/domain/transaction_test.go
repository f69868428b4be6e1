package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignHelpers(t *testing.T) {
	in := Transaction{FlowID: 1, Amount: 250}
	out := Transaction{FlowID: 2, Amount: -75}

	assert.True(t, in.Receivable())
	assert.False(t, out.Receivable())
	assert.Equal(t, int64(250), in.Magnitude())
	assert.Equal(t, int64(75), out.Magnitude())
}

func TestCounterparty_Balance(t *testing.T) {
	c := Counterparty{
		Name: "CTP_1_EUR",
		Transactions: []Transaction{
			{FlowID: 1, Amount: 100},
			{FlowID: 2, Amount: -40},
			{FlowID: 3, Amount: -90},
		},
	}
	assert.Equal(t, int64(-30), c.Balance())
	assert.Equal(t, int64(0), Counterparty{}.Balance())
}

func TestPopulation_TransactionCount(t *testing.T) {
	p := &Population{Counterparties: []Counterparty{
		{Transactions: make([]Transaction, 3)},
		{Transactions: make([]Transaction, 1)},
		{},
	}}
	assert.Equal(t, int64(4), p.TransactionCount())
}
