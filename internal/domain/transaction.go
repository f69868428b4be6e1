package domain

import (
	"cloud.google.com/go/civil"
)

// Transaction is one generated cash flow of a counterparty.
type Transaction struct {
	FlowID int64 // unique across the whole run
	Amount int64 // signed: positive = receivable, negative = payable
}

// Receivable reports whether the transaction is money in.
func (t Transaction) Receivable() bool {
	return t.Amount > 0
}

// Magnitude returns the absolute amount.
func (t Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// Counterparty is a simulated banking partner and the transactions it owns.
// Ordinal is its position in the generation order and decides its bucket.
type Counterparty struct {
	Ordinal      int
	Name         string
	Bucket       int
	Transactions []Transaction
}

// Balance is the signed sum of the counterparty's transactions.
func (c Counterparty) Balance() int64 {
	var sum int64
	for _, tx := range c.Transactions {
		sum += tx.Amount
	}
	return sum
}

// Population is everything generated for one business date.
type Population struct {
	Date           civil.Date
	Currency       string
	Counterparties []Counterparty
}

// TransactionCount is the number of transactions across all counterparties.
func (p *Population) TransactionCount() int64 {
	var n int64
	for _, c := range p.Counterparties {
		n += int64(len(c.Transactions))
	}
	return n
}
