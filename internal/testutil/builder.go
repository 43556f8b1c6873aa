package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/thriftly/internal/model"
)

// TransactionBuilder assembles transactions with predictable ids and
// timestamps. Each added transaction is one hour older than the previous one
// unless At or On moves the clock.
type TransactionBuilder struct {
	clock        time.Time
	loc          *time.Location
	transactions []model.Transaction
}

// NewTransactionBuilder starts a builder at 2024-06-15 12:00 in loc.
func NewTransactionBuilder(loc *time.Location) *TransactionBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionBuilder{
		clock: time.Date(2024, time.June, 15, 12, 0, 0, 0, loc),
		loc:   loc,
	}
}

// At sets the timestamp used by the next transaction.
func (b *TransactionBuilder) At(t time.Time) *TransactionBuilder {
	b.clock = t
	return b
}

// On sets the next timestamp to noon of the given date.
func (b *TransactionBuilder) On(year int, month time.Month, day int) *TransactionBuilder {
	b.clock = time.Date(year, month, day, 12, 0, 0, 0, b.loc)
	return b
}

// Income adds a positive transaction.
func (b *TransactionBuilder) Income(amount float64, category string, tags ...string) *TransactionBuilder {
	return b.add(amount, category, tags)
}

// Expense adds a negative transaction of the given magnitude.
func (b *TransactionBuilder) Expense(amount float64, category string, tags ...string) *TransactionBuilder {
	return b.add(-amount, category, tags)
}

func (b *TransactionBuilder) add(amount float64, category string, tags []string) *TransactionBuilder {
	if tags == nil {
		tags = []string{}
	}
	b.transactions = append(b.transactions, model.Transaction{
		ID:        fmt.Sprintf("txn-%d", len(b.transactions)+1),
		Category:  category,
		Tags:      tags,
		Amount:    amount,
		Timestamp: model.Timestamp(b.clock),
	})
	b.clock = b.clock.Add(-time.Hour)
	return b
}

// Build returns the transactions in the order they were added.
func (b *TransactionBuilder) Build() []model.Transaction {
	out := make([]model.Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}
