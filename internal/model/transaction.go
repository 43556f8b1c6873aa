package model

import (
	"slices"
	"time"
)

// Transaction represents a single income or expense entry.
// A positive amount is income, a negative amount is an expense.
type Transaction struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"` // Category ID; may dangle after the category is deleted
	Tags      []string `json:"tags"`
	Amount    float64  `json:"amount"`
	Timestamp int64    `json:"timestamp"` // Milliseconds since the Unix epoch
}

// EntityID returns the transaction identifier.
func (t Transaction) EntityID() string {
	return t.ID
}

// Time returns the transaction timestamp in loc.
func (t Transaction) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(t.Timestamp).In(loc)
}

// IsIncome reports whether the transaction adds to the balance.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// IsExpense reports whether the transaction subtracts from the balance.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// HasTag reports whether the transaction carries tag.
func (t Transaction) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// TransactionInput holds the fields of a transaction before an id is assigned.
type TransactionInput struct {
	Category  string
	Tags      []string
	Amount    float64
	Timestamp int64
}

// WithID builds the persisted transaction for this input.
func (in TransactionInput) WithID(id string) Transaction {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return Transaction{
		ID:        id,
		Category:  in.Category,
		Tags:      slices.Clone(tags),
		Amount:    in.Amount,
		Timestamp: in.Timestamp,
	}
}

// Input returns the transaction fields without the id.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Category:  t.Category,
		Tags:      slices.Clone(t.Tags),
		Amount:    t.Amount,
		Timestamp: t.Timestamp,
	}
}

// Timestamp converts a time to the millisecond representation stored on transactions.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}
