// Package view derives what the screens show from a transaction collection:
// balances, the monthly trend, the paginated day-grouped feed and the facet
// counts behind the filter pickers. Every function is pure; callers recompute
// whenever the collection they pass in changes.
package view

import (
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/shopspring/decimal"
)

// Totals is the income/expense split of a set of transactions. Expense is the
// sum of negative amounts and is never positive.
type Totals struct {
	Balance float64
	Income  float64
	Expense float64
}

// Positive reports whether the balance is strictly greater than zero.
func (t Totals) Positive() bool {
	return t.Balance > 0
}

// Balance returns the sum of all amounts.
func Balance(txns []model.Transaction) float64 {
	sum := decimal.Zero
	for _, txn := range txns {
		sum = sum.Add(decimal.NewFromFloat(txn.Amount))
	}
	return sum.InexactFloat64()
}

// Split sums positive and negative amounts separately.
func Split(txns []model.Transaction) Totals {
	var acc accumulator
	for _, txn := range txns {
		acc.add(txn.Amount)
	}
	return acc.totals()
}

type accumulator struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

func (a *accumulator) add(amount float64) {
	d := decimal.NewFromFloat(amount)
	switch d.Sign() {
	case 1:
		a.income = a.income.Add(d)
	case -1:
		a.expense = a.expense.Add(d)
	}
}

func (a *accumulator) totals() Totals {
	return Totals{
		Balance: a.income.Add(a.expense).InexactFloat64(),
		Income:  a.income.InexactFloat64(),
		Expense: a.expense.InexactFloat64(),
	}
}
