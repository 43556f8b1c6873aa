package view

import (
	"sort"
	"time"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/shopspring/decimal"
)

// MaxMonths is the number of most recent months kept in a Series.
const MaxMonths = 6

// MonthPoint is one bar of the trend chart. Expense holds the magnitude of
// the month's outflow so both series plot upward.
type MonthPoint struct {
	Date    time.Time
	Income  float64
	Expense float64
}

// Series is the monthly trend. Active is the index of the month containing
// the reference time, or -1 when that month is not among Points.
type Series struct {
	Points []MonthPoint
	Active int
}

// MonthStart returns midnight of the first day of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlySeries buckets txns by calendar month in now's location and keeps
// the most recent MaxMonths buckets in ascending order.
func MonthlySeries(txns []model.Transaction, now time.Time) Series {
	loc := now.Location()

	type bucket struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}
	buckets := make(map[time.Time]*bucket)
	for _, txn := range txns {
		key := MonthStart(txn.Time(loc))
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		d := decimal.NewFromFloat(txn.Amount)
		switch d.Sign() {
		case 1:
			b.income = b.income.Add(d)
		case -1:
			b.expense = b.expense.Add(d.Abs())
		}
	}

	points := make([]MonthPoint, 0, len(buckets))
	for date, b := range buckets {
		points = append(points, MonthPoint{
			Date:    date,
			Income:  b.income.InexactFloat64(),
			Expense: b.expense.InexactFloat64(),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	if len(points) > MaxMonths {
		points = points[len(points)-MaxMonths:]
	}

	current := MonthStart(now)
	active := -1
	for i, p := range points {
		if p.Date.Equal(current) {
			active = i
			break
		}
	}

	return Series{Points: points, Active: active}
}
