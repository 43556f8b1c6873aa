package view

import (
	"slices"
	"sort"
	"time"

	"github.com/Veraticus/thriftly/internal/model"
)

// PageSize is the default number of transactions revealed per page.
const PageSize = 10

// DayGroup is a run of transactions sharing a calendar day, with totals
// scoped to its members.
type DayGroup struct {
	Date         time.Time
	Transactions []model.Transaction
	Totals       Totals
}

// DayStart returns midnight of t's day in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SortByRecent returns a copy of txns ordered by descending timestamp. Equal
// timestamps keep their relative order.
func SortByRecent(txns []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	return sorted
}

// GroupByDay groups consecutive transactions of an already sorted slice that
// fall on the same day in loc.
func GroupByDay(sorted []model.Transaction, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.Local
	}

	var groups []DayGroup
	var acc accumulator
	flush := func() {
		if len(groups) > 0 {
			groups[len(groups)-1].Totals = acc.totals()
		}
		acc = accumulator{}
	}

	for _, txn := range sorted {
		day := DayStart(txn.Time(loc))
		if len(groups) == 0 || !groups[len(groups)-1].Date.Equal(day) {
			flush()
			groups = append(groups, DayGroup{Date: day})
		}
		last := &groups[len(groups)-1]
		last.Transactions = append(last.Transactions, txn)
		acc.add(txn.Amount)
	}
	flush()

	return groups
}

// VisibleWindow returns the first pages*size transactions of sorted.
func VisibleWindow(sorted []model.Transaction, pages, size int) []model.Transaction {
	if pages < 0 || size <= 0 {
		return sorted[:0]
	}
	n := pages * size
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Feed reveals a transaction collection page by page, most recent first.
// A Feed is not safe for concurrent use.
type Feed struct {
	sorted   []model.Transaction
	loc      *time.Location
	pages    int
	pageSize int
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithPageSize overrides PageSize. Non-positive sizes are ignored.
func WithPageSize(size int) FeedOption {
	return func(f *Feed) {
		if size > 0 {
			f.pageSize = size
		}
	}
}

// NewFeed creates a feed over txns showing its first page. Days are computed
// in loc.
func NewFeed(txns []model.Transaction, loc *time.Location, opts ...FeedOption) *Feed {
	if loc == nil {
		loc = time.Local
	}
	f := &Feed{
		sorted:   SortByRecent(txns),
		loc:      loc,
		pages:    1,
		pageSize: PageSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetTransactions swaps the underlying collection. Already revealed pages
// stay revealed.
func (f *Feed) SetTransactions(txns []model.Transaction) {
	f.sorted = SortByRecent(txns)
}

// Visible returns the revealed prefix of the sorted collection.
func (f *Feed) Visible() []model.Transaction {
	return VisibleWindow(f.sorted, f.pages, f.pageSize)
}

// Groups returns the revealed transactions grouped by day. A day split by a
// page boundary only totals its revealed members.
func (f *Feed) Groups() []DayGroup {
	return GroupByDay(f.Visible(), f.loc)
}

// HasMore reports whether some transactions are not yet revealed.
func (f *Feed) HasMore() bool {
	return f.pages*f.pageSize < len(f.sorted)
}

// LoadMore reveals one more page. It returns false, changing nothing, once
// every transaction is visible.
func (f *Feed) LoadMore() bool {
	if !f.HasMore() {
		return false
	}
	f.pages++
	return true
}

// Pages returns the number of revealed pages.
func (f *Feed) Pages() int {
	return f.pages
}

// PageSize returns the number of transactions per page.
func (f *Feed) PageSize() int {
	return f.pageSize
}

// Len returns the size of the whole collection.
func (f *Feed) Len() int {
	return len(f.sorted)
}
