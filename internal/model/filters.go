package model

import "slices"

// TransactionFilters restricts a transaction listing by category and tag.
// An empty dimension places no restriction on that dimension.
type TransactionFilters struct {
	Categories []string
	Tags       []string
}

// IsEmpty reports whether the filters restrict nothing.
func (f TransactionFilters) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Tags) == 0
}

// Matches reports whether txn passes both dimensions of the filter.
// Categories match by membership; tags match when txn shares at least one tag.
func (f TransactionFilters) Matches(txn Transaction) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, txn.Category) {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	return slices.ContainsFunc(f.Tags, txn.HasTag)
}

// WithCategories returns a copy of f with the category dimension replaced.
func (f TransactionFilters) WithCategories(categories ...string) TransactionFilters {
	return TransactionFilters{Categories: categories, Tags: f.Tags}
}

// WithTags returns a copy of f with the tag dimension replaced.
func (f TransactionFilters) WithTags(tags ...string) TransactionFilters {
	return TransactionFilters{Categories: f.Categories, Tags: tags}
}
