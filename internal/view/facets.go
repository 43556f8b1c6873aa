package view

import (
	"sort"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/store"
)

// FacetOption is one entry of a filter picker. The leading "all" option has
// All set and an empty Value.
type FacetOption struct {
	Value string
	Count int
	All   bool
}

// CategoryFacets counts, for each category appearing in txns, how many
// transactions would match current with the category filter set to just that
// category. The "all" option counts with the category filter cleared.
func CategoryFacets(txns []model.Transaction, current model.TransactionFilters) []FacetOption {
	var values []string
	seen := make(map[string]bool)
	for _, txn := range txns {
		if !seen[txn.Category] {
			seen[txn.Category] = true
			values = append(values, txn.Category)
		}
	}

	return facets(txns, values, func(values ...string) model.TransactionFilters {
		return current.WithCategories(values...)
	})
}

// TagFacets is CategoryFacets for tags.
func TagFacets(txns []model.Transaction, current model.TransactionFilters) []FacetOption {
	var values []string
	seen := make(map[string]bool)
	for _, txn := range txns {
		for _, tag := range txn.Tags {
			if !seen[tag] {
				seen[tag] = true
				values = append(values, tag)
			}
		}
	}

	return facets(txns, values, func(values ...string) model.TransactionFilters {
		return current.WithTags(values...)
	})
}

func facets(txns []model.Transaction, values []string, with func(...string) model.TransactionFilters) []FacetOption {
	options := make([]FacetOption, 0, len(values)+1)
	options = append(options, FacetOption{
		All:   true,
		Count: len(store.FilterTransactions(with(), txns)),
	})
	for _, value := range values {
		options = append(options, FacetOption{
			Value: value,
			Count: len(store.FilterTransactions(with(value), txns)),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Count > options[j].Count
	})
	return options
}

// NormalizeSelection returns nil when selected covers every concrete option,
// since selecting everything filters nothing. Otherwise selected is returned
// unchanged.
func NormalizeSelection(selected []string, options []FacetOption) []string {
	if len(selected) == 0 {
		return nil
	}

	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	concrete := 0
	for _, opt := range options {
		if opt.All {
			continue
		}
		concrete++
		if !chosen[opt.Value] {
			return selected
		}
	}
	if concrete == 0 {
		return selected
	}
	return nil
}
