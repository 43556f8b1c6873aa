// Package pattern files imported statement lines under categories by
// matching their payee and amount against configured rules.
package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Amount conditions.
const (
	AmountAny   = "any"
	AmountLT    = "lt"
	AmountLE    = "le"
	AmountEQ    = "eq"
	AmountGE    = "ge"
	AmountGT    = "gt"
	AmountRange = "range"
)

// Directions.
const (
	DirectionIncome  = "income"
	DirectionExpense = "expense"
)

// ErrInvalidRule is returned for rules that can never match sensibly.
var ErrInvalidRule = errors.New("invalid rule")

// Rule files matching lines under Category and adds Tags. An empty Payee
// matches every line.
type Rule struct {
	Value     *float64 `mapstructure:"value"`
	Min       *float64 `mapstructure:"min"`
	Max       *float64 `mapstructure:"max"`
	Name      string   `mapstructure:"name"`
	Payee     string   `mapstructure:"payee"`
	Amount    string   `mapstructure:"amount"`
	Direction string   `mapstructure:"direction"`
	Category  string   `mapstructure:"category"`
	Tags      []string `mapstructure:"tags"`
	Priority  int      `mapstructure:"priority"`
	Regex     bool     `mapstructure:"regex"`
	Disabled  bool     `mapstructure:"disabled"`
}

// Label names the rule in messages.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Payee != "" {
		return r.Payee
	}
	return "catch-all"
}

// Validate checks the rule's condition fields. Regular expressions are
// compiled by NewMatcher.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w %q: category is required", ErrInvalidRule, r.Label())
	}

	switch r.Direction {
	case "", DirectionIncome, DirectionExpense:
	default:
		return fmt.Errorf("%w %q: unknown direction %q", ErrInvalidRule, r.Label(), r.Direction)
	}

	switch r.condition() {
	case AmountAny:
	case AmountLT, AmountLE, AmountEQ, AmountGE, AmountGT:
		if r.Value == nil {
			return fmt.Errorf("%w %q: amount %s needs a value", ErrInvalidRule, r.Label(), r.Amount)
		}
	case AmountRange:
		if r.Min == nil && r.Max == nil {
			return fmt.Errorf("%w %q: range needs min or max", ErrInvalidRule, r.Label())
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("%w %q: min is greater than max", ErrInvalidRule, r.Label())
		}
	default:
		return fmt.Errorf("%w %q: unknown amount condition %q", ErrInvalidRule, r.Label(), r.Amount)
	}
	return nil
}

func (r Rule) condition() string {
	if r.Amount == "" {
		return AmountAny
	}
	return strings.ToLower(r.Amount)
}
