package pattern

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Matcher evaluates lines against a fixed set of rules.
type Matcher struct {
	compiled map[int]*regexp.Regexp
	rules    []Rule
}

// NewMatcher validates rules and pre-compiles their regular expressions.
// Regex payees match case-insensitively.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{
		rules:    slices.Clone(rules),
		compiled: make(map[int]*regexp.Regexp),
	}

	for i, rule := range m.rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if rule.Regex && rule.Payee != "" {
			re, err := regexp.Compile("(?i)" + rule.Payee)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, rule.Label(), err)
			}
			m.compiled[i] = re
		}
	}

	return m, nil
}

// Len returns the number of rules.
func (m *Matcher) Len() int {
	return len(m.rules)
}

// Match returns every enabled rule matching the line, highest priority
// first. Rules with equal priority keep their configured order.
func (m *Matcher) Match(payee string, amount float64) []Rule {
	type hit struct {
		rule  Rule
		index int
	}

	var hits []hit
	for i, rule := range m.rules {
		if rule.Disabled {
			continue
		}
		if m.matchesPayee(i, rule, payee) && matchesAmount(rule, amount) && matchesDirection(rule, amount) {
			hits = append(hits, hit{rule: rule, index: i})
		}
	}

	slices.SortStableFunc(hits, func(a, b hit) int {
		return b.rule.Priority - a.rule.Priority
	})

	matches := make([]Rule, len(hits))
	for i, h := range hits {
		matches[i] = h.rule
	}
	return matches
}

// First returns the highest priority matching rule.
func (m *Matcher) First(payee string, amount float64) (Rule, bool) {
	matches := m.Match(payee, amount)
	if len(matches) == 0 {
		return Rule{}, false
	}
	return matches[0], true
}

func (m *Matcher) matchesPayee(index int, rule Rule, payee string) bool {
	if rule.Payee == "" {
		return true
	}
	if rule.Regex {
		re, ok := m.compiled[index]
		return ok && re.MatchString(payee)
	}
	return strings.EqualFold(strings.TrimSpace(rule.Payee), strings.TrimSpace(payee))
}

func matchesAmount(rule Rule, amount float64) bool {
	switch rule.condition() {
	case AmountAny:
		return true
	case AmountLT:
		return amount < *rule.Value
	case AmountLE:
		return amount <= *rule.Value
	case AmountEQ:
		return amount == *rule.Value
	case AmountGE:
		return amount >= *rule.Value
	case AmountGT:
		return amount > *rule.Value
	case AmountRange:
		if rule.Min != nil && amount < *rule.Min {
			return false
		}
		if rule.Max != nil && amount > *rule.Max {
			return false
		}
		return true
	}
	return false
}

func matchesDirection(rule Rule, amount float64) bool {
	switch rule.Direction {
	case DirectionIncome:
		return amount > 0
	case DirectionExpense:
		return amount < 0
	}
	return true
}
