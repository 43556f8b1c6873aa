// Package model defines the records the finance tracker stores and the rules
// the edit boundary applies before they reach a store.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrDuplicateName   = errors.New("name already exists")
	ErrEmptyIcon       = errors.New("icon cannot be empty")
	ErrEmptyColor      = errors.New("color cannot be empty")
	ErrZeroAmount      = errors.New("amount cannot be zero")
	ErrMissingDate     = errors.New("timestamp is required")
	ErrMissingCategory = errors.New("category is required")
)

// ValidateCategoryInput checks a category form before it is created or saved.
// Names are compared trimmed and case-insensitively against existing, skipping
// the category identified by editingID.
func ValidateCategoryInput(in CategoryInput, existing []Category, editingID string) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrEmptyName
	}
	for _, c := range existing {
		if c.ID == editingID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	if strings.TrimSpace(in.Icon) == "" {
		return ErrEmptyIcon
	}
	if strings.TrimSpace(in.Color) == "" {
		return ErrEmptyColor
	}
	return nil
}

// ValidateTransactionInput checks a transaction form before it is created or saved.
func ValidateTransactionInput(in TransactionInput) error {
	if in.Amount == 0 {
		return ErrZeroAmount
	}
	if in.Timestamp == 0 {
		return ErrMissingDate
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

// NormalizeTags trims tags and drops empty ones, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
