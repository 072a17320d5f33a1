// Package rules implements keyword-based transaction categorization.
//
// A description matches a category when any of the category's lowercase
// keywords occurs as a substring of the lower-cased description. Ties are
// resolved by category order: the FIRST matching category in the rule set's
// defined order wins; this must stay consistent across releases.
package rules

import (
	"strings"

	"fjacquet/fincat/internal/models"
)

// RuleSource yields the current ordered rule set. The engine reads the live
// rules on every categorization call rather than caching them.
type RuleSource interface {
	All() []models.CategoryConfig
}

// Set is an immutable snapshot of keyword rules for one matching pass.
type Set struct {
	categories []models.CategoryConfig
}

// NewSet builds a rule set snapshot from the given source.
func NewSet(source RuleSource) *Set {
	return &Set{categories: source.All()}
}

// NewSetFromConfigs builds a rule set directly from category configs.
func NewSetFromConfigs(categories []models.CategoryConfig) *Set {
	return &Set{categories: categories}
}

// Match tests the description against every category's keywords and returns
// the winning category name. Pure function of rule state and input text.
func (s *Set) Match(description string) (string, bool) {
	desc := strings.ToLower(description)
	for _, category := range s.categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(desc, strings.ToLower(keyword)) {
				return category.Name, true
			}
		}
	}
	return "", false
}

// Len returns the number of categories in the snapshot.
func (s *Set) Len() int {
	return len(s.categories)
}
