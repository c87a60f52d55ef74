// Package classify assigns a routing category to raw user queries.
//
// Classification is a cheap pre-filter: it keeps obviously pure market-data
// requests away from the fact-check pathway and forces fact-checking for
// queries naming sensitive geopolitical actors. It never fails and keeps no
// state across queries.
package classify

import (
	"strings"

	"github.com/finbrief/finbrief/internal/model"
)

// Rule pairs a named keyword set with the category it selects.
// Rules are evaluated in order; the first match wins.
type Rule struct {
	Name     string
	Keywords []string
	Category model.Classification
}

// Classifier holds an ordered rule table and a fallback category.
type Classifier struct {
	rules    []Rule
	fallback model.Classification
}

// DefaultRules returns the built-in rule table: geopolitical and
// controversial terms first, then the known ticker/company set.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "geopolitical",
			Keywords: []string{
				"trump", "biden", "war", "attack", "venezuela",
				"election", "sanction", "geopolitics", "conflict",
			},
			Category: model.ClassFactCheck,
		},
		{
			Name: "tickers",
			Keywords: []string{
				"amzn", "msft", "googl", "meta", "snap",
				"ttwo", "ea", "atvi", "nvda", "amd", "jpm", "bac",
			},
			Category: model.ClassFinanceOnly,
		},
	}
}

// New creates a classifier with the default rule table.
func New() *Classifier {
	return NewWithRules(DefaultRules(), model.ClassMixed)
}

// NewWithRules creates a classifier with a custom rule table and fallback.
func NewWithRules(rules []Rule, fallback model.Classification) *Classifier {
	return &Classifier{rules: rules, fallback: fallback}
}

// Classify maps a raw query to its routing category. Matching is
// case-insensitive substring membership; there is no scoring and no overlap
// resolution beyond rule order.
func (c *Classifier) Classify(query string) model.Classification {
	q := strings.ToLower(query)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(q, kw) {
				return rule.Category
			}
		}
	}
	return c.fallback
}
