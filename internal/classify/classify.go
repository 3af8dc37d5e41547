// Package classify assigns a spending category to a transaction description.
//
// Classification is deterministic rule matching, nothing statistical: rules
// are evaluated in a fixed order and the first rule with any keyword
// substring match wins. Rule order therefore matters: "Starbucks gas
// station" is food_dining, not transportation, because the food rule is
// evaluated first.
package classify

import (
	"strings"

	"fintrack/internal/core"
)

// Rule pairs a category with the keywords that select it. A rule matches
// when any keyword is a substring of the lower-cased description.
type Rule struct {
	Category core.Category
	Keywords []string
}

// Classifier evaluates an ordered rule list. The zero value is not usable;
// construct with New or NewWithRules.
type Classifier struct {
	rules []Rule
}

// defaultRules is the built-in keyword table. Note that entertainment,
// utilities, healthcare and transfer never appear here: those categories
// enter the system only when a statement column or upstream extractor
// supplies them explicitly, so the keyword table emits a strict subset of
// the closed set.
var defaultRules = []Rule{
	{core.CategoryFoodDining, []string{"food", "restaurant", "starbucks"}},
	{core.CategoryTransportation, []string{"uber", "gas", "shell"}},
	{core.CategoryShopping, []string{"amazon", "target"}},
	{core.CategorySubscriptions, []string{"netflix", "spotify"}},
	{core.CategoryGroceries, []string{"grocery", "whole foods"}},
	{core.CategoryTravel, []string{"airline", "hotel"}},
	{core.CategoryIncome, []string{"salary", "deposit"}},
}

// New returns a classifier using the built-in rule table.
func New() *Classifier {
	return &Classifier{rules: defaultRules}
}

// NewWithRules returns a classifier evaluating the given rules in order.
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps a free-text description to a category. It is total: any
// input, including the empty string, yields exactly one member of the
// closed set, falling back to the other tag when no rule matches.
func (c *Classifier) Classify(description string) core.Category {
	desc := strings.ToLower(description)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Category
			}
		}
	}
	return core.CategoryOther
}
