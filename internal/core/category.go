package core

import "strings"

// Category is one tag from the closed set used to classify a transaction's
// purpose. The string values are stable wire values.
type Category string

const (
	CategoryFoodDining     Category = "food_dining"
	CategoryTransportation Category = "transportation"
	CategoryShopping       Category = "shopping"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryHealthcare     Category = "healthcare"
	CategoryTravel         Category = "travel"
	CategoryGroceries      Category = "groceries"
	CategorySubscriptions  Category = "subscriptions"
	CategoryIncome         Category = "income"
	CategoryTransfer       Category = "transfer"
	CategoryOther          Category = "other"
)

var allCategories = []Category{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryTravel,
	CategoryGroceries,
	CategorySubscriptions,
	CategoryIncome,
	CategoryTransfer,
	CategoryOther,
}

// Categories returns the full closed set in declaration order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches s against the closed set, ignoring case and
// surrounding whitespace. The second return value is false when s is not a
// known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return "", false
}
