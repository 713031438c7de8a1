package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of expense categories. Stored as its token,
// rendered as its display name.
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryUtilities     Category = "UTILITIES"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryOther         Category = "OTHER"
)

// CategoryFilterAll is only meaningful as a list filter: it disables
// category filtering and is never a valid Category on an expense.
const CategoryFilterAll = "ALL"

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryOther,
}

var categoryDisplayNames = map[Category]string{
	CategoryFood:          "Food",
	CategoryTransport:     "Transport",
	CategoryUtilities:     "Utilities",
	CategoryEntertainment: "Entertainment",
	CategoryOther:         "Other",
}

// DisplayName returns the user-facing name, e.g. "Food" for FOOD.
func (c Category) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

// ParseCategory maps a case-insensitive user-supplied string onto the
// enumeration. "food", "Food" and "FOOD" all resolve to CategoryFood.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
