package models

import (
	"github.com/shopspring/decimal"

	"catalog-browser/utils"
)

// PriceRange is an inclusive selling-price interval.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Contains reports whether p lies within the range, both ends inclusive.
func (r PriceRange) Contains(p decimal.Decimal) bool {
	return p.GreaterThanOrEqual(r.Min) && p.LessThanOrEqual(r.Max)
}

// FilterCriteria holds one request's user-selected constraints. A nil or empty set means
// no restriction on that dimension.
type FilterCriteria struct {
	Price        PriceRange
	Availability *utils.StringSet
	Condition    *utils.StringSet
	Category     *utils.StringSet
}

// CategorySet builds a category selection set.
func CategorySet(cats ...Category) *utils.StringSet {
	s := utils.NewStringSet()
	for _, c := range cats {
		s.Add(string(c))
	}
	return s
}
