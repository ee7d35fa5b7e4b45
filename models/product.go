package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the closed set of labels assigned to each product by keyword heuristics.
type Category string

const (
	CategoryTVEntertainment Category = "TV & Entertainment"
	CategoryClothing        Category = "Clothing"
	CategoryElectronics     Category = "Electronics"
	CategoryCookware        Category = "Cookware"
	CategoryOther           Category = "Other"
)

// UnknownName replaces missing product names during normalization.
const UnknownName = "Unknown"

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryTVEntertainment,
		CategoryClothing,
		CategoryElectronics,
		CategoryCookware,
		CategoryOther,
	}
}

// ParseCategory maps a label back to its Category.
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range Categories() {
		if string(c) == label {
			return c, true
		}
	}
	return "", false
}

func (c Category) String() string { return string(c) }

// Product is one normalized catalog row.
type Product struct {
	Row           int             `json:"row"` // sheet row for files; record ordinal + 2 for SQL tables
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Availability  string          `json:"availability"`
	Condition     string          `json:"condition"`
	ImageURL      string          `json:"image_url"`
	OriginalPrice string          `json:"original_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
}

// OriginalPriceValue parses the original price on demand. It is never validated at load time.
func (p Product) OriginalPriceValue() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(p.OriginalPrice))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
