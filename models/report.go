package models

import "github.com/shopspring/decimal"

// Facets holds the sidebar option lists: distinct non-blank values in order of first
// appearance, plus the selling-price bounds.
type Facets struct {
	Availability []string        `json:"availability"`
	Condition    []string        `json:"condition"`
	Category     []string        `json:"category"`
	MinPrice     decimal.Decimal `json:"min_price"`
	MaxPrice     decimal.Decimal `json:"max_price"`
	HasPrices    bool            `json:"has_prices"`
}

// CatalogReport holds the computed analytics over a normalized dataset.
type CatalogReport struct {
	TotalProducts  int              `json:"total_products"`
	DroppedRows    int              `json:"dropped_rows"`
	AveragePrice   decimal.Decimal  `json:"average_price"`
	MinPrice       decimal.Decimal  `json:"min_price"`
	MaxPrice       decimal.Decimal  `json:"max_price"`
	MostExpensive  *Product         `json:"most_expensive,omitempty"`
	ByCategory     map[Category]int `json:"by_category"`
	ByAvailability map[string]int   `json:"by_availability"`
	ByCondition    map[string]int   `json:"by_condition"`
	Facets         Facets           `json:"facets"`
}
