package services

import (
	"catalog-browser/models"
	"catalog-browser/utils"
)

// Apply returns the records matching every dimension of c, in their original order.
// It never mutates its inputs; an empty result is a valid answer.
func Apply(records []models.Product, c models.FilterCriteria) []models.Product {
	out := make([]models.Product, 0, len(records))
	for _, p := range records {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

// ApplyDataset filters a whole Dataset.
func ApplyDataset(ds *models.Dataset, c models.FilterCriteria) []models.Product {
	return Apply(ds.Records(), c)
}

// FullRange returns criteria that let every record of ds through.
func FullRange(ds *models.Dataset) models.FilterCriteria {
	min, max, _ := ds.PriceBounds()
	return models.FilterCriteria{Price: models.PriceRange{Min: min, Max: max}}
}

func matches(p models.Product, c models.FilterCriteria) bool {
	if !c.Price.Contains(p.SellingPrice) {
		return false
	}
	return selected(c.Availability, p.Availability) &&
		selected(c.Condition, p.Condition) &&
		selected(c.Category, string(p.Category))
}

// selected passes everything when nothing is selected for the dimension.
func selected(set *utils.StringSet, v string) bool {
	return set.Size() == 0 || set.Contains(v)
}
