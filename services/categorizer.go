package services

import (
	"strings"

	"catalog-browser/models"
)

type keywordGroup struct {
	category models.Category
	keywords []string
}

// keywordGroups are tested in order; the first group with any keyword wins.
// The groups overlap ("electric pan"), so the order decides the label.
var keywordGroups = []keywordGroup{
	{models.CategoryTVEntertainment, []string{"tv", "entertainment", "monitor"}},
	{models.CategoryClothing, []string{"clothing", "jacket", "helmet"}},
	{models.CategoryElectronics, []string{"electronics", "speaker", "electric", "laptop"}},
	{models.CategoryCookware, []string{"cook", "pan", "pot", "blender", "kettle", "knife"}},
}

// Categorize maps a product name to exactly one category by substring keyword match.
func Categorize(name string) models.Category {
	lower := strings.ToLower(name)
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.category
			}
		}
	}
	return models.CategoryOther
}

// CategorizeNullable returns Other for a missing name.
func CategorizeNullable(name models.NullableString) models.Category {
	if !name.Valid {
		return models.CategoryOther
	}
	return Categorize(name.Value)
}
