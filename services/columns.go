package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"catalog-browser/models"
)

// FieldTerms maps each semantic field to the header substring that identifies it.
type FieldTerms map[models.Field]string

// DefaultFieldTerms returns the header search terms of the stock catalog export.
// "Availibilty" is misspelled on purpose: it matches the source header literally.
func DefaultFieldTerms() FieldTerms {
	return FieldTerms{
		models.FieldAvailability:  "Availibilty",
		models.FieldCondition:     "Condition",
		models.FieldImageURL:      "Image URL",
		models.FieldOriginalPrice: "Original Price",
		models.FieldSellingPrice:  "Selling Price",
		models.FieldProductName:   "Product Name",
	}
}

// WithOverrides returns a copy of t where non-empty overrides replace the defaults.
func (t FieldTerms) WithOverrides(overrides map[models.Field]string) FieldTerms {
	out := make(FieldTerms, len(t))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// ResolveColumn returns the first column, in original order, whose case-folded name
// contains the case-folded term.
func ResolveColumn(columns []string, term string) (string, bool) {
	needle := foldHeader(term)
	for _, col := range columns {
		if strings.Contains(foldHeader(col), needle) {
			return col, true
		}
	}
	return "", false
}

// MatchingColumns returns every column matching term, in original order.
func MatchingColumns(columns []string, term string) []string {
	needle := foldHeader(term)
	var out []string
	for _, col := range columns {
		if strings.Contains(foldHeader(col), needle) {
			out = append(out, col)
		}
	}
	return out
}

// foldHeader applies NFKC then Unicode case folding. A Caser is stateful, so one is
// built per call.
func foldHeader(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
