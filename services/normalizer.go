package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"catalog-browser/models"
	"catalog-browser/utils"
)

// ErrMissingColumn marks a required semantic field that no header matches.
var ErrMissingColumn = errors.New("required column not found")

// ColumnError reports which field failed to resolve and against which headers.
type ColumnError struct {
	Field   models.Field
	Term    string
	Columns []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: no header contains %q (field %s, headers %q)",
		ErrMissingColumn, e.Term, e.Field, e.Columns)
}

func (e *ColumnError) Unwrap() error { return ErrMissingColumn }

var requiredFields = map[models.Field]bool{
	models.FieldProductName:  true,
	models.FieldSellingPrice: true,
}

// Normalizer turns a RawTable into a typed, immutable Dataset.
type Normalizer struct {
	logger *utils.Logger
	terms  FieldTerms
	now    func() time.Time
}

// NewNormalizer creates a Normalizer. A nil terms map selects DefaultFieldTerms.
func NewNormalizer(logger *utils.Logger, terms FieldTerms) *Normalizer {
	if terms == nil {
		terms = DefaultFieldTerms()
	}
	return &Normalizer{logger: logger, terms: terms, now: time.Now}
}

// Normalize trims headers, resolves the semantic fields, fills missing names, assigns
// categories and drops rows whose selling price is not numeric. Only an unresolvable
// required column is an error.
func (n *Normalizer) Normalize(table *models.RawTable, source models.SourceIdentity) (*models.Dataset, error) {
	columns := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		columns[i] = strings.TrimSpace(c)
	}

	index, mapping, err := n.resolveFields(columns)
	if err != nil {
		return nil, err
	}

	records := make([]models.Product, 0, len(table.Rows))
	dropped := 0

	for r := range table.Rows {
		cell := func(f models.Field) models.NullableString {
			i, ok := index[f]
			if !ok {
				return models.Null()
			}
			return table.Value(r, i)
		}

		rawPrice := cell(models.FieldSellingPrice)
		price, ok := coercePrice(rawPrice)
		if !ok {
			dropped++
			n.logger.Debug("[normalizer] Row %d dropped: selling price %q is not numeric", table.Line(r), rawPrice.Value)
			continue
		}

		rawName := cell(models.FieldProductName)

		records = append(records, models.Product{
			Row:           table.Line(r),
			Name:          rawName.Or(models.UnknownName),
			Category:      CategorizeNullable(rawName),
			Availability:  cell(models.FieldAvailability).Or(""),
			Condition:     cell(models.FieldCondition).Or(""),
			ImageURL:      strings.TrimSpace(cell(models.FieldImageURL).Or("")),
			OriginalPrice: strings.TrimSpace(cell(models.FieldOriginalPrice).Or("")),
			SellingPrice:  price,
		})
	}

	n.logger.Info("[normalizer] Normalized %d → %d products (dropped %d non-numeric prices)",
		len(table.Rows), len(records), dropped)

	return models.NewDataset(records, models.DatasetMeta{
		Source:   source,
		Columns:  mapping,
		RawRows:  len(table.Rows),
		Dropped:  dropped,
		LoadedAt: n.now(),
	}), nil
}

func (n *Normalizer) resolveFields(columns []string) (map[models.Field]int, map[models.Field]string, error) {
	position := make(map[string]int, len(columns))
	for i := len(columns) - 1; i >= 0; i-- {
		position[columns[i]] = i
	}

	index := make(map[models.Field]int)
	mapping := make(map[models.Field]string)

	for _, f := range models.Fields() {
		term := n.terms[f]
		matches := MatchingColumns(columns, term)
		if len(matches) == 0 {
			if requiredFields[f] {
				return nil, nil, &ColumnError{Field: f, Term: term, Columns: columns}
			}
			n.logger.Warn("[normalizer] No column matches %q; %s will be empty", term, f)
			continue
		}
		if len(matches) > 1 {
			n.logger.Warn("[normalizer] %d columns match %q (%s); using %q",
				len(matches), term, strings.Join(matches, ", "), matches[0])
		}
		index[f] = position[matches[0]]
		mapping[f] = matches[0]
	}
	return index, mapping, nil
}

// coercePrice parses a selling price. Missing, blank or non-numeric values fail.
func coercePrice(raw models.NullableString) (decimal.Decimal, bool) {
	if !raw.Valid {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw.Value))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
