package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellTreatsNATokensAsNull(t *testing.T) {
	for _, raw := range []string{"", "  ", "NaN", "N/A", "null", "None", "<NA>"} {
		assert.False(t, Cell(raw).Valid, "Cell(%q) should be null", raw)
	}
	c := Cell("Smart TV")
	assert.True(t, c.Valid)
	assert.Equal(t, "Smart TV", c.Or(UnknownName))
	assert.Equal(t, UnknownName, Null().Or(UnknownName))
}

func TestRawTableValueShortRow(t *testing.T) {
	tbl := NewRawTable([]string{"a", "b"}, [][]string{{"1"}})
	assert.True(t, tbl.Value(0, 0).Valid)
	assert.False(t, tbl.Value(0, 1).Valid)
	assert.False(t, tbl.Value(5, 0).Valid)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" TV & Entertainment ")
	assert.True(t, ok)
	assert.Equal(t, CategoryTVEntertainment, c)

	_, ok = ParseCategory("Toys")
	assert.False(t, ok)
}

func TestPriceRangeInclusive(t *testing.T) {
	r := PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(20)}
	assert.True(t, r.Contains(decimal.NewFromInt(10)))
	assert.True(t, r.Contains(decimal.NewFromInt(20)))
	assert.False(t, r.Contains(decimal.RequireFromString("20.01")))
	assert.False(t, r.Contains(decimal.RequireFromString("9.99")))
}

func TestDatasetIsImmutable(t *testing.T) {
	records := []Product{{Name: "A", SellingPrice: decimal.NewFromInt(1)}}
	ds := NewDataset(records, DatasetMeta{Columns: map[Field]string{FieldProductName: "Product Name"}})

	records[0].Name = "mutated"
	assert.Equal(t, "A", ds.At(0).Name)

	out := ds.Records()
	out[0].Name = "mutated"
	assert.Equal(t, "A", ds.At(0).Name)

	meta := ds.Meta()
	meta.Columns[FieldProductName] = "other"
	assert.Equal(t, "Product Name", ds.Meta().Columns[FieldProductName])
}

func TestDatasetPriceBounds(t *testing.T) {
	ds := NewDataset([]Product{
		{Name: "a", SellingPrice: decimal.NewFromInt(300)},
		{Name: "b", SellingPrice: decimal.NewFromInt(45)},
		{Name: "c", SellingPrice: decimal.RequireFromString("99.5")},
	}, DatasetMeta{})

	min, max, ok := ds.PriceBounds()
	require.True(t, ok)
	assert.Equal(t, "45", min.String())
	assert.Equal(t, "300", max.String())

	_, _, ok = NewDataset(nil, DatasetMeta{}).PriceBounds()
	assert.False(t, ok)
}

func TestDatasetJSONRoundTrip(t *testing.T) {
	ds := NewDataset([]Product{
		{Row: 2, Name: "Smart TV 50in", Category: CategoryTVEntertainment, SellingPrice: decimal.NewFromInt(300)},
	}, DatasetMeta{Dropped: 1, RawRows: 2, Source: SourceIdentity{URI: "items.csv", Version: "v1"}})

	b, err := json.Marshal(ds)
	require.NoError(t, err)

	var back Dataset
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, 1, back.Len())
	assert.Equal(t, "Smart TV 50in", back.At(0).Name)
	assert.True(t, back.At(0).SellingPrice.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 1, back.Dropped())
	assert.Equal(t, "items.csv|v1", back.Meta().Source.Key())
}

func TestOriginalPriceValue(t *testing.T) {
	v, ok := Product{OriginalPrice: " 499.99 "}.OriginalPriceValue()
	assert.True(t, ok)
	assert.Equal(t, "499.99", v.String())

	_, ok = Product{OriginalPrice: "call us"}.OriginalPriceValue()
	assert.False(t, ok)
}
