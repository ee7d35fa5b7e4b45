package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Field names a semantic attribute that must be matched to a source column.
type Field string

const (
	FieldAvailability  Field = "availability"
	FieldCondition     Field = "condition"
	FieldImageURL      Field = "image_url"
	FieldOriginalPrice Field = "original_price"
	FieldSellingPrice  Field = "selling_price"
	FieldProductName   Field = "product_name"
)

// Fields lists the six semantic fields in resolution order.
func Fields() []Field {
	return []Field{
		FieldAvailability,
		FieldCondition,
		FieldImageURL,
		FieldOriginalPrice,
		FieldSellingPrice,
		FieldProductName,
	}
}

// SourceIdentity identifies one version of a catalog source. Two loads with equal
// identities are expected to produce the same Dataset.
type SourceIdentity struct {
	URI     string    `json:"uri"`
	Version string    `json:"version"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// Key renders the identity as a cache key.
func (s SourceIdentity) Key() string {
	return s.URI + "|" + s.Version
}

// DatasetMeta describes how a Dataset was built.
type DatasetMeta struct {
	Source   SourceIdentity   `json:"source"`
	Columns  map[Field]string `json:"columns"`
	RawRows  int              `json:"raw_rows"`
	Dropped  int              `json:"dropped"`
	LoadedAt time.Time        `json:"loaded_at"`
}

// Dataset is the ordered, immutable result of normalization. Every record carries a
// valid selling price and a non-empty name.
type Dataset struct {
	records []Product
	meta    DatasetMeta
}

// NewDataset copies records into a new Dataset.
func NewDataset(records []Product, meta DatasetMeta) *Dataset {
	cols := make(map[Field]string, len(meta.Columns))
	for k, v := range meta.Columns {
		cols[k] = v
	}
	meta.Columns = cols
	return &Dataset{records: append([]Product(nil), records...), meta: meta}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record.
func (d *Dataset) At(i int) Product {
	return d.records[i]
}

// Records returns a copy of all records in source order.
func (d *Dataset) Records() []Product {
	if d == nil {
		return nil
	}
	return append([]Product(nil), d.records...)
}

// Meta returns load metadata. The column map is copied.
func (d *Dataset) Meta() DatasetMeta {
	m := d.meta
	m.Columns = make(map[Field]string, len(d.meta.Columns))
	for k, v := range d.meta.Columns {
		m.Columns[k] = v
	}
	return m
}

// Dropped returns how many source rows failed selling-price coercion.
func (d *Dataset) Dropped() int {
	return d.meta.Dropped
}

// PriceBounds returns the minimum and maximum selling price. ok is false for an empty dataset.
func (d *Dataset) PriceBounds() (min, max decimal.Decimal, ok bool) {
	if d.Len() == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	min, max = d.records[0].SellingPrice, d.records[0].SellingPrice
	for _, p := range d.records[1:] {
		if p.SellingPrice.LessThan(min) {
			min = p.SellingPrice
		}
		if p.SellingPrice.GreaterThan(max) {
			max = p.SellingPrice
		}
	}
	return min, max, true
}

// datasetJSON is the wire form used by shared caches.
type datasetJSON struct {
	Records []Product   `json:"records"`
	Meta    DatasetMeta `json:"meta"`
}

// MarshalJSON encodes records and metadata.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(datasetJSON{Records: d.records, Meta: d.meta})
}

// UnmarshalJSON decodes a Dataset previously produced by MarshalJSON.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	var w datasetJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	d.records = w.Records
	d.meta = w.Meta
	return nil
}
