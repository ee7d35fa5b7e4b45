package storage

import (
	"context"

	"catalog-browser/models"
)

// Source is the interface any catalog backend must satisfy. Identity must be cheap; it
// decides whether a cached Dataset is still current. Load reads the whole table.
type Source interface {
	Identity(ctx context.Context) (models.SourceIdentity, error)
	Load(ctx context.Context) (*models.RawTable, error)
}

// ProductWriter is the interface for exporting a filtered view.
type ProductWriter interface {
	Write(products []models.Product) error
	Close() error
}

// WriteAll writes products and closes w, reporting the first error.
func WriteAll(w ProductWriter, products []models.Product) error {
	if err := w.Write(products); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
