package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"catalog-browser/models"
)

var exportHeader = []string{
	"row", "product_name", "category", "availability", "condition",
	"selling_price", "original_price", "image_url",
}

// CSVWriter exports products as CSV. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter writes the header row to w and returns a writer for the rows.
// Close flushes; it closes w only when the writer was created by CreateCSVFile.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	return &CSVWriter{writer: cw}, nil
}

// CreateCSVFile creates (or truncates) the file at path and writes the header
// row. Intermediate directories are created automatically.
func CreateCSVFile(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write appends one row per product, in order.
func (c *CSVWriter) Write(products []models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range products {
		row := []string{
			strconv.Itoa(p.Row),
			p.Name,
			p.Category.String(),
			p.Availability,
			p.Condition,
			p.SellingPrice.String(),
			p.OriginalPrice,
			p.ImageURL,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file, if any.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
