package storage

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"catalog-browser/models"
)

// XLSXSource reads one sheet of an Excel workbook.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource returns a Source for the workbook at path. An empty sheet
// selects the first sheet in the workbook.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

func (s *XLSXSource) Identity(_ context.Context) (models.SourceIdentity, error) {
	return statIdentity(s.path)
}

// Load reads the sheet. Empty rows are skipped; the first non-empty row is
// the header.
func (s *XLSXSource) Load(_ context.Context) (*models.RawTable, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: %q has no sheets", s.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	header := 0
	for header < len(rows) && len(rows[header]) == 0 {
		header++
	}
	if header == len(rows) {
		return nil, fmt.Errorf("xlsx: sheet %q is empty", sheet)
	}
	var (
		records [][]string
		lines   []int
	)
	for i := header + 1; i < len(rows); i++ {
		if len(rows[i]) > 0 {
			records = append(records, rows[i])
			lines = append(lines, i+1)
		}
	}
	table := models.NewRawTable(rows[header], records)
	table.Lines = lines
	return table, nil
}
