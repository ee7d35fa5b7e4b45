package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"catalog-browser/models"
)

const utf8BOM = "\ufeff"

// CSVSource reads a delimited text file from the local filesystem.
type CSVSource struct {
	path      string
	delimiter rune
}

// NewCSVSource returns a Source for the file at path.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{path: path, delimiter: delimiter}
}

// Identity uses the file's modification time and size as its version.
func (s *CSVSource) Identity(_ context.Context) (models.SourceIdentity, error) {
	return statIdentity(s.path)
}

// Load reads every record in the file. The first record is the header row.
func (s *CSVSource) Load(_ context.Context) (*models.RawTable, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	table, err := ReadDelimited(f, s.delimiter)
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", s.path, err)
	}
	return table, nil
}

// ReadDelimited parses a delimited stream into a RawTable. Rows may be ragged;
// missing cells read as null.
func ReadDelimited(r io.Reader, delimiter rune) (*models.RawTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	table := models.NewRawTable(header, records)
	table.Lines = lines
	return table, nil
}

func statIdentity(path string) (models.SourceIdentity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.SourceIdentity{}, fmt.Errorf("storage: stat %q: %w", path, err)
	}
	return models.SourceIdentity{
		URI:     path,
		Version: fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()),
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}
