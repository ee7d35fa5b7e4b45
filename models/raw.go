package models

import "strings"

// NullableString is a raw cell value that may be missing.
type NullableString struct {
	Value string
	Valid bool
}

// naTokens mirrors the spellings spreadsheet exports and dataframes treat as missing.
var naTokens = func() map[string]struct{} {
	tokens := []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
	}
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}()

// Cell builds a NullableString from raw text, treating NA spellings as null.
func Cell(raw string) NullableString {
	if _, na := naTokens[strings.TrimSpace(raw)]; na {
		return NullableString{}
	}
	return NullableString{Value: raw, Valid: true}
}

// Null is the missing cell.
func Null() NullableString { return NullableString{} }

// Or returns the value, or fallback when null.
func (n NullableString) Or(fallback string) string {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// RawTable is a source dataset before normalization: headers plus rows of optional cells.
type RawTable struct {
	Columns []string
	Rows    [][]NullableString
	// Lines holds the 1-based source row of each entry in Rows when the
	// reader skips rows. Nil means row i sits on line i+2, under the header.
	Lines []int
}

// Line returns the source row number of row r.
func (t *RawTable) Line(r int) int {
	if r >= 0 && r < len(t.Lines) {
		return t.Lines[r]
	}
	return r + 2
}

// Value returns the cell at row r, column c, or null when the row is short.
func (t *RawTable) Value(r, c int) NullableString {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return NullableString{}
	}
	return t.Rows[r][c]
}

// NewRawTable converts string records into a RawTable. Every cell goes through Cell.
func NewRawTable(columns []string, records [][]string) *RawTable {
	t := &RawTable{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]NullableString, 0, len(records)),
	}
	for _, rec := range records {
		row := make([]NullableString, len(rec))
		for i, v := range rec {
			row[i] = Cell(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
