package storage

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"catalog-browser/utils"
)

// ErrUnsupportedSource is returned when a source URI names no known backend.
var ErrUnsupportedSource = errors.New("unsupported catalog source")

// Options tunes how a source URI is opened.
type Options struct {
	Delimiter   rune   // CSV field separator; 0 picks ',' or '\t' for .tsv
	Table       string // SQL table; empty picks the first user table (SQLite only)
	Sheet       string // Excel sheet; empty picks the first sheet
	HTTPTimeout time.Duration
	Retry       *utils.RetryConfig
	Logger      *utils.Logger
}

// Open maps a URI to a Source:
//
//	items.csv, items.tsv, /abs/path.txt       delimited file
//	items.xlsx                                Excel workbook
//	sqlite:///path/catalog.db?table=items     SQLite table (also *.db, *.sqlite files)
//	postgres://user:pw@host/db?table=items    Postgres table
//	https://host/items.csv                    remote delimited file
func Open(uri string, opts Options) (Source, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	}
	opts = opts.withDefaults()

	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewHTTPSource(uri, opts), nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		dsn, table, err := splitTableParam(uri)
		if err != nil {
			return nil, err
		}
		if table == "" {
			table = opts.Table
		}
		return NewSQLSource("postgres", dsn, table, opts), nil
	case strings.HasPrefix(lower, "sqlite://"):
		path, table, err := splitTableParam(uri[len("sqlite://"):])
		if err != nil {
			return nil, err
		}
		if table == "" {
			table = opts.Table
		}
		return NewSQLSource("sqlite", path, table, opts), nil
	case strings.Contains(lower, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, uri)
	}

	switch strings.ToLower(filepath.Ext(uri)) {
	case ".xlsx", ".xlsm":
		return NewXLSXSource(uri, opts.Sheet), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLSource("sqlite", uri, opts.Table, opts), nil
	default:
		return NewCSVSource(uri, delimiterFor(uri, opts.Delimiter)), nil
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = utils.NopLogger()
	}
	if o.Retry == nil {
		o.Retry = &utils.RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Logger: o.Logger}
	}
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = 30 * time.Second
	}
	return o
}

// splitTableParam removes the table query parameter so the rest can go to the driver.
func splitTableParam(raw string) (string, string, error) {
	base, query, found := strings.Cut(raw, "?")
	if !found {
		return raw, "", nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", "", fmt.Errorf("storage: parse source query: %w", err)
	}
	table := values.Get("table")
	values.Del("table")
	if enc := values.Encode(); enc != "" {
		base += "?" + enc
	}
	return base, table, nil
}

func delimiterFor(path string, configured rune) rune {
	if configured != 0 {
		return configured
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// LocalPath returns the file behind uri when the source is a local file, so
// callers can watch it for changes.
func LocalPath(uri string) (string, bool) {
	uri = strings.TrimSpace(uri)
	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "sqlite://"):
		path, _, _ := strings.Cut(uri[len("sqlite://"):], "?")
		return sqlitePath(path), path != ""
	case strings.Contains(lower, "://"), uri == "":
		return "", false
	default:
		return uri, true
	}
}
