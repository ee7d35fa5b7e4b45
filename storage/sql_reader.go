package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"catalog-browser/models"
	"catalog-browser/utils"
)

// SQLSource reads every row of one table. The driver is "sqlite" or "postgres".
type SQLSource struct {
	driver string
	dsn    string
	table  string
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewSQLSource returns a Source over a database table. For SQLite an empty
// table selects the first user table by name.
func NewSQLSource(driver, dsn, table string, opts Options) *SQLSource {
	opts = opts.withDefaults()
	return &SQLSource{driver: driver, dsn: dsn, table: table, retry: opts.Retry, logger: opts.Logger}
}

// Identity stats the database file for SQLite. Postgres tables carry no
// version, so a cached copy stays current until it is reloaded or expires.
func (s *SQLSource) Identity(_ context.Context) (models.SourceIdentity, error) {
	if s.driver != "sqlite" {
		return models.SourceIdentity{URI: redactDSN(s.dsn) + "#" + s.table}, nil
	}
	uri := "sqlite://" + s.dsn + "#" + s.table
	id, err := statIdentity(sqlitePath(s.dsn))
	if err != nil {
		return models.SourceIdentity{}, err
	}
	id.URI = uri
	return id, nil
}

// Load connects (retrying the initial ping) and selects the whole table.
func (s *SQLSource) Load(ctx context.Context) (*models.RawTable, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", s.driver, err)
	}
	defer db.Close()

	if err := s.retry.Do(ctx, s.driver+" ping", db.PingContext); err != nil {
		return nil, err
	}

	table := s.table
	if table == "" {
		if s.driver != "sqlite" {
			return nil, fmt.Errorf("%s: no table configured", s.driver)
		}
		if table, err = firstUserTable(ctx, db); err != nil {
			return nil, fmt.Errorf("sqlite: find table: %w", err)
		}
		s.logger.Info("[sqlite] No table configured, using %q", table)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("%s: query %q: %w", s.driver, table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", s.driver, err)
	}

	out := &models.RawTable{Columns: columns}
	values := make([]any, len(columns))
	scans := make([]any, len(columns))
	for i := range values {
		scans[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scans...); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", s.driver, err)
		}
		row := make([]models.NullableString, len(columns))
		for i, v := range values {
			row[i] = sqlCell(v)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", s.driver, err)
	}
	return out, nil
}

// sqlCell formats a scanned value as text so it goes through the same NA and
// price handling as file cells.
func sqlCell(v any) models.NullableString {
	switch x := v.(type) {
	case nil:
		return models.Null()
	case []byte:
		return models.Cell(string(x))
	case string:
		return models.Cell(x)
	case int64:
		return models.Cell(strconv.FormatInt(x, 10))
	case float64:
		return models.Cell(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		return models.Cell(strconv.FormatBool(x))
	case time.Time:
		return models.Cell(x.Format(time.RFC3339))
	default:
		return models.Cell(fmt.Sprint(x))
	}
}

func firstUserTable(ctx context.Context, db *sql.DB) (string, error) {
	const q = `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT 1`
	var name string
	if err := db.QueryRowContext(ctx, q).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.New("no user tables found")
		}
		return "", err
	}
	return name, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

// redactDSN hides the password in a postgres URL so identities can be logged.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	if user, _, hasPw := strings.Cut(creds, ":"); hasPw {
		return scheme + "://" + user + ":***@" + host
	}
	return dsn
}
