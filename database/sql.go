package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
	"querychart/chart"
)

// Driver names accepted by OpenSQL.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLSource executes queries through database/sql.
type SQLSource struct {
	DB     *sql.DB
	driver string
}

// OpenSQL opens dsn with a registered database/sql driver and pings it.
func OpenSQL(ctx context.Context, driver, dsn string, maxConns int) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// every connection to ":memory:" is a separate database
		db.SetMaxOpenConns(1)
	} else if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return NewSQLSource(db, driver), nil
}

// NewSQLSource wraps an open handle. driver selects the schema dialect.
func NewSQLSource(db *sql.DB, driver string) *SQLSource {
	return &SQLSource{DB: db, driver: driver}
}

// Query runs query and collects every row.
func (s *SQLSource) Query(ctx context.Context, query string) (chart.TabularResult, error) {
	if s.DB == nil {
		return chart.TabularResult{}, errors.New("database connection not established")
	}
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return chart.TabularResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanRows(rows)
}

// Schema lists table columns using the dialect of the driver.
func (s *SQLSource) Schema(ctx context.Context) ([]TableSchema, error) {
	if s.DB == nil {
		return nil, errors.New("database connection not established")
	}
	q := postgresSchemaQuery
	if s.driver == DriverSQLite {
		q = sqliteSchemaQuery
	}
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []schemaColumn
	for rows.Next() {
		var c schemaColumn
		var nullable any
		if err := rows.Scan(&c.table, &c.Name, &c.Type, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		c.Nullable = isNullable(s.driver, nullable)
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return groupColumns(cols), nil
}

// Close closes the handle.
func (s *SQLSource) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// isNullable reads is_nullable ("YES"/"NO") for Postgres and the notnull
// flag (0/1) for sqlite.
func isNullable(driver string, v any) bool {
	v = normalizeValue(v)
	if driver == DriverSQLite {
		return chart.Coerce(v) == 0
	}
	s, _ := v.(string)
	return s == "YES"
}

func scanRows(rows *sql.Rows) (chart.TabularResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return chart.TabularResult{}, err
	}

	res := chart.TabularResult{Headers: cols, Rows: []chart.Row{}}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return chart.TabularResult{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(chart.Row, len(cols))
		for i, v := range values {
			row[i] = normalizeValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return chart.TabularResult{}, fmt.Errorf("error after iterating rows: %w", err)
	}
	return res, nil
}
