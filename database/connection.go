package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"querychart/chart"
)

// PgxSource executes queries on a Postgres connection pool.
type PgxSource struct {
	pool *pgxpool.Pool
}

// OpenPgx creates a pool for dsn and verifies it with a ping.
func OpenPgx(ctx context.Context, dsn string, maxConns int32) (*PgxSource, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PgxSource{pool: pool}, nil
}

// Query runs sql and collects every row.
func (s *PgxSource) Query(ctx context.Context, sql string) (chart.TabularResult, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return chart.TabularResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	res := chart.TabularResult{Headers: make([]string, len(fields)), Rows: []chart.Row{}}
	for i, fd := range fields {
		res.Headers[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return chart.TabularResult{}, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(chart.Row, len(values))
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

// Schema lists the columns of every table in the public schema.
func (s *PgxSource) Schema(ctx context.Context) ([]TableSchema, error) {
	rows, err := s.pool.Query(ctx, postgresSchemaQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	defer rows.Close()

	var cols []schemaColumn
	for rows.Next() {
		var c schemaColumn
		var nullable string
		if err := rows.Scan(&c.table, &c.Name, &c.Type, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}
		c.Nullable = nullable == "YES"
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return groupColumns(cols), nil
}

// Close releases the pool.
func (s *PgxSource) Close() error {
	s.pool.Close()
	return nil
}
