// Package client executes SQL against ClickHouse through database/sql.
// The driver is chosen by dialect: native protocol, MySQL or PostgreSQL interface.
package client

import (
	"context"
	"database/sql"
	"fmt"

	"chorm/internal/dialect"
	"chorm/internal/schema"
)

type Client struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// Open connects with the driver's DSN built from cfg and checks the connection.
func Open(ctx context.Context, driver string, cfg dialect.ConnConfig) (*Client, error) {
	d := dialect.GetDialect(driver)
	return OpenDSN(ctx, driver, d.DSN(cfg))
}

// OpenDSN connects with a ready-made DSN.
func OpenDSN(ctx context.Context, driver, dsn string) (*Client, error) {
	d := dialect.GetDialect(driver)
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return New(db, d), nil
}

// New wraps an already opened pool.
func New(db *sql.DB, d dialect.Dialect) *Client {
	return &Client{db: db, dialect: d}
}

func (c *Client) DB() *sql.DB              { return c.db }
func (c *Client) Dialect() dialect.Dialect { return c.dialect }

func (c *Client) Close() error {
	return c.db.Close()
}

// Exec runs a statement that returns no rows. Driver errors are returned as is.
func (c *Client) Exec(ctx context.Context, query string) (sql.Result, error) {
	return c.db.ExecContext(ctx, query)
}

// Query runs a SELECT and decodes every row into a column -> value map.
// Byte slices from text protocols are returned as strings.
func (c *Client) Query(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, name := range cols {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Columns introspects database.table through the system catalog.
func (c *Client) Columns(ctx context.Context, database, table string) (*schema.TableMetadata, error) {
	return schema.Introspect(ctx, c.db, c.dialect, database, table)
}
