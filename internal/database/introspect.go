package database

import (
	"context"
	"fmt"
)

const tablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
	ORDER BY table_name`

const columnsQuery = `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = 'public' AND table_name = $1
	ORDER BY ordinal_position`

// Tables returns the names of all tables in the public schema.
func (c *Client) Tables(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := c.db.SelectContext(ctx, &names, tablesQuery); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// Columns returns the column names of a table in ordinal order. A table
// that does not exist yields an empty list, not an error.
func (c *Client) Columns(ctx context.Context, table string) ([]string, error) {
	names := []string{}
	if err := c.db.SelectContext(ctx, &names, columnsQuery, table); err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	return names, nil
}
