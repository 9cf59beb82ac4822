// Package schema validates compiled filters against the live table layout
// before any SQL is executed.
package schema

import (
	"context"
	"fmt"
	"slices"

	"github.com/datatap/datatap/filter"
)

// Catalog looks up table and column names. The database layer implements
// it over information_schema; both calls may block on the database.
type Catalog interface {
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]string, error)
}

// Guard rejects compiled filters that reference an unknown table or
// fields that are not columns of that table. It fails closed: on any
// rejection the caller must discard the compiled fragment and parameters
// entirely rather than execute partial SQL.
type Guard struct {
	catalog Catalog
}

// NewGuard creates a Guard over the given catalog.
func NewGuard(catalog Catalog) *Guard {
	return &Guard{catalog: catalog}
}

// Approve verifies that the table exists and that every field referenced
// by the compiled filter is one of its columns. On success it returns the
// compiled filter unchanged for the caller to splice into a WHERE clause.
func (g *Guard) Approve(ctx context.Context, table string, compiled *filter.CompiledFilter) (*filter.CompiledFilter, error) {
	tables, err := g.catalog.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if !slices.Contains(tables, table) {
		return nil, UnknownTableError{Table: table}
	}

	columns, err := g.catalog.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	known := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		known[column] = struct{}{}
	}

	var missing []string
	for _, field := range compiled.Fields() {
		if _, ok := known[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, UnknownColumnsError{Table: table, Columns: missing}
	}
	return compiled, nil
}
