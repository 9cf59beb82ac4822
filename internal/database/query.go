package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/datatap/datatap/filter"
)

// SelectWhere dumps the rows of a table, narrowed by the compiled filter
// when it carries a condition. The table name must have been validated
// against the schema beforehand; it is still quoted defensively.
func (c *Client) SelectWhere(ctx context.Context, table string, compiled *filter.CompiledFilter) ([]map[string]any, error) {
	query, params := buildSelect(table, compiled)

	rows, err := c.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	results := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row from %s: %w", table, err)
		}
		results = append(results, decodeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows from %s: %w", table, err)
	}
	return results, nil
}

// buildSelect assembles the final statement. The WHERE clause is omitted
// entirely when the filter compiled to nothing.
func buildSelect(table string, compiled *filter.CompiledFilter) (string, map[string]any) {
	query := "SELECT * FROM " + pq.QuoteIdentifier(table)
	params := map[string]any{}
	if compiled != nil && !compiled.Empty() {
		query += " WHERE " + compiled.Fragment
		params = compiled.Params
	}
	return query, params
}

// decodeRow makes scanned values JSON-friendly; lib/pq hands text columns
// back as []byte.
func decodeRow(row map[string]any) map[string]any {
	for column, value := range row {
		if b, ok := value.([]byte); ok {
			row[column] = string(b)
		}
	}
	return row
}
