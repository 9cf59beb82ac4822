package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatap/datatap/filter"
	"github.com/datatap/datatap/schema"
)

type fakeCatalog struct {
	tables map[string][]string
	err    error
}

func (f *fakeCatalog) Tables(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeCatalog) Columns(ctx context.Context, table string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tables[table], nil
}

func compileJSON(t *testing.T, selector string) *filter.CompiledFilter {
	t.Helper()
	compiled, err := filter.NewCompiler().CompileJSON([]byte(selector))
	require.NoError(t, err)
	return compiled
}

func TestGuard_ApproveReturnsTheFilterUnchanged(t *testing.T) {
	catalog := &fakeCatalog{tables: map[string][]string{
		"users": {"name", "age", "country"},
	}}
	guard := schema.NewGuard(catalog)

	compiled := compileJSON(t, `{"operator": {"$and": [
		{"statement": {"age": {"$gte": 18}}},
		{"statement": {"country": {"$eq": "Germany"}}}
	]}}`)

	approved, err := guard.Approve(context.Background(), "users", compiled)
	require.NoError(t, err)
	assert.Same(t, compiled, approved)
}

func TestGuard_RejectsUnknownTable(t *testing.T) {
	guard := schema.NewGuard(&fakeCatalog{tables: map[string][]string{
		"users": {"name", "age"},
	}})

	compiled := compileJSON(t, `{"statement": {"age": {"$eq": 30}}}`)

	_, err := guard.Approve(context.Background(), "orders", compiled)
	var unknownTable schema.UnknownTableError
	require.ErrorAs(t, err, &unknownTable)
	assert.Equal(t, "orders", unknownTable.Table)
}

func TestGuard_RejectsUnknownColumns(t *testing.T) {
	guard := schema.NewGuard(&fakeCatalog{tables: map[string][]string{
		"users": {"name", "age"},
	}})

	compiled := compileJSON(t, `{"operator": {"$and": [
		{"statement": {"age": {"$gte": 18}}},
		{"statement": {"country": {"$eq": "Germany"}}}
	]}}`)

	_, err := guard.Approve(context.Background(), "users", compiled)
	var unknownColumns schema.UnknownColumnsError
	require.ErrorAs(t, err, &unknownColumns)
	assert.Equal(t, "users", unknownColumns.Table)
	assert.Equal(t, []string{"country"}, unknownColumns.Columns)
}

func TestGuard_RejectsFieldsWithUnsupportedOperatorsOnly(t *testing.T) {
	// A field whose every operator was skipped still counts as referenced
	// and still has to exist.
	guard := schema.NewGuard(&fakeCatalog{tables: map[string][]string{
		"users": {"name", "age"},
	}})

	compiled := compileJSON(t, `{"statement": {"country": {"$within": 5}}}`)
	require.True(t, compiled.Empty())

	_, err := guard.Approve(context.Background(), "users", compiled)
	var unknownColumns schema.UnknownColumnsError
	require.ErrorAs(t, err, &unknownColumns)
	assert.Equal(t, []string{"country"}, unknownColumns.Columns)
}

func TestGuard_PropagatesCatalogErrors(t *testing.T) {
	catalogErr := errors.New("connection reset")
	guard := schema.NewGuard(&fakeCatalog{err: catalogErr})

	compiled := compileJSON(t, `{"statement": {"age": {"$eq": 30}}}`)

	_, err := guard.Approve(context.Background(), "users", compiled)
	require.ErrorIs(t, err, catalogErr)
}
