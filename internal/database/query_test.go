package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatap/datatap/filter"
)

func TestBuildSelect_EmptyFilterOmitsWhere(t *testing.T) {
	compiled, err := filter.NewCompiler().Compile(filter.Selector{})
	require.NoError(t, err)

	query, params := buildSelect("users", compiled)
	assert.Equal(t, `SELECT * FROM "users"`, query)
	assert.Empty(t, params)

	query, params = buildSelect("users", nil)
	assert.Equal(t, `SELECT * FROM "users"`, query)
	assert.Empty(t, params)
}

func TestBuildSelect_SplicesFragmentAndParams(t *testing.T) {
	compiled, err := filter.NewCompiler().CompileJSON([]byte(
		`{"operator": {"$and": [
			{"statement": {"age": {"$gte": 18}}},
			{"statement": {"country": {"$eq": "Germany"}}}
		]}}`))
	require.NoError(t, err)

	query, params := buildSelect("users", compiled)
	assert.Equal(t, `SELECT * FROM "users" WHERE (age >= :age) AND (country = :country)`, query)
	assert.Equal(t, map[string]any{"age": float64(18), "country": "Germany"}, params)
}

func TestBuildSelect_QuotesHostileTableNames(t *testing.T) {
	query, _ := buildSelect(`users"; DROP TABLE users; --`, nil)
	assert.Equal(t, `SELECT * FROM "users""; DROP TABLE users; --"`, query)
}

func TestDecodeRow_ConvertsByteSlices(t *testing.T) {
	row := decodeRow(map[string]any{
		"name":  []byte("John"),
		"age":   int64(30),
		"photo": nil,
	})
	assert.Equal(t, map[string]any{
		"name":  "John",
		"age":   int64(30),
		"photo": nil,
	}, row)
}
