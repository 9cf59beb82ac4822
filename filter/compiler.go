package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Compiler translates selector trees into parameterized SQL fragments.
// The zero value is usable; a Compiler holds no per-compile state and is
// safe for concurrent use.
type Compiler struct {
	emptyFragment string
	strict        bool
	logger        zerolog.Logger
}

// NewCompiler creates a new Compiler.
func NewCompiler(options ...Option) *Compiler {
	compiler := &Compiler{logger: zerolog.Nop()}
	for _, option := range options {
		if option != nil {
			option(compiler)
		}
	}
	return compiler
}

// CompileJSON decodes a JSON-encoded selector and compiles it.
func (c *Compiler) CompileJSON(raw []byte) (*CompiledFilter, error) {
	var selector Selector
	if err := json.Unmarshal(raw, &selector); err != nil {
		return nil, fmt.Errorf("decode selector: %w", err)
	}
	return c.Compile(selector)
}

// Compile renders a selector into a CompiledFilter. Malformed nodes
// degrade to empty contributions rather than failing; the only error in
// lenient mode is none at all, and in strict mode an UnknownOperatorError.
//
// Values never end up in the fragment text. Field names and operator
// symbols are the only interpolated strings, and referenced fields are
// expected to be checked against the table schema before the fragment is
// executed.
func (c *Compiler) Compile(selector Selector) (*CompiledFilter, error) {
	compiled := &CompiledFilter{
		Params: map[string]any{},
		fields: map[string]struct{}{},
	}

	fragment, err := c.compileRoot(selector, compiled)
	if err != nil {
		return nil, err
	}
	if fragment == "" {
		fragment = c.emptyFragment
	}
	compiled.Fragment = fragment
	return compiled, nil
}

// compileRoot handles the two root shapes: a group, whose joined children
// are returned without extra parentheses, and a bare statement, which is
// parenthesized as a whole.
func (c *Compiler) compileRoot(selector Selector, compiled *CompiledFilter) (string, error) {
	if selector.Operator != nil {
		return c.compileGroup(selector.Operator, compiled)
	}
	if selector.Statement != nil {
		fragment, err := c.compileStatement(selector.Statement, compiled)
		if err != nil || fragment == "" {
			return "", err
		}
		return "(" + fragment + ")", nil
	}
	return "", nil
}

// compileGroup compiles each child, parenthesizes the non-empty results
// and joins them with the group's connective. Children that compile to
// nothing are dropped so the joined result stays well-formed.
func (c *Compiler) compileGroup(group *Group, compiled *CompiledFilter) (string, error) {
	joiner, ok := connectiveJoiners[group.Connective]
	if !ok {
		return "", nil
	}

	parts := make([]string, 0, len(group.Children))
	for _, child := range group.Children {
		var fragment string
		var err error
		switch {
		case child.Operator != nil:
			fragment, err = c.compileGroup(child.Operator, compiled)
		case child.Statement != nil:
			fragment, err = c.compileStatement(child.Statement, compiled)
		}
		if err != nil {
			return "", err
		}
		if fragment != "" {
			parts = append(parts, "("+fragment+")")
		}
	}
	return strings.Join(parts, joiner), nil
}

// compileStatement renders every condition of the statement joined with
// " AND ". Fields and operators are visited in sorted order so output is
// deterministic regardless of map iteration.
//
// Placeholders derive from the field name alone, so a range like
// {"age": {"$gte": 18, "$lte": 30}} renders both comparisons against a
// single :age placeholder and the value processed last is the one bound.
func (c *Compiler) compileStatement(statement Statement, compiled *CompiledFilter) (string, error) {
	fields := make([]string, 0, len(statement))
	for field := range statement {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		compiled.fields[field] = struct{}{}
		placeholder := placeholderName(field)

		for _, operator := range sortedOperators(statement[field]) {
			symbol, ok := sqlOperators[operator]
			if !ok {
				if c.strict {
					return "", UnknownOperatorError{Field: field, Operator: operator}
				}
				c.logger.Debug().
					Str("field", field).
					Str("operator", string(operator)).
					Msg("skipping unsupported operator")
				continue
			}
			parts = append(parts, field+" "+symbol+" :"+placeholder)
			compiled.Params[placeholder] = statement[field][operator]
		}
	}
	return strings.Join(parts, " AND "), nil
}

// placeholderName turns a field name into a valid named-parameter
// identifier. Only the dot needs renaming for fields like "user.name".
func placeholderName(field string) string {
	return strings.ReplaceAll(field, ".", "_")
}

func sortedOperators(conditions Conditions) []Operator {
	operators := make([]Operator, 0, len(conditions))
	for operator := range conditions {
		operators = append(operators, operator)
	}
	sort.Slice(operators, func(i, j int) bool { return operators[i] < operators[j] })
	return operators
}
