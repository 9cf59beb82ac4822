package filter

import (
	"encoding/json"
	"sort"
)

// Operator is a comparison operator as it appears on the wire.
type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
)

// sqlOperators is the closed set of supported comparisons. Operators
// missing from this table are skipped in lenient mode and rejected with
// UnknownOperatorError in strict mode.
var sqlOperators = map[Operator]string{
	OpEq:  "=",
	OpNe:  "!=",
	OpLt:  "<",
	OpLte: "<=",
	OpGt:  ">",
	OpGte: ">=",
}

// Connective joins the children of a Group.
type Connective string

const (
	And Connective = "$and"
	Or  Connective = "$or"
)

var connectiveJoiners = map[Connective]string{
	And: " AND ",
	Or:  " OR ",
}

// Conditions maps operators to the scalar values they compare against.
type Conditions map[Operator]any

// Statement is a leaf of the selector tree: one or more fields, each with
// one or more conditions. Several operators on the same field express a
// range and are joined with AND.
type Statement map[string]Conditions

// Group is an inner node of the selector tree: a single connective over an
// ordered list of child nodes.
type Group struct {
	Connective Connective
	Children   []Node
}

// UnmarshalJSON decodes the single-key wire form {"$and": [...]} or
// {"$or": [...]}. An object without a known connective decodes to an empty
// group, which compiles to nothing.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw map[Connective][]Node
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, connective := range []Connective{And, Or} {
		if children, ok := raw[connective]; ok {
			g.Connective = connective
			g.Children = children
			return nil
		}
	}
	return nil
}

// MarshalJSON encodes the group back into its single-key wire form.
func (g Group) MarshalJSON() ([]byte, error) {
	if g.Connective == "" {
		return []byte("{}"), nil
	}
	return json.Marshal(map[Connective][]Node{g.Connective: g.Children})
}

// Node is one selector tree node: a Statement, a Group, or (degenerately)
// both or neither. When both are set the group takes precedence and the
// statement is ignored; when neither is set the node compiles to nothing.
type Node struct {
	Statement Statement `json:"statement,omitempty"`
	Operator  *Group    `json:"operator,omitempty"`
}

// Selector is the root of a filter tree. The zero value selects everything.
type Selector = Node

// CompiledFilter is the result of compiling a Selector: a boolean SQL
// expression with named :placeholders, the values bound to them, and the
// set of field names the selector referenced.
type CompiledFilter struct {
	// Fragment is the boolean expression, or "" when the selector was
	// empty. Callers splice it into a statement as "WHERE <Fragment>" and
	// omit the clause entirely when it is empty.
	Fragment string

	// Params maps placeholder names to bound values. Placeholders derive
	// from field names (dots replaced with underscores), so two operators
	// on the same field share one placeholder and the value bound last
	// wins.
	Params map[string]any

	fields map[string]struct{}
}

// Fields returns the referenced field names in sorted order.
func (f *CompiledFilter) Fields() []string {
	names := make([]string, 0, len(f.fields))
	for name := range f.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasField reports whether the selector referenced the given field.
func (f *CompiledFilter) HasField(name string) bool {
	_, ok := f.fields[name]
	return ok
}

// Empty reports whether compilation produced no condition at all.
func (f *CompiledFilter) Empty() bool {
	return f.Fragment == ""
}
