package filter

import "fmt"

// UnknownOperatorError is returned by strict-mode compiles when a
// statement uses an operator outside the supported set.
type UnknownOperatorError struct {
	Field    string
	Operator Operator
}

func (e UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %s on field %s", e.Operator, e.Field)
}
