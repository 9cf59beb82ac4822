package schema

import (
	"fmt"
	"strings"
)

// UnknownTableError is returned when the target table does not exist.
type UnknownTableError struct {
	Table string
}

func (e UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table: %s", e.Table)
}

// UnknownColumnsError is returned when a filter references fields that are
// not columns of the target table.
type UnknownColumnsError struct {
	Table   string
	Columns []string
}

func (e UnknownColumnsError) Error() string {
	return fmt.Sprintf("unknown columns on table %s: %s", e.Table, strings.Join(e.Columns, ", "))
}
