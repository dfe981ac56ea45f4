package delegate

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound is returned for unknown table identities
	ErrTableNotFound = errors.New("table not found")
	// ErrTableExists is returned when registering a table identity twice
	ErrTableExists = errors.New("table already registered")
	// ErrColumnNotFound is returned for columns the table does not declare
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnExists is returned when adding a column the table already declares
	ErrColumnExists = errors.New("column already declared")
)

func tableNotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrTableNotFound, id)
}

func columnNotFound(table, name string) error {
	return fmt.Errorf("%w: %s in table %s", ErrColumnNotFound, name, table)
}
