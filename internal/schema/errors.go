package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumnIdentifier is returned for a column without a name.
	ErrMissingColumnIdentifier = errors.New("column has no name")

	// ErrUnsupportedSchemaShape is returned when the input is not a flat record of named fields.
	ErrUnsupportedSchemaShape = errors.New("unsupported schema shape")
)

// InvalidForeignKeyFormatError reports a foreign key reference that is not "table.column".
type InvalidForeignKeyFormatError struct {
	FieldName string
	RawValue  string
}

func (e *InvalidForeignKeyFormatError) Error() string {
	return fmt.Sprintf("invalid foreign key format on %q: %q, expected format: table.column", e.FieldName, e.RawValue)
}
