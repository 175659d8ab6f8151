package ddl

import (
	"strings"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// CompileColumn renders one column definition. Constraints always appear in
// the order NOT NULL, UNIQUE, AUTOINCREMENT, DEFAULT.
func CompileColumn(col schema.ColumnSchema) (string, error) {
	if col.Name == "" {
		return "", schema.ErrMissingColumnIdentifier
	}

	sqlType := col.ColumnType
	if sqlType == "" {
		sqlType = MapType(col.Type)
	}

	var b strings.Builder
	b.WriteString(col.Name)
	b.WriteByte(' ')
	b.WriteString(sqlType)

	if col.NotNull {
		b.WriteString(" NOT NULL")
	}
	if col.Unique {
		b.WriteString(" UNIQUE")
	}
	if col.AutoIncrement {
		b.WriteString(" AUTOINCREMENT")
	}
	if col.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(col.Default)
	}

	return b.String(), nil
}
