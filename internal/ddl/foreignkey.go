package ddl

import (
	"strings"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// ResolveForeignKey parses the column's "table.column" reference.
// It returns nil without error when the column has no reference.
func ResolveForeignKey(col schema.ColumnSchema) (*schema.ForeignKeyConstraint, error) {
	if col.ForeignKey == "" {
		return nil, nil
	}

	parts := strings.Split(col.ForeignKey, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, &schema.InvalidForeignKeyFormatError{
			FieldName: col.Name,
			RawValue:  col.ForeignKey,
		}
	}

	return &schema.ForeignKeyConstraint{
		FieldName:        col.Name,
		ReferencedTable:  parts[0],
		ReferencedColumn: parts[1],
		OnDelete:         col.OnDelete,
		OnUpdate:         col.OnUpdate,
	}, nil
}

// foreignKeyClause renders a FOREIGN KEY table constraint.
func foreignKeyClause(fk schema.ForeignKeyConstraint) string {
	var b strings.Builder
	b.WriteString("FOREIGN KEY (")
	b.WriteString(fk.FieldName)
	b.WriteString(") REFERENCES ")
	b.WriteString(fk.ReferencedTable)
	b.WriteByte('(')
	b.WriteString(fk.ReferencedColumn)
	b.WriteByte(')')
	if fk.OnDelete != "" {
		b.WriteString(" ON DELETE ")
		b.WriteString(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		b.WriteString(" ON UPDATE ")
		b.WriteString(fk.OnUpdate)
	}
	return b.String()
}
