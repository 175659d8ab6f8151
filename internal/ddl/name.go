package ddl

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// TableName returns the explicit table name if set, otherwise the snake_case
// form of the schema identifier (User -> user, ComplexTable -> complex_table).
func TableName(t schema.TableSchema) string {
	if t.Name != "" {
		return t.Name
	}
	return snakeCase(t.Identifier)
}

// snakeCase inserts an underscore before every upper-case rune except the
// first one, then lower-cases the result.
func snakeCase(ident string) string {
	var b strings.Builder
	b.Grow(len(ident) + 4)
	for i, r := range ident {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return cases.Lower(language.Und).String(b.String())
}
