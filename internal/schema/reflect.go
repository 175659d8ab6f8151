package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stoewer/go-strcase"
)

// Table carries table-level options on a struct through its sql_table tag.
//
//	type User struct {
//		_     schema.Table `sql_table:"name=users,if_not_exists"`
//		ID    int64        `sql_column:"primary_key,auto_increment"`
//		Email string       `sql_column:"unique,not_null"`
//	}
type Table struct{}

const (
	tableTag  = "sql_table"
	columnTag = "sql_column"
)

var tableMarker = reflect.TypeOf(Table{})

// FromStruct builds a TableSchema from a struct value, a pointer to one, or its reflect.Type.
//
// Column names come from the name= option or the snake_case form of the Go
// field name. Unexported fields and fields tagged sql_column:"-" are skipped.
func FromStruct(v any) (TableSchema, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t == nil {
		return TableSchema{}, fmt.Errorf("%w: nil value", ErrUnsupportedSchemaShape)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return TableSchema{}, fmt.Errorf("%w: %s is a %s, not a struct", ErrUnsupportedSchemaShape, t, t.Kind())
	}

	ts := TableSchema{Identifier: t.Name()}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.Type == tableMarker {
			if err := applyTableOptions(&ts, f.Tag.Get(tableTag)); err != nil {
				return TableSchema{}, fmt.Errorf("%s: %w", t, err)
			}
			continue
		}
		if f.Anonymous {
			return TableSchema{}, fmt.Errorf("%w: embedded field %s in %s", ErrUnsupportedSchemaShape, f.Name, t)
		}

		tag := f.Tag.Get(columnTag)
		if tag == "-" || !f.IsExported() {
			continue
		}

		col := ColumnSchema{
			Name: strcase.SnakeCase(f.Name),
			Type: FieldType(f.Type.String()),
		}
		if err := applyColumnOptions(&col, tag); err != nil {
			return TableSchema{}, fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		ts.Columns = append(ts.Columns, col)
	}

	if ts.Identifier == "" && ts.Name == "" {
		return TableSchema{}, fmt.Errorf("%w: anonymous struct without a table name", ErrUnsupportedSchemaShape)
	}
	return ts, nil
}

func applyTableOptions(ts *TableSchema, tag string) error {
	opts, err := splitOptions(tag)
	if err != nil {
		return fmt.Errorf("%w in %s tag", err, tableTag)
	}
	for _, opt := range opts {
		key, value, hasValue := cutOption(opt)
		switch key {
		case "name":
			if !hasValue {
				return fmt.Errorf("%s option %q requires a value", tableTag, key)
			}
			ts.Name = value
		case "if_not_exists":
			if hasValue {
				return fmt.Errorf("%s option %q takes no value", tableTag, key)
			}
			ts.IfNotExists = true
		default:
			return fmt.Errorf("unknown %s option %q", tableTag, key)
		}
	}
	return nil
}

func applyColumnOptions(col *ColumnSchema, tag string) error {
	opts, err := splitOptions(tag)
	if err != nil {
		return fmt.Errorf("%w in %s tag", err, columnTag)
	}
	for _, opt := range opts {
		key, value, hasValue := cutOption(opt)

		var flag *bool
		var text *string
		switch key {
		case "primary_key":
			flag = &col.PrimaryKey
		case "not_null":
			flag = &col.NotNull
		case "unique":
			flag = &col.Unique
		case "auto_increment":
			flag = &col.AutoIncrement
		case "name":
			text = &col.Name
		case "column_type":
			text = &col.ColumnType
		case "default":
			text = &col.Default
		case "foreign_key":
			text = &col.ForeignKey
		case "on_delete":
			text = &col.OnDelete
		case "on_update":
			text = &col.OnUpdate
		default:
			return fmt.Errorf("unknown %s option %q", columnTag, key)
		}

		if flag != nil {
			if hasValue {
				return fmt.Errorf("%s option %q takes no value", columnTag, key)
			}
			*flag = true
			continue
		}
		if !hasValue {
			return fmt.Errorf("%s option %q requires a value", columnTag, key)
		}
		*text = value
	}
	return nil
}

func cutOption(opt string) (key, value string, hasValue bool) {
	key, value, hasValue = strings.Cut(opt, "=")
	return strings.TrimSpace(key), strings.TrimSpace(value), hasValue
}

// splitOptions splits a tag on commas that are outside parentheses and quotes,
// so values like default=COALESCE(a, 'x,y') stay intact. An unterminated quote
// or unbalanced parenthesis is an error rather than one option swallowing the
// rest of the tag.
func splitOptions(tag string) ([]string, error) {
	var (
		opts  []string
		depth int
		quote rune
		start int
	)
	for i, r := range tag {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth == 0 {
				return nil, fmt.Errorf("unexpected ')' at offset %d", i)
			}
			depth--
		case r == ',' && depth == 0:
			opts = append(opts, tag[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote %c", quote)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unclosed '('")
	}
	opts = append(opts, tag[start:])

	out := opts[:0]
	for _, o := range opts {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out, nil
}
