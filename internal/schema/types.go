package schema

// FieldType names the declared type of a field (e.g. "int32", "string", "uuid.UUID").
// Matching against it is exact and case-sensitive.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeStringPtr FieldType = "*string"
	TypeInt8      FieldType = "int8"
	TypeInt16     FieldType = "int16"
	TypeInt32     FieldType = "int32"
	TypeInt64     FieldType = "int64"
	TypeUint8     FieldType = "uint8"
	TypeUint16    FieldType = "uint16"
	TypeUint32    FieldType = "uint32"
	TypeUint64    FieldType = "uint64"
	TypeFloat32   FieldType = "float32"
	TypeFloat64   FieldType = "float64"
	TypeBool      FieldType = "bool"
	TypeUUID      FieldType = "uuid.UUID"
)

// ColumnSchema describes one table column. Empty optional strings mean "not set".
type ColumnSchema struct {
	Name string    `yaml:"name"`
	Type FieldType `yaml:"type,omitempty"`

	// ColumnType replaces the mapped SQL type entirely when set.
	ColumnType string `yaml:"column_type,omitempty"`

	NotNull       bool `yaml:"not_null,omitempty"`
	Unique        bool `yaml:"unique,omitempty"`
	AutoIncrement bool `yaml:"auto_increment,omitempty"`
	PrimaryKey    bool `yaml:"primary_key,omitempty"`

	Default    string `yaml:"default,omitempty"`     // raw SQL, emitted verbatim
	ForeignKey string `yaml:"foreign_key,omitempty"` // "table.column"
	OnDelete   string `yaml:"on_delete,omitempty"`
	OnUpdate   string `yaml:"on_update,omitempty"`
}

// TableSchema describes one table to generate.
type TableSchema struct {
	// Identifier is the declaring type's name, used when Name is empty.
	Identifier  string         `yaml:"identifier,omitempty"`
	Name        string         `yaml:"name,omitempty"`
	IfNotExists bool           `yaml:"if_not_exists,omitempty"`
	Columns     []ColumnSchema `yaml:"columns"`
}

// ColumnNames returns all column names in declaration order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PKColumnNames returns the names of columns flagged as primary key, in declaration order.
func (t *TableSchema) PKColumnNames() []string {
	var names []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			names = append(names, c.Name)
		}
	}
	return names
}

// ForeignKeyConstraint is derived from a column carrying a foreign key reference.
type ForeignKeyConstraint struct {
	FieldName        string
	ReferencedTable  string
	ReferencedColumn string
	OnDelete         string
	OnUpdate         string
}
