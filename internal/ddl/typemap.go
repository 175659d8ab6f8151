package ddl

import "github.com/hurou927/db-ddl-gen/internal/schema"

// SQL types produced by MapType.
const (
	SQLText    = "TEXT"
	SQLInteger = "INTEGER"
	SQLBigint  = "BIGINT"
	SQLReal    = "REAL"
	SQLBoolean = "BOOLEAN"
	SQLUUID    = "UUID"
)

var sqlTypes = map[schema.FieldType]string{
	schema.TypeString:    SQLText,
	schema.TypeStringPtr: SQLText,
	schema.TypeInt8:      SQLInteger,
	schema.TypeInt16:     SQLInteger,
	schema.TypeInt32:     SQLInteger,
	schema.TypeUint8:     SQLInteger,
	schema.TypeUint16:    SQLInteger,
	schema.TypeUint32:    SQLInteger,
	schema.TypeInt64:     SQLBigint,
	schema.TypeUint64:    SQLBigint,
	schema.TypeFloat32:   SQLReal,
	schema.TypeFloat64:   SQLReal,
	schema.TypeBool:      SQLBoolean,
	schema.TypeUUID:      SQLUUID,
}

// MapType returns the default SQL type for a field type.
// Unrecognized types, including platform-sized int and uint, map to TEXT.
func MapType(t schema.FieldType) string {
	if sqlType, ok := sqlTypes[t]; ok {
		return sqlType
	}
	return SQLText
}
