package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   schema.FieldType
		want string
	}{
		{"string", "TEXT"},
		{"*string", "TEXT"},
		{"int8", "INTEGER"},
		{"int16", "INTEGER"},
		{"int32", "INTEGER"},
		{"uint8", "INTEGER"},
		{"uint16", "INTEGER"},
		{"uint32", "INTEGER"},
		{"int64", "BIGINT"},
		{"uint64", "BIGINT"},
		{"float32", "REAL"},
		{"float64", "REAL"},
		{"bool", "BOOLEAN"},
		{"uuid.UUID", "UUID"},
		// fallbacks
		{"", "TEXT"},
		{"int", "TEXT"},
		{"time.Time", "TEXT"},
		{"Int32", "TEXT"},
		{"UUID", "TEXT"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MapType(c.in), "MapType(%q)", c.in)
	}
}
