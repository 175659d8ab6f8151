// Package ddl compiles table schemas into CREATE TABLE statements. Everything
// here is pure and deterministic: the same schema always yields the same text.
package ddl

import (
	"fmt"
	"strings"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// Statement is a compiled table.
type Statement struct {
	TableName   string
	SQL         string
	Columns     []string // column names in declaration order
	PrimaryKey  []string
	ForeignKeys []schema.ForeignKeyConstraint
}

// CreateTable compiles t into a CREATE TABLE statement and returns it along
// with the resolved table name. Any invalid column aborts the whole table.
func CreateTable(t schema.TableSchema) (sql string, tableName string, err error) {
	stmt, err := Compile(t)
	if err != nil {
		return "", "", err
	}
	return stmt.SQL, stmt.TableName, nil
}

// Compile is CreateTable returning the resolved keys alongside the SQL.
func Compile(t schema.TableSchema) (Statement, error) {
	tableName := TableName(t)

	columns := make([]string, 0, len(t.Columns))
	var foreignKeys []schema.ForeignKeyConstraint
	for i, col := range t.Columns {
		def, err := CompileColumn(col)
		if err != nil {
			return Statement{}, fmt.Errorf("table %s: column #%d: %w", tableName, i+1, err)
		}
		columns = append(columns, def)

		fk, err := ResolveForeignKey(col)
		if err != nil {
			return Statement{}, fmt.Errorf("table %s: %w", tableName, err)
		}
		if fk != nil {
			foreignKeys = append(foreignKeys, *fk)
		}
	}

	primaryKeys := t.PKColumnNames()
	return Statement{
		TableName:   tableName,
		SQL:         AssembleCreateTable(t.IfNotExists, tableName, columns, primaryKeys, foreignKeys),
		Columns:     t.ColumnNames(),
		PrimaryKey:  primaryKeys,
		ForeignKeys: foreignKeys,
	}, nil
}

// CreateTableFor is CreateTable over a struct described with sql_table and
// sql_column tags (see schema.FromStruct).
func CreateTableFor(v any) (sql string, tableName string, err error) {
	t, err := schema.FromStruct(v)
	if err != nil {
		return "", "", err
	}
	return CreateTable(t)
}

// AssembleCreateTable joins column definitions, the primary key clause and
// foreign key clauses, one per line, into a single statement.
func AssembleCreateTable(ifNotExists bool, tableName string, columns, primaryKeys []string, foreignKeys []schema.ForeignKeyConstraint) string {
	clauses := make([]string, 0, len(columns)+1+len(foreignKeys))
	clauses = append(clauses, columns...)

	if len(primaryKeys) > 0 {
		clauses = append(clauses, "PRIMARY KEY ("+strings.Join(primaryKeys, ", ")+")")
	}
	for _, fk := range foreignKeys {
		clauses = append(clauses, foreignKeyClause(fk))
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE")
	if ifNotExists {
		b.WriteString(" IF NOT EXISTS")
	}
	b.WriteByte(' ')
	b.WriteString(tableName)
	b.WriteString(" (\n")
	b.WriteString(strings.Join(clauses, ",\n"))
	b.WriteString("\n);")
	return b.String()
}
