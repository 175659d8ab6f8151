package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Kinds of SkippedConstraint.
const (
	SkipCompositeUnique     = "unique"
	SkipCompositeForeignKey = "foreign key"
	SkipSequenceDefault     = "sequence default"
	SkipIdentity            = "identity column"
)

// SkippedConstraint is a catalog feature the generated DDL does not
// reproduce: a composite UNIQUE or FOREIGN KEY, a default drawing from a
// sequence that is never created, or an identity column.
type SkippedConstraint struct {
	Table   string // schema.table
	Name    string // constraint name or default expression; empty for identity columns
	Kind    string
	Columns []string
}

func (s SkippedConstraint) String() string {
	if s.Name == "" {
		return fmt.Sprintf("%s: %s (%s)", s.Table, s.Kind, strings.Join(s.Columns, ", "))
	}
	return fmt.Sprintf("%s: %s %s (%s)", s.Table, s.Kind, s.Name, strings.Join(s.Columns, ", "))
}

// Catalog is the result of introspecting a database.
type Catalog struct {
	Tables  []TableSchema
	Skipped []SkippedConstraint
}

// Introspect queries PostgreSQL catalogs and returns every ordinary table in
// the given schemas as a TableSchema. Only read-only catalog queries are run.
//
// Column types are taken verbatim from format_type and stored as ColumnType,
// defaults from pg_get_expr. Table names and foreign key references are
// unqualified.
func Introspect(ctx context.Context, pool *pgxpool.Pool, schemas []string) (*Catalog, error) {
	c := newCatalogBuilder()

	if err := queryTablesAndColumns(ctx, pool, schemas, c); err != nil {
		return nil, fmt.Errorf("querying tables and columns: %w", err)
	}

	if err := queryPrimaryKeys(ctx, pool, schemas, c); err != nil {
		return nil, fmt.Errorf("querying primary keys: %w", err)
	}

	if err := queryUniqueConstraints(ctx, pool, schemas, c); err != nil {
		return nil, fmt.Errorf("querying unique constraints: %w", err)
	}

	if err := queryForeignKeys(ctx, pool, schemas, c); err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}

	return c.catalog(), nil
}

func queryTablesAndColumns(ctx context.Context, pool *pgxpool.Pool, schemas []string, c *catalogBuilder) error {
	query := `
		SELECT
			n.nspname AS schema_name,
			c.relname AS table_name,
			a.attname AS column_name,
			format_type(a.atttypid, a.atttypmod) AS data_type,
			a.attnotnull AS not_null,
			pg_get_expr(d.adbin, d.adrelid) AS default_expr,
			a.attidentity <> '' AS is_identity
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_attribute a ON a.attrelid = c.oid
		LEFT JOIN pg_attrdef d ON d.adrelid = c.oid AND d.adnum = a.attnum
		WHERE c.relkind = 'r'
			AND a.attnum > 0
			AND NOT a.attisdropped
			AND n.nspname = ANY($1)
		ORDER BY n.nspname, c.relname, a.attnum
	`

	rows, err := pool.Query(ctx, query, schemas)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r columnRow
		var def *string
		if err := rows.Scan(&r.schema, &r.table, &r.column, &r.dataType, &r.notNull, &def, &r.identity); err != nil {
			return err
		}
		if def != nil {
			r.defaultExpr = *def
		}
		c.addColumn(r)
	}

	return rows.Err()
}

func queryPrimaryKeys(ctx context.Context, pool *pgxpool.Pool, schemas []string, c *catalogBuilder) error {
	query := `
		SELECT
			n.nspname AS schema_name,
			c.relname AS table_name,
			a.attname AS column_name
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = u.attnum
		WHERE con.contype = 'p'
			AND n.nspname = ANY($1)
		ORDER BY n.nspname, c.relname, u.ord
	`

	rows, err := pool.Query(ctx, query, schemas)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var schemaName, tableName, colName string
		if err := rows.Scan(&schemaName, &tableName, &colName); err != nil {
			return err
		}
		c.markPrimaryKey(schemaName, tableName, colName)
	}

	return rows.Err()
}

func queryUniqueConstraints(ctx context.Context, pool *pgxpool.Pool, schemas []string, c *catalogBuilder) error {
	query := `
		SELECT
			con.conname AS constraint_name,
			n.nspname AS schema_name,
			c.relname AS table_name,
			array_agg(a.attname ORDER BY u.ord) AS columns
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		CROSS JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS u(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum = u.attnum
		WHERE con.contype = 'u'
			AND n.nspname = ANY($1)
		GROUP BY con.conname, n.nspname, c.relname
		ORDER BY n.nspname, c.relname, con.conname
	`

	rows, err := pool.Query(ctx, query, schemas)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r uniqueRow
		if err := rows.Scan(&r.name, &r.schema, &r.table, &r.columns); err != nil {
			return err
		}
		c.addUnique(r)
	}

	return rows.Err()
}

func queryForeignKeys(ctx context.Context, pool *pgxpool.Pool, schemas []string, c *catalogBuilder) error {
	query := `
		SELECT
			con.conname AS fk_name,
			cn.nspname AS child_schema,
			cc.relname AS child_table,
			array_agg(ca.attname ORDER BY u.ord) AS child_columns,
			pc.relname AS parent_table,
			array_agg(pa.attname ORDER BY u.ord) AS parent_columns,
			con.confdeltype::text AS on_delete,
			con.confupdtype::text AS on_update
		FROM pg_constraint con
		JOIN pg_class cc ON cc.oid = con.conrelid
		JOIN pg_namespace cn ON cn.oid = cc.relnamespace
		JOIN pg_class pc ON pc.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS u(child_attnum, parent_attnum, ord)
		JOIN pg_attribute ca ON ca.attrelid = cc.oid AND ca.attnum = u.child_attnum
		JOIN pg_attribute pa ON pa.attrelid = pc.oid AND pa.attnum = u.parent_attnum
		WHERE con.contype = 'f'
			AND cn.nspname = ANY($1)
		GROUP BY con.conname, cn.nspname, cc.relname, pc.relname, con.confdeltype, con.confupdtype
		ORDER BY cn.nspname, cc.relname, con.conname
	`

	rows, err := pool.Query(ctx, query, schemas)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r foreignKeyRow
		if err := rows.Scan(&r.name, &r.schema, &r.table, &r.columns,
			&r.parentTable, &r.parentColumns, &r.onDelete, &r.onUpdate); err != nil {
			return err
		}
		c.addForeignKey(r)
	}

	return rows.Err()
}

type columnRow struct {
	schema      string
	table       string
	column      string
	dataType    string
	notNull     bool
	defaultExpr string
	identity    bool
}

type uniqueRow struct {
	name    string
	schema  string
	table   string
	columns []string
}

type foreignKeyRow struct {
	name          string
	schema        string
	table         string
	columns       []string
	parentTable   string
	parentColumns []string
	onDelete      string // pg_constraint.confdeltype code
	onUpdate      string // pg_constraint.confupdtype code
}

// catalogBuilder assembles catalog rows into TableSchemas, keeping the order
// in which tables and columns were first seen.
type catalogBuilder struct {
	order   []string
	tables  map[string]*TableSchema
	skipped []SkippedConstraint
}

func newCatalogBuilder() *catalogBuilder {
	return &catalogBuilder{tables: make(map[string]*TableSchema)}
}

func (c *catalogBuilder) addColumn(r columnRow) {
	key := r.schema + "." + r.table
	tbl, ok := c.tables[key]
	if !ok {
		tbl = &TableSchema{Name: r.table}
		c.tables[key] = tbl
		c.order = append(c.order, key)
	}
	tbl.Columns = append(tbl.Columns, ColumnSchema{
		Name:       r.column,
		ColumnType: r.dataType,
		NotNull:    r.notNull,
		Default:    r.defaultExpr,
	})

	// The default is kept verbatim; the sequence itself is not generated.
	if strings.HasPrefix(r.defaultExpr, "nextval(") {
		c.skip(r.schema, r.table, r.defaultExpr, SkipSequenceDefault, []string{r.column})
	}
	if r.identity {
		c.skip(r.schema, r.table, "", SkipIdentity, []string{r.column})
	}
}

func (c *catalogBuilder) column(schemaName, tableName, colName string) *ColumnSchema {
	tbl, ok := c.tables[schemaName+"."+tableName]
	if !ok {
		return nil
	}
	for i := range tbl.Columns {
		if tbl.Columns[i].Name == colName {
			return &tbl.Columns[i]
		}
	}
	return nil
}

func (c *catalogBuilder) markPrimaryKey(schemaName, tableName, colName string) {
	if col := c.column(schemaName, tableName, colName); col != nil {
		col.PrimaryKey = true
	}
}

func (c *catalogBuilder) addUnique(r uniqueRow) {
	if len(r.columns) != 1 {
		c.skip(r.schema, r.table, r.name, SkipCompositeUnique, r.columns)
		return
	}
	if col := c.column(r.schema, r.table, r.columns[0]); col != nil {
		col.Unique = true
	}
}

func (c *catalogBuilder) addForeignKey(r foreignKeyRow) {
	if len(r.columns) != 1 || len(r.parentColumns) != 1 {
		c.skip(r.schema, r.table, r.name, SkipCompositeForeignKey, r.columns)
		return
	}
	col := c.column(r.schema, r.table, r.columns[0])
	if col == nil {
		return
	}
	col.ForeignKey = r.parentTable + "." + r.parentColumns[0]
	col.OnDelete = referentialAction(r.onDelete)
	col.OnUpdate = referentialAction(r.onUpdate)
}

func (c *catalogBuilder) skip(schemaName, tableName, name, kind string, columns []string) {
	c.skipped = append(c.skipped, SkippedConstraint{
		Table:   schemaName + "." + tableName,
		Name:    name,
		Kind:    kind,
		Columns: columns,
	})
}

func (c *catalogBuilder) catalog() *Catalog {
	out := &Catalog{
		Tables:  make([]TableSchema, 0, len(c.order)),
		Skipped: c.skipped,
	}
	for _, key := range c.order {
		out.Tables = append(out.Tables, *c.tables[key])
	}
	return out
}

// referentialAction maps a pg_constraint action code to its SQL keyword.
// NO ACTION is the default and maps to "".
func referentialAction(code string) string {
	switch code {
	case "c":
		return "CASCADE"
	case "n":
		return "SET NULL"
	case "d":
		return "SET DEFAULT"
	case "r":
		return "RESTRICT"
	default:
		return ""
	}
}
