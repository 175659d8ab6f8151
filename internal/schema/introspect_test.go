package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogBuilder(t *testing.T) {
	c := newCatalogBuilder()

	c.addColumn(columnRow{schema: "public", table: "users", column: "id", dataType: "bigint", notNull: true, defaultExpr: "nextval('users_id_seq'::regclass)"})
	c.addColumn(columnRow{schema: "public", table: "users", column: "email", dataType: "text", notNull: true})
	c.addColumn(columnRow{schema: "public", table: "posts", column: "id", dataType: "integer", notNull: true})
	c.addColumn(columnRow{schema: "public", table: "posts", column: "author_id", dataType: "bigint"})
	c.addColumn(columnRow{schema: "public", table: "posts", column: "editor_id", dataType: "bigint"})
	c.addColumn(columnRow{schema: "public", table: "posts", column: "published_at", dataType: "timestamp with time zone", defaultExpr: "now()"})
	c.addColumn(columnRow{schema: "public", table: "events", column: "id", dataType: "bigint", notNull: true, identity: true})

	c.markPrimaryKey("public", "users", "id")
	c.markPrimaryKey("public", "posts", "id")
	c.markPrimaryKey("public", "events", "id")
	c.markPrimaryKey("public", "ghost", "id")

	c.addUnique(uniqueRow{name: "users_email_key", schema: "public", table: "users", columns: []string{"email"}})
	c.addUnique(uniqueRow{name: "posts_pair_key", schema: "public", table: "posts", columns: []string{"author_id", "published_at"}})

	c.addForeignKey(foreignKeyRow{
		name: "posts_author_fk", schema: "public", table: "posts",
		columns: []string{"author_id"}, parentTable: "users", parentColumns: []string{"id"},
		onDelete: "c", onUpdate: "a",
	})
	c.addForeignKey(foreignKeyRow{
		name: "posts_editor_fk", schema: "public", table: "posts",
		columns: []string{"editor_id"}, parentTable: "users", parentColumns: []string{"id"},
		onDelete: "n", onUpdate: "r",
	})
	c.addForeignKey(foreignKeyRow{
		name: "posts_composite_fk", schema: "public", table: "posts",
		columns: []string{"author_id", "editor_id"}, parentTable: "pairs", parentColumns: []string{"a", "b"},
	})

	got := c.catalog()
	require.Len(t, got.Tables, 3)

	assert.Equal(t, TableSchema{
		Name: "users",
		Columns: []ColumnSchema{
			{Name: "id", ColumnType: "bigint", NotNull: true, PrimaryKey: true, Default: "nextval('users_id_seq'::regclass)"},
			{Name: "email", ColumnType: "text", NotNull: true, Unique: true},
		},
	}, got.Tables[0])

	assert.Equal(t, TableSchema{
		Name: "posts",
		Columns: []ColumnSchema{
			{Name: "id", ColumnType: "integer", NotNull: true, PrimaryKey: true},
			{Name: "author_id", ColumnType: "bigint", ForeignKey: "users.id", OnDelete: "CASCADE"},
			{Name: "editor_id", ColumnType: "bigint", ForeignKey: "users.id", OnDelete: "SET NULL", OnUpdate: "RESTRICT"},
			{Name: "published_at", ColumnType: "timestamp with time zone", Default: "now()"},
		},
	}, got.Tables[1])

	assert.Equal(t, TableSchema{
		Name: "events",
		Columns: []ColumnSchema{
			{Name: "id", ColumnType: "bigint", NotNull: true, PrimaryKey: true},
		},
	}, got.Tables[2])

	var skipped []string
	for _, s := range got.Skipped {
		skipped = append(skipped, s.String())
	}
	assert.Equal(t, []string{
		"public.users: sequence default nextval('users_id_seq'::regclass) (id)",
		"public.events: identity column (id)",
		"public.posts: unique posts_pair_key (author_id, published_at)",
		"public.posts: foreign key posts_composite_fk (author_id, editor_id)",
	}, skipped)
	assert.Equal(t, SkipSequenceDefault, got.Skipped[0].Kind)
	assert.Equal(t, SkipIdentity, got.Skipped[1].Kind)
}

func TestReferentialAction(t *testing.T) {
	for code, want := range map[string]string{
		"a": "",
		"r": "RESTRICT",
		"c": "CASCADE",
		"n": "SET NULL",
		"d": "SET DEFAULT",
		"":  "",
	} {
		assert.Equal(t, want, referentialAction(code), "code %q", code)
	}
}
