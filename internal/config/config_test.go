package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearPGEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PGHOST", "POSTGRES_HOST", "PGPORT", "POSTGRES_PORT", "PGDATABASE", "POSTGRES_DB",
		"PGUSER", "POSTGRES_USER", "PGPASSWORD", "POSTGRES_PASSWORD", "PGSSLMODE",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad(t *testing.T) {
	clearPGEnv(t)
	path := writeConfig(t, `
output: schema.sql
transaction: true
order: declaration
tables:
  - identifier: ComplexTable
    if_not_exists: true
    columns:
      - name: id
        type: int32
        primary_key: true
        auto_increment: true
      - name: user_id
        type: int32
        foreign_key: users.id
        on_delete: CASCADE
      - name: email
        type: string
        unique: true
        not_null: true
      - name: created_at
        type: string
        default: NOW()
  - identifier: User
    name: users
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateForGenerate())

	assert.Equal(t, "schema.sql", cfg.Output)
	assert.True(t, cfg.Transaction)
	assert.Equal(t, OrderDeclaration, cfg.Order)
	assert.Equal(t, []string{"public"}, cfg.Schemas)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, "disable", cfg.Connection.SSLMode)

	require.Len(t, cfg.Tables, 2)
	assert.Equal(t, schema.TableSchema{
		Identifier:  "ComplexTable",
		IfNotExists: true,
		Columns: []schema.ColumnSchema{
			{Name: "id", Type: schema.TypeInt32, PrimaryKey: true, AutoIncrement: true},
			{Name: "user_id", Type: schema.TypeInt32, ForeignKey: "users.id", OnDelete: "CASCADE"},
			{Name: "email", Type: schema.TypeString, Unique: true, NotNull: true},
			{Name: "created_at", Type: schema.TypeString, Default: "NOW()"},
		},
	}, cfg.Tables[0])
	assert.Equal(t, "users", cfg.Tables[1].Name)
	assert.Empty(t, cfg.Tables[1].Columns)
}

func TestLoad_Defaults(t *testing.T) {
	clearPGEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, OrderDependency, cfg.Order)
	assert.False(t, cfg.Transaction)
	assert.Error(t, cfg.ValidateForGenerate())
	assert.Error(t, cfg.ValidateForIntrospect())
}

func TestLoad_Errors(t *testing.T) {
	clearPGEnv(t)

	cases := map[string]struct {
		content string
		want    string
	}{
		"unknown_key": {
			content: "tables:\n  - identifier: A\n    if_not_exist: true\n",
			want:    "if_not_exist",
		},
		"bad_order": {
			content: "order: random\n",
			want:    `order must be "dependency" or "declaration"`,
		},
		"unnamed_table": {
			content: "tables:\n  - columns: []\n",
			want:    "tables[0]: identifier or name is required",
		},
		"malformed_yaml": {
			content: "tables: [\n",
			want:    "parsing config file",
		},
	}
	for name, c := range cases {
		_, err := Load(writeConfig(t, c.content))
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), c.want, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestApplyEnv(t *testing.T) {
	clearPGEnv(t)
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_DB", "app")
	t.Setenv("PGUSER", "reader")
	t.Setenv("PGSSLMODE", "require")

	cfg, err := Load(writeConfig(t, "connection:\n  user: owner\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateForIntrospect())

	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, 6543, cfg.Connection.Port)
	assert.Equal(t, "app", cfg.Connection.Database)
	assert.Equal(t, "owner", cfg.Connection.User, "YAML wins over env")
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "postgres://owner@db.internal:6543/app?sslmode=require", cfg.Connection.DSN())
}

func TestConnectionDSN(t *testing.T) {
	clearPGEnv(t)
	t.Setenv("PGPASSFILE", filepath.Join(t.TempDir(), "pgpass"))

	cases := map[string]struct {
		conn     Connection
		password string
	}{
		"empty_password": {
			conn: Connection{Host: "localhost", Port: 5432, Database: "app", User: "app", SSLMode: "disable"},
		},
		"password_with_space": {
			conn:     Connection{Host: "localhost", Port: 5432, Database: "app", User: "app", Password: "p ss", SSLMode: "disable"},
			password: "p ss",
		},
		"password_with_quotes_and_separators": {
			conn:     Connection{Host: "localhost", Port: 5432, Database: "app", User: "app", Password: `o'k"@:/?=`, SSLMode: "disable"},
			password: `o'k"@:/?=`,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			pc, err := pgxpool.ParseConfig(c.conn.DSN())
			require.NoError(t, err)
			assert.Equal(t, "localhost", pc.ConnConfig.Host)
			assert.Equal(t, uint16(5432), pc.ConnConfig.Port)
			assert.Equal(t, "app", pc.ConnConfig.Database)
			assert.Equal(t, "app", pc.ConnConfig.User)
			assert.Equal(t, c.password, pc.ConnConfig.Password)
			assert.Nil(t, pc.ConnConfig.TLSConfig, "sslmode=disable must not enable TLS")
		})
	}
}

func TestExcludeSet(t *testing.T) {
	cfg := &Config{ExcludeTables: []string{"audit_log", "tmp"}}
	set := cfg.ExcludeSet()
	assert.True(t, set["audit_log"])
	assert.True(t, set["tmp"])
	assert.False(t, set["users"])
}
