package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// Order controls the sequence in which tables are written.
type Order string

const (
	// OrderDependency writes referenced tables before the tables that reference them.
	OrderDependency Order = "dependency"
	// OrderDeclaration keeps the order tables are declared in.
	OrderDeclaration Order = "declaration"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Connection    Connection           `yaml:"connection"`
	Schemas       []string             `yaml:"schemas"`
	ExcludeTables []string             `yaml:"exclude_tables"`
	Output        string               `yaml:"output"`
	Transaction   bool                 `yaml:"transaction"`
	Order         Order                `yaml:"order"`
	Tables        []schema.TableSchema `yaml:"tables"`
}

// Connection holds database connection parameters used by introspection.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN builds a postgres:// connection URL. Values are percent-encoded and an
// empty password is left out so pgx can fall back to .pgpass.
func (c *Connection) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	switch {
	case c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", c.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML config data. Unknown keys are rejected so that typos in
// column options do not silently drop constraints.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// applyEnv fills in empty Connection fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	conn := &c.Connection
	if conn.Host == "" {
		conn.Host = envOr("PGHOST", "POSTGRES_HOST")
	}
	if conn.Port == 0 {
		if s := envOr("PGPORT", "POSTGRES_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr("PGDATABASE", "POSTGRES_DB")
	}
	if conn.User == "" {
		conn.User = envOr("PGUSER", "POSTGRES_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr("PGPASSWORD", "POSTGRES_PASSWORD")
	}
	if conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// validate fills defaults and checks settings shared by all commands.
func (c *Config) validate() error {
	if c.Connection.Port == 0 {
		c.Connection.Port = 5432
	}
	if c.Connection.SSLMode == "" {
		c.Connection.SSLMode = "disable"
	}
	if len(c.Schemas) == 0 {
		c.Schemas = []string{"public"}
	}
	switch c.Order {
	case "":
		c.Order = OrderDependency
	case OrderDependency, OrderDeclaration:
	default:
		return fmt.Errorf("order must be %q or %q, got %q", OrderDependency, OrderDeclaration, c.Order)
	}
	for i, t := range c.Tables {
		if t.Identifier == "" && t.Name == "" {
			return fmt.Errorf("tables[%d]: identifier or name is required", i)
		}
	}
	return nil
}

// ValidateForGenerate checks additional fields required for generation.
func (c *Config) ValidateForGenerate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be defined in config")
	}
	return nil
}

// ValidateForIntrospect checks the connection fields required to read a catalog.
func (c *Config) ValidateForIntrospect() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if c.Connection.Database == "" {
		return fmt.Errorf("connection.database is required")
	}
	if c.Connection.User == "" {
		return fmt.Errorf("connection.user is required")
	}
	return nil
}

// ExcludeSet returns a set of excluded table names for O(1) lookup.
func (c *Config) ExcludeSet() map[string]bool {
	set := make(map[string]bool, len(c.ExcludeTables))
	for _, t := range c.ExcludeTables {
		set[t] = true
	}
	return set
}
