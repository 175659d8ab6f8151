package cmd

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hurou927/db-ddl-gen/internal/db"
	"github.com/hurou927/db-ddl-gen/internal/schema"
)

var (
	introspectOutput string
	introspectDDL    bool
)

// tablesDocument is the YAML shape written by introspect; it can be pasted
// into a config file as-is.
type tablesDocument struct {
	Tables []schema.TableSchema `yaml:"tables"`
}

var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Read table schemas from a PostgreSQL database",
	Long:  `Connects to the database, reads table definitions from the system catalogs with read-only queries, and writes them as a YAML tables document or as DDL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateForIntrospect(); err != nil {
			return err
		}

		ctx := context.Background()

		pool, err := db.NewPool(ctx, &cfg.Connection)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		catalog, err := schema.Introspect(ctx, pool, cfg.Schemas)
		if err != nil {
			return fmt.Errorf("introspecting schema: %w", err)
		}
		for _, s := range catalog.Skipped {
			log.WithField("kind", s.Kind).Warnf("not reproduced in generated DDL: %s", s)
		}

		tables, err := selectTables(catalog.Tables, nil, cfg.ExcludeSet())
		if err != nil {
			return err
		}
		log.WithField("schemas", cfg.Schemas).Infof("introspected %d tables", len(tables))

		w, closeOutput, err := openOutput(introspectOutput, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if introspectDDL {
			err = writeIntrospectedDDL(w, tables)
		} else {
			err = writeTablesDocument(w, tables)
		}
		if cerr := closeOutput(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
		return err
	},
}

func writeIntrospectedDDL(w io.Writer, tables []schema.TableSchema) error {
	stmts, err := compileTables(tables)
	if err != nil {
		return err
	}
	stmts, err = orderStatements(stmts, cfg.Order, false)
	if err != nil {
		return err
	}
	return writeScript(w, stmts, cfg.Transaction)
}

func writeTablesDocument(w io.Writer, tables []schema.TableSchema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tablesDocument{Tables: tables}); err != nil {
		return fmt.Errorf("encoding tables: %w", err)
	}
	return enc.Close()
}

func init() {
	introspectCmd.Flags().StringVarP(&introspectOutput, "output", "o", "", "output file path (default: stdout)")
	introspectCmd.Flags().BoolVar(&introspectDDL, "ddl", false, "write CREATE TABLE statements instead of YAML")
	rootCmd.AddCommand(introspectCmd)
}
