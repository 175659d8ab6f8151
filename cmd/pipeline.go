package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hurou927/db-ddl-gen/internal/config"
	"github.com/hurou927/db-ddl-gen/internal/ddl"
	"github.com/hurou927/db-ddl-gen/internal/graph"
	"github.com/hurou927/db-ddl-gen/internal/output"
	"github.com/hurou927/db-ddl-gen/internal/schema"
)

// selectTables filters tables by resolved name. An empty only list selects
// everything not excluded; names in only that match nothing are an error.
func selectTables(tables []schema.TableSchema, only []string, exclude map[string]bool) ([]schema.TableSchema, error) {
	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = true
	}

	var selected []schema.TableSchema
	found := make(map[string]bool, len(only))
	for _, t := range tables {
		name := ddl.TableName(t)
		if exclude[name] {
			log.WithField("table", name).Debug("excluded")
			continue
		}
		if len(want) > 0 && !want[name] {
			continue
		}
		found[name] = true
		selected = append(selected, t)
	}

	for _, name := range only {
		if !found[name] {
			return nil, fmt.Errorf("table %q not found in config", name)
		}
	}
	return selected, nil
}

// compileTables compiles every table. A failing table does not stop the
// others; all failures are returned joined.
func compileTables(tables []schema.TableSchema) ([]ddl.Statement, error) {
	stmts := make([]ddl.Statement, 0, len(tables))
	var errs []error
	for _, t := range tables {
		stmt, err := ddl.Compile(t)
		if err != nil {
			log.WithError(err).WithField("table", ddl.TableName(t)).Error("compile failed")
			errs = append(errs, err)
			continue
		}
		log.WithField("table", stmt.TableName).Debugf("compiled %d columns", len(stmt.Columns))
		stmts = append(stmts, stmt)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%d of %d tables failed to compile: %w", len(errs), len(tables), errors.Join(errs...))
	}
	return stmts, nil
}

// orderStatements arranges statements for output. Dependency order puts
// referenced tables first; tables caught in a cycle go last, or fail when
// strict is set.
func orderStatements(stmts []ddl.Statement, order config.Order, strict bool) ([]ddl.Statement, error) {
	g, err := graph.Build(stmts)
	if err != nil {
		return nil, err
	}

	for _, name := range g.Order {
		for _, fk := range g.External[name] {
			log.WithFields(log.Fields{
				"table":  name,
				"column": fk.FieldName,
			}).Warnf("foreign key references %s, which is not generated", fk.ReferencedTable)
		}
	}

	if order == config.OrderDeclaration {
		return stmts, nil
	}

	result := graph.TopoSortAll(g)
	if result.HasCycle {
		if strict {
			return nil, graph.ValidateCycles(result)
		}
		log.WithField("tables", result.CycleTables).Warn("circular foreign keys; these tables are written last in declaration order")
	}

	names := append(append([]string(nil), result.Order...), result.CycleTables...)
	ordered := make([]ddl.Statement, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, *g.Tables[name])
	}
	return ordered, nil
}

// writeScript writes the statements as one SQL script.
func writeScript(w io.Writer, stmts []ddl.Statement, transaction bool) error {
	sw := output.NewWriter(w, transaction)
	if err := sw.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, stmt := range stmts {
		if err := sw.WriteStatement(stmt.TableName, stmt.SQL); err != nil {
			return fmt.Errorf("writing table %s: %w", stmt.TableName, err)
		}
	}
	if err := sw.WriteFooter(); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}
	return nil
}

// openOutput returns stdout for an empty path or "-", else a created file.
// The returned close function must be called when writing is done.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}
