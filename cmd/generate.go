package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hurou927/db-ddl-gen/internal/config"
)

var (
	generateOutput string
	generateTables []string
	generateOrder  string
	generateNames  bool
	generateStrict bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate CREATE TABLE statements for the configured tables",
	Long:  `Compiles every table in the config into a CREATE TABLE statement and writes them as one SQL script, referenced tables first unless declaration order is requested.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateForGenerate(); err != nil {
			return err
		}

		order := cfg.Order
		if generateOrder != "" {
			order = config.Order(generateOrder)
			if order != config.OrderDependency && order != config.OrderDeclaration {
				return fmt.Errorf("unknown order: %s (supported: dependency, declaration)", generateOrder)
			}
		}

		tables, err := selectTables(cfg.Tables, generateTables, cfg.ExcludeSet())
		if err != nil {
			return err
		}

		stmts, err := compileTables(tables)
		if err != nil {
			return err
		}

		stmts, err = orderStatements(stmts, order, generateStrict)
		if err != nil {
			return err
		}

		outPath := generateOutput
		if outPath == "" {
			outPath = cfg.Output
		}
		w, closeOutput, err := openOutput(outPath, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if generateNames {
			for _, stmt := range stmts {
				if _, err = fmt.Fprintln(w, stmt.TableName); err != nil {
					break
				}
			}
		} else {
			err = writeScript(w, stmts, cfg.Transaction)
		}
		if cerr := closeOutput(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
		if err != nil {
			return err
		}

		log.WithField("order", order).Infof("generated %d tables", len(stmts))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file path, \"-\" for stdout (default: config output)")
	generateCmd.Flags().StringArrayVar(&generateTables, "table", nil, "only generate this table (repeatable)")
	generateCmd.Flags().StringVar(&generateOrder, "order", "", "output order: dependency or declaration (default: config order)")
	generateCmd.Flags().BoolVar(&generateNames, "names", false, "print resolved table names instead of DDL")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "fail on circular foreign keys instead of writing those tables last")
	rootCmd.AddCommand(generateCmd)
}
