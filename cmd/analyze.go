package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hurou927/db-ddl-gen/internal/graph"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the FK dependency graph of the configured tables",
	Long:  `Compiles the configured tables, builds an FK dependency graph, and outputs it in the specified format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateForGenerate(); err != nil {
			return err
		}

		tables, err := selectTables(cfg.Tables, nil, cfg.ExcludeSet())
		if err != nil {
			return err
		}

		stmts, err := compileTables(tables)
		if err != nil {
			return err
		}

		g, err := graph.Build(stmts)
		if err != nil {
			return err
		}

		switch analyzeFormat {
		case "mermaid":
			return graph.WriteMermaid(cmd.OutOrStdout(), g)
		case "text":
			return graph.WriteText(cmd.OutOrStdout(), g)
		case "table":
			return graph.WriteTable(cmd.OutOrStdout(), g)
		default:
			return fmt.Errorf("unknown format: %s (supported: mermaid, text, table)", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "mermaid", "output format: mermaid, text or table")
	rootCmd.AddCommand(analyzeCmd)
}
