package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hurou927/db-ddl-gen/internal/config"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "db-ddl-gen",
	Short: "Generate CREATE TABLE statements from table schemas",
	Long: `db-ddl-gen compiles table schemas declared in a YAML config into
CREATE TABLE statements, with column constraints, primary keys and foreign keys.
Schemas can also be introspected from an existing PostgreSQL database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(level)

		if cfgPath == "" {
			return fmt.Errorf("--config is required")
		}
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		log.WithField("config", cfgPath).Debugf("loaded %d table definitions", len(cfg.Tables))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (required)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
