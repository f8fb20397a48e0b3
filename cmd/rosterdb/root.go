package main

import (
	"fmt"
	"log/slog"

	"github.com/hhlist/rosterdb/internal/ioconfig"
	pkgconfig "github.com/hhlist/rosterdb/pkg/config"
	"github.com/hhlist/rosterdb/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rosterdb",
		Short: "rosterdb manages the army-roster database lifecycle",
		Long: `rosterdb is a CLI tool for managing the complete lifecycle of the
Horus Heresy army-roster PostgreSQL database, from schema creation
through rules-data download and catalogue population.

The tool provides four main phases:
  - create: Create database schema
  - migrate: Apply schema migrations
  - fetch: Clone or update the BSData rules repository
  - populate: Resolve the XML catalogues into database records

Configuration precedence (highest to lowest):
  1. Environment variables (ROSTERDB_*)
  2. Config file (~/.rosterdb/rosterdb.yaml)
  3. Built-in defaults

Environment Variables:
  All configuration can be set via ROSTERDB_* environment variables.
  Nested fields use underscores (database.host → ROSTERDB_DATABASE_HOST).

  Examples:
    ROSTERDB_DATABASE_HOST          PostgreSQL host
    ROSTERDB_DATABASE_PORT          PostgreSQL port
    ROSTERDB_DATABASE_USER          PostgreSQL user
    ROSTERDB_DATABASE_PASSWORD      PostgreSQL password
    ROSTERDB_DATABASE_DATABASE      Database name
    ROSTERDB_BSDATA_DIR             Rules repository checkout
    ROSTERDB_LOG_LEVEL              Log level (debug/info/warn/error)

  See 'go doc github.com/hhlist/rosterdb/pkg/config' for complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			homeDir, err := ioconfig.HomeDir()
			if err != nil {
				return fmt.Errorf("failed to resolve home directory: %w", err)
			}

			result, err := ioconfig.Load(homeDir, cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result

			slog.SetDefault(logger.New(&cfg.Log))
			return nil
		},
	}

	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.rosterdb/rosterdb.yaml)")

	// Override version flag to use -V
	rootCmd.Flags().BoolP("version", "V", false, "version for rosterdb")

	// Add subcommands
	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getFetchCmd())
	rootCmd.AddCommand(getPopulateCmd())
	rootCmd.AddCommand(getUnitsCmd())
	rootCmd.AddCommand(getDoctrinesCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *pkgconfig.Config {
	return cfg
}
