package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hhlist/rosterdb/internal/iodb"
	"github.com/hhlist/rosterdb/internal/iopopulate"
	"github.com/hhlist/rosterdb/internal/iorepo"
	"github.com/hhlist/rosterdb/internal/iostore"
	"github.com/spf13/cobra"
)

func getPopulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Resolves XML catalogues into database records",
		Long: `Populates the database with units, weapons, upgrades and detachment
templates resolved from the BSData XML catalogues.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reads the faction, game-system and shared catalogues from the
     local rules checkout (run 'rosterdb fetch' first)
  3. Replaces the catalogue tables inside a single transaction
  4. Writes the derived composition rules file

Re-running is safe: the previous catalogue contents are replaced
atomically. Saved rosters are not touched.

Examples:
  rosterdb populate
  rosterdb populate --config custom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := context.Background()

			op := iodb.NewOperator()
			err := op.Connect(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			store := iostore.New(op)
			fetcher := iorepo.NewFetcher(cfg)
			populator := iopopulate.New(cfg, fetcher, store)

			slog.Info("Starting catalogue population")
			err = populator.Populate(ctx)
			if err != nil {
				return fmt.Errorf("population failed: %w", err)
			}

			slog.Info("Catalogue population complete")
			return nil
		},
	}
	return cmd
}
