package main

import (
	"context"
	"fmt"

	"github.com/hhlist/rosterdb/internal/iorepo"
	"github.com/spf13/cobra"
)

var (
	fetchCheck bool
	fetchList  bool
)

func getFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Clones or updates the BSData rules repository",
		Long: `Downloads the BattleScribe rules-data repository that holds the XML
catalogues. The repository is cloned on first run and fast-forwarded on
subsequent runs.

Examples:
  rosterdb fetch
  rosterdb fetch --check
  rosterdb fetch --list`,
		RunE: runFetch,
	}

	cmd.Flags().BoolVar(&fetchCheck, "check", false,
		"report how many commits the checkout lags upstream, without updating")
	cmd.Flags().BoolVar(&fetchList, "list", false,
		"list catalogue files in the checkout after fetching")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	f := iorepo.NewFetcher(cfg)

	if fetchCheck {
		behind := 0
		if c, ok := f.(interface{ CommitsBehind(context.Context) int }); ok {
			behind = c.CommitsBehind(ctx)
		}
		if behind == 0 {
			fmt.Println("Rules repository is up to date.")
		} else {
			fmt.Printf("Rules repository is %d commit(s) behind upstream. Run 'rosterdb fetch' to update.\n", behind)
		}
		return nil
	}

	if err := f.Fetch(ctx); err != nil {
		return fmt.Errorf("failed to fetch rules repository: %w", err)
	}
	fmt.Printf("✓ Rules repository ready at %s\n", cfg.BSData.Dir)

	if fetchList {
		if l, ok := f.(interface{ ListCatalogues() []string }); ok {
			for _, name := range l.ListCatalogues() {
				fmt.Println("  " + name)
			}
		}
	}

	return nil
}
