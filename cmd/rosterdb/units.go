package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hhlist/rosterdb/internal/iodb"
	"github.com/hhlist/rosterdb/internal/iostore"
	"github.com/hhlist/rosterdb/pkg/schema"
	"github.com/spf13/cobra"
)

var (
	unitsSlot string
)

func getUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units [name]",
		Short: "Searches the loaded unit catalogue",
		Long: `Searches units in the populated catalogue by case-insensitive name
substring. With --slot, lists every unit in a force-organization slot
instead.

Examples:
  rosterdb units lasrifle
  rosterdb units --slot Troops`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUnits,
	}

	cmd.Flags().StringVar(&unitsSlot, "slot", "",
		"list units in this force-organization slot")

	return cmd
}

func runUnits(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	if unitsSlot == "" && len(args) == 0 {
		return fmt.Errorf("provide a name to search for, or --slot")
	}

	op := iodb.NewOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	store := iostore.New(op)

	var units []schema.Unit
	var err error
	if unitsSlot != "" {
		units, err = store.UnitsBySlot(ctx, unitsSlot)
	} else {
		units, err = store.SearchUnits(ctx, strings.TrimSpace(args[0]))
	}
	if err != nil {
		return fmt.Errorf("unit lookup failed: %w", err)
	}

	if len(units) == 0 {
		fmt.Println("No units found.")
		return nil
	}

	for _, u := range units {
		models := fmt.Sprintf("%d", u.ModelMin)
		if u.ModelMax != nil && *u.ModelMax != u.ModelMin {
			models = fmt.Sprintf("%d-%d", u.ModelMin, *u.ModelMax)
		}
		legacy := ""
		if u.IsLegacy {
			legacy = "  [Legacy]"
		}
		fmt.Printf("%-45s %-20s %4d pts  %s models%s\n",
			u.Name, u.Slot, u.BaseCost, models, legacy)
	}
	return nil
}
