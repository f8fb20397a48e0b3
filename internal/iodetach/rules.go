package iodetach

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// CompositionRules is the static composition ruleset derived from the
// identifier tables, written alongside the database so consumers can
// validate rosters without re-parsing XML.
type CompositionRules struct {
	PrimaryMin             int                           `json:"primary_min"`
	PrimaryMax             int                           `json:"primary_max"`
	WarlordMax             int                           `json:"warlord_max"`
	WarlordPointsThreshold int                           `json:"warlord_points_threshold"`
	BudgetCategories       map[string]bsdata.BudgetEffect `json:"budget_categories"`
	BudgetDecrements       map[string]bsdata.BudgetEffect `json:"budget_decrements"`
	Doctrines              []bsdata.DoctrineInfo          `json:"doctrines"`
}

// DefaultCompositionRules builds the ruleset from the identifier
// tables.
func DefaultCompositionRules() CompositionRules {
	return CompositionRules{
		PrimaryMin:             1,
		PrimaryMax:             1,
		WarlordMax:             1,
		WarlordPointsThreshold: bsdata.WarlordPointsThreshold,
		BudgetCategories:       bsdata.BudgetCategories,
		BudgetDecrements:       bsdata.BudgetDecrements,
		Doctrines:              bsdata.AvailableDoctrines(),
	}
}

// WriteCompositionRules serializes the default ruleset to path.
func WriteCompositionRules(path string) error {
	rules := DefaultCompositionRules()
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return WriteRulesError(path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return WriteRulesError(path, err)
	}
	slog.Info("Wrote composition rules", "path", path)
	return nil
}
