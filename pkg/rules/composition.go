package rules

import (
	"fmt"
	"strings"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// DetachmentView is one roster detachment as the composition validator
// sees it.
type DetachmentView struct {
	Name  string
	Type  bsdata.DetachmentType
	Costs bsdata.DetachmentCosts
}

// EntryView is one roster entry's budget-relevant state.
type EntryView struct {
	BudgetCategories []string
	Quantity         int
	Upgrades         []schema.SelectedUpgrade
}

// RosterView is the composition validator's input: the roster's point
// limit plus flat views of its detachments and entries.
type RosterView struct {
	PointsLimit int
	Detachments []DetachmentView
	Entries     []EntryView
}

// Budget is the roster's current composition budget state.
type Budget struct {
	PrimaryCount     int
	PrimaryMax       int
	AuxiliaryBudget  int
	AuxiliaryUsed    int
	ApexBudget       int
	ApexUsed         int
	WarlordCount     int
	WarlordMax       int
	WarlordAvailable bool
}

// Limits parameterizes the composition validator. The zero value is
// not usable; start from DefaultLimits.
type Limits struct {
	PrimaryMax       int
	WarlordMax       int
	WarlordThreshold int
}

// DefaultLimits returns the composition limits the game-system data
// implies.
func DefaultLimits() Limits {
	return Limits{
		PrimaryMax:       1,
		WarlordMax:       1,
		WarlordThreshold: bsdata.WarlordPointsThreshold,
	}
}

// CompositionValidator computes detachment budgets and validates
// roster composition against them.
type CompositionValidator struct {
	limits Limits
}

// NewCompositionValidator creates a validator with the given limits.
func NewCompositionValidator(limits Limits) *CompositionValidator {
	return &CompositionValidator{limits: limits}
}

// Budget computes the current composition budget: Primary and Warlord
// counts, used auxiliary/apex costs from detachments, and available
// auxiliary/apex allowance from unit budget categories minus any
// decrement upgrades.
func (v *CompositionValidator) Budget(roster RosterView) Budget {
	budget := Budget{
		PrimaryMax:       v.limits.PrimaryMax,
		WarlordMax:       v.limits.WarlordMax,
		WarlordAvailable: roster.PointsLimit >= v.limits.WarlordThreshold,
	}

	for _, det := range roster.Detachments {
		if det.Type == bsdata.DetachmentPrimary {
			budget.PrimaryCount++
			if isWarlord(det.Name) {
				budget.WarlordCount++
			}
		}
		budget.AuxiliaryUsed += det.Costs.Auxiliary
		budget.ApexUsed += det.Costs.Apex
	}

	for _, entry := range roster.Entries {
		for _, catID := range entry.BudgetCategories {
			effect, ok := bsdata.BudgetCategories[catID]
			if !ok {
				continue
			}
			switch effect.Target {
			case "auxiliary":
				budget.AuxiliaryBudget += effect.Value * entry.Quantity
			case "apex":
				budget.ApexBudget += effect.Value * entry.Quantity
			}
		}
		for _, sel := range entry.Upgrades {
			effect, ok := bsdata.BudgetDecrements[sel.UpgradeID]
			if !ok {
				continue
			}
			if effect.Target == "auxiliary" {
				budget.AuxiliaryBudget += effect.Value * sel.Quantity
			}
		}
	}

	return budget
}

// CanAddDetachment checks whether adding a detachment is legal,
// returning the refusal reason when it is not.
func (v *CompositionValidator) CanAddDetachment(
	roster RosterView,
	det DetachmentView,
) (bool, string) {
	budget := v.Budget(roster)

	if det.Type == bsdata.DetachmentPrimary && !isWarlord(det.Name) {
		if budget.PrimaryCount >= v.limits.PrimaryMax {
			return false, "Already have a Primary Detachment (max 1)"
		}
	}

	if isWarlord(det.Name) {
		if !budget.WarlordAvailable {
			return false, fmt.Sprintf(
				"Warlord Detachment requires %d+ points limit",
				v.limits.WarlordThreshold)
		}
		if budget.WarlordCount >= v.limits.WarlordMax {
			return false, "Already have a Warlord Detachment (max 1)"
		}
	}

	if det.Costs.Auxiliary > 0 {
		remaining := budget.AuxiliaryBudget - budget.AuxiliaryUsed
		if det.Costs.Auxiliary > remaining {
			return false, fmt.Sprintf(
				"Auxiliary budget full (%d/%d). Add more Command units to unlock slots.",
				budget.AuxiliaryUsed, budget.AuxiliaryBudget)
		}
	}
	if det.Costs.Apex > 0 {
		remaining := budget.ApexBudget - budget.ApexUsed
		if det.Costs.Apex > remaining {
			return false, fmt.Sprintf(
				"Apex budget full (%d/%d). Add High Command units with +1 Apex to unlock slots.",
				budget.ApexUsed, budget.ApexBudget)
		}
	}

	return true, ""
}

// ValidateComposition runs a full composition check, returning every
// violation found (empty means valid).
func (v *CompositionValidator) ValidateComposition(roster RosterView) []string {
	budget := v.Budget(roster)
	var errs []string

	if budget.PrimaryCount == 0 {
		errs = append(errs, "Roster must have a Primary Detachment")
	} else if budget.PrimaryCount > v.limits.PrimaryMax {
		errs = append(errs, fmt.Sprintf(
			"Too many Primary Detachments: %d/%d",
			budget.PrimaryCount, v.limits.PrimaryMax))
	}

	if budget.AuxiliaryUsed > budget.AuxiliaryBudget {
		errs = append(errs, fmt.Sprintf(
			"Auxiliary budget exceeded: %d/%d",
			budget.AuxiliaryUsed, budget.AuxiliaryBudget))
	}
	if budget.ApexUsed > budget.ApexBudget {
		errs = append(errs, fmt.Sprintf(
			"Apex budget exceeded: %d/%d",
			budget.ApexUsed, budget.ApexBudget))
	}

	if budget.WarlordCount > 0 && !budget.WarlordAvailable {
		errs = append(errs, fmt.Sprintf(
			"Warlord Detachment requires %d+ points limit",
			v.limits.WarlordThreshold))
	}

	return errs
}

func isWarlord(name string) bool {
	return strings.Contains(name, "Warlord")
}
