package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// Budget category ids from the identifier tables.
const (
	auxBudgetCatID   = "a3c8-44d1-90fe-27b5"
	apexBudgetCatID  = "c901-3fa6-7e84-d52b"
	auxDecrementID   = "d6f3-81b2-4ca9-507e"
	doubleAuxCatID   = "5f72-b0e9-c63a-18d4"
)

func primaryDetachment() DetachmentView {
	return DetachmentView{
		Name: "Crusade Primary Detachment",
		Type: bsdata.DetachmentPrimary,
	}
}

func auxiliaryDetachment(cost int) DetachmentView {
	return DetachmentView{
		Name:  "Infantry Tercio",
		Type:  bsdata.DetachmentAuxiliary,
		Costs: bsdata.DetachmentCosts{Auxiliary: cost},
	}
}

// TestBudget_Counts verifies primary counting, cost summing and
// category-based allowance.
func TestBudget_Counts(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())

	roster := RosterView{
		PointsLimit: 2000,
		Detachments: []DetachmentView{
			primaryDetachment(),
			auxiliaryDetachment(1),
		},
		Entries: []EntryView{
			{BudgetCategories: []string{auxBudgetCatID}, Quantity: 2},
			{BudgetCategories: []string{apexBudgetCatID}, Quantity: 1},
		},
	}

	budget := v.Budget(roster)
	assert.Equal(t, 1, budget.PrimaryCount)
	assert.Equal(t, 0, budget.WarlordCount)
	assert.Equal(t, 1, budget.AuxiliaryUsed)
	assert.Equal(t, 2, budget.AuxiliaryBudget,
		"Category allowance is weighted by quantity")
	assert.Equal(t, 1, budget.ApexBudget)
	assert.False(t, budget.WarlordAvailable,
		"2000 points is below the Warlord threshold")
}

// TestBudget_WeightedCategory verifies multi-value budget categories.
func TestBudget_WeightedCategory(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())

	roster := RosterView{
		PointsLimit: 3000,
		Entries: []EntryView{
			{BudgetCategories: []string{doubleAuxCatID}, Quantity: 1},
		},
	}

	budget := v.Budget(roster)
	assert.Equal(t, 2, budget.AuxiliaryBudget)
	assert.True(t, budget.WarlordAvailable)
}

// TestBudget_DecrementUpgrade verifies decrement upgrades reduce the
// auxiliary allowance.
func TestBudget_DecrementUpgrade(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())

	roster := RosterView{
		PointsLimit: 2000,
		Entries: []EntryView{{
			BudgetCategories: []string{auxBudgetCatID},
			Quantity:         2,
			Upgrades: []schema.SelectedUpgrade{
				{UpgradeID: auxDecrementID, Quantity: 1},
			},
		}},
	}

	budget := v.Budget(roster)
	assert.Equal(t, 1, budget.AuxiliaryBudget)
}

// TestCanAddDetachment_SecondPrimary verifies a second non-Warlord
// Primary is rejected.
func TestCanAddDetachment_SecondPrimary(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())
	roster := RosterView{
		PointsLimit: 2000,
		Detachments: []DetachmentView{primaryDetachment()},
	}

	ok, reason := v.CanAddDetachment(roster, primaryDetachment())
	assert.False(t, ok)
	assert.Equal(t, "Already have a Primary Detachment (max 1)", reason)
}

// TestCanAddDetachment_Warlord verifies the Warlord threshold and cap.
func TestCanAddDetachment_Warlord(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())
	warlord := DetachmentView{
		Name: "Warlord Detachment",
		Type: bsdata.DetachmentPrimary,
	}

	low := RosterView{PointsLimit: 2000}
	ok, reason := v.CanAddDetachment(low, warlord)
	assert.False(t, ok)
	assert.Equal(t, "Warlord Detachment requires 3000+ points limit", reason)

	high := RosterView{PointsLimit: 3000}
	ok, _ = v.CanAddDetachment(high, warlord)
	assert.True(t, ok,
		"A Warlord does not count against the non-Warlord Primary cap")

	withWarlord := RosterView{
		PointsLimit: 3000,
		Detachments: []DetachmentView{warlord},
	}
	ok, reason = v.CanAddDetachment(withWarlord, warlord)
	assert.False(t, ok)
	assert.Equal(t, "Already have a Warlord Detachment (max 1)", reason)
}

// TestCanAddDetachment_AuxiliaryBudget verifies budget gating for
// auxiliary-costed detachments.
func TestCanAddDetachment_AuxiliaryBudget(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())

	empty := RosterView{PointsLimit: 2000}
	ok, reason := v.CanAddDetachment(empty, auxiliaryDetachment(1))
	assert.False(t, ok)
	assert.Contains(t, reason, "Auxiliary budget full (0/0)")

	funded := RosterView{
		PointsLimit: 2000,
		Entries: []EntryView{
			{BudgetCategories: []string{auxBudgetCatID}, Quantity: 1},
		},
	}
	ok, _ = v.CanAddDetachment(funded, auxiliaryDetachment(1))
	assert.True(t, ok)
}

// TestCanAddDetachment_ApexBudget verifies apex-costed gating.
func TestCanAddDetachment_ApexBudget(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())
	apex := DetachmentView{
		Name:  "Apex Detachment",
		Type:  bsdata.DetachmentApex,
		Costs: bsdata.DetachmentCosts{Apex: 1},
	}

	ok, reason := v.CanAddDetachment(RosterView{PointsLimit: 3000}, apex)
	assert.False(t, ok)
	assert.Contains(t, reason, "Apex budget full (0/0)")
}

// TestValidateComposition verifies full-roster checks.
func TestValidateComposition(t *testing.T) {
	v := NewCompositionValidator(DefaultLimits())

	t.Run("missing primary", func(t *testing.T) {
		errs := v.ValidateComposition(RosterView{PointsLimit: 2000})
		require.Len(t, errs, 1)
		assert.Equal(t, "Roster must have a Primary Detachment", errs[0])
	})

	t.Run("valid roster", func(t *testing.T) {
		roster := RosterView{
			PointsLimit: 2000,
			Detachments: []DetachmentView{primaryDetachment()},
		}
		assert.Empty(t, v.ValidateComposition(roster))
	})

	t.Run("over budget", func(t *testing.T) {
		roster := RosterView{
			PointsLimit: 2000,
			Detachments: []DetachmentView{
				primaryDetachment(),
				auxiliaryDetachment(2),
			},
		}
		errs := v.ValidateComposition(roster)
		require.Len(t, errs, 1)
		assert.Equal(t, "Auxiliary budget exceeded: 2/0", errs[0])
	})

	t.Run("warlord below threshold", func(t *testing.T) {
		roster := RosterView{
			PointsLimit: 2000,
			Detachments: []DetachmentView{{
				Name: "Warlord Detachment",
				Type: bsdata.DetachmentPrimary,
			}},
		}
		errs := v.ValidateComposition(roster)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "Warlord Detachment requires 3000+")
	})
}
