package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhlist/rosterdb/pkg/bsdata"
)

const (
	infantryUnlockID = "8c21-76be-40dd-13af"
	armourUnlockID   = "b14c-08e7-52f9-6da3"
	infantryDoctrine = "1241-4ccd-80b8-8ff2"
)

func tercioTemplate(rules []bsdata.ModifierRule) bsdata.DetachmentTemplate {
	return bsdata.DetachmentTemplate{
		SourceID: "f-tercio",
		Name:     "Infantry Tercio",
		Type:     bsdata.DetachmentAuxiliary,
		Slots: map[string]bsdata.SlotLimits{
			"Support": {Min: 0, Max: 2},
			"Troops":  {Min: 1, Max: 3},
		},
		Costs: bsdata.DetachmentCosts{Auxiliary: 2},
		Modifiers: &bsdata.ModifierSet{
			Rules: rules,
			FieldTo: map[string]string{
				"con-sup-max":  "Support",
				"con-inst-max": bsdata.DetachmentInstancesKey,
			},
		},
	}
}

// TestEvaluate_Identity verifies a template without rules passes its
// base tables through unchanged.
func TestEvaluate_Identity(t *testing.T) {
	tmpl := tercioTemplate(nil)
	tmpl.Modifiers = nil

	ev := NewEvaluator(NewRosterState("", 2000, nil))
	res := ev.Evaluate(tmpl)

	assert.Equal(t, tmpl.Slots, res.Slots)
	assert.Equal(t, tmpl.Costs, res.Costs)
	assert.Equal(t, bsdata.UnlimitedMax, res.MaxInstances)
}

// TestEvaluate_CopiesSlots verifies evaluation never mutates the
// template's own slot table.
func TestEvaluate_CopiesSlots(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectIncrement,
		Field:  "con-sup-max",
		Value:  5,
	}})

	state := NewRosterState("", 2000, []StateUnit{
		{TercioCategories: []string{infantryUnlockID}, Quantity: 1},
	})
	res := NewEvaluator(state).Evaluate(tmpl)

	assert.Equal(t, 7, res.Slots["Support"].Max)
	assert.Equal(t, 2, tmpl.Slots["Support"].Max,
		"Template base table must stay untouched")
}

// TestEvaluate_IncrementWithRepeats verifies the repeat multiplier
// scales an increment by matching-selection count times weight.
func TestEvaluate_IncrementWithRepeats(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect:  bsdata.EffectIncrement,
		Field:   "con-sup-max",
		Value:   1,
		Repeats: []bsdata.ModifierRepeat{{ChildID: infantryUnlockID, Weight: 1}},
	}})

	state := NewRosterState("", 2000, []StateUnit{
		{TercioCategories: []string{infantryUnlockID}, Quantity: 3},
	})
	res := NewEvaluator(state).Evaluate(tmpl)

	assert.Equal(t, 5, res.Slots["Support"].Max,
		"Base 2 plus 1 per matching selection")
}

// TestEvaluate_RepeatsNoMatches verifies a repeated rule with zero
// matches contributes nothing.
func TestEvaluate_RepeatsNoMatches(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect:  bsdata.EffectIncrement,
		Field:   "con-sup-max",
		Value:   1,
		Repeats: []bsdata.ModifierRepeat{{ChildID: armourUnlockID, Weight: 1}},
	}})

	res := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 2, res.Slots["Support"].Max)
}

// TestEvaluate_FailedCondition verifies a rule whose condition fails
// is skipped.
func TestEvaluate_FailedCondition(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectIncrement,
		Field:  "con-sup-max",
		Value:  2,
		Conditions: []bsdata.ModifierCondition{{
			Type: bsdata.CondAtLeast, Value: 2, ChildID: infantryUnlockID,
		}},
	}})

	low := NewRosterState("", 2000, []StateUnit{
		{TercioCategories: []string{infantryUnlockID}, Quantity: 1},
	})
	res := NewEvaluator(low).Evaluate(tmpl)
	assert.Equal(t, 2, res.Slots["Support"].Max)

	high := NewRosterState("", 2000, []StateUnit{
		{TercioCategories: []string{infantryUnlockID}, Quantity: 2},
	})
	res = NewEvaluator(high).Evaluate(tmpl)
	assert.Equal(t, 4, res.Slots["Support"].Max)
}

// TestEvaluate_FactionConditionAlwaysTrue verifies conditions keyed to
// the faction catalogue id never gate a rule.
func TestEvaluate_FactionConditionAlwaysTrue(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectIncrement,
		Field:  "con-sup-max",
		Value:  1,
		Conditions: []bsdata.ModifierCondition{{
			Type:    bsdata.CondInstanceOf,
			Value:   1,
			ChildID: bsdata.SolarAuxiliaCatalogueID,
		}},
	}})

	res := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 3, res.Slots["Support"].Max)
}

// TestEvaluate_DoctrineCondition verifies doctrine-referencing
// conditions count 1 only when that doctrine is active.
func TestEvaluate_DoctrineCondition(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectIncrement,
		Field:  "con-sup-max",
		Value:  1,
		Conditions: []bsdata.ModifierCondition{{
			Type: bsdata.CondAtLeast, Value: 1, ChildID: infantryDoctrine,
		}},
	}})

	without := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 2, without.Slots["Support"].Max)

	with := NewEvaluator(NewRosterState(infantryDoctrine, 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 3, with.Slots["Support"].Max)
}

// TestEvaluate_SetOverridesIncrements verifies a set rule replaces any
// accumulated increments on the same field.
func TestEvaluate_SetOverridesIncrements(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{
		{Effect: bsdata.EffectIncrement, Field: "con-sup-max", Value: 4},
		{Effect: bsdata.EffectSet, Field: "con-sup-max", Value: 1},
	})

	res := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 3, res.Slots["Support"].Max,
		"Set replaces the accumulated adjustment, applied to the base")
}

// TestEvaluate_SlotMaxClampedAtZero verifies negative adjustments
// floor the slot max at zero.
func TestEvaluate_SlotMaxClampedAtZero(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectIncrement, Field: "con-sup-max", Value: -5,
	}})

	res := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 0, res.Slots["Support"].Max)
}

// TestEvaluate_MaxInstancesSentinel verifies adjustments mapped to the
// detachment-instances sentinel bound template copies.
func TestEvaluate_MaxInstancesSentinel(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect:  bsdata.EffectIncrement,
		Field:   "con-inst-max",
		Value:   1,
		Repeats: []bsdata.ModifierRepeat{{ChildID: infantryUnlockID, Weight: 1}},
	}})

	empty := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 0, empty.MaxInstances,
		"No matching selections means the detachment is unavailable")

	state := NewRosterState("", 2000, []StateUnit{
		{TercioCategories: []string{infantryUnlockID}, Quantity: 2},
	})
	res := NewEvaluator(state).Evaluate(tmpl)
	assert.Equal(t, 2, res.MaxInstances)
}

// TestEvaluate_FractionalCostMultiplier verifies a fractional set on a
// cost field multiplies the base cost, rounded.
func TestEvaluate_FractionalCostMultiplier(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectSet,
		Field:  bsdata.CostTypeAuxiliary,
		Value:  0.5,
	}})

	res := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 1, res.Costs.Auxiliary, "2 * 0.5 rounds to 1")
}

// TestEvaluate_AdditiveCostAdjustments verifies integer cost
// adjustments apply additively.
func TestEvaluate_AdditiveCostAdjustments(t *testing.T) {
	tmpl := tercioTemplate([]bsdata.ModifierRule{{
		Effect: bsdata.EffectIncrement,
		Field:  bsdata.CostTypeAuxiliary,
		Value:  1,
	}})

	res := NewEvaluator(NewRosterState("", 2000, nil)).Evaluate(tmpl)
	assert.Equal(t, 3, res.Costs.Auxiliary)
}

// TestSelectionCount verifies the state's per-id counting rules.
func TestSelectionCount(t *testing.T) {
	state := NewRosterState(infantryDoctrine, 3000, []StateUnit{
		{TercioCategories: []string{infantryUnlockID}, Quantity: 2},
		{TercioCategories: []string{infantryUnlockID, armourUnlockID}, Quantity: 1},
	})

	assert.Equal(t, 3, state.SelectionCount(infantryUnlockID))
	assert.Equal(t, 1, state.SelectionCount(armourUnlockID))
	assert.Equal(t, 1, state.SelectionCount(infantryDoctrine))
	assert.Equal(t, 0, state.SelectionCount("f2be-abfe-311c-afe2"),
		"Inactive doctrines count zero")
	assert.Equal(t, 0, state.SelectionCount("unknown-id"))

	require.NotNil(t, state.CategoryCounts)
}
