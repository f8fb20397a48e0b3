package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hhlist/rosterdb/pkg/schema"
)

// fakeResolver resolves costs from fixed maps.
type fakeResolver struct {
	upgrades map[string]int
	weapons  map[string]int
}

func (r fakeResolver) UpgradeCost(id string) (int, bool) {
	cost, ok := r.upgrades[id]
	return cost, ok
}

func (r fakeResolver) WeaponCost(id string) (int, bool) {
	cost, ok := r.weapons[id]
	return cost, ok
}

func testCalculator() *Calculator {
	return NewCalculator(fakeResolver{
		upgrades: map[string]int{"up-banner": 15, "up-vox": 5},
		weapons:  map[string]int{"w-axe": 10},
	})
}

// TestUnitCost verifies base plus quantity-weighted upgrade costs.
func TestUnitCost(t *testing.T) {
	c := testCalculator()
	total := c.UnitCost(100, []schema.SelectedUpgrade{
		{UpgradeID: "up-banner", Quantity: 1},
		{UpgradeID: "up-vox", Quantity: 2},
	})
	assert.Equal(t, 125, total)
}

// TestUnitCost_WeaponFallback verifies selections missing from the
// upgrade table fall back to the weapon table.
func TestUnitCost_WeaponFallback(t *testing.T) {
	c := testCalculator()
	total := c.UnitCost(50, []schema.SelectedUpgrade{
		{UpgradeID: "w-axe", Quantity: 3},
	})
	assert.Equal(t, 80, total)
}

// TestUnitCost_Unresolved verifies unknown selections contribute zero
// instead of failing.
func TestUnitCost_Unresolved(t *testing.T) {
	c := testCalculator()
	total := c.UnitCost(50, []schema.SelectedUpgrade{
		{UpgradeID: "no-such", Quantity: 2},
		{UpgradeID: "up-vox", Quantity: 1},
	})
	assert.Equal(t, 55, total)
}

// TestUnitCost_ZeroQuantity verifies a missing quantity counts as one.
func TestUnitCost_ZeroQuantity(t *testing.T) {
	c := testCalculator()
	total := c.UnitCost(0, []schema.SelectedUpgrade{
		{UpgradeID: "up-banner"},
	})
	assert.Equal(t, 15, total)
}

// TestEntryCost verifies the quantity multiplier applies to the whole
// unit cost.
func TestEntryCost(t *testing.T) {
	c := testCalculator()
	total := c.EntryCost(100, 3, []schema.SelectedUpgrade{
		{UpgradeID: "up-vox", Quantity: 1},
	})
	assert.Equal(t, 315, total)
}

// TestRosterTotal verifies cached costs are used and missing caches
// recomputed.
func TestRosterTotal(t *testing.T) {
	c := testCalculator()
	total := c.RosterTotal([]EntryTotal{
		{CachedCost: 200},
		{
			BaseCost: 100,
			Quantity: 2,
			Upgrades: []schema.SelectedUpgrade{
				{UpgradeID: "up-vox", Quantity: 1},
			},
		},
	})
	assert.Equal(t, 410, total)
}

// TestBreakdown verifies the itemized view matches EntryCost and keeps
// unresolved selections visible.
func TestBreakdown(t *testing.T) {
	c := testCalculator()
	selections := []schema.SelectedUpgrade{
		{UpgradeID: "up-vox", Quantity: 2},
		{UpgradeID: "w-axe", Quantity: 1},
		{UpgradeID: "no-such", Quantity: 1},
	}

	b := c.Breakdown(100, 10, selections)

	assert.Equal(t, 100, b.BaseCost)
	assert.Equal(t, 120, b.PerModel, "100 base + 2x5 vox + 10 axe + 0 unresolved")
	assert.Equal(t, 1200, b.Total)
	assert.Equal(t, c.EntryCost(100, 10, selections), b.Total)

	assert.Len(t, b.Upgrades, 3)
	assert.True(t, b.Upgrades[0].Resolved)
	assert.Equal(t, 10, b.Upgrades[0].Subtotal)
	assert.True(t, b.Upgrades[1].Resolved)
	assert.False(t, b.Upgrades[2].Resolved)
	assert.Equal(t, 0, b.Upgrades[2].Subtotal)
}
