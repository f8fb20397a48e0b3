package rules

import (
	"log/slog"

	"github.com/hhlist/rosterdb/pkg/schema"
)

// CostResolver looks up upgrade and weapon costs. Implementations are
// tolerant of both internal record ids and catalogue source ids.
type CostResolver interface {
	UpgradeCost(id string) (int, bool)
	WeaponCost(id string) (int, bool)
}

// Calculator computes unit and roster point totals over a cost
// resolver.
type Calculator struct {
	resolver CostResolver
}

// NewCalculator creates a points calculator.
func NewCalculator(resolver CostResolver) *Calculator {
	return &Calculator{resolver: resolver}
}

// UnitCost computes a unit's cost: base cost plus each selection's
// resolved cost times its quantity. A selection resolves first as an
// upgrade, then as a weapon; an unresolvable selection is logged and
// contributes zero.
func (c *Calculator) UnitCost(baseCost int, selections []schema.SelectedUpgrade) int {
	total := baseCost
	for _, sel := range selections {
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		if cost, ok := c.resolver.UpgradeCost(sel.UpgradeID); ok {
			total += cost * qty
			continue
		}
		if cost, ok := c.resolver.WeaponCost(sel.UpgradeID); ok {
			total += cost * qty
			continue
		}
		slog.Warn("Upgrade not found", "upgrade_id", sel.UpgradeID)
	}
	return total
}

// EntryCost computes a roster entry's total: unit cost times the
// chosen model quantity.
func (c *Calculator) EntryCost(
	baseCost, quantity int,
	selections []schema.SelectedUpgrade,
) int {
	return c.UnitCost(baseCost, selections) * quantity
}

// BreakdownLine is one upgrade's contribution to an entry's cost.
type BreakdownLine struct {
	UpgradeID string
	Quantity  int
	Cost      int
	Subtotal  int
	Resolved  bool
}

// CostBreakdown itemizes an entry's cost per model and per upgrade.
type CostBreakdown struct {
	BaseCost int
	Quantity int
	Upgrades []BreakdownLine
	PerModel int
	Total    int
}

// Breakdown itemizes a roster entry's cost the same way EntryCost sums
// it, keeping unresolvable selections visible instead of silent.
func (c *Calculator) Breakdown(
	baseCost, quantity int,
	selections []schema.SelectedUpgrade,
) CostBreakdown {
	res := CostBreakdown{
		BaseCost: baseCost,
		Quantity: quantity,
		PerModel: baseCost,
	}
	for _, sel := range selections {
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		line := BreakdownLine{UpgradeID: sel.UpgradeID, Quantity: qty}
		if cost, ok := c.resolver.UpgradeCost(sel.UpgradeID); ok {
			line.Cost, line.Resolved = cost, true
		} else if cost, ok := c.resolver.WeaponCost(sel.UpgradeID); ok {
			line.Cost, line.Resolved = cost, true
		}
		line.Subtotal = line.Cost * qty
		res.PerModel += line.Subtotal
		res.Upgrades = append(res.Upgrades, line)
	}
	res.Total = res.PerModel * quantity
	return res
}

// EntryTotal is one roster entry's state for total calculation. A
// nonzero CachedCost short-circuits the recompute.
type EntryTotal struct {
	CachedCost int
	BaseCost   int
	Quantity   int
	Upgrades   []schema.SelectedUpgrade
}

// RosterTotal sums entry totals, using cached costs when present and
// recomputing otherwise.
func (c *Calculator) RosterTotal(entries []EntryTotal) int {
	total := 0
	for _, entry := range entries {
		if entry.CachedCost != 0 {
			total += entry.CachedCost
			continue
		}
		total += c.EntryCost(entry.BaseCost, entry.Quantity, entry.Upgrades)
	}
	return total
}
