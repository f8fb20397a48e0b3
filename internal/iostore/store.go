// Package iostore is the pgx-backed record store: bulk catalogue
// writes inside one transaction, roster CRUD and cost lookups.
package iostore

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5"

	"github.com/hhlist/rosterdb/pkg/db"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// Store performs all database reads and writes over a connected
// operator.
type Store struct {
	op db.Operator
}

// New creates a Store. The operator must already be connected.
func New(op db.Operator) *Store {
	return &Store{op: op}
}

// CatalogueData is one complete parsed catalogue ready for
// persistence. UnitUpgrades reference units and upgrades by source id;
// the store resolves them to row ids at insert time.
type CatalogueData struct {
	Units       []schema.Unit
	Weapons     []schema.Weapon
	Upgrades    []schema.Upgrade
	UnitLinks   []UnitUpgradeLink
	Detachments []schema.Detachment
}

// UnitUpgradeLink is a unit-to-upgrade association keyed by source
// ids.
type UnitUpgradeLink struct {
	UnitSourceID    string
	UpgradeSourceID string
	MinQuantity     int
	MaxQuantity     int
	GroupName       string
}

// Counts reports how many rows a catalogue load wrote per table.
type Counts struct {
	Units       int
	Weapons     int
	Upgrades    int
	UnitLinks   int
	Detachments int
}

// ReplaceCatalogue wipes and rewrites the catalogue tables in a single
// transaction, so a failed reload never leaves them half-updated.
func (s *Store) ReplaceCatalogue(
	ctx context.Context,
	data *CatalogueData,
) (Counts, error) {
	var counts Counts

	tx, err := s.op.Pool().Begin(ctx)
	if err != nil {
		return counts, TxError(err)
	}
	defer tx.Rollback(ctx)

	if err = clearCatalogue(ctx, tx); err != nil {
		return counts, err
	}

	if counts.Units, err = insertUnits(ctx, tx, data.Units); err != nil {
		return counts, err
	}
	if counts.Weapons, err = insertWeapons(ctx, tx, data.Weapons); err != nil {
		return counts, err
	}
	if counts.Upgrades, err = insertUpgrades(ctx, tx, data.Upgrades); err != nil {
		return counts, err
	}
	if counts.UnitLinks, err = insertUnitLinks(ctx, tx, data.UnitLinks); err != nil {
		return counts, err
	}
	if counts.Detachments, err = insertDetachments(ctx, tx, data.Detachments); err != nil {
		return counts, err
	}

	if err = tx.Commit(ctx); err != nil {
		return counts, TxError(err)
	}

	slog.Info("Catalogue replaced",
		"units", humanize.Comma(int64(counts.Units)),
		"weapons", humanize.Comma(int64(counts.Weapons)),
		"upgrades", humanize.Comma(int64(counts.Upgrades)),
		"unit_upgrades", humanize.Comma(int64(counts.UnitLinks)),
		"detachments", humanize.Comma(int64(counts.Detachments)),
	)
	return counts, nil
}

// clearCatalogue deletes catalogue rows in foreign-key order. Roster
// tables are left alone; entries referencing wiped units surface as
// validation errors on their next recompute.
func clearCatalogue(ctx context.Context, tx pgx.Tx) error {
	tables := []string{
		"unit_upgrades", "upgrades", "weapons", "units", "detachments",
	}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return QueryError("DELETE FROM "+table, err)
		}
	}
	return nil
}

func insertUnits(ctx context.Context, tx pgx.Tx, units []schema.Unit) (int, error) {
	if len(units) == 0 {
		return 0, nil
	}
	rows := make([][]interface{}, len(units))
	for i, u := range units {
		rows[i] = []interface{}{
			u.SourceID, u.Name, u.Slot, u.BaseCost,
			u.Profiles, u.Rules, u.BudgetCategories, u.TercioCategories,
			u.ModelMin, u.ModelMax, u.IsLegacy,
		}
	}
	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"units"},
		[]string{
			"source_id", "name", "slot", "base_cost",
			"profiles", "rules", "budget_categories", "tercio_categories",
			"model_min", "model_max", "is_legacy",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, CopyError("units", err)
	}
	return int(n), nil
}

func insertWeapons(ctx context.Context, tx pgx.Tx, weapons []schema.Weapon) (int, error) {
	if len(weapons) == 0 {
		return 0, nil
	}
	rows := make([][]interface{}, len(weapons))
	for i, w := range weapons {
		rows[i] = []interface{}{
			w.SourceID, w.Name, w.Cost,
			w.RangeValue, w.Strength, w.AP, w.WeaponType,
			w.SpecialRules, w.Profile,
		}
	}
	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"weapons"},
		[]string{
			"source_id", "name", "cost",
			"range_value", "strength", "ap", "weapon_type",
			"special_rules", "profile",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, CopyError("weapons", err)
	}
	return int(n), nil
}

func insertUpgrades(ctx context.Context, tx pgx.Tx, upgrades []schema.Upgrade) (int, error) {
	if len(upgrades) == 0 {
		return 0, nil
	}
	rows := make([][]interface{}, len(upgrades))
	for i, u := range upgrades {
		rows[i] = []interface{}{u.SourceID, u.Name, u.Cost, u.Kind}
	}
	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"upgrades"},
		[]string{"source_id", "name", "cost", "kind"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, CopyError("upgrades", err)
	}
	return int(n), nil
}

// insertUnitLinks resolves source ids against the freshly inserted
// unit and upgrade rows, skipping links whose ends are missing.
func insertUnitLinks(ctx context.Context, tx pgx.Tx, links []UnitUpgradeLink) (int, error) {
	if len(links) == 0 {
		return 0, nil
	}

	unitIDs, err := sourceIDMap(ctx, tx, "units")
	if err != nil {
		return 0, err
	}
	upgradeIDs, err := sourceIDMap(ctx, tx, "upgrades")
	if err != nil {
		return 0, err
	}

	var rows [][]interface{}
	seen := map[[2]uint]bool{}
	for _, link := range links {
		unitID, ok := unitIDs[link.UnitSourceID]
		if !ok {
			continue
		}
		upgradeID, ok := upgradeIDs[link.UpgradeSourceID]
		if !ok {
			slog.Debug("Upgrade link target not persisted",
				"unit", link.UnitSourceID, "upgrade", link.UpgradeSourceID)
			continue
		}
		key := [2]uint{unitID, upgradeID}
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, []interface{}{
			unitID, upgradeID,
			link.MinQuantity, link.MaxQuantity, link.GroupName,
		})
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"unit_upgrades"},
		[]string{
			"unit_id", "upgrade_id",
			"min_quantity", "max_quantity", "group_name",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, CopyError("unit_upgrades", err)
	}
	return int(n), nil
}

func insertDetachments(ctx context.Context, tx pgx.Tx, dets []schema.Detachment) (int, error) {
	if len(dets) == 0 {
		return 0, nil
	}
	rows := make([][]interface{}, len(dets))
	for i, d := range dets {
		rows[i] = []interface{}{
			d.SourceID, d.Name, d.Type, d.ParentID, d.FactionID,
			d.Slots, d.UnitRestrictions, d.Costs, d.Modifiers,
		}
	}
	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"detachments"},
		[]string{
			"source_id", "name", "type", "parent_id", "faction_id",
			"slots", "unit_restrictions", "costs", "modifiers",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, CopyError("detachments", err)
	}
	return int(n), nil
}

// sourceIDMap builds the source_id -> row id map for one table.
func sourceIDMap(ctx context.Context, tx pgx.Tx, table string) (map[string]uint, error) {
	query := "SELECT id, source_id FROM " + table
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, QueryError(query, err)
	}
	defer rows.Close()

	res := map[string]uint{}
	for rows.Next() {
		var id uint
		var sourceID string
		if err := rows.Scan(&id, &sourceID); err != nil {
			return nil, QueryError(query, err)
		}
		res[sourceID] = id
	}
	return res, rows.Err()
}
