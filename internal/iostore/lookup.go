package iostore

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/hhlist/rosterdb/pkg/errcode"
	"github.com/hhlist/rosterdb/pkg/rules"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// UnitByID fetches one unit row.
func (s *Store) UnitByID(ctx context.Context, id uint) (schema.Unit, error) {
	return s.unit(ctx, `WHERE id = $1`, id)
}

// UnitBySourceID fetches one unit by its catalogue source id.
func (s *Store) UnitBySourceID(ctx context.Context, sourceID string) (schema.Unit, error) {
	return s.unit(ctx, `WHERE source_id = $1`, sourceID)
}

// SearchUnits finds units by case-insensitive name substring.
func (s *Store) SearchUnits(ctx context.Context, name string) ([]schema.Unit, error) {
	query := unitColumns + ` WHERE name ILIKE '%' || $1 || '%' ORDER BY name`
	rows, err := s.op.Pool().Query(ctx, query, name)
	if err != nil {
		return nil, QueryError("SELECT units", err)
	}
	defer rows.Close()

	var res []schema.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// UnitsBySlot returns the units filling one native slot.
func (s *Store) UnitsBySlot(ctx context.Context, slot string) ([]schema.Unit, error) {
	query := unitColumns + ` WHERE slot = $1 ORDER BY name`
	rows, err := s.op.Pool().Query(ctx, query, slot)
	if err != nil {
		return nil, QueryError("SELECT units", err)
	}
	defer rows.Close()

	var res []schema.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

const unitColumns = `SELECT id, source_id, name, slot, base_cost,
	profiles, rules, budget_categories, tercio_categories,
	model_min, model_max, is_legacy
	FROM units`

func (s *Store) unit(ctx context.Context, where string, arg interface{}) (schema.Unit, error) {
	row := s.op.Pool().QueryRow(ctx, unitColumns+" "+where, arg)
	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, errcode.New(errcode.CatalogueNotFoundError, nil,
			"unit %v not found", arg)
	}
	return u, err
}

func scanUnit(row pgx.Row) (schema.Unit, error) {
	var u schema.Unit
	err := row.Scan(
		&u.ID, &u.SourceID, &u.Name, &u.Slot, &u.BaseCost,
		&u.Profiles, &u.Rules, &u.BudgetCategories, &u.TercioCategories,
		&u.ModelMin, &u.ModelMax, &u.IsLegacy,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return u, QueryError("scan unit", err)
	}
	return u, err
}

// DetachmentBySourceID fetches one detachment template.
func (s *Store) DetachmentBySourceID(ctx context.Context, sourceID string) (schema.Detachment, error) {
	var d schema.Detachment
	query := `SELECT id, source_id, name, type, parent_id, faction_id,
		slots, unit_restrictions, costs, modifiers
		FROM detachments WHERE source_id = $1`
	err := s.op.Pool().QueryRow(ctx, query, sourceID).Scan(
		&d.ID, &d.SourceID, &d.Name, &d.Type, &d.ParentID, &d.FactionID,
		&d.Slots, &d.UnitRestrictions, &d.Costs, &d.Modifiers,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return d, errcode.New(errcode.CatalogueNotFoundError, nil,
			"detachment %s not found", sourceID)
	}
	if err != nil {
		return d, QueryError("SELECT detachment", err)
	}
	return d, nil
}

// ListDetachments returns every detachment template.
func (s *Store) ListDetachments(ctx context.Context) ([]schema.Detachment, error) {
	query := `SELECT id, source_id, name, type, parent_id, faction_id,
		slots, unit_restrictions, costs, modifiers
		FROM detachments ORDER BY name`
	rows, err := s.op.Pool().Query(ctx, query)
	if err != nil {
		return nil, QueryError("SELECT detachments", err)
	}
	defer rows.Close()

	var res []schema.Detachment
	for rows.Next() {
		var d schema.Detachment
		if err := rows.Scan(
			&d.ID, &d.SourceID, &d.Name, &d.Type, &d.ParentID, &d.FactionID,
			&d.Slots, &d.UnitRestrictions, &d.Costs, &d.Modifiers,
		); err != nil {
			return nil, QueryError("SELECT detachments", err)
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

// UpgradeOptions returns a unit's selectable upgrades with their group
// bounds.
func (s *Store) UpgradeOptions(ctx context.Context, unitID uint) ([]rules.GroupOption, error) {
	query := `SELECT up.source_id, uu.group_name, uu.min_quantity, uu.max_quantity
		FROM unit_upgrades uu
		JOIN upgrades up ON up.id = uu.upgrade_id
		WHERE uu.unit_id = $1`
	rows, err := s.op.Pool().Query(ctx, query, unitID)
	if err != nil {
		return nil, QueryError("SELECT unit upgrades", err)
	}
	defer rows.Close()

	var res []rules.GroupOption
	for rows.Next() {
		var opt rules.GroupOption
		if err := rows.Scan(
			&opt.UpgradeID, &opt.GroupName, &opt.Min, &opt.Max,
		); err != nil {
			return nil, QueryError("SELECT unit upgrades", err)
		}
		res = append(res, opt)
	}
	return res, rows.Err()
}

// costResolver adapts the store to rules.CostResolver with a bound
// context. Lookups tolerate both row ids and source ids; database
// errors resolve as misses.
type costResolver struct {
	store *Store
	ctx   context.Context
}

// CostResolver returns a rules.CostResolver bound to ctx.
func (s *Store) CostResolver(ctx context.Context) rules.CostResolver {
	return &costResolver{store: s, ctx: ctx}
}

func (r *costResolver) UpgradeCost(id string) (int, bool) {
	return r.lookup("upgrades", id)
}

func (r *costResolver) WeaponCost(id string) (int, bool) {
	return r.lookup("weapons", id)
}

func (r *costResolver) lookup(table, id string) (int, bool) {
	var cost int

	query := "SELECT cost FROM " + table + " WHERE source_id = $1"
	err := r.store.op.Pool().QueryRow(r.ctx, query, id).Scan(&cost)
	if err == nil {
		return cost, true
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		slog.Warn("Cost lookup failed", "table", table, "id", id, "error", err)
		return 0, false
	}

	rowID, convErr := strconv.Atoi(id)
	if convErr != nil {
		return 0, false
	}
	query = "SELECT cost FROM " + table + " WHERE id = $1"
	err = r.store.op.Pool().QueryRow(r.ctx, query, rowID).Scan(&cost)
	if err != nil {
		return 0, false
	}
	return cost, true
}
