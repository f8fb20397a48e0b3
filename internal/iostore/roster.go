package iostore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hhlist/rosterdb/pkg/schema"
)

// CreateRoster inserts a new empty roster and returns it.
func (s *Store) CreateRoster(
	ctx context.Context,
	name string,
	pointsLimit int,
) (schema.Roster, error) {
	roster := schema.Roster{
		UUID:        uuid.NewString(),
		Name:        name,
		PointsLimit: pointsLimit,
	}

	query := `INSERT INTO rosters
		(uuid, name, points_limit, doctrine_id, total_points, is_valid,
		 validation_errors, created_at, updated_at)
		VALUES ($1, $2, $3, '', 0, false, '', now(), now())
		RETURNING id`
	err := s.op.Pool().QueryRow(ctx, query,
		roster.UUID, roster.Name, roster.PointsLimit).Scan(&roster.ID)
	if err != nil {
		return schema.Roster{}, QueryError("INSERT INTO rosters", err)
	}
	return roster, nil
}

// RosterByUUID fetches one roster.
func (s *Store) RosterByUUID(ctx context.Context, id string) (schema.Roster, error) {
	var r schema.Roster
	query := `SELECT id, uuid, name, points_limit, doctrine_id,
		total_points, is_valid, validation_errors
		FROM rosters WHERE uuid = $1`
	err := s.op.Pool().QueryRow(ctx, query, id).Scan(
		&r.ID, &r.UUID, &r.Name, &r.PointsLimit, &r.DoctrineID,
		&r.TotalPoints, &r.IsValid, &r.ValidationErrors,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, RosterNotFoundError(id)
	}
	if err != nil {
		return r, QueryError("SELECT roster", err)
	}
	return r, nil
}

// ListRosters returns all rosters, newest first.
func (s *Store) ListRosters(ctx context.Context) ([]schema.Roster, error) {
	query := `SELECT id, uuid, name, points_limit, doctrine_id,
		total_points, is_valid, validation_errors
		FROM rosters ORDER BY created_at DESC`
	rows, err := s.op.Pool().Query(ctx, query)
	if err != nil {
		return nil, QueryError("SELECT rosters", err)
	}
	defer rows.Close()

	var res []schema.Roster
	for rows.Next() {
		var r schema.Roster
		if err := rows.Scan(
			&r.ID, &r.UUID, &r.Name, &r.PointsLimit, &r.DoctrineID,
			&r.TotalPoints, &r.IsValid, &r.ValidationErrors,
		); err != nil {
			return nil, QueryError("SELECT rosters", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// SetRosterDoctrine updates the active doctrine selection.
func (s *Store) SetRosterDoctrine(ctx context.Context, rosterID uint, doctrineID string) error {
	_, err := s.op.Pool().Exec(ctx,
		`UPDATE rosters SET doctrine_id = $2, updated_at = now() WHERE id = $1`,
		rosterID, doctrineID)
	if err != nil {
		return QueryError("UPDATE rosters doctrine", err)
	}
	return nil
}

// SetRosterStatus writes a roster's recomputed cached totals and
// validity.
func (s *Store) SetRosterStatus(
	ctx context.Context,
	rosterID uint,
	totalPoints int,
	isValid bool,
	validationErrors string,
) error {
	_, err := s.op.Pool().Exec(ctx,
		`UPDATE rosters SET total_points = $2, is_valid = $3,
			validation_errors = $4, updated_at = now()
		WHERE id = $1`,
		rosterID, totalPoints, isValid, validationErrors)
	if err != nil {
		return QueryError("UPDATE rosters status", err)
	}
	return nil
}

// DeleteRoster removes a roster; detachments and entries cascade.
func (s *Store) DeleteRoster(ctx context.Context, id string) error {
	tag, err := s.op.Pool().Exec(ctx,
		`DELETE FROM rosters WHERE uuid = $1`, id)
	if err != nil {
		return QueryError("DELETE FROM rosters", err)
	}
	if tag.RowsAffected() == 0 {
		return RosterNotFoundError(id)
	}
	return nil
}

// AddDetachment appends a detachment instance to a roster.
func (s *Store) AddDetachment(
	ctx context.Context,
	rosterID, detachmentID uint,
	position int,
) (schema.RosterDetachment, error) {
	rd := schema.RosterDetachment{
		RosterID:     rosterID,
		DetachmentID: detachmentID,
		Position:     position,
	}
	err := s.op.Pool().QueryRow(ctx,
		`INSERT INTO roster_detachments (roster_id, detachment_id, position)
		VALUES ($1, $2, $3) RETURNING id`,
		rosterID, detachmentID, position).Scan(&rd.ID)
	if err != nil {
		return rd, QueryError("INSERT INTO roster_detachments", err)
	}
	return rd, nil
}

// RemoveDetachment deletes a detachment instance and its entries.
func (s *Store) RemoveDetachment(ctx context.Context, id uint) error {
	_, err := s.op.Pool().Exec(ctx,
		`DELETE FROM roster_detachments WHERE id = $1`, id)
	if err != nil {
		return QueryError("DELETE FROM roster_detachments", err)
	}
	return nil
}

// RosterDetachmentRecord is a detachment instance joined with its
// template.
type RosterDetachmentRecord struct {
	ID         uint
	Position   int
	Detachment schema.Detachment
}

// DetachmentsForRoster returns a roster's detachment instances in
// position order, each with its template.
func (s *Store) DetachmentsForRoster(
	ctx context.Context,
	rosterID uint,
) ([]RosterDetachmentRecord, error) {
	query := `SELECT rd.id, rd.position,
		d.id, d.source_id, d.name, d.type, d.parent_id, d.faction_id,
		d.slots, d.unit_restrictions, d.costs, d.modifiers
		FROM roster_detachments rd
		JOIN detachments d ON d.id = rd.detachment_id
		WHERE rd.roster_id = $1
		ORDER BY rd.position, rd.id`
	rows, err := s.op.Pool().Query(ctx, query, rosterID)
	if err != nil {
		return nil, QueryError("SELECT roster detachments", err)
	}
	defer rows.Close()

	var res []RosterDetachmentRecord
	for rows.Next() {
		var rec RosterDetachmentRecord
		d := &rec.Detachment
		if err := rows.Scan(
			&rec.ID, &rec.Position,
			&d.ID, &d.SourceID, &d.Name, &d.Type, &d.ParentID, &d.FactionID,
			&d.Slots, &d.UnitRestrictions, &d.Costs, &d.Modifiers,
		); err != nil {
			return nil, QueryError("SELECT roster detachments", err)
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// AddEntry inserts a unit selection into a roster detachment.
func (s *Store) AddEntry(
	ctx context.Context,
	rosterDetachmentID, unitID uint,
	quantity int,
	upgrades string,
	totalCost int,
) (schema.RosterEntry, error) {
	entry := schema.RosterEntry{
		RosterDetachmentID: rosterDetachmentID,
		UnitID:             unitID,
		Quantity:           quantity,
		Upgrades:           upgrades,
		TotalCost:          totalCost,
	}
	err := s.op.Pool().QueryRow(ctx,
		`INSERT INTO roster_entries
		(roster_detachment_id, unit_id, quantity, upgrades, total_cost)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		rosterDetachmentID, unitID, quantity, upgrades, totalCost,
	).Scan(&entry.ID)
	if err != nil {
		return entry, QueryError("INSERT INTO roster_entries", err)
	}
	return entry, nil
}

// UpdateEntry rewrites an entry's quantity, upgrade selection and
// cached cost.
func (s *Store) UpdateEntry(
	ctx context.Context,
	entryID uint,
	quantity int,
	upgrades string,
	totalCost int,
) error {
	_, err := s.op.Pool().Exec(ctx,
		`UPDATE roster_entries
		SET quantity = $2, upgrades = $3, total_cost = $4
		WHERE id = $1`,
		entryID, quantity, upgrades, totalCost)
	if err != nil {
		return QueryError("UPDATE roster_entries", err)
	}
	return nil
}

// RemoveEntry deletes one roster entry.
func (s *Store) RemoveEntry(ctx context.Context, entryID uint) error {
	_, err := s.op.Pool().Exec(ctx,
		`DELETE FROM roster_entries WHERE id = $1`, entryID)
	if err != nil {
		return QueryError("DELETE FROM roster_entries", err)
	}
	return nil
}

// EntryRecord is a roster entry joined with its detachment instance
// and unit.
type EntryRecord struct {
	ID                 uint
	RosterDetachmentID uint
	Quantity           int
	Upgrades           string
	TotalCost          int
	Unit               schema.Unit
}

// EntriesForRoster returns every entry across a roster's detachments,
// each with its unit row.
func (s *Store) EntriesForRoster(
	ctx context.Context,
	rosterID uint,
) ([]EntryRecord, error) {
	query := `SELECT e.id, e.roster_detachment_id, e.quantity,
		e.upgrades, e.total_cost,
		u.id, u.source_id, u.name, u.slot, u.base_cost,
		u.budget_categories, u.tercio_categories,
		u.model_min, u.model_max, u.is_legacy
		FROM roster_entries e
		JOIN roster_detachments rd ON rd.id = e.roster_detachment_id
		JOIN units u ON u.id = e.unit_id
		WHERE rd.roster_id = $1
		ORDER BY e.id`
	rows, err := s.op.Pool().Query(ctx, query, rosterID)
	if err != nil {
		return nil, QueryError("SELECT roster entries", err)
	}
	defer rows.Close()

	var res []EntryRecord
	for rows.Next() {
		var rec EntryRecord
		u := &rec.Unit
		if err := rows.Scan(
			&rec.ID, &rec.RosterDetachmentID, &rec.Quantity,
			&rec.Upgrades, &rec.TotalCost,
			&u.ID, &u.SourceID, &u.Name, &u.Slot, &u.BaseCost,
			&u.BudgetCategories, &u.TercioCategories,
			&u.ModelMin, &u.ModelMax, &u.IsLegacy,
		); err != nil {
			return nil, QueryError("SELECT roster entries", err)
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
