// Package ioroster implements roster mutations. Every change runs the
// relevant rule checks first, and every successful change recomputes
// the roster's cached total, validity and validation errors.
package ioroster

import (
	"context"
	"log/slog"

	"github.com/hhlist/rosterdb/internal/iostore"
	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/rules"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// Storage is the record-store surface the service mutates through.
// *iostore.Store satisfies it; tests substitute a fake.
type Storage interface {
	CreateRoster(ctx context.Context, name string, pointsLimit int) (schema.Roster, error)
	RosterByUUID(ctx context.Context, id string) (schema.Roster, error)
	ListRosters(ctx context.Context) ([]schema.Roster, error)
	DeleteRoster(ctx context.Context, id string) error
	SetRosterDoctrine(ctx context.Context, rosterID uint, doctrineID string) error
	SetRosterStatus(ctx context.Context, rosterID uint, totalPoints int, isValid bool, validationErrors string) error

	AddDetachment(ctx context.Context, rosterID, detachmentID uint, position int) (schema.RosterDetachment, error)
	RemoveDetachment(ctx context.Context, id uint) error
	DetachmentsForRoster(ctx context.Context, rosterID uint) ([]iostore.RosterDetachmentRecord, error)

	AddEntry(ctx context.Context, rosterDetachmentID, unitID uint, quantity int, upgrades string, totalCost int) (schema.RosterEntry, error)
	UpdateEntry(ctx context.Context, entryID uint, quantity int, upgrades string, totalCost int) error
	RemoveEntry(ctx context.Context, entryID uint) error
	EntriesForRoster(ctx context.Context, rosterID uint) ([]iostore.EntryRecord, error)

	UnitBySourceID(ctx context.Context, sourceID string) (schema.Unit, error)
	DetachmentBySourceID(ctx context.Context, sourceID string) (schema.Detachment, error)
	UpgradeOptions(ctx context.Context, unitID uint) ([]rules.GroupOption, error)
	CostResolver(ctx context.Context) rules.CostResolver
}

// Service performs validated roster mutations.
type Service struct {
	store Storage
	comp  *rules.CompositionValidator
}

// New creates a roster service over a connected store.
func New(store Storage) *Service {
	return &Service{
		store: store,
		comp:  rules.NewCompositionValidator(rules.DefaultLimits()),
	}
}

// Create makes a new empty roster.
func (s *Service) Create(
	ctx context.Context,
	name string,
	pointsLimit int,
) (schema.Roster, error) {
	roster, err := s.store.CreateRoster(ctx, name, pointsLimit)
	if err != nil {
		return schema.Roster{}, err
	}
	slog.Info("Created roster",
		"uuid", roster.UUID, "name", name, "points_limit", pointsLimit)
	return roster, nil
}

// Get fetches one roster by UUID.
func (s *Service) Get(ctx context.Context, id string) (schema.Roster, error) {
	return s.store.RosterByUUID(ctx, id)
}

// List returns all rosters, newest first.
func (s *Service) List(ctx context.Context) ([]schema.Roster, error) {
	return s.store.ListRosters(ctx)
}

// Delete removes a roster with all its detachments and entries.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRoster(ctx, id); err != nil {
		return err
	}
	slog.Info("Deleted roster", "uuid", id)
	return nil
}

// SetDoctrine selects the roster's active Cohort Doctrine; an empty id
// clears it. Changing doctrine re-triggers modifier evaluation, so the
// whole roster is revalidated.
func (s *Service) SetDoctrine(
	ctx context.Context,
	rosterUUID, doctrineID string,
) error {
	if doctrineID != "" {
		if _, ok := bsdata.CohortDoctrines[doctrineID]; !ok {
			return ValidationError("unknown doctrine: " + doctrineID)
		}
	}

	roster, err := s.store.RosterByUUID(ctx, rosterUUID)
	if err != nil {
		return err
	}
	if err = s.store.SetRosterDoctrine(ctx, roster.ID, doctrineID); err != nil {
		return err
	}

	roster.DoctrineID = doctrineID
	return s.recompute(ctx, roster)
}
