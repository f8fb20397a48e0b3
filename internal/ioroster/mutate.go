package ioroster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hhlist/rosterdb/pkg/rules"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// AddDetachment adds a detachment instance to a roster after checking
// the composition budget and the template's evaluated instance cap.
func (s *Service) AddDetachment(
	ctx context.Context,
	rosterUUID, detachmentSourceID string,
) (schema.RosterDetachment, error) {
	var none schema.RosterDetachment

	roster, err := s.store.RosterByUUID(ctx, rosterUUID)
	if err != nil {
		return none, err
	}
	det, err := s.store.DetachmentBySourceID(ctx, detachmentSourceID)
	if err != nil {
		return none, err
	}
	tmpl, err := det.Template()
	if err != nil {
		return none, err
	}

	rc, err := s.loadContext(ctx, roster)
	if err != nil {
		return none, err
	}

	ok, reason := s.comp.CanAddDetachment(rc.compositionView(), rules.DetachmentView{
		Name:  tmpl.Name,
		Type:  tmpl.Type,
		Costs: tmpl.Costs,
	})
	if !ok {
		return none, ValidationError(reason)
	}

	eval := rules.NewEvaluator(rc.state()).Evaluate(tmpl)
	instances := 0
	for _, rec := range rc.detachments {
		if rec.Detachment.SourceID == det.SourceID {
			instances++
		}
	}
	if instances >= eval.MaxInstances {
		return none, ValidationError(fmt.Sprintf(
			"%s: maximum %d instance(s) allowed", tmpl.Name, eval.MaxInstances))
	}

	rd, err := s.store.AddDetachment(ctx, roster.ID, det.ID, len(rc.detachments))
	if err != nil {
		return none, err
	}
	slog.Info("Added detachment",
		"roster", roster.UUID, "detachment", tmpl.Name)
	return rd, s.recompute(ctx, roster)
}

// RemoveDetachment deletes a detachment instance and its entries.
func (s *Service) RemoveDetachment(
	ctx context.Context,
	rosterUUID string,
	rosterDetachmentID uint,
) error {
	roster, err := s.store.RosterByUUID(ctx, rosterUUID)
	if err != nil {
		return err
	}
	rc, err := s.loadContext(ctx, roster)
	if err != nil {
		return err
	}
	if _, ok := rc.detachment(rosterDetachmentID); !ok {
		return ValidationError(fmt.Sprintf(
			"detachment %d is not part of roster %s", rosterDetachmentID, rosterUUID))
	}

	if err = s.store.RemoveDetachment(ctx, rosterDetachmentID); err != nil {
		return err
	}
	return s.recompute(ctx, roster)
}

// AddEntry adds a unit selection to a roster detachment. Model-count
// bounds and upgrade-group constraints reject the mutation outright;
// slot violations surface as validation errors on the recompute.
func (s *Service) AddEntry(
	ctx context.Context,
	rosterUUID string,
	rosterDetachmentID uint,
	unitSourceID string,
	quantity int,
	selections []schema.SelectedUpgrade,
) (schema.RosterEntry, error) {
	var none schema.RosterEntry

	roster, err := s.store.RosterByUUID(ctx, rosterUUID)
	if err != nil {
		return none, err
	}
	rc, err := s.loadContext(ctx, roster)
	if err != nil {
		return none, err
	}
	if _, ok := rc.detachment(rosterDetachmentID); !ok {
		return none, ValidationError(fmt.Sprintf(
			"detachment %d is not part of roster %s", rosterDetachmentID, rosterUUID))
	}

	unit, err := s.store.UnitBySourceID(ctx, unitSourceID)
	if err != nil {
		return none, err
	}

	if errs := s.checkEntry(ctx, unit, quantity, selections); len(errs) > 0 {
		return none, ValidationError(strings.Join(errs, "; "))
	}

	cost, encoded, err := s.entryCost(ctx, unit, quantity, selections)
	if err != nil {
		return none, err
	}

	entry, err := s.store.AddEntry(
		ctx, rosterDetachmentID, unit.ID, quantity, encoded, cost)
	if err != nil {
		return none, err
	}
	slog.Info("Added entry",
		"roster", roster.UUID, "unit", unit.Name, "quantity", quantity)
	return entry, s.recompute(ctx, roster)
}

// UpdateEntry rewrites an entry's quantity and upgrade selection.
func (s *Service) UpdateEntry(
	ctx context.Context,
	rosterUUID string,
	entryID uint,
	quantity int,
	selections []schema.SelectedUpgrade,
) error {
	roster, err := s.store.RosterByUUID(ctx, rosterUUID)
	if err != nil {
		return err
	}
	rc, err := s.loadContext(ctx, roster)
	if err != nil {
		return err
	}
	rec, ok := rc.entry(entryID)
	if !ok {
		return ValidationError(fmt.Sprintf(
			"entry %d is not part of roster %s", entryID, rosterUUID))
	}

	if errs := s.checkEntry(ctx, rec.Unit, quantity, selections); len(errs) > 0 {
		return ValidationError(strings.Join(errs, "; "))
	}

	cost, encoded, err := s.entryCost(ctx, rec.Unit, quantity, selections)
	if err != nil {
		return err
	}

	if err = s.store.UpdateEntry(ctx, entryID, quantity, encoded, cost); err != nil {
		return err
	}
	return s.recompute(ctx, roster)
}

// RemoveEntry deletes one unit selection.
func (s *Service) RemoveEntry(
	ctx context.Context,
	rosterUUID string,
	entryID uint,
) error {
	roster, err := s.store.RosterByUUID(ctx, rosterUUID)
	if err != nil {
		return err
	}
	rc, err := s.loadContext(ctx, roster)
	if err != nil {
		return err
	}
	if _, ok := rc.entry(entryID); !ok {
		return ValidationError(fmt.Sprintf(
			"entry %d is not part of roster %s", entryID, rosterUUID))
	}

	if err = s.store.RemoveEntry(ctx, entryID); err != nil {
		return err
	}
	return s.recompute(ctx, roster)
}

// checkEntry runs the rejection-level checks for one entry mutation.
func (s *Service) checkEntry(
	ctx context.Context,
	unit schema.Unit,
	quantity int,
	selections []schema.SelectedUpgrade,
) []string {
	errs := rules.ValidateQuantity(unit.Name, unit.ModelMin, unit.ModelMax, quantity)

	options, err := s.store.UpgradeOptions(ctx, unit.ID)
	if err != nil {
		return append(errs, err.Error())
	}
	return append(errs, rules.ValidateSelections(unit.Name, options, selections)...)
}

// entryCost computes the cached cost and serialized selection for one
// entry.
func (s *Service) entryCost(
	ctx context.Context,
	unit schema.Unit,
	quantity int,
	selections []schema.SelectedUpgrade,
) (int, string, error) {
	encoded, err := schema.EncodeSelectedUpgrades(selections)
	if err != nil {
		return 0, "", err
	}
	calc := rules.NewCalculator(s.store.CostResolver(ctx))
	return calc.EntryCost(unit.BaseCost, quantity, selections), encoded, nil
}
