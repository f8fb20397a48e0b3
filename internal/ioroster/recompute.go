package ioroster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hhlist/rosterdb/internal/iostore"
	"github.com/hhlist/rosterdb/pkg/rules"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// rosterContext is one roster's full loaded state, the input to every
// validation pass.
type rosterContext struct {
	roster      schema.Roster
	detachments []iostore.RosterDetachmentRecord
	entries     []iostore.EntryRecord
}

func (s *Service) loadContext(
	ctx context.Context,
	roster schema.Roster,
) (*rosterContext, error) {
	dets, err := s.store.DetachmentsForRoster(ctx, roster.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.EntriesForRoster(ctx, roster.ID)
	if err != nil {
		return nil, err
	}
	return &rosterContext{
		roster:      roster,
		detachments: dets,
		entries:     entries,
	}, nil
}

func (rc *rosterContext) detachment(id uint) (iostore.RosterDetachmentRecord, bool) {
	for _, rec := range rc.detachments {
		if rec.ID == id {
			return rec, true
		}
	}
	return iostore.RosterDetachmentRecord{}, false
}

func (rc *rosterContext) entry(id uint) (iostore.EntryRecord, bool) {
	for _, rec := range rc.entries {
		if rec.ID == id {
			return rec, true
		}
	}
	return iostore.EntryRecord{}, false
}

// state builds the dynamic-category state modifier evaluation runs
// against.
func (rc *rosterContext) state() rules.RosterState {
	units := make([]rules.StateUnit, 0, len(rc.entries))
	for _, rec := range rc.entries {
		cats, err := schema.DecodeStringList(rec.Unit.TercioCategories)
		if err != nil {
			slog.Warn("Skipping malformed tercio categories",
				"unit", rec.Unit.Name, "error", err)
			continue
		}
		units = append(units, rules.StateUnit{
			TercioCategories: cats,
			Quantity:         rec.Quantity,
		})
	}
	return rules.NewRosterState(
		rc.roster.DoctrineID, rc.roster.PointsLimit, units)
}

// compositionView flattens the context for the composition validator.
func (rc *rosterContext) compositionView() rules.RosterView {
	view := rules.RosterView{PointsLimit: rc.roster.PointsLimit}

	for _, rec := range rc.detachments {
		tmpl, err := rec.Detachment.Template()
		if err != nil {
			slog.Warn("Skipping malformed detachment template",
				"detachment", rec.Detachment.Name, "error", err)
			continue
		}
		view.Detachments = append(view.Detachments, rules.DetachmentView{
			Name:  tmpl.Name,
			Type:  tmpl.Type,
			Costs: tmpl.Costs,
		})
	}

	for _, rec := range rc.entries {
		cats, _ := schema.DecodeStringList(rec.Unit.BudgetCategories)
		sel, _ := schema.DecodeSelectedUpgrades(rec.Upgrades)
		view.Entries = append(view.Entries, rules.EntryView{
			BudgetCategories: cats,
			Quantity:         rec.Quantity,
			Upgrades:         sel,
		})
	}

	return view
}

// recompute rewrites the roster's cached total, validity and error
// list. An unexpected failure during recompute marks the roster
// invalid rather than leaving stale state behind.
func (s *Service) recompute(ctx context.Context, roster schema.Roster) error {
	rc, err := s.loadContext(ctx, roster)
	if err != nil {
		s.markInvalid(ctx, roster, err)
		return err
	}

	total := s.rosterTotal(ctx, rc)
	errs := s.validate(ctx, rc)

	encoded := ""
	if len(errs) > 0 {
		b, err := json.Marshal(errs)
		if err != nil {
			s.markInvalid(ctx, roster, err)
			return err
		}
		encoded = string(b)
	}

	return s.store.SetRosterStatus(ctx, roster.ID, total, len(errs) == 0, encoded)
}

func (s *Service) rosterTotal(ctx context.Context, rc *rosterContext) int {
	calc := rules.NewCalculator(s.store.CostResolver(ctx))
	totals := make([]rules.EntryTotal, 0, len(rc.entries))
	for _, rec := range rc.entries {
		sel, _ := schema.DecodeSelectedUpgrades(rec.Upgrades)
		totals = append(totals, rules.EntryTotal{
			CachedCost: rec.TotalCost,
			BaseCost:   rec.Unit.BaseCost,
			Quantity:   rec.Quantity,
			Upgrades:   sel,
		})
	}
	return calc.RosterTotal(totals)
}

// validate runs the full rule set: composition, per-detachment force
// organization with evaluated slot tables, instance caps and per-entry
// quantity/selection checks.
func (s *Service) validate(ctx context.Context, rc *rosterContext) []string {
	errs := s.comp.ValidateComposition(rc.compositionView())

	evaluator := rules.NewEvaluator(rc.state())
	instances := map[string]int{}

	for _, rec := range rc.detachments {
		tmpl, err := rec.Detachment.Template()
		if err != nil {
			errs = append(errs, fmt.Sprintf(
				"%s: malformed template: %v", rec.Detachment.Name, err))
			continue
		}

		eval := evaluator.Evaluate(tmpl)
		instances[tmpl.SourceID]++
		if n := instances[tmpl.SourceID]; n > eval.MaxInstances {
			errs = append(errs, fmt.Sprintf(
				"%s: %d instances exceed maximum %d",
				tmpl.Name, n, eval.MaxInstances))
		}

		foc := rules.NewFOCValidator(tmpl.Name, eval.Slots, tmpl.UnitRestrictions)
		errs = append(errs, foc.ValidateEntries(rc.slotEntries(rec.ID))...)
	}

	for _, rec := range rc.entries {
		errs = append(errs, s.checkEntry(
			ctx, rec.Unit, rec.Quantity, decodeSelections(rec.Upgrades))...)
	}

	return errs
}

// slotEntries lists one detachment instance's slot occupancy, one
// element per selected unit.
func (rc *rosterContext) slotEntries(rosterDetachmentID uint) []rules.SlotEntry {
	var res []rules.SlotEntry
	for _, rec := range rc.entries {
		if rec.RosterDetachmentID != rosterDetachmentID {
			continue
		}
		res = append(res, rules.SlotEntry{
			Slot:     rec.Unit.Slot,
			UnitName: rec.Unit.Name,
		})
	}
	return res
}

func decodeSelections(raw string) []schema.SelectedUpgrade {
	sel, err := schema.DecodeSelectedUpgrades(raw)
	if err != nil {
		slog.Warn("Malformed upgrade selection", "error", err)
		return nil
	}
	return sel
}

// markInvalid records a synthetic validation error so a roster whose
// recompute failed is never reported as valid.
func (s *Service) markInvalid(ctx context.Context, roster schema.Roster, cause error) {
	encoded, err := json.Marshal([]string{"internal error: " + cause.Error()})
	if err != nil {
		encoded = []byte(`["internal error"]`)
	}
	err = s.store.SetRosterStatus(
		ctx, roster.ID, roster.TotalPoints, false, string(encoded))
	if err != nil {
		slog.Error("Cannot mark roster invalid",
			"roster", roster.UUID, "error", err)
	}
}
