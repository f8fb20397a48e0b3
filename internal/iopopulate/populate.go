// Package iopopulate implements the Populator interface: it parses the
// rules-data checkout and bulk-loads the catalogue tables.
// This is an impure I/O package; the parsing primitives it orchestrates
// live in iocat, ioshared, ioupgrade and iodetach.
package iopopulate

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/hhlist/rosterdb/internal/iodetach"
	"github.com/hhlist/rosterdb/internal/ioshared"
	"github.com/hhlist/rosterdb/internal/iosources"
	"github.com/hhlist/rosterdb/internal/iostore"
	"github.com/hhlist/rosterdb/internal/ioupgrade"
	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/config"
	"github.com/hhlist/rosterdb/pkg/lifecycle"
	"github.com/hhlist/rosterdb/pkg/schema"
	"github.com/hhlist/rosterdb/pkg/sources"
)

// populator implements the Populator interface.
type populator struct {
	cfg     *config.Config
	fetcher lifecycle.Fetcher
	store   *iostore.Store
}

// New creates a new Populator over a rules checkout and a connected
// store.
func New(
	cfg *config.Config,
	fetcher lifecycle.Fetcher,
	store *iostore.Store,
) lifecycle.Populator {
	return &populator{cfg: cfg, fetcher: fetcher, store: store}
}

// Populate parses the configured catalogue set and replaces the
// catalogue tables in one transaction. Re-running is idempotent.
func (p *populator) Populate(ctx context.Context) error {
	start := time.Now()
	slog.Info("Starting catalogue population")

	set, err := iosources.Load(p.cfg)
	if err != nil {
		return err
	}

	factionPath, err := p.fetcher.CataloguePath(set.Faction)
	if err != nil {
		return err
	}
	gstPath, err := p.fetcher.GameSystemPath()
	if err != nil {
		return err
	}

	faction, err := loadFaction(factionPath)
	if err != nil {
		return err
	}

	index := ioshared.NewIndex(filepath.Dir(factionPath))
	for _, name := range set.Shared {
		if _, err = index.LoadShared(name); err != nil {
			return err
		}
	}

	data, err := buildCatalogue(ctx, faction, ioupgrade.New(index), set, gstPath)
	if err != nil {
		return err
	}

	if _, err = p.store.ReplaceCatalogue(ctx, data); err != nil {
		return err
	}

	rulesPath := rulesOutputPath(p.cfg)
	if err = iodetach.WriteCompositionRules(rulesPath); err != nil {
		return err
	}

	slog.Info("Catalogue population completed",
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// buildCatalogue assembles the full record set before any database
// write, so parse failures never reach the transaction.
func buildCatalogue(
	ctx context.Context,
	faction *factionCatalogue,
	ex *ioupgrade.Extractor,
	set *sources.CatalogueSet,
	gstPath string,
) (*iostore.CatalogueData, error) {
	data := &iostore.CatalogueData{
		Weapons:  ex.Weapons(weaponsCatalogueName(set)),
		Upgrades: ex.Wargear(wargearCatalogueName(set)),
	}

	// present tracks upgrade-row source ids; links to anything else get
	// a row synthesized during unit extraction.
	present := make(map[string]bool, len(data.Upgrades))
	for _, u := range data.Upgrades {
		present[u.SourceID] = true
	}

	weaponIDs := make(map[string]bool, len(data.Weapons))
	for _, w := range data.Weapons {
		weaponIDs[w.SourceID] = true
	}

	for _, row := range ex.SharedUpgrades(set.Faction) {
		if present[row.SourceID] || weaponIDs[row.SourceID] {
			continue
		}
		present[row.SourceID] = true
		data.Upgrades = append(data.Upgrades, row)
	}

	if err := extractUnits(ctx, faction, ex, data, present); err != nil {
		return nil, err
	}

	loader, err := iodetach.NewLoader(gstPath)
	if err != nil {
		return nil, err
	}
	for _, tmpl := range loader.LoadAll() {
		row, err := detachmentRow(tmpl)
		if err != nil {
			return nil, DetachmentEncodeError(tmpl.Name, err)
		}
		data.Detachments = append(data.Detachments, row)
	}

	return data, nil
}

// extractUnits walks every buildable unit, extracting its equipment
// links and materializing upgrade rows the shared catalogues did not
// provide.
func extractUnits(
	ctx context.Context,
	faction *factionCatalogue,
	ex *ioupgrade.Extractor,
	data *iostore.CatalogueData,
	present map[string]bool,
) error {
	weapons := make(map[string]int, len(data.Weapons))
	for i, w := range data.Weapons {
		weapons[w.SourceID] = i
	}

	units := faction.loadUnits()

	bar := pb.Full.Start(len(units))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, rec := range units {
		if err := ctx.Err(); err != nil {
			return CancelledError(err)
		}
		bar.Increment()

		data.Units = append(data.Units, rec.Unit)

		links := ioupgrade.Dedupe(ex.ExtractAll(rec.Element, ""))
		for _, link := range links {
			if !present[link.UpgradeID] {
				row, ok := upgradeRowFor(ex, link, weapons, data.Weapons)
				if !ok {
					slog.Debug("Skipping unresolvable equipment link",
						"unit", rec.Unit.Name,
						"upgrade", link.UpgradeName,
						"target_id", link.UpgradeID)
					continue
				}
				present[link.UpgradeID] = true
				data.Upgrades = append(data.Upgrades, row)
			}

			data.UnitLinks = append(data.UnitLinks, iostore.UnitUpgradeLink{
				UnitSourceID:    rec.Unit.SourceID,
				UpgradeSourceID: link.UpgradeID,
				MinQuantity:     link.MinQuantity,
				MaxQuantity:     link.MaxQuantity,
				GroupName:       link.GroupName,
			})
		}
	}

	return nil
}

// upgradeRowFor materializes an Upgrade record for a link target absent
// from the loaded upgrade set: an inline definition, a directly-linked
// weapon, or any other cached shared entry.
func upgradeRowFor(
	ex *ioupgrade.Extractor,
	link bsdata.UpgradeLink,
	weaponIdx map[string]int,
	weapons []schema.Weapon,
) (schema.Upgrade, bool) {
	if link.IsInline && link.Inline != nil {
		return ioupgrade.FromInline(link.Inline), true
	}
	if i, ok := weaponIdx[link.UpgradeID]; ok {
		return ioupgrade.FromWeapon(weapons[i]), true
	}
	return ex.UpgradeFor(link.UpgradeID)
}

// weaponsCatalogueName returns the shared catalogue feeding the weapon
// table: by convention the first shared entry that is not the faction
// catalogue itself.
func weaponsCatalogueName(set *sources.CatalogueSet) string {
	for _, name := range set.Shared {
		if name != set.Faction {
			return name
		}
	}
	return "Weapons"
}

// wargearCatalogueName returns the shared catalogue feeding the
// non-weapon upgrade table: the second non-faction shared entry.
func wargearCatalogueName(set *sources.CatalogueSet) string {
	seen := 0
	for _, name := range set.Shared {
		if name == set.Faction {
			continue
		}
		seen++
		if seen == 2 {
			return name
		}
	}
	return "Wargear"
}

// rulesOutputPath picks where the composition-rules JSON lands: the
// configured home directory, or the checkout's parent when no home is
// set.
func rulesOutputPath(cfg *config.Config) string {
	dir := cfg.HomeDir
	if dir == "" && cfg.BSData.Dir != "" {
		dir = filepath.Dir(cfg.BSData.Dir)
	}
	return filepath.Join(dir, "composition_rules.json")
}

// encodeJSON serializes a list column; empty lists become the empty
// string, matching the schema package's conventions.
func encodeJSON[T any](list []T) (string, error) {
	if len(list) == 0 {
		return "", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
