package ioupgrade

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// Weapons converts every visible entry of a loaded shared catalogue
// into Weapon rows. Entries without a weapon stat profile still get a
// row so that cost lookups for directly-linked weapons never miss.
func (e *Extractor) Weapons(catName string) []schema.Weapon {
	entries := e.catalogueEntries(catName)
	rows := make([]schema.Weapon, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, weaponRow(entry))
	}
	return rows
}

// Wargear converts every visible entry of a loaded shared catalogue
// into Upgrade rows.
func (e *Extractor) Wargear(catName string) []schema.Upgrade {
	entries := e.catalogueEntries(catName)
	rows := make([]schema.Upgrade, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, upgradeRow(entry))
	}
	return rows
}

// SharedUpgrades converts the faction catalogue's shared upgrade
// entries into Upgrade rows, skipping unit and model entries which
// are persisted separately.
func (e *Extractor) SharedUpgrades(catName string) []schema.Upgrade {
	var rows []schema.Upgrade
	for _, entry := range e.catalogueEntries(catName) {
		if entry.Kind != bsdata.KindUpgrade {
			continue
		}
		rows = append(rows, upgradeRow(entry))
	}
	return rows
}

// catalogueEntries returns the visible entries of one loaded shared
// catalogue in deterministic name order.
func (e *Extractor) catalogueEntries(
	catName string,
) []*bsdata.CatalogueEntry {
	cached := e.index.Catalogue(catName)
	if cached == nil {
		slog.Warn("Shared catalogue not loaded", "catalogue", catName)
		return nil
	}

	entries := make([]*bsdata.CatalogueEntry, 0, len(cached))
	for _, res := range cached {
		if res.IsProfile() || res.Entry.Hidden {
			continue
		}
		entries = append(entries, res.Entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// weaponRow flattens an entry's first weapon profile into the fixed
// characteristic columns; entries without one keep empty stats.
func weaponRow(entry *bsdata.CatalogueEntry) schema.Weapon {
	row := schema.Weapon{
		SourceID:     entry.ID,
		Name:         entry.Name,
		Cost:         entry.Points(),
		SpecialRules: encodeRuleNames(entry.Rules),
		Profile:      encodeProfiles(entry.Profiles),
	}

	for _, p := range entry.Profiles {
		if !p.IsWeapon() {
			continue
		}
		row.RangeValue = p.Characteristics["Range"]
		row.Strength = characteristic(p, "Strength", "S", "Str")
		row.AP = p.Characteristics["AP"]
		row.WeaponType = p.Characteristics["Type"]
		break
	}

	return row
}

func upgradeRow(entry *bsdata.CatalogueEntry) schema.Upgrade {
	return schema.Upgrade{
		SourceID: entry.ID,
		Name:     entry.Name,
		Cost:     entry.Points(),
		Kind:     upgradeKind(entry.Profiles),
	}
}

// UpgradeFor builds the Upgrade row for any cached shared entry, used
// when a unit links to an entry absent from the loaded upgrade set
// (extra crew models, faction-specific options).
func (e *Extractor) UpgradeFor(id string) (schema.Upgrade, bool) {
	entry, ok := e.index.Entry(id)
	if !ok {
		return schema.Upgrade{}, false
	}
	return upgradeRow(entry), true
}

// FromInline builds the Upgrade row for a materialized inline entry.
func FromInline(inline *bsdata.InlineUpgrade) schema.Upgrade {
	return schema.Upgrade{
		SourceID: inline.SourceID,
		Name:     inline.Name,
		Cost:     inline.Cost,
		Kind:     inline.Kind,
	}
}

// FromWeapon synthesizes the Upgrade row for a weapon a unit links to
// directly.
func FromWeapon(w schema.Weapon) schema.Upgrade {
	return schema.Upgrade{
		SourceID: w.SourceID,
		Name:     w.Name,
		Cost:     w.Cost,
		Kind:     "Weapon",
	}
}

func characteristic(p bsdata.Profile, names ...string) string {
	for _, name := range names {
		if v, ok := p.Characteristics[name]; ok && v != "" {
			return v
		}
	}
	return ""
}

func encodeRuleNames(rules []bsdata.Rule) string {
	if len(rules) == 0 {
		return ""
	}
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	data, err := json.Marshal(names)
	if err != nil {
		return ""
	}
	return string(data)
}

func encodeProfiles(profiles []bsdata.Profile) string {
	if len(profiles) == 0 {
		return ""
	}
	data, err := json.Marshal(profiles)
	if err != nil {
		return ""
	}
	return string(data)
}
