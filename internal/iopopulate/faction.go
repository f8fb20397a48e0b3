package iopopulate

import (
	"log/slog"

	"github.com/beevik/etree"
	"github.com/hhlist/rosterdb/internal/iocat"
	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// factionCatalogue is the parsed faction file plus the root-link
// category maps the unit loader needs.
type factionCatalogue struct {
	cat *iocat.Catalogue

	// categoryMap assigns each root-linked unit its primary category,
	// the native slot name.
	categoryMap map[string]string

	// budgetMap assigns root-linked units their budget category ids.
	budgetMap map[string][]string

	// tercioMap assigns root-linked units their dynamic category ids,
	// read from the shared unit definitions.
	tercioMap map[string][]string
}

func loadFaction(path string) (*factionCatalogue, error) {
	cat, err := iocat.Load(path)
	if err != nil {
		return nil, err
	}

	f := &factionCatalogue{
		cat:         cat,
		categoryMap: map[string]string{},
		budgetMap:   map[string][]string{},
		tercioMap:   map[string][]string{},
	}
	f.buildCategoryMaps()

	slog.Info("Loaded faction catalogue",
		"name", cat.Name, "revision", cat.Revision,
		"units_mapped", len(f.categoryMap))
	return f, nil
}

// buildCategoryMaps walks the catalogue's root entry links. The primary
// category link names the unit's slot; non-primary links referencing
// budget category ids feed the composition validator; dynamic
// categories sit on the shared unit definitions and are mapped back
// through the link target.
func (f *factionCatalogue) buildCategoryMaps() {
	sharedTercio := f.sharedTercioCategories()

	for _, link := range f.cat.RootEntryLinks() {
		targetID := link.SelectAttrValue("targetId", "")
		if targetID == "" {
			continue
		}

		var budget []string
		for _, cl := range iocat.CategoryLinks(link) {
			if cl.Primary && cl.Name != "" {
				f.categoryMap[targetID] = cl.Name
			}
			if _, ok := bsdata.BudgetCategories[cl.TargetID]; ok {
				budget = append(budget, cl.TargetID)
			}
		}
		if len(budget) > 0 {
			f.budgetMap[targetID] = budget
		}
		if cats, ok := sharedTercio[targetID]; ok {
			f.tercioMap[targetID] = cats
		}
	}
}

func (f *factionCatalogue) sharedTercioCategories() map[string][]string {
	res := map[string][]string{}
	for _, entry := range f.cat.SharedEntries() {
		id := entry.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		var cats []string
		for _, cl := range iocat.CategoryLinks(entry) {
			if _, ok := bsdata.TercioUnlockIDs[cl.TargetID]; ok {
				cats = append(cats, cl.TargetID)
			}
		}
		if len(cats) > 0 {
			res[id] = cats
		}
	}
	return res
}

// unitRecord pairs a persisted unit row with its raw element for
// upgrade extraction.
type unitRecord struct {
	Unit    schema.Unit
	Element *etree.Element
}

// loadUnits builds unit rows for every visible root-linked unit entry,
// skipping nested sub-units and configuration categories.
func (f *factionCatalogue) loadUnits() []unitRecord {
	var res []unitRecord

	for _, el := range f.cat.AllEntries(bsdata.KindUnit) {
		entry, err := iocat.ParseEntry(el)
		if err != nil {
			slog.Warn("Skipping malformed unit entry", "error", err)
			continue
		}
		if entry.Hidden {
			continue
		}

		// Nested children (crew, attached teams) have no root link.
		slot, ok := f.categoryMap[entry.ID]
		if !ok {
			continue
		}
		if bsdata.SkipCategories[slot] {
			continue
		}

		row, err := unitRow(entry, el, slot,
			f.budgetMap[entry.ID], f.tercioMap[entry.ID])
		if err != nil {
			slog.Warn("Skipping unit", "name", entry.Name, "error", err)
			continue
		}
		res = append(res, unitRecord{Unit: row, Element: el})
	}

	slog.Info("Loaded units from faction catalogue", "count", len(res))
	return res
}

func unitRow(
	entry *bsdata.CatalogueEntry,
	el *etree.Element,
	slot string,
	budgetCats, tercioCats []string,
) (schema.Unit, error) {
	profiles, err := encodeJSON(entry.Profiles)
	if err != nil {
		return schema.Unit{}, UnitEncodeError(entry.Name, err)
	}
	ruleList, err := encodeJSON(entry.Rules)
	if err != nil {
		return schema.Unit{}, UnitEncodeError(entry.Name, err)
	}
	budget, err := schema.EncodeStringList(budgetCats)
	if err != nil {
		return schema.Unit{}, UnitEncodeError(entry.Name, err)
	}
	tercio, err := schema.EncodeStringList(tercioCats)
	if err != nil {
		return schema.Unit{}, UnitEncodeError(entry.Name, err)
	}

	modelMin, modelMax := iocat.ModelBounds(el)

	return schema.Unit{
		SourceID:         entry.ID,
		Name:             entry.Name,
		Slot:             slot,
		BaseCost:         iocat.BaseUnitCost(el),
		Profiles:         profiles,
		Rules:            ruleList,
		BudgetCategories: budget,
		TercioCategories: tercio,
		ModelMin:         modelMin,
		ModelMax:         modelMax,
		IsLegacy:         bsdata.LegacyUnitNames[entry.Name],
	}, nil
}
