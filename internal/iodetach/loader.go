// Package iodetach loads detachment templates from the game-system
// force organization chart: slot tables, budget costs and the
// declarative modifier rules the evaluator applies at roster time.
package iodetach

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/hhlist/rosterdb/internal/iocat"
	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// chartRootName marks the force entry whose children are the
// catalogue's detachment templates.
const chartRootName = "force organization chart"

// Loader parses detachment templates from a game-system file.
type Loader struct {
	cat *iocat.Catalogue
}

// NewLoader opens a game-system (.gst) file.
func NewLoader(path string) (*Loader, error) {
	cat, err := iocat.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded game system",
		"name", cat.Name, "revision", cat.Revision)
	return &Loader{cat: cat}, nil
}

// LoadAll parses every faction-relevant detachment template under the
// force organization chart root. A missing chart root yields an empty
// list; a single template that fails to parse is logged and skipped.
func (l *Loader) LoadAll() []bsdata.DetachmentTemplate {
	root := l.chartRoot()
	if root == nil {
		slog.Warn("Force organization chart root not found",
			"game_system", l.cat.Name)
		return nil
	}
	rootID := root.SelectAttrValue("id", "")

	var res []bsdata.DetachmentTemplate
	for _, force := range iocat.NestedForceEntries(root) {
		tmpl, ok := parseForce(force, rootID)
		if !ok {
			continue
		}
		res = append(res, tmpl)
	}

	slog.Info("Loaded detachment templates", "count", len(res))
	return res
}

func (l *Loader) chartRoot() *etree.Element {
	for _, force := range l.cat.ForceEntries() {
		name := force.SelectAttrValue("name", "")
		if strings.Contains(strings.ToLower(name), chartRootName) {
			return force
		}
	}
	return nil
}

// parseForce parses one force entry; ok is false when the entry is
// malformed or not relevant to the faction.
func parseForce(force *etree.Element, parentID string) (bsdata.DetachmentTemplate, bool) {
	name := force.SelectAttrValue("name", "")
	id := force.SelectAttrValue("id", "")
	if name == "" || id == "" {
		slog.Warn("Skipping malformed force entry", "name", name, "id", id)
		return bsdata.DetachmentTemplate{}, false
	}

	factionSpecific, relevant := classifyRelevance(force, name)
	if !relevant {
		slog.Debug("Skipping foreign detachment", "name", name)
		return bsdata.DetachmentTemplate{}, false
	}

	tmpl := bsdata.DetachmentTemplate{
		SourceID: id,
		Name:     name,
		Type:     bsdata.ClassifyDetachment(name),
		ParentID: parentID,
		Costs:    parseCosts(force),
	}
	if factionSpecific {
		tmpl.FactionID = bsdata.SolarAuxiliaCatalogueID
	}

	fieldTo := map[string]string{}
	tmpl.Slots, tmpl.UnitRestrictions = parseSlots(force, fieldTo)

	for _, c := range iocat.Constraints(force) {
		if c.Type == "max" && c.ID != "" {
			fieldTo[c.ID] = bsdata.DetachmentInstancesKey
		}
	}

	if rules := parseModifiers(force); len(rules) > 0 {
		tmpl.Modifiers = &bsdata.ModifierSet{Rules: rules, FieldTo: fieldTo}
	}

	return tmpl, true
}

// classifyRelevance decides whether a force entry belongs in the
// faction's chart and whether the match was faction-specific.
// Precedence: "Primary" in the name always wins, then faction
// keywords, then a conditional-unhide modifier keyed to the faction
// catalogue, then a comment naming the faction; generic keywords admit
// only entries not hidden by default.
func classifyRelevance(force *etree.Element, name string) (factionSpecific, relevant bool) {
	lower := strings.ToLower(name)

	if strings.Contains(lower, "primary") {
		return true, true
	}
	for _, kw := range bsdata.FactionKeywords {
		if strings.Contains(lower, kw) {
			return true, true
		}
	}
	if hasFactionCondition(force) {
		return true, true
	}
	if strings.Contains(iocat.CommentText(force), bsdata.FactionName) {
		return true, true
	}
	if force.SelectAttrValue("hidden", "") != "true" {
		for _, kw := range bsdata.GenericKeywords {
			if strings.Contains(lower, kw) {
				return false, true
			}
		}
	}
	return false, false
}

// hasFactionCondition reports whether any modifier condition references
// the faction catalogue id, the data's way of unhiding a detachment
// for one faction only.
func hasFactionCondition(force *etree.Element) bool {
	for _, mod := range iocat.ModifierElements(force) {
		for _, cond := range conditionElements(mod) {
			if cond.SelectAttrValue("childId", "") == bsdata.SolarAuxiliaCatalogueID {
				return true
			}
		}
	}
	return false
}

// parseSlots builds the slot table from the force entry's category
// links, recording each link constraint's id for modifier resolution.
func parseSlots(
	force *etree.Element,
	fieldTo map[string]string,
) (map[string]bsdata.SlotLimits, map[string]string) {
	slots := map[string]bsdata.SlotLimits{}
	restrictions := map[string]string{}

	for _, link := range iocat.CategoryLinkElements(force) {
		rawName := link.SelectAttrValue("name", "")
		if rawName == "" {
			continue
		}
		if strings.HasPrefix(rawName, bsdata.LockedSlotPrefix) {
			continue
		}
		if link.SelectAttrValue("hidden", "") == "true" {
			continue
		}
		if foreignSlot(rawName) {
			continue
		}

		slot := bsdata.ParseSlot(rawName)
		limits := bsdata.SlotLimits{Min: 0, Max: bsdata.UnlimitedMax}
		for _, c := range iocat.Constraints(link) {
			switch c.Type {
			case "min":
				limits.Min = int(c.Value)
			case "max":
				limits.Max = int(c.Value)
			}
			if c.ID != "" {
				fieldTo[c.ID] = slot.Key()
			}
		}

		slots[slot.Key()] = limits
		if slot.Restriction != "" {
			restrictions[slot.Key()] = slot.Restriction
		}
	}

	return slots, restrictions
}

func foreignSlot(name string) bool {
	for _, prefix := range bsdata.ForeignSlotPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// parseCosts reads the detachment's auxiliary/apex budget costs,
// matching on the declared cost-type id with a name fallback.
func parseCosts(force *etree.Element) bsdata.DetachmentCosts {
	var costs bsdata.DetachmentCosts
	for _, cost := range iocat.CostElements(force) {
		value := int(floatAttr(cost, "value"))
		if value == 0 {
			continue
		}
		typeID := cost.SelectAttrValue("typeId", "")
		name := strings.ToLower(cost.SelectAttrValue("name", ""))
		switch {
		case typeID == bsdata.CostTypeAuxiliary,
			strings.Contains(name, "auxiliary"):
			costs.Auxiliary = value
		case typeID == bsdata.CostTypeApex,
			strings.Contains(name, "apex"):
			costs.Apex = value
		}
	}
	return costs
}
