// Package ioupgrade extracts weapons and upgrade options from
// catalogue data: whole shared catalogues for the Weapon/Upgrade
// tables, and per-unit subtree walks for the unit-upgrade linkage.
package ioupgrade

import (
	"log/slog"

	"github.com/beevik/etree"
	"github.com/hhlist/rosterdb/internal/iocat"
	"github.com/hhlist/rosterdb/internal/ioshared"
	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// maxGroupDepth caps option-group recursion. Rule data never nests
// more than a handful of levels; deeper nesting is logged and cut off
// rather than failed.
const maxGroupDepth = 8

// Extractor resolves a unit's equipment choices against the shared
// catalogue index.
type Extractor struct {
	index *ioshared.Index
}

// New creates an Extractor over a loaded shared-catalogue index.
func New(index *ioshared.Index) *Extractor {
	return &Extractor{index: index}
}

// ExtractAll recursively extracts every equipment choice from a unit's
// XML subtree: direct cross-references, inline upgrade definitions,
// option groups (nested arbitrarily deep, with ">"-joined qualified
// names) and child model/unit sub-entries, each recursed into with its
// own name appended to the context prefix.
//
// The returned links may contain duplicates reached through different
// paths; callers deduplicate on (unit, upgrade) before persistence.
func (e *Extractor) ExtractAll(
	unit *etree.Element,
	prefix string,
) []bsdata.UpgradeLink {
	var links []bsdata.UpgradeLink

	links = append(links, e.entryLinks(unit, prefix)...)
	links = append(links, e.inlineUpgrades(unit, prefix)...)

	for _, group := range iocat.GroupElements(unit) {
		links = append(links, e.fromGroup(group, prefix, 0)...)
	}

	for _, child := range iocat.ChildEntries(unit, "") {
		kind := bsdata.EntryKind(child.SelectAttrValue("type", ""))
		if kind != bsdata.KindModel && kind != bsdata.KindUnit {
			continue
		}
		childPrefix := prefix
		if name := child.SelectAttrValue("name", ""); name != "" {
			childPrefix = prefix + name + " > "
		}
		links = append(links, e.ExtractAll(child, childPrefix)...)
	}

	return links
}

// entryLinks extracts choices from direct entryLink references.
func (e *Extractor) entryLinks(
	el *etree.Element,
	prefix string,
) []bsdata.UpgradeLink {
	var links []bsdata.UpgradeLink

	for _, link := range iocat.EntryLinkElements(el) {
		if link.SelectAttrValue("hidden", "") == "true" {
			continue
		}
		targetID := link.SelectAttrValue("targetId", "")
		linkName := link.SelectAttrValue("name", "")
		if targetID == "" {
			continue
		}

		entry, ok := e.index.Entry(targetID)
		if !ok {
			slog.Debug("Entry link target not in shared cache",
				"target_id", targetID, "name", linkName)
			continue
		}
		if entry.Kind != bsdata.KindUpgrade && entry.Kind != bsdata.KindModel {
			continue
		}

		name := linkName
		if name == "" {
			name = entry.Name
		}
		links = append(links, bsdata.UpgradeLink{
			UpgradeID:   targetID,
			UpgradeName: name,
			GroupName:   equipmentGroup(prefix),
			MinQuantity: 0,
			MaxQuantity: 1,
		})
	}

	return links
}

// inlineUpgrades extracts upgrade entries defined directly under an
// element, materializing those absent from the shared cache.
func (e *Extractor) inlineUpgrades(
	el *etree.Element,
	prefix string,
) []bsdata.UpgradeLink {
	var links []bsdata.UpgradeLink

	for _, entry := range iocat.ChildEntries(el, bsdata.KindUpgrade) {
		link, ok := e.resolveInline(entry, equipmentGroup(prefix), 0, 1)
		if ok {
			links = append(links, link)
		}
	}

	return links
}

// fromGroup extracts the choice set of one option group, recursing
// into nested sub-groups.
func (e *Extractor) fromGroup(
	group *etree.Element,
	prefix string,
	depth int,
) []bsdata.UpgradeLink {
	if group.SelectAttrValue("hidden", "") == "true" {
		return nil
	}
	if depth > maxGroupDepth {
		slog.Warn("Option group nesting exceeds depth cap, cutting off",
			"group", group.SelectAttrValue("name", ""), "depth", depth)
		return nil
	}

	groupName := group.SelectAttrValue("name", "")
	fullName := prefix + groupName
	minQty, maxQty := groupConstraints(group)

	var links []bsdata.UpgradeLink

	for _, link := range iocat.EntryLinkElements(group) {
		if link.SelectAttrValue("hidden", "") == "true" {
			continue
		}
		targetID := link.SelectAttrValue("targetId", "")
		linkName := link.SelectAttrValue("name", "")
		if targetID == "" {
			continue
		}
		entry, ok := e.index.Entry(targetID)
		if !ok {
			slog.Debug("Group entry link target not in shared cache",
				"target_id", targetID, "name", linkName, "group", fullName)
			continue
		}
		name := linkName
		if name == "" {
			name = entry.Name
		}
		links = append(links, bsdata.UpgradeLink{
			UpgradeID:   targetID,
			UpgradeName: name,
			GroupName:   fullName,
			MinQuantity: minQty,
			MaxQuantity: maxQty,
		})
	}

	for _, entry := range iocat.ChildEntries(group, "") {
		kind := entry.SelectAttrValue("type", "")
		// Models are handled by the subtree recursion, not as choices.
		if kind != string(bsdata.KindUpgrade) && kind != "" {
			continue
		}
		link, ok := e.resolveInline(entry, fullName, minQty, maxQty)
		if ok {
			links = append(links, link)
		}
	}

	for _, sub := range iocat.GroupElements(group) {
		links = append(links, e.fromGroup(sub, fullName+" > ", depth+1)...)
	}

	return links
}

// resolveInline resolves an inline selectionEntry: cached entries
// become plain references, uncached ones are materialized.
func (e *Extractor) resolveInline(
	entry *etree.Element,
	groupName string,
	minQty, maxQty int,
) (bsdata.UpgradeLink, bool) {
	if entry.SelectAttrValue("hidden", "") == "true" {
		return bsdata.UpgradeLink{}, false
	}
	id := entry.SelectAttrValue("id", "")
	name := entry.SelectAttrValue("name", "")
	if id == "" || name == "" {
		return bsdata.UpgradeLink{}, false
	}

	link := bsdata.UpgradeLink{
		UpgradeID:   id,
		UpgradeName: name,
		GroupName:   groupName,
		MinQuantity: minQty,
		MaxQuantity: maxQty,
	}

	if _, ok := e.index.Entry(id); !ok {
		link.IsInline = true
		link.Inline = materializeInline(entry)
	}

	return link, true
}

// materializeInline parses an inline selectionEntry into a new upgrade
// record. Materialization is idempotent: the same source id never
// produces two rows because persistence is keyed on it.
func materializeInline(entry *etree.Element) *bsdata.InlineUpgrade {
	profiles := iocat.Profiles(entry)
	return &bsdata.InlineUpgrade{
		SourceID: entry.SelectAttrValue("id", ""),
		Name:     entry.SelectAttrValue("name", ""),
		Cost:     bsdata.PointsFrom(iocat.Costs(entry)),
		Kind:     upgradeKind(profiles),
		Profiles: profiles,
	}
}

// Dedupe removes duplicate links on upgrade id, keeping first
// occurrence order.
func Dedupe(links []bsdata.UpgradeLink) []bsdata.UpgradeLink {
	seen := make(map[string]bool, len(links))
	res := links[:0:0]
	for _, link := range links {
		if seen[link.UpgradeID] {
			continue
		}
		seen[link.UpgradeID] = true
		res = append(res, link)
	}
	return res
}

func equipmentGroup(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + "Equipment"
}

func groupConstraints(group *etree.Element) (int, int) {
	minQty, maxQty := 0, 1
	for _, c := range iocat.Constraints(group) {
		if c.Field != "selections" {
			continue
		}
		switch c.Type {
		case "min":
			minQty = int(c.Value)
		case "max":
			maxQty = int(c.Value)
		}
	}
	return minQty, maxQty
}

func upgradeKind(profiles []bsdata.Profile) string {
	if len(profiles) > 0 && profiles[0].IsWeapon() {
		return "Weapon"
	}
	return "Wargear"
}
