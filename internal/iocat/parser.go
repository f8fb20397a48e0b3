// Package iocat reads BattleScribe XML catalogue and game-system
// files. All structural queries match on local element names, so a
// file declaring a default namespace (the common case) and one
// declaring none parse identically.
package iocat

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// Catalogue is a loaded rules file.
type Catalogue struct {
	doc  *etree.Document
	root *etree.Element
	path string

	Name         string
	ID           string
	Revision     string
	GameSystemID string
}

// Load parses a rules file. A missing or malformed file is a fatal
// load error; no partial catalogue is returned.
func Load(path string) (*Catalogue, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, ReadError(path, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, EmptyDocumentError(path)
	}

	c := &Catalogue{
		doc:          doc,
		root:         root,
		path:         path,
		Name:         root.SelectAttrValue("name", ""),
		ID:           root.SelectAttrValue("id", ""),
		Revision:     root.SelectAttrValue("revision", ""),
		GameSystemID: root.SelectAttrValue("gameSystemId", ""),
	}

	slog.Info("Loaded catalogue",
		"name", c.Name, "revision", c.Revision, "path", path)
	return c, nil
}

// Root exposes the document root for callers that walk raw elements
// (the upgrade extractor, the detachment loader).
func (c *Catalogue) Root() *etree.Element {
	return c.root
}

// AllEntries returns every selectionEntry element in the document,
// optionally filtered by declared kind.
func (c *Catalogue) AllEntries(kind bsdata.EntryKind) []*etree.Element {
	var res []*etree.Element
	walk(c.root, "selectionEntry", func(el *etree.Element) {
		if kind == "" || el.SelectAttrValue("type", "") == string(kind) {
			res = append(res, el)
		}
	})
	slog.Debug("Found selection entries", "count", len(res), "kind", kind)
	return res
}

// SharedEntries returns the top-level reusable entries of a shared
// catalogue.
func (c *Catalogue) SharedEntries() []*etree.Element {
	var res []*etree.Element
	walk(c.root, "sharedSelectionEntries", func(parent *etree.Element) {
		res = append(res, children(parent, "selectionEntry")...)
	})
	return res
}

// ForceEntries returns every forceEntry element (game-system files).
func (c *Catalogue) ForceEntries() []*etree.Element {
	var res []*etree.Element
	walk(c.root, "forceEntry", func(el *etree.Element) {
		res = append(res, el)
	})
	return res
}

// RootEntryLinks returns the catalogue's root-level entry links, which
// carry the category assignments for buildable units.
func (c *Catalogue) RootEntryLinks() []*etree.Element {
	var res []*etree.Element
	for _, links := range children(c.root, "entryLinks") {
		res = append(res, children(links, "entryLink")...)
	}
	return res
}

// SharedProfiles returns every standalone profile under
// sharedProfiles.
func (c *Catalogue) SharedProfiles() []bsdata.Profile {
	var res []bsdata.Profile
	walk(c.root, "sharedProfiles", func(parent *etree.Element) {
		for _, p := range children(parent, "profile") {
			res = append(res, parseProfile(p))
		}
	})
	return res
}

// ParseEntry parses one selectionEntry element. Malformed entries
// (missing id or name) are per-entry errors; callers log and skip.
func ParseEntry(el *etree.Element) (*bsdata.CatalogueEntry, error) {
	id := el.SelectAttrValue("id", "")
	name := el.SelectAttrValue("name", "")
	if id == "" || name == "" {
		return nil, MalformedEntryError(name, id)
	}

	return &bsdata.CatalogueEntry{
		ID:            id,
		Name:          name,
		Kind:          bsdata.EntryKind(el.SelectAttrValue("type", "")),
		Hidden:        boolAttr(el, "hidden"),
		Costs:         Costs(el),
		Profiles:      Profiles(el),
		Rules:         Rules(el),
		Constraints:   Constraints(el),
		CategoryLinks: CategoryLinks(el),
		EntryLinks:    EntryLinks(el),
		Groups:        Groups(el),
	}, nil
}

// Costs reads every direct costs/cost child, keyed by declared name.
func Costs(el *etree.Element) map[string]float64 {
	res := map[string]float64{}
	for _, costs := range children(el, "costs") {
		for _, cost := range children(costs, "cost") {
			name := cost.SelectAttrValue("name", bsdata.CostNamePoints)
			res[name] = floatAttr(cost, "value")
		}
	}
	return res
}

// Profiles reads every descendant profile with its characteristics.
func Profiles(el *etree.Element) []bsdata.Profile {
	var res []bsdata.Profile
	walk(el, "profile", func(p *etree.Element) {
		res = append(res, parseProfile(p))
	})
	return res
}

func parseProfile(p *etree.Element) bsdata.Profile {
	prof := bsdata.Profile{
		ID:              p.SelectAttrValue("id", ""),
		Name:            p.SelectAttrValue("name", ""),
		TypeName:        p.SelectAttrValue("typeName", ""),
		Hidden:          boolAttr(p, "hidden"),
		Characteristics: map[string]string{},
	}
	walk(p, "characteristic", func(ch *etree.Element) {
		prof.Characteristics[ch.SelectAttrValue("name", "")] =
			strings.TrimSpace(ch.Text())
	})
	return prof
}

// Rules reads every descendant rule with its description text.
func Rules(el *etree.Element) []bsdata.Rule {
	var res []bsdata.Rule
	walk(el, "rule", func(r *etree.Element) {
		rule := bsdata.Rule{
			ID:     r.SelectAttrValue("id", ""),
			Name:   r.SelectAttrValue("name", ""),
			Hidden: boolAttr(r, "hidden"),
		}
		if desc := firstChild(r, "description"); desc != nil {
			rule.Description = strings.TrimSpace(desc.Text())
		}
		res = append(res, rule)
	})
	return res
}

// Constraints reads the direct constraints/constraint children.
func Constraints(el *etree.Element) []bsdata.Constraint {
	var res []bsdata.Constraint
	for _, cs := range children(el, "constraints") {
		for _, c := range children(cs, "constraint") {
			res = append(res, bsdata.Constraint{
				ID:    c.SelectAttrValue("id", ""),
				Type:  c.SelectAttrValue("type", ""),
				Value: floatAttr(c, "value"),
				Field: c.SelectAttrValue("field", ""),
				Scope: c.SelectAttrValue("scope", ""),
			})
		}
	}
	return res
}

// CategoryLinks reads the direct categoryLinks/categoryLink children.
func CategoryLinks(el *etree.Element) []bsdata.CategoryLink {
	var res []bsdata.CategoryLink
	for _, cls := range children(el, "categoryLinks") {
		for _, cl := range children(cls, "categoryLink") {
			res = append(res, bsdata.CategoryLink{
				ID:       cl.SelectAttrValue("id", ""),
				Name:     cl.SelectAttrValue("name", ""),
				TargetID: cl.SelectAttrValue("targetId", ""),
				Primary:  boolAttr(cl, "primary"),
			})
		}
	}
	return res
}

// EntryLinks reads the direct entryLinks/entryLink children.
func EntryLinks(el *etree.Element) []bsdata.EntryLink {
	var res []bsdata.EntryLink
	for _, els := range children(el, "entryLinks") {
		for _, link := range children(els, "entryLink") {
			res = append(res, bsdata.EntryLink{
				ID:       link.SelectAttrValue("id", ""),
				Name:     link.SelectAttrValue("name", ""),
				TargetID: link.SelectAttrValue("targetId", ""),
				Type:     link.SelectAttrValue("type", ""),
				Import:   boolAttr(link, "import"),
				Hidden:   boolAttr(link, "hidden"),
			})
		}
	}
	return res
}

// Groups reads the direct selectionEntryGroups/selectionEntryGroup
// children, shallowly; the upgrade extractor recurses into nested
// groups itself.
func Groups(el *etree.Element) []bsdata.OptionGroup {
	var res []bsdata.OptionGroup
	for _, grp := range GroupElements(el) {
		res = append(res, bsdata.OptionGroup{
			ID:          grp.SelectAttrValue("id", ""),
			Name:        grp.SelectAttrValue("name", ""),
			Hidden:      boolAttr(grp, "hidden"),
			DefaultID:   grp.SelectAttrValue("defaultSelectionEntryId", ""),
			Constraints: Constraints(grp),
			EntryLinks:  EntryLinks(grp),
		})
	}
	return res
}

// GroupElements returns the direct option-group child elements.
func GroupElements(el *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, groups := range children(el, "selectionEntryGroups") {
		res = append(res, children(groups, "selectionEntryGroup")...)
	}
	return res
}

// ChildEntries returns the direct selectionEntries/selectionEntry
// children, optionally filtered by kind.
func ChildEntries(el *etree.Element, kind bsdata.EntryKind) []*etree.Element {
	var res []*etree.Element
	for _, entries := range children(el, "selectionEntries") {
		for _, entry := range children(entries, "selectionEntry") {
			if kind == "" || entry.SelectAttrValue("type", "") == string(kind) {
				res = append(res, entry)
			}
		}
	}
	return res
}

// CategoryLinkElements returns the direct categoryLinks/categoryLink
// child elements.
func CategoryLinkElements(el *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, links := range children(el, "categoryLinks") {
		res = append(res, children(links, "categoryLink")...)
	}
	return res
}

// NestedForceEntries returns the direct forceEntries/forceEntry child
// elements of a force entry.
func NestedForceEntries(el *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, entries := range children(el, "forceEntries") {
		res = append(res, children(entries, "forceEntry")...)
	}
	return res
}

// CostElements returns the direct costs/cost child elements.
func CostElements(el *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, costs := range children(el, "costs") {
		res = append(res, children(costs, "cost")...)
	}
	return res
}

// EntryLinkElements returns the direct entryLinks/entryLink child
// elements.
func EntryLinkElements(el *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, links := range children(el, "entryLinks") {
		res = append(res, children(links, "entryLink")...)
	}
	return res
}

// ModifierElements returns the direct modifiers/modifier child
// elements.
func ModifierElements(el *etree.Element) []*etree.Element {
	var res []*etree.Element
	for _, mods := range children(el, "modifiers") {
		res = append(res, children(mods, "modifier")...)
	}
	return res
}

// CommentText returns the element's comment child text, if any.
func CommentText(el *etree.Element) string {
	if c := firstChild(el, "comment"); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// BaseUnitCost computes a unit's base cost: its own direct points cost
// plus the cost of all mandatory child sub-entries (cost x minQty).
func BaseUnitCost(el *etree.Element) int {
	total := float64(bsdata.PointsFrom(Costs(el)))

	for _, child := range ChildEntries(el, "") {
		minQty := minSelections(child)
		if minQty > 0 {
			total += float64(bsdata.PointsFrom(Costs(child)) * minQty)
		}
	}

	return int(total)
}

// ModelBounds derives a unit's model-count bounds by summing min/max
// selection constraints across its child model entries. A nil max
// means unbounded; a unit with no model children counts as one model.
func ModelBounds(el *etree.Element) (int, *int) {
	models := ChildEntries(el, bsdata.KindModel)
	if len(models) == 0 {
		return 1, nil
	}

	totalMin := 0
	totalMax := 0
	for _, child := range models {
		childMin, childMax := 0, -1
		for _, c := range Constraints(child) {
			if c.Field != "selections" || c.Scope != "parent" {
				continue
			}
			switch c.Type {
			case "min":
				childMin = int(c.Value)
			case "max":
				childMax = int(c.Value)
			}
		}
		totalMin += childMin
		if childMax < 0 {
			// Any child without a max makes the unit unbounded.
			return max(totalMin, 1), nil
		}
		totalMax += childMax
	}

	if totalMax == 0 {
		return max(totalMin, 1), nil
	}
	return max(totalMin, 1), &totalMax
}

func minSelections(el *etree.Element) int {
	for _, c := range Constraints(el) {
		if c.Type == "min" && c.Field == "selections" {
			return int(c.Value)
		}
	}
	return 0
}

// children returns direct child elements matching the local tag name,
// regardless of namespace prefix.
func children(el *etree.Element, tag string) []*etree.Element {
	var res []*etree.Element
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			res = append(res, ch)
		}
	}
	return res
}

func firstChild(el *etree.Element, tag string) *etree.Element {
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			return ch
		}
	}
	return nil
}

// walk visits every descendant element matching the local tag name,
// depth-first.
func walk(el *etree.Element, tag string, fn func(*etree.Element)) {
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			fn(ch)
		}
		walk(ch, tag, fn)
	}
}

func boolAttr(el *etree.Element, name string) bool {
	return el.SelectAttrValue(name, "") == "true"
}

func floatAttr(el *etree.Element, name string) float64 {
	v, err := strconv.ParseFloat(el.SelectAttrValue(name, "0"), 64)
	if err != nil {
		return 0
	}
	return v
}
