// Package ioshared indexes reusable entries from shared catalogues
// (Weapons, Wargear, faction-specific shared entries) by their global
// id, so other catalogues can reference them without re-parsing.
//
// The index is constructed once per catalogue-load operation and
// passed by reference to every component that needs lookups.
package ioshared

import (
	"log/slog"
	"path/filepath"

	"github.com/hhlist/rosterdb/internal/iocat"
	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// Resolved is one cached item: either a reusable entry or a standalone
// stat profile, tagged distinctly so a profile lookup never
// masquerades as an entry lookup.
type Resolved struct {
	Entry   *bsdata.CatalogueEntry
	Profile *bsdata.Profile
}

// IsProfile reports whether the item is a standalone profile.
func (r Resolved) IsProfile() bool {
	return r.Profile != nil
}

// Index caches shared catalogue entries for cross-catalogue lookups.
type Index struct {
	dir        string
	order      []string
	catalogues map[string]map[string]Resolved
}

// NewIndex creates an empty index over catalogue files in dir.
func NewIndex(dir string) *Index {
	return &Index{
		dir:        dir,
		catalogues: make(map[string]map[string]Resolved),
	}
}

// LoadShared parses and caches a shared catalogue by name (without the
// .cat extension). Loading the same catalogue twice is a no-op that
// returns the previously cached entry count.
func (x *Index) LoadShared(name string) (int, error) {
	if cache, ok := x.catalogues[name]; ok {
		slog.Debug("Catalogue already cached", "name", name)
		return len(cache), nil
	}

	path := filepath.Join(x.dir, name+".cat")
	cat, err := iocat.Load(path)
	if err != nil {
		return 0, NotFoundError(name, err)
	}

	cache := make(map[string]Resolved)

	for _, el := range cat.SharedEntries() {
		entry, err := iocat.ParseEntry(el)
		if err != nil {
			slog.Warn("Failed to parse shared entry",
				"catalogue", name,
				"entry", el.SelectAttrValue("name", "unknown"),
				"error", err,
			)
			continue
		}
		cache[entry.ID] = Resolved{Entry: entry}
	}

	for _, prof := range cat.SharedProfiles() {
		if prof.ID == "" {
			continue
		}
		p := prof
		cache[p.ID] = Resolved{Profile: &p}
	}

	x.catalogues[name] = cache
	x.order = append(x.order, name)

	slog.Info("Cached shared catalogue", "name", name, "entries", len(cache))
	return len(cache), nil
}

// Resolve looks an id up across all loaded catalogues in load order,
// returning the first match. Misses are expected; callers log at debug
// level and continue.
func (x *Index) Resolve(id string) (Resolved, bool) {
	for _, name := range x.order {
		if item, ok := x.catalogues[name][id]; ok {
			return item, true
		}
	}
	return Resolved{}, false
}

// Entry resolves an id to a reusable entry, ignoring standalone
// profiles.
func (x *Index) Entry(id string) (*bsdata.CatalogueEntry, bool) {
	item, ok := x.Resolve(id)
	if !ok || item.IsProfile() {
		return nil, false
	}
	return item.Entry, true
}

// EntryName returns the display name for an id, or "" when unknown.
func (x *Index) EntryName(id string) string {
	if entry, ok := x.Entry(id); ok {
		return entry.Name
	}
	return ""
}

// Catalogue returns the cached items of one loaded catalogue. Used for
// whole-catalogue extraction (weapons, wargear).
func (x *Index) Catalogue(name string) map[string]Resolved {
	return x.catalogues[name]
}

// Loaded returns the loaded catalogue names in load order.
func (x *Index) Loaded() []string {
	res := make([]string, len(x.order))
	copy(res, x.order)
	return res
}

// Stats returns entry counts per loaded catalogue.
func (x *Index) Stats() map[string]int {
	res := make(map[string]int, len(x.catalogues))
	for name, cache := range x.catalogues {
		res[name] = len(cache)
	}
	return res
}
