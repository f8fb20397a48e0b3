// Package sources defines the catalogue-set configuration: which
// faction catalogue, game-system file and shared catalogues a populate
// run loads.
package sources

import (
	"fmt"

	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// CatalogueSet describes the rules files for one populate run.
type CatalogueSet struct {
	// Faction is the faction catalogue stem (without .cat).
	Faction string `yaml:"faction"`

	// GameSystem is the game-system file stem (without .gst).
	GameSystem string `yaml:"game_system"`

	// Shared lists shared catalogues to preload into the cache, in
	// resolution order. Id lookups search catalogues in this order and
	// return the first match.
	Shared []string `yaml:"shared"`
}

// Default returns the built-in Solar Auxilia catalogue set.
func Default() *CatalogueSet {
	return &CatalogueSet{
		Faction:    bsdata.FactionName,
		GameSystem: bsdata.GameSystemName,
		Shared:     []string{"Weapons", "Wargear", bsdata.FactionName},
	}
}

// Validate checks the set for obvious misconfiguration.
func (s *CatalogueSet) Validate() error {
	if s.Faction == "" {
		return fmt.Errorf("catalogue set: faction is empty")
	}
	if s.GameSystem == "" {
		return fmt.Errorf("catalogue set: game_system is empty")
	}
	seen := make(map[string]bool, len(s.Shared))
	for _, name := range s.Shared {
		if name == "" {
			return fmt.Errorf("catalogue set: empty shared catalogue name")
		}
		if seen[name] {
			return fmt.Errorf("catalogue set: duplicate shared catalogue %q", name)
		}
		seen[name] = true
	}
	return nil
}
