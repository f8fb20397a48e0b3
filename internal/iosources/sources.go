// Package iosources loads the catalogues.yaml file describing which
// rules files a populate run uses.
package iosources

import (
	"log/slog"
	"os"

	"github.com/hhlist/rosterdb/pkg/config"
	"github.com/hhlist/rosterdb/pkg/errcode"
	"github.com/hhlist/rosterdb/pkg/sources"
	"gopkg.in/yaml.v3"
)

// Load reads the catalogue set from cfg.BSData.CataloguesFile. An
// unset path yields the built-in Solar Auxilia default.
func Load(cfg *config.Config) (*sources.CatalogueSet, error) {
	path := cfg.BSData.CataloguesFile
	if path == "" {
		slog.Debug("No catalogues file configured, using defaults")
		return sources.Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errcode.New(errcode.ReadFileError, err,
			"cannot read catalogues file %s", path)
	}

	var set sources.CatalogueSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errcode.New(errcode.ReadFileError, err,
			"cannot parse catalogues file %s", path)
	}

	// Unset fields fall back to the defaults.
	def := sources.Default()
	if set.Faction == "" {
		set.Faction = def.Faction
	}
	if set.GameSystem == "" {
		set.GameSystem = def.GameSystem
	}
	if len(set.Shared) == 0 {
		set.Shared = def.Shared
	}

	if err := set.Validate(); err != nil {
		return nil, errcode.New(errcode.ReadFileError, err,
			"invalid catalogues file %s", path)
	}

	slog.Info("Loaded catalogue set",
		"faction", set.Faction,
		"game_system", set.GameSystem,
		"shared", len(set.Shared),
	)
	return &set, nil
}
