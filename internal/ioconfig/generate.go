package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hhlist/rosterdb/pkg/templates"
)

// CataloguesFileName is the generated catalogue-set file.
const CataloguesFileName = "catalogues.yaml"

// GenerateDefaultConfig writes the embedded config and catalogue-set
// templates into the home directory. Existing files are never
// overwritten.
func GenerateDefaultConfig(homeDir string) error {
	if err := os.MkdirAll(homeDir, 0755); err != nil {
		return fmt.Errorf("cannot create home directory %s: %w", homeDir, err)
	}

	files := []struct {
		name    string
		content string
	}{
		{ConfigFileName, templates.ConfigYAML},
		{CataloguesFileName, templates.CataloguesYAML},
	}

	for _, f := range files {
		path := filepath.Join(homeDir, f.name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("cannot write %s: %w", path, err)
		}
	}

	return nil
}
