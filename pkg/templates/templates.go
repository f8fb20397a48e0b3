// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// ConfigYAML contains the default rosterdb.yaml template.
//
//go:embed rosterdb.yaml
var ConfigYAML string

// CataloguesYAML contains the default catalogues.yaml template
// describing which rules files a populate run loads.
//
//go:embed catalogues.yaml
var CataloguesYAML string
