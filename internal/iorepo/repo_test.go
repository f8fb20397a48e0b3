package iorepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhlist/rosterdb/pkg/config"
)

func checkoutFixture(t *testing.T) *fetcher {
	t.Helper()
	dir := t.TempDir()
	files := []string{
		"Solar Auxilia.cat",
		"Weapons.cat",
		"Horus Heresy 3rd Edition.gst",
	}
	for _, name := range files {
		require.NoError(t,
			os.WriteFile(filepath.Join(dir, name), []byte("<x/>"), 0644))
	}

	cfg := config.New()
	cfg.BSData.Dir = dir
	return NewFetcher(cfg).(*fetcher)
}

// TestCataloguePath_Exact verifies exact-name resolution.
func TestCataloguePath_Exact(t *testing.T) {
	f := checkoutFixture(t)
	path, err := f.CataloguePath("Solar Auxilia")
	require.NoError(t, err)
	assert.Equal(t, "Solar Auxilia.cat", filepath.Base(path))
}

// TestCataloguePath_CaseInsensitive verifies fallback matching.
func TestCataloguePath_CaseInsensitive(t *testing.T) {
	f := checkoutFixture(t)
	path, err := f.CataloguePath("solar auxilia")
	require.NoError(t, err)
	assert.Equal(t, "Solar Auxilia.cat", filepath.Base(path))
}

// TestCataloguePath_NotFound verifies the error on unknown names.
func TestCataloguePath_NotFound(t *testing.T) {
	f := checkoutFixture(t)
	_, err := f.CataloguePath("Legiones Astartes")
	assert.Error(t, err)
}

// TestCataloguePath_MissingCheckout verifies the missing-checkout
// error.
func TestCataloguePath_MissingCheckout(t *testing.T) {
	cfg := config.New()
	cfg.BSData.Dir = filepath.Join(t.TempDir(), "nope")
	f := NewFetcher(cfg).(*fetcher)

	_, err := f.CataloguePath("Weapons")
	assert.Error(t, err)
}

// TestGameSystemPath verifies .gst discovery by stem.
func TestGameSystemPath(t *testing.T) {
	f := checkoutFixture(t)
	path, err := f.GameSystemPath()
	require.NoError(t, err)
	assert.Equal(t, "Horus Heresy 3rd Edition.gst", filepath.Base(path))
}

// TestListCatalogues verifies catalogue enumeration.
func TestListCatalogues(t *testing.T) {
	f := checkoutFixture(t)
	names := f.ListCatalogues()
	assert.ElementsMatch(t, []string{"Solar Auxilia", "Weapons"}, names)
}
