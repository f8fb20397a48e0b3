package ioshared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weaponsXML = `<?xml version="1.0"?>
<catalogue id="cat-w" name="Weapons" revision="3" gameSystemId="gs-1">
  <sharedSelectionEntries>
    <selectionEntry id="w-las" name="Lasrifle" type="upgrade">
      <costs><cost name="Points" typeId="pts" value="0"/></costs>
    </selectionEntry>
    <selectionEntry id="dup-1" name="Weapons Version" type="upgrade"/>
    <selectionEntry id="bad" type="upgrade"/>
  </sharedSelectionEntries>
  <sharedProfiles>
    <profile id="p-las" name="Lasrifle" typeName="Weapon">
      <characteristics>
        <characteristic name="Range">18"</characteristic>
      </characteristics>
    </profile>
  </sharedProfiles>
</catalogue>`

const wargearXML = `<?xml version="1.0"?>
<catalogue id="cat-g" name="Wargear" revision="2" gameSystemId="gs-1">
  <sharedSelectionEntries>
    <selectionEntry id="g-vox" name="Vox Interlock" type="upgrade">
      <costs><cost name="Points" typeId="pts" value="5"/></costs>
    </selectionEntry>
    <selectionEntry id="dup-1" name="Wargear Version" type="upgrade"/>
  </sharedSelectionEntries>
</catalogue>`

func fixtureIndex(t *testing.T) *Index {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Weapons.cat": weaponsXML,
		"Wargear.cat": wargearXML,
	}
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
	return NewIndex(dir)
}

func TestLoadShared(t *testing.T) {
	x := fixtureIndex(t)

	// 2 parseable entries + 1 profile; the id-less entry is skipped.
	count, err := x.LoadShared("Weapons")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.Equal(t, []string{"Weapons"}, x.Loaded())
}

func TestLoadShared_Idempotent(t *testing.T) {
	x := fixtureIndex(t)

	first, err := x.LoadShared("Weapons")
	require.NoError(t, err)

	second, err := x.LoadShared("Weapons")
	require.NoError(t, err)

	assert.Equal(t, first, second, "reload should return the cached count")
	assert.Len(t, x.Loaded(), 1, "reload should not duplicate load order")
}

func TestLoadShared_Missing(t *testing.T) {
	x := fixtureIndex(t)

	_, err := x.LoadShared("Nonexistent")
	require.Error(t, err)
}

func TestResolve_LoadOrder(t *testing.T) {
	x := fixtureIndex(t)

	_, err := x.LoadShared("Weapons")
	require.NoError(t, err)
	_, err = x.LoadShared("Wargear")
	require.NoError(t, err)

	// dup-1 exists in both; the first-loaded catalogue wins.
	item, ok := x.Resolve("dup-1")
	require.True(t, ok)
	assert.Equal(t, "Weapons Version", item.Entry.Name)

	_, ok = x.Resolve("no-such-id")
	assert.False(t, ok, "misses are soft")
}

func TestResolve_ProfileTagging(t *testing.T) {
	x := fixtureIndex(t)

	_, err := x.LoadShared("Weapons")
	require.NoError(t, err)

	item, ok := x.Resolve("p-las")
	require.True(t, ok)
	assert.True(t, item.IsProfile())
	assert.Equal(t, `18"`, item.Profile.Characteristics["Range"])

	// Entry lookup must not surface a standalone profile.
	_, ok = x.Entry("p-las")
	assert.False(t, ok)

	entry, ok := x.Entry("g-vox")
	require.False(t, ok, "Wargear is not loaded yet")
	assert.Nil(t, entry)
}

func TestEntryName(t *testing.T) {
	x := fixtureIndex(t)

	_, err := x.LoadShared("Wargear")
	require.NoError(t, err)

	assert.Equal(t, "Vox Interlock", x.EntryName("g-vox"))
	assert.Equal(t, "", x.EntryName("unknown"))
}

func TestStats(t *testing.T) {
	x := fixtureIndex(t)

	_, err := x.LoadShared("Weapons")
	require.NoError(t, err)
	_, err = x.LoadShared("Wargear")
	require.NoError(t, err)

	stats := x.Stats()
	assert.Equal(t, 3, stats["Weapons"])
	assert.Equal(t, 2, stats["Wargear"])
}
