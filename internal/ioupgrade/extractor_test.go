package ioupgrade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhlist/rosterdb/internal/ioshared"
	"github.com/hhlist/rosterdb/pkg/bsdata"
)

const weaponsCatalogue = `<?xml version="1.0" encoding="UTF-8"?>
<catalogue xmlns="http://www.battlescribe.net/schema/catalogueSchema"
  id="wcat" name="Weapons" revision="3">
  <sharedSelectionEntries>
    <selectionEntry id="w-las" name="Lasrifle" type="upgrade">
      <costs><cost name="Points" value="0"/></costs>
      <profiles>
        <profile id="p-las" name="Lasrifle" typeName="Weapon">
          <characteristics>
            <characteristic name="Range">18"</characteristic>
            <characteristic name="Strength">3</characteristic>
            <characteristic name="AP">-</characteristic>
            <characteristic name="Type">Rapid Fire</characteristic>
          </characteristics>
        </profile>
      </profiles>
    </selectionEntry>
    <selectionEntry id="w-axe" name="Power Axe" type="upgrade">
      <costs><cost name="Points" value="10"/></costs>
      <profiles>
        <profile id="p-axe" name="Power Axe" typeName="Melee Weapon">
          <characteristics>
            <characteristic name="Range">-</characteristic>
            <characteristic name="S">+1</characteristic>
            <characteristic name="AP">2</characteristic>
            <characteristic name="Type">Melee</characteristic>
          </characteristics>
        </profile>
      </profiles>
      <rules>
        <rule id="r-sunder" name="Sunder"><description>d</description></rule>
      </rules>
    </selectionEntry>
    <selectionEntry id="g-vox" name="Vox Interlock" type="upgrade">
      <costs><cost name="Points" value="5"/></costs>
    </selectionEntry>
    <selectionEntry id="w-hidden" name="Unreleased Gun" type="upgrade"
      hidden="true">
      <costs><cost name="Points" value="99"/></costs>
    </selectionEntry>
  </sharedSelectionEntries>
</catalogue>`

func testIndex(t *testing.T) *ioshared.Index {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Weapons.cat")
	require.NoError(t, os.WriteFile(path, []byte(weaponsCatalogue), 0644))

	idx := ioshared.NewIndex(dir)
	n, err := idx.LoadShared("Weapons")
	require.NoError(t, err, "Fixture catalogue should load")
	require.Equal(t, 4, n, "All shared entries should be cached")
	return idx
}

func unitElement(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc.Root()
}

// TestExtractAll_EntryLinks verifies direct cross-references resolve
// against the shared cache and hidden links are skipped.
func TestExtractAll_EntryLinks(t *testing.T) {
	ex := New(testIndex(t))
	unit := unitElement(t, `
<selectionEntry id="u1" name="Auxiliaries" type="unit">
  <entryLinks>
    <entryLink id="el1" name="Lasrifle" targetId="w-las" type="selectionEntry"/>
    <entryLink id="el2" name="Secret" targetId="w-hidden"
      type="selectionEntry" hidden="true"/>
    <entryLink id="el3" name="Missing" targetId="no-such-id"
      type="selectionEntry"/>
  </entryLinks>
</selectionEntry>`)

	links := ex.ExtractAll(unit, "")
	require.Len(t, links, 1, "Only the visible resolvable link survives")
	assert.Equal(t, "w-las", links[0].UpgradeID)
	assert.Equal(t, "Lasrifle", links[0].UpgradeName)
	assert.Equal(t, "", links[0].GroupName,
		"Top-level links carry no group at empty prefix")
	assert.Equal(t, 0, links[0].MinQuantity)
	assert.Equal(t, 1, links[0].MaxQuantity)
	assert.False(t, links[0].IsInline)
}

// TestExtractAll_Groups verifies option groups carry their selection
// constraints and nested groups join names with " > ".
func TestExtractAll_Groups(t *testing.T) {
	ex := New(testIndex(t))
	unit := unitElement(t, `
<selectionEntry id="u1" name="Auxiliaries" type="unit">
  <selectionEntryGroups>
    <selectionEntryGroup id="g1" name="Weapon Options">
      <constraints>
        <constraint id="c1" type="min" value="1" field="selections"/>
        <constraint id="c2" type="max" value="2" field="selections"/>
      </constraints>
      <entryLinks>
        <entryLink id="el1" name="" targetId="w-axe" type="selectionEntry"/>
      </entryLinks>
      <selectionEntryGroups>
        <selectionEntryGroup id="g2" name="Special Issue">
          <entryLinks>
            <entryLink id="el2" name="Vox Interlock" targetId="g-vox"
              type="selectionEntry"/>
          </entryLinks>
        </selectionEntryGroup>
      </selectionEntryGroups>
    </selectionEntryGroup>
  </selectionEntryGroups>
</selectionEntry>`)

	links := ex.ExtractAll(unit, "")
	require.Len(t, links, 2)

	assert.Equal(t, "w-axe", links[0].UpgradeID)
	assert.Equal(t, "Power Axe", links[0].UpgradeName,
		"Empty link names fall back to the cached entry name")
	assert.Equal(t, "Weapon Options", links[0].GroupName)
	assert.Equal(t, 1, links[0].MinQuantity)
	assert.Equal(t, 2, links[0].MaxQuantity)

	assert.Equal(t, "g-vox", links[1].UpgradeID)
	assert.Equal(t, "Weapon Options > Special Issue", links[1].GroupName,
		"Nested group names are joined")
	assert.Equal(t, 0, links[1].MinQuantity,
		"Unconstrained groups default to optional")
	assert.Equal(t, 1, links[1].MaxQuantity)
}

// TestExtractAll_InlineMaterialization verifies inline entries absent
// from the shared cache are materialized with cost and kind.
func TestExtractAll_InlineMaterialization(t *testing.T) {
	ex := New(testIndex(t))
	unit := unitElement(t, `
<selectionEntry id="u1" name="Auxiliaries" type="unit">
  <selectionEntries>
    <selectionEntry id="inl-1" name="Cohort Banner" type="upgrade">
      <costs><cost name="Points" value="15"/></costs>
    </selectionEntry>
    <selectionEntry id="w-las" name="Lasrifle" type="upgrade"/>
  </selectionEntries>
</selectionEntry>`)

	links := ex.ExtractAll(unit, "")
	require.Len(t, links, 2)

	banner := links[0]
	assert.Equal(t, "inl-1", banner.UpgradeID)
	assert.True(t, banner.IsInline, "Uncached entries are materialized")
	require.NotNil(t, banner.Inline)
	assert.Equal(t, 15, banner.Inline.Cost)
	assert.Equal(t, "Wargear", banner.Inline.Kind,
		"No weapon profile means wargear")

	assert.False(t, links[1].IsInline,
		"Entries present in the shared cache stay plain references")
	assert.Nil(t, links[1].Inline)
}

// TestExtractAll_ChildModels verifies model sub-entries are recursed
// into with a name-qualified prefix.
func TestExtractAll_ChildModels(t *testing.T) {
	ex := New(testIndex(t))
	unit := unitElement(t, `
<selectionEntry id="u1" name="Auxiliaries" type="unit">
  <selectionEntries>
    <selectionEntry id="m1" name="Sergeant" type="model">
      <selectionEntryGroups>
        <selectionEntryGroup id="g1" name="Sidearm">
          <entryLinks>
            <entryLink id="el1" name="Power Axe" targetId="w-axe"
              type="selectionEntry"/>
          </entryLinks>
        </selectionEntryGroup>
      </selectionEntryGroups>
    </selectionEntry>
  </selectionEntries>
</selectionEntry>`)

	links := ex.ExtractAll(unit, "")
	require.Len(t, links, 1)
	assert.Equal(t, "Sergeant > Sidearm", links[0].GroupName,
		"Child model options are qualified by the model name")
}

// TestExtractAll_HiddenGroup verifies hidden groups contribute
// nothing.
func TestExtractAll_HiddenGroup(t *testing.T) {
	ex := New(testIndex(t))
	unit := unitElement(t, `
<selectionEntry id="u1" name="Auxiliaries" type="unit">
  <selectionEntryGroups>
    <selectionEntryGroup id="g1" name="Removed" hidden="true">
      <entryLinks>
        <entryLink id="el1" name="Power Axe" targetId="w-axe"
          type="selectionEntry"/>
      </entryLinks>
    </selectionEntryGroup>
  </selectionEntryGroups>
</selectionEntry>`)

	assert.Empty(t, ex.ExtractAll(unit, ""))
}

// TestDedupe verifies duplicate links keep first-occurrence order.
func TestDedupe(t *testing.T) {
	links := []bsdata.UpgradeLink{
		{UpgradeID: "a", GroupName: "First"},
		{UpgradeID: "b"},
		{UpgradeID: "a", GroupName: "Second"},
	}

	res := Dedupe(links)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].UpgradeID)
	assert.Equal(t, "First", res[0].GroupName,
		"First occurrence wins")
	assert.Equal(t, "b", res[1].UpgradeID)
}

// TestWeapons verifies whole-catalogue weapon extraction flattens the
// first weapon profile and skips hidden entries.
func TestWeapons(t *testing.T) {
	ex := New(testIndex(t))

	rows := ex.Weapons("Weapons")
	require.Len(t, rows, 3, "Hidden entries are skipped")

	byName := map[string]int{}
	for i, r := range rows {
		byName[r.Name] = i
	}

	las := rows[byName["Lasrifle"]]
	assert.Equal(t, "w-las", las.SourceID)
	assert.Equal(t, `18"`, las.RangeValue)
	assert.Equal(t, "3", las.Strength)
	assert.Equal(t, "-", las.AP)
	assert.Equal(t, "Rapid Fire", las.WeaponType)
	assert.Equal(t, 0, las.Cost)

	axe := rows[byName["Power Axe"]]
	assert.Equal(t, "+1", axe.Strength,
		"Abbreviated strength characteristic names are accepted")
	assert.Equal(t, 10, axe.Cost)
	assert.Contains(t, axe.SpecialRules, "Sunder")

	vox := rows[byName["Vox Interlock"]]
	assert.Empty(t, vox.WeaponType,
		"Entries without a weapon profile keep empty stats")
	assert.Equal(t, 5, vox.Cost)
}

// TestWeapons_UnknownCatalogue verifies a missing catalogue yields no
// rows rather than an error.
func TestWeapons_UnknownCatalogue(t *testing.T) {
	ex := New(testIndex(t))
	assert.Empty(t, ex.Weapons("Nope"))
}

// TestSharedUpgrades verifies faction shared extraction keeps only
// upgrade-kind entries.
func TestSharedUpgrades(t *testing.T) {
	ex := New(testIndex(t))

	rows := ex.SharedUpgrades("Weapons")
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.NotEmpty(t, r.SourceID)
		assert.NotEmpty(t, r.Kind)
	}
}

// TestFromWeapon verifies weapon rows synthesize weapon-kind upgrades.
func TestFromWeapon(t *testing.T) {
	ex := New(testIndex(t))
	rows := ex.Weapons("Weapons")
	require.NotEmpty(t, rows)

	up := FromWeapon(rows[0])
	assert.Equal(t, rows[0].SourceID, up.SourceID)
	assert.Equal(t, rows[0].Cost, up.Cost)
	assert.Equal(t, "Weapon", up.Kind)
}
