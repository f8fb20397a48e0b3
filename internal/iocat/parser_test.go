package iocat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogueXML = `<?xml version="1.0" encoding="UTF-8"?>
<catalogue xmlns="http://www.battlescribe.net/schema/catalogueSchema"
  id="cat-1" name="Test Faction" revision="7" gameSystemId="gs-1">
  <entryLinks>
    <entryLink id="l-1" name="Test Section" targetId="u-1" type="selectionEntry">
      <categoryLinks>
        <categoryLink id="cl-1" name="Troops" targetId="c-troops" primary="true"/>
        <categoryLink id="cl-2" name="Budget" targetId="c-budget" primary="false"/>
      </categoryLinks>
    </entryLink>
  </entryLinks>
  <sharedSelectionEntries>
    <selectionEntry id="u-1" name="Test Section" type="unit">
      <costs>
        <cost name="Points" typeId="pts" value="85"/>
      </costs>
      <profiles>
        <profile id="p-1" name="Trooper" typeName="Unit">
          <characteristics>
            <characteristic name="M"> 6 </characteristic>
            <characteristic name="WS">3</characteristic>
          </characteristics>
        </profile>
      </profiles>
      <rules>
        <rule id="r-1" name="Close Order Drill">
          <description>Re-roll 1s in melee.</description>
        </rule>
      </rules>
      <selectionEntries>
        <selectionEntry id="m-1" name="Trooper" type="model">
          <costs><cost name="Points" typeId="pts" value="5"/></costs>
          <constraints>
            <constraint id="con-min" type="min" value="10" field="selections" scope="parent"/>
            <constraint id="con-max" type="max" value="20" field="selections" scope="parent"/>
          </constraints>
        </selectionEntry>
      </selectionEntries>
      <selectionEntryGroups>
        <selectionEntryGroup id="g-1" name="Special Weapon" defaultSelectionEntryId="e-1">
          <entryLinks>
            <entryLink id="e-1" name="Flamer" targetId="w-flamer" type="selectionEntry"/>
          </entryLinks>
        </selectionEntryGroup>
      </selectionEntryGroups>
    </selectionEntry>
    <selectionEntry id="u-2" name="Solo Officer" type="unit">
      <costs><cost name="Point(s)" typeId="pts" value="45"/></costs>
    </selectionEntry>
    <selectionEntry id="up-1" name="Vox Array" type="upgrade">
      <costs><cost name="Points" typeId="pts" value="10"/></costs>
    </selectionEntry>
  </sharedSelectionEntries>
  <sharedProfiles>
    <profile id="sp-1" name="Lasrifle" typeName="Weapon">
      <characteristics>
        <characteristic name="Range">18"</characteristic>
      </characteristics>
    </profile>
  </sharedProfiles>
</catalogue>`

func writeCatalogue(t *testing.T, xml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cat")
	require.NoError(t, os.WriteFile(path, []byte(xml), 0644))
	return path
}

func TestLoad_Metadata(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	assert.Equal(t, "Test Faction", cat.Name)
	assert.Equal(t, "cat-1", cat.ID)
	assert.Equal(t, "7", cat.Revision)
	assert.Equal(t, "gs-1", cat.GameSystemID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cat"))
	require.Error(t, err, "missing file should be a fatal load error")
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeCatalogue(t, "<catalogue><unclosed></catalogue>"))
	require.Error(t, err, "malformed XML should be a fatal load error")
}

func TestLoad_NoNamespace(t *testing.T) {
	// The same document without a default namespace must parse
	// identically.
	plain := `<?xml version="1.0"?>
<catalogue id="cat-2" name="Plain" revision="1" gameSystemId="gs-1">
  <sharedSelectionEntries>
    <selectionEntry id="u-9" name="Plain Unit" type="unit"/>
  </sharedSelectionEntries>
</catalogue>`
	cat, err := Load(writeCatalogue(t, plain))
	require.NoError(t, err)

	assert.Len(t, cat.AllEntries(bsdata.KindUnit), 1)
	assert.Len(t, cat.SharedEntries(), 1)
}

func TestAllEntries_KindFilter(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	assert.Len(t, cat.AllEntries(bsdata.KindUnit), 2, "two unit entries")
	assert.Len(t, cat.AllEntries(bsdata.KindModel), 1, "one model entry")
	assert.Len(t, cat.AllEntries(""), 4, "no filter returns everything")
}

func TestRootEntryLinks(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	links := cat.RootEntryLinks()
	require.Len(t, links, 1)

	cls := CategoryLinks(links[0])
	require.Len(t, cls, 2)
	assert.True(t, cls[0].Primary)
	assert.Equal(t, "c-troops", cls[0].TargetID)
	assert.False(t, cls[1].Primary)
}

func TestParseEntry(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	units := cat.AllEntries(bsdata.KindUnit)
	require.NotEmpty(t, units)

	entry, err := ParseEntry(units[0])
	require.NoError(t, err)

	assert.Equal(t, "u-1", entry.ID)
	assert.Equal(t, "Test Section", entry.Name)
	assert.Equal(t, bsdata.KindUnit, entry.Kind)
	assert.False(t, entry.Hidden)
	assert.Equal(t, 85.0, entry.Costs["Points"])

	require.Len(t, entry.Rules, 1)
	assert.Equal(t, "Close Order Drill", entry.Rules[0].Name)
	assert.Equal(t, "Re-roll 1s in melee.", entry.Rules[0].Description)

	require.Len(t, entry.Groups, 1)
	assert.Equal(t, "Special Weapon", entry.Groups[0].Name)
	assert.Equal(t, "e-1", entry.Groups[0].DefaultID)
	require.Len(t, entry.Groups[0].EntryLinks, 1)
	assert.Equal(t, "w-flamer", entry.Groups[0].EntryLinks[0].TargetID)
}

func TestParseEntry_Malformed(t *testing.T) {
	cat, err := Load(writeCatalogue(t,
		`<catalogue><sharedSelectionEntries>`+
			`<selectionEntry type="unit"/>`+
			`</sharedSelectionEntries></catalogue>`))
	require.NoError(t, err)

	entries := cat.SharedEntries()
	require.Len(t, entries, 1)

	_, err = ParseEntry(entries[0])
	assert.Error(t, err, "entry without id and name should be rejected")
}

func TestProfiles_CharacteristicsTrimmed(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	units := cat.AllEntries(bsdata.KindUnit)
	profs := Profiles(units[0])
	require.NotEmpty(t, profs)

	assert.Equal(t, "Trooper", profs[0].Name)
	assert.Equal(t, "6", profs[0].Characteristics["M"],
		"characteristic text should be trimmed")
	assert.Equal(t, "3", profs[0].Characteristics["WS"])
}

func TestSharedProfiles(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	profs := cat.SharedProfiles()
	require.Len(t, profs, 1)
	assert.Equal(t, "Lasrifle", profs[0].Name)
	assert.Equal(t, "Weapon", profs[0].TypeName)
	assert.Equal(t, `18"`, profs[0].Characteristics["Range"])
}

func TestBaseUnitCost(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	units := cat.AllEntries(bsdata.KindUnit)

	// 85 own + 5 per trooper x 10 mandatory troopers.
	assert.Equal(t, 135, BaseUnitCost(units[0]))

	// Point(s) alias, no children.
	assert.Equal(t, 45, BaseUnitCost(units[1]))
}

func TestModelBounds(t *testing.T) {
	cat, err := Load(writeCatalogue(t, catalogueXML))
	require.NoError(t, err)

	units := cat.AllEntries(bsdata.KindUnit)

	minN, maxN := ModelBounds(units[0])
	assert.Equal(t, 10, minN)
	require.NotNil(t, maxN)
	assert.Equal(t, 20, *maxN)

	// No model children: a single-model unit.
	minN, maxN = ModelBounds(units[1])
	assert.Equal(t, 1, minN)
	assert.Nil(t, maxN)
}

func TestModelBounds_Unbounded(t *testing.T) {
	cat, err := Load(writeCatalogue(t,
		`<catalogue><sharedSelectionEntries>`+
			`<selectionEntry id="u-3" name="Horde" type="unit">`+
			`<selectionEntries>`+
			`<selectionEntry id="m-3" name="Body" type="model">`+
			`<constraints>`+
			`<constraint id="c1" type="min" value="5" field="selections" scope="parent"/>`+
			`</constraints>`+
			`</selectionEntry>`+
			`</selectionEntries>`+
			`</selectionEntry>`+
			`</sharedSelectionEntries></catalogue>`))
	require.NoError(t, err)

	units := cat.AllEntries(bsdata.KindUnit)
	require.Len(t, units, 1)

	minN, maxN := ModelBounds(units[0])
	assert.Equal(t, 5, minN)
	assert.Nil(t, maxN, "model child without a max means unbounded")
}
