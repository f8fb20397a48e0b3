package bsdata

// Identifier tables lifted from the Horus Heresy 3rd Edition data
// files. These ids are stable across data revisions; the loader warns
// if a referenced id disappears from the upstream data.

// SolarAuxiliaCatalogueID is the catalogue id of the faction this
// system serves. Modifier conditions referencing it are always true.
const SolarAuxiliaCatalogueID = "7851-69ac-f701-034e"

// GameSystemName is the stem of the game-system file.
const GameSystemName = "Horus Heresy 3rd Edition"

// FactionName is the faction catalogue this system serves.
const FactionName = "Solar Auxilia"

// Cost-type ids for detachment budget costs in the game-system file.
const (
	CostTypeAuxiliary = "0bf2-fe38-4b98-a1a6"
	CostTypeApex      = "b8a2-4b5c-093b-4c42"
)

// IsCostField reports whether a modifier target field is one of the
// recognized budget-cost ids.
func IsCostField(field string) bool {
	return field == CostTypeAuxiliary || field == CostTypeApex
}

// CohortDoctrines maps doctrine category ids to display names. At most
// one doctrine is active per roster.
var CohortDoctrines = map[string]string{
	"f2be-abfe-311c-afe2": "Veletaris Tercio",
	"1241-4ccd-80b8-8ff2": "Infantry Tercio",
	"7f98-e8eb-f86e-180d": "Scout Tercio",
	"1d7a-eb2d-5d0f-0fa4": "Armour Tercio",
	"c9ef-b204-e951-6b7e": "Artillery Tercio",
	"28ba-8660-5266-8674": "Iron Tercio",
}

// TercioUnlockIDs maps dynamic category ids to names. Units carrying
// these categories scale detachment slot caps via modifier rules.
var TercioUnlockIDs = map[string]string{
	"57f0-1e3a-9c4b-02d8": "Veletaris Tercio Unlock",
	"8c21-76be-40dd-13af": "Infantry Tercio Unlock",
	"3de4-a9f1-6c02-bb57": "Scout Tercio Unlock",
	"b14c-08e7-52f9-6da3": "Armour Tercio Unlock",
	"690a-d3c5-17eb-84f2": "Artillery Tercio Unlock",
	"e7b8-25a0-c941-30d6": "Iron Tercio Unlock",
}

// IsDynamicCategory reports whether an id participates in modifier
// evaluation (tercio unlock or doctrine).
func IsDynamicCategory(id string) bool {
	if _, ok := TercioUnlockIDs[id]; ok {
		return true
	}
	_, ok := CohortDoctrines[id]
	return ok
}

// BudgetEffect describes how a category or upgrade changes a roster's
// auxiliary/apex detachment allowance.
type BudgetEffect struct {
	Target string // "auxiliary" or "apex"
	Value  int    // per selected unit (may be negative for decrements)
	Name   string
}

// BudgetCategories maps budget category ids (non-primary category links
// on root entry links) to their allowance effect.
var BudgetCategories = map[string]BudgetEffect{
	"a3c8-44d1-90fe-27b5": {Target: "auxiliary", Value: 1, Name: "+1 Auxiliary from Command"},
	"5f72-b0e9-c63a-18d4": {Target: "auxiliary", Value: 2, Name: "Officer of the Line (2)"},
	"c901-3fa6-7e84-d52b": {Target: "apex", Value: 1, Name: "+1 Apex from High Command"},
	"48ed-92c7-016f-ab39": {Target: "apex", Value: 1, Name: "+1 Apex from Lord Marshal"},
}

// BudgetDecrements maps upgrade ids whose selection reduces the
// available auxiliary budget (e.g. trading an officer's retinue slot).
var BudgetDecrements = map[string]BudgetEffect{
	"d6f3-81b2-4ca9-507e": {Target: "auxiliary", Value: -1, Name: "Dismissed Retinue"},
	"29ab-c750-ee16-93d4": {Target: "auxiliary", Value: -1, Name: "Attached Command Section"},
}

// WarlordPointsThreshold is the minimum roster points limit before a
// Warlord detachment may be purchased.
const WarlordPointsThreshold = 3000

// DoctrineInfo describes one Cohort Doctrine for UI selection.
type DoctrineInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

// AvailableDoctrines returns the selectable Cohort Doctrines in a
// stable order.
func AvailableDoctrines() []DoctrineInfo {
	order := []string{
		"f2be-abfe-311c-afe2",
		"1241-4ccd-80b8-8ff2",
		"7f98-e8eb-f86e-180d",
		"1d7a-eb2d-5d0f-0fa4",
		"c9ef-b204-e951-6b7e",
		"28ba-8660-5266-8674",
	}
	res := make([]DoctrineInfo, 0, len(order))
	for _, id := range order {
		name := CohortDoctrines[id]
		effect := name + " slot caps scale with Tercio Unlock count and auxiliary cost is halved."
		res = append(res, DoctrineInfo{ID: id, Name: name, Effect: effect})
	}
	return res
}

// LegacyUnitNames lists Solar Auxilia Legacy/Expanded units from the
// "Legacies of the Age of Darkness" PDF v1.1.
var LegacyUnitNames = map[string]bool{
	"Surgeon-Primus Aevos Jovan":              true,
	"Expeditionary Navigator":                 true,
	"Davinite Lodge Priest":                   true,
	"Companion Section":                       true,
	"Medicae Section":                         true,
	"Cyclops Demolition Vehicle":              true,
	"Aurox Transport":                         true,
	"Tarantula Section":                       true,
	"Carnodon Strike Tank":                    true,
	"Avenger Strike Fighter":                  true,
	"Destroyer Tank Hunter":                   true,
	"Thunderer Siege Tank":                    true,
	"Minotaur Artillery Tank":                 true,
	"Macharius Heavy Tank":                    true,
	"Praetor Armoured Assault Launcher":       true,
	"Crassus Armoured Assault Transport":      true,
	"Baneblade Super-heavy Battle Tank":       true,
	"Hellhammer Super-heavy Battle Tank":      true,
	"Banehammer Super-heavy Assault Tank":     true,
	"Stormlord Super-heavy Assault Tank":      true,
	"Stormblade Super-heavy Tank":             true,
	"Shadowsword Super-heavy Tank Destroyer":  true,
	"Stormsword Super-heavy Siege Tank":       true,
	"Marauder Bomber":                         true,
	"Marauder Destroyer":                      true,
}

// Category names that never map to buildable units (army configuration
// scaffolding in the faction catalogue).
var SkipCategories = map[string]bool{
	"Allegiance":         true,
	"Asset":              true,
	"Army Configuration": true,
	"Primary Detachment": true,
}

// Detachment filtering keyword lists for the game-system force chart.
var (
	// FactionKeywords always admit a force entry whose name contains
	// one of them, case-insensitive.
	FactionKeywords = []string{"solar auxilia", "cohort", "tercio"}

	// GenericKeywords admit not-hidden generic force entries shared
	// across factions.
	GenericKeywords = []string{"lord of war", "allied", "apex", "warlord"}

	// ForeignSlotPrefixes mark category names belonging to factions
	// this system does not serve; such slots are dropped.
	ForeignSlotPrefixes = []string{
		"Legiones Astartes",
		"Legiones Hereticus",
		"Mechanicum",
		"Questoris",
		"Daemon",
	}

	// LockedSlotPrefix marks locked/conditional slot variants that the
	// chart keeps for app-internal bookkeeping.
	LockedSlotPrefix = "Locked:"
)
