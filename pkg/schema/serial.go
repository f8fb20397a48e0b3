package schema

import "encoding/json"

// SelectedUpgrade is one element of a RosterEntry's serialized upgrade
// selection. UpgradeID tolerates either an internal row id (decimal
// string) or a BattleScribe source id.
type SelectedUpgrade struct {
	UpgradeID string `json:"upgrade_id"`
	Quantity  int    `json:"quantity"`
}

// DecodeSelectedUpgrades parses a RosterEntry.Upgrades column. An empty
// column yields an empty selection.
func DecodeSelectedUpgrades(raw string) ([]SelectedUpgrade, error) {
	if raw == "" {
		return nil, nil
	}
	var res []SelectedUpgrade
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// EncodeSelectedUpgrades serializes a selection for storage.
func EncodeSelectedUpgrades(sel []SelectedUpgrade) (string, error) {
	if len(sel) == 0 {
		return "", nil
	}
	b, err := json.Marshal(sel)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeStringList parses a serialized list column (budget categories,
// tercio categories, special rules).
func DecodeStringList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var res []string
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// EncodeStringList serializes a list column; empty lists become the
// empty string so round-trips preserve "no tags".
func EncodeStringList(list []string) (string, error) {
	if len(list) == 0 {
		return "", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
