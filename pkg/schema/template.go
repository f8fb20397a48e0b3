package schema

import (
	"encoding/json"

	"github.com/hhlist/rosterdb/pkg/bsdata"
)

// Template rehydrates the parsed force-organization template a
// Detachment row was serialized from.
func (d Detachment) Template() (bsdata.DetachmentTemplate, error) {
	tmpl := bsdata.DetachmentTemplate{
		SourceID:  d.SourceID,
		Name:      d.Name,
		Type:      bsdata.DetachmentType(d.Type),
		ParentID:  d.ParentID,
		FactionID: d.FactionID,
	}

	if d.Slots != "" {
		if err := json.Unmarshal([]byte(d.Slots), &tmpl.Slots); err != nil {
			return tmpl, err
		}
	}
	if d.UnitRestrictions != "" {
		err := json.Unmarshal([]byte(d.UnitRestrictions), &tmpl.UnitRestrictions)
		if err != nil {
			return tmpl, err
		}
	}
	if d.Costs != "" {
		if err := json.Unmarshal([]byte(d.Costs), &tmpl.Costs); err != nil {
			return tmpl, err
		}
	}
	if d.Modifiers != "" {
		tmpl.Modifiers = &bsdata.ModifierSet{}
		if err := json.Unmarshal([]byte(d.Modifiers), tmpl.Modifiers); err != nil {
			return tmpl, err
		}
	}

	return tmpl, nil
}
