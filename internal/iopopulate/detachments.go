package iopopulate

import (
	"encoding/json"

	"github.com/hhlist/rosterdb/pkg/bsdata"
	"github.com/hhlist/rosterdb/pkg/schema"
)

// detachmentRow serializes one parsed force-organization template into
// its persisted record.
func detachmentRow(tmpl bsdata.DetachmentTemplate) (schema.Detachment, error) {
	slots, err := json.Marshal(tmpl.Slots)
	if err != nil {
		return schema.Detachment{}, err
	}

	row := schema.Detachment{
		SourceID:  tmpl.SourceID,
		Name:      tmpl.Name,
		Type:      string(tmpl.Type),
		ParentID:  tmpl.ParentID,
		FactionID: tmpl.FactionID,
		Slots:     string(slots),
	}

	if len(tmpl.UnitRestrictions) > 0 {
		b, err := json.Marshal(tmpl.UnitRestrictions)
		if err != nil {
			return schema.Detachment{}, err
		}
		row.UnitRestrictions = string(b)
	}

	if tmpl.Costs.Auxiliary != 0 || tmpl.Costs.Apex != 0 {
		b, err := json.Marshal(tmpl.Costs)
		if err != nil {
			return schema.Detachment{}, err
		}
		row.Costs = string(b)
	}

	if tmpl.Modifiers != nil {
		b, err := json.Marshal(tmpl.Modifiers)
		if err != nil {
			return schema.Detachment{}, err
		}
		row.Modifiers = string(b)
	}

	return row, nil
}
