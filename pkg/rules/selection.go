package rules

import (
	"fmt"

	"github.com/hhlist/rosterdb/pkg/schema"
)

// GroupOption is one selectable upgrade with its choice-group
// bounds. Options sharing a GroupName form one mutually-constrained
// set.
type GroupOption struct {
	UpgradeID string
	GroupName string
	Min       int
	Max       int
}

// ValidateQuantity checks a roster entry's model count against the
// unit's bounds. A nil max means unbounded.
func ValidateQuantity(unitName string, min int, max *int, quantity int) []string {
	var errs []string
	if quantity < min {
		errs = append(errs, fmt.Sprintf(
			"%s: quantity %d below minimum %d", unitName, quantity, min))
	}
	if max != nil && quantity > *max {
		errs = append(errs, fmt.Sprintf(
			"%s: quantity %d above maximum %d", unitName, quantity, *max))
	}
	return errs
}

// ValidateSelections checks an entry's selected upgrades against the
// unit's option groups: unknown selections are rejected and every
// group's summed selection count must lie within its min/max.
func ValidateSelections(
	unitName string,
	options []GroupOption,
	selected []schema.SelectedUpgrade,
) []string {
	var errs []string

	byID := make(map[string]GroupOption, len(options))
	for _, opt := range options {
		byID[opt.UpgradeID] = opt
	}

	groupCounts := map[string]int{}
	for _, sel := range selected {
		opt, ok := byID[sel.UpgradeID]
		if !ok {
			errs = append(errs, fmt.Sprintf(
				"%s: upgrade %s is not an option for this unit",
				unitName, sel.UpgradeID))
			continue
		}
		qty := sel.Quantity
		if qty < 1 {
			qty = 1
		}
		if opt.GroupName != "" {
			groupCounts[opt.GroupName] += qty
		}
	}

	bounds := map[string][2]int{}
	for _, opt := range options {
		if opt.GroupName == "" {
			continue
		}
		bounds[opt.GroupName] = [2]int{opt.Min, opt.Max}
	}

	for group, b := range bounds {
		count := groupCounts[group]
		if count < b[0] {
			errs = append(errs, fmt.Sprintf(
				"%s: group %q requires at least %d selection(s), found %d",
				unitName, group, b[0], count))
		}
		if b[1] > 0 && count > b[1] {
			errs = append(errs, fmt.Sprintf(
				"%s: group %q allows at most %d selection(s), found %d",
				unitName, group, b[1], count))
		}
	}

	return errs
}
