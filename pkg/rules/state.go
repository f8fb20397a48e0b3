// Package rules implements the roster-time rule engine: modifier
// evaluation, composition budgets, force-organization validation and
// points calculation. Everything here is pure; persistence-facing
// packages build the input views and interpret the results.
package rules

import "github.com/hhlist/rosterdb/pkg/bsdata"

// RosterState is the precomputed dynamic state one evaluation runs
// against: the multiset of dynamic-category counts in the roster and
// the active doctrine selection.
type RosterState struct {
	CategoryCounts map[string]int
	DoctrineID     string
	PointsLimit    int
}

// StateUnit is one roster entry's contribution to the dynamic state.
type StateUnit struct {
	TercioCategories []string
	Quantity         int
}

// NewRosterState sums dynamic-category counts over roster entries,
// weighted by quantity.
func NewRosterState(doctrineID string, pointsLimit int, units []StateUnit) RosterState {
	counts := map[string]int{}
	for _, u := range units {
		for _, id := range u.TercioCategories {
			counts[id] += u.Quantity
		}
	}
	return RosterState{
		CategoryCounts: counts,
		DoctrineID:     doctrineID,
		PointsLimit:    pointsLimit,
	}
}

// SelectionCount returns how many selections in the roster match a
// referenced child id: the summed quantity for a tercio unlock
// category, 1 or 0 for a doctrine, 0 for everything else.
func (s RosterState) SelectionCount(childID string) int {
	if _, ok := bsdata.TercioUnlockIDs[childID]; ok {
		return s.CategoryCounts[childID]
	}
	if _, ok := bsdata.CohortDoctrines[childID]; ok {
		if s.DoctrineID == childID {
			return 1
		}
		return 0
	}
	return 0
}
