// Package timeline sequences gameweeks. The gameweek list comes from an
// external source and is read-only here; the only rule the timeline adds
// is that navigation never goes before the plan's anchor.
package timeline

import (
	"fmt"

	"github.com/fplkit/planner/internal/core/domain"
)

// =============================================================================
// Timeline
// =============================================================================

// Timeline is an ordered gameweek sequence with an anchor floor.
type Timeline struct {
	weeks    []domain.Gameweek
	index    map[int]int
	anchorID int
}

// New builds a timeline over the ordered gameweek list. The anchor must
// be one of the supplied gameweeks.
func New(weeks []domain.Gameweek, anchorID int) (Timeline, error) {
	index := make(map[int]int, len(weeks))
	for i, gw := range weeks {
		index[gw.ID] = i
	}
	if _, ok := index[anchorID]; !ok {
		return Timeline{}, fmt.Errorf("anchor gameweek %d: %w", anchorID, domain.ErrUnknownGameweek)
	}
	return Timeline{weeks: weeks, index: index, anchorID: anchorID}, nil
}

// AnchorID returns the anchor gameweek id.
func (t Timeline) AnchorID() int {
	return t.anchorID
}

// Contains reports whether the gameweek exists.
func (t Timeline) Contains(id int) bool {
	_, ok := t.index[id]
	return ok
}

// Gameweek returns the gameweek with the given id.
func (t Timeline) Gameweek(id int) (domain.Gameweek, bool) {
	i, ok := t.index[id]
	if !ok {
		return domain.Gameweek{}, false
	}
	return t.weeks[i], true
}

// Next returns the gameweek after the given one, if any.
func (t Timeline) Next(id int) (int, bool) {
	i, ok := t.index[id]
	if !ok || i+1 >= len(t.weeks) {
		return 0, false
	}
	return t.weeks[i+1].ID, true
}

// Previous returns the gameweek before the given one. It refuses to go
// before the anchor.
func (t Timeline) Previous(id int) (int, bool) {
	i, ok := t.index[id]
	if !ok || i == 0 {
		return 0, false
	}
	prev := t.weeks[i-1].ID
	if anchorIdx := t.index[t.anchorID]; i-1 < anchorIdx {
		return 0, false
	}
	return prev, true
}
