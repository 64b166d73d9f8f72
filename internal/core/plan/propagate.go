// Package plan maintains prefix-consistency across a multi-gameweek plan:
// every materialized gameweek after the anchor starts from exactly the
// squad and bank its predecessor ends with.
package plan

import (
	"fmt"

	"github.com/fplkit/planner/internal/core/domain"
	"github.com/fplkit/planner/internal/core/timeline"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Propagator
// =============================================================================

// Propagator pushes edits forward through the materialized gameweeks of a
// plan. It is stateless; the plan value is owned by the caller.
type Propagator struct {
	Timeline timeline.Timeline
	Policy   FreeTransferPolicy
}

// New creates a propagator with the default free-transfer policy.
func New(tl timeline.Timeline) Propagator {
	return Propagator{Timeline: tl, Policy: StaticFreeTransfers(1)}
}

// Propagate re-bases every materialized gameweek after the edited one.
// Each downstream gameweek keeps its recorded transfer intent: transfers
// are re-applied in order onto the freshly derived squad, and any
// transfer whose precondition no longer holds is marked stale and
// excluded rather than applied against a squad that cannot take it.
func (p Propagator) Propagate(pl *domain.Plan, editedGameweekID int) error {
	if _, ok := pl.Entries[editedGameweekID]; !ok {
		return fmt.Errorf("gameweek %d: %w", editedGameweekID, domain.ErrUnknownGameweek)
	}

	cursor := editedGameweekID
	for {
		next, ok := p.Timeline.Next(cursor)
		if !ok {
			return nil
		}
		entry, ok := pl.Entries[next]
		if !ok {
			// Nothing downstream is materialized; later gameweeks are
			// created lazily on forward navigation.
			return nil
		}

		base := pl.Entries[cursor]
		pl.Entries[next] = rebase(entry, base.Squad, base.Bank)
		cursor = next
	}
}

// rebase replaces the entry's base squad and bank with freshly derived
// upstream values, then re-applies the entry's own transfers in order.
// A transfer applies only if its outgoing player is still present and its
// incoming player still absent; otherwise it is marked stale and skipped.
// Stale marks are recomputed every pass, so a transfer returns to active
// as soon as an upstream edit restores its precondition.
func rebase(entry domain.GameweekState, baseSquad domain.Squad, baseBank decimal.Decimal) domain.GameweekState {
	next := entry.Clone()
	next.Squad = baseSquad
	next.Bank = baseBank

	for i, t := range next.Transfers {
		idx := next.Squad.IndexOf(t.Out.ID)
		applicable := idx >= 0 && !next.Squad.Holds(t.In.ID)
		if !applicable {
			next.Transfers[i].Stale = true
			continue
		}
		next.Transfers[i].Stale = false
		next.Squad[idx].Player = t.In
		next.Bank = next.Bank.Add(t.Out.Price).Sub(t.In.Price)
	}

	return next
}

// =============================================================================
// Materialization
// =============================================================================

// MaterializeNext creates the entry for the gameweek after fromID if it
// does not exist yet, seeded from fromID's derived squad and bank with an
// empty transfer list. It returns the id of the next gameweek.
func (p Propagator) MaterializeNext(pl *domain.Plan, fromID int) (int, error) {
	base, ok := pl.Entries[fromID]
	if !ok {
		return 0, fmt.Errorf("gameweek %d: %w", fromID, domain.ErrUnknownGameweek)
	}
	next, ok := p.Timeline.Next(fromID)
	if !ok {
		return 0, fmt.Errorf("no gameweek after %d: %w", fromID, domain.ErrUnknownGameweek)
	}
	if _, exists := pl.Entries[next]; exists {
		return next, nil
	}

	pl.Entries[next] = domain.GameweekState{
		Squad:         base.Squad,
		Transfers:     []domain.Transfer{},
		Bank:          base.Bank,
		FreeTransfers: p.Policy(base),
	}
	return next, nil
}

// =============================================================================
// Resets
// =============================================================================

// ResetGameweek recomputes a non-anchor gameweek from scratch: its squad
// and bank revert to the value inherited from the previous gameweek, its
// transfer list empties, and the change propagates forward.
func (p Propagator) ResetGameweek(pl *domain.Plan, gameweekID int) error {
	if gameweekID == pl.AnchorGameweekID {
		return fmt.Errorf("gameweek %d: %w", gameweekID, domain.ErrAnchorImmutable)
	}
	if _, ok := pl.Entries[gameweekID]; !ok {
		return fmt.Errorf("gameweek %d: %w", gameweekID, domain.ErrUnknownGameweek)
	}
	prev, ok := p.Timeline.Previous(gameweekID)
	if !ok {
		return fmt.Errorf("gameweek %d has no predecessor: %w", gameweekID, domain.ErrUnknownGameweek)
	}
	base, ok := pl.Entries[prev]
	if !ok {
		return fmt.Errorf("gameweek %d: %w", prev, domain.ErrUnknownGameweek)
	}

	pl.Entries[gameweekID] = domain.GameweekState{
		Squad:         base.Squad,
		Transfers:     []domain.Transfer{},
		Bank:          base.Bank,
		FreeTransfers: p.Policy(base),
	}
	return p.Propagate(pl, gameweekID)
}

// ResetAll collapses the plan to a single anchor entry re-seeded from the
// original import.
func ResetAll(pl *domain.Plan) {
	pl.Entries = map[int]domain.GameweekState{
		pl.AnchorGameweekID: pl.AnchorImport.Clone(),
	}
}
