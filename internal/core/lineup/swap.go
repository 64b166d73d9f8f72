// Package lineup rearranges starters, bench order and captaincy within a
// single gameweek's squad. Squad membership never changes here; that is
// the transfer engine's job.
package lineup

import (
	"fmt"

	"github.com/fplkit/planner/internal/core/domain"
)

// =============================================================================
// Swap Classification
// =============================================================================

// ProposeSwap exchanges two players' slots. Classification:
//
//   - same player twice: no-op
//   - both starters, or both bench with no goalkeeper involved: always legal
//   - any swap moving a goalkeeper off its tier (starter GK to bench, or
//     bench GK off slot 12): rejected, bench goalkeeper slot is fixed
//   - starter/bench outfield swap: legal only if the resulting starters
//     form a playable formation
func ProposeSwap(sq domain.Squad, playerAID, playerBID int) (domain.Squad, error) {
	if playerAID == playerBID {
		return sq, nil
	}

	ia := sq.IndexOf(playerAID)
	if ia < 0 {
		return domain.Squad{}, fmt.Errorf("player %d: %w", playerAID, domain.ErrNotInSquad)
	}
	ib := sq.IndexOf(playerBID)
	if ib < 0 {
		return domain.Squad{}, fmt.Errorf("player %d: %w", playerBID, domain.ErrNotInSquad)
	}

	a, b := sq[ia], sq[ib]
	sameTier := a.IsStarter() == b.IsStarter()
	goalkeeperInvolved := a.Player.Position == domain.PositionGK || b.Player.Position == domain.PositionGK

	if goalkeeperInvolved && !(sameTier && a.IsStarter()) {
		// Cross-tier, or a bench reorder that would move the reserve
		// goalkeeper out of its slot.
		return domain.Squad{}, fmt.Errorf("%s and %s: %w", a.Player.Name, b.Player.Name, domain.ErrGoalkeeperBenchFixed)
	}

	next := swapped(sq, ia, ib)

	if !sameTier {
		if formation := domain.FormationOf(next); !domain.IsLegalFormation(formation) {
			return domain.Squad{}, &domain.InvalidFormationError{
				Formation: formation,
				PlayerA:   a.Player.Name,
				PlayerB:   b.Player.Name,
			}
		}
	}

	return next, nil
}

// swapped exchanges the players between the two slots, leaving the slot
// indices in place. Captaincy travels with the player, except that the
// armband may never leave the starting eleven: on a cross-tier swap it
// passes to the counterpart entering the XI.
func swapped(sq domain.Squad, ia, ib int) domain.Squad {
	next := sq
	next[ia].Player, next[ib].Player = sq[ib].Player, sq[ia].Player
	next[ia].IsCaptain, next[ib].IsCaptain = sq[ib].IsCaptain, sq[ia].IsCaptain
	next[ia].IsViceCaptain, next[ib].IsViceCaptain = sq[ib].IsViceCaptain, sq[ia].IsViceCaptain

	if next[ia].IsStarter() != next[ib].IsStarter() {
		starter, bench := ia, ib
		if next[ib].IsStarter() {
			starter, bench = ib, ia
		}
		if next[bench].IsCaptain {
			next[bench].IsCaptain = false
			next[starter].IsCaptain = true
		}
		if next[bench].IsViceCaptain {
			next[bench].IsViceCaptain = false
			next[starter].IsViceCaptain = true
		}
	}

	return next
}
