// Package transfer applies and reverses single buy-for-sell transfers
// against a gameweek state. All functions are pure: they return a new
// state and never modify their input.
package transfer

import (
	"fmt"

	"github.com/fplkit/planner/internal/core/domain"
)

// =============================================================================
// Propose
// =============================================================================

// Propose applies a position-for-position transfer to the state. The
// outgoing player must hold a slot, the incoming player must not, and the
// club quota must survive the swap. The incoming player inherits the
// vacated slot's index and captaincy flags, and the bank absorbs the
// price difference.
func Propose(state domain.GameweekState, out, in domain.Player) (domain.GameweekState, error) {
	idx := state.Squad.IndexOf(out.ID)
	if idx < 0 {
		return domain.GameweekState{}, fmt.Errorf("%s is not in the squad: %w", out.Name, domain.ErrIllegalTransfer)
	}
	if state.Squad.Holds(in.ID) {
		return domain.GameweekState{}, fmt.Errorf("%s is already in the squad: %w", in.Name, domain.ErrIllegalTransfer)
	}
	if in.Position != out.Position {
		return domain.GameweekState{}, fmt.Errorf("%s (%s) cannot replace %s (%s): %w",
			in.Name, in.Position, out.Name, out.Position, domain.ErrIllegalTransfer)
	}
	if clubCountWithout(state.Squad, in.TeamID, out.ID) >= domain.MaxPerClub {
		return domain.GameweekState{}, fmt.Errorf("already %d players from %s: %w",
			domain.MaxPerClub, in.Team, domain.ErrIllegalTransfer)
	}

	next := state.Clone()
	next.Squad[idx].Player = in
	next.Transfers = append(next.Transfers, domain.Transfer{Out: out, In: in})
	next.Bank = next.Bank.Add(out.Price).Sub(in.Price)
	return next, nil
}

// clubCountWithout counts squad players from the club, ignoring the
// player about to leave.
func clubCountWithout(sq domain.Squad, teamID, excludedPlayerID int) int {
	n := 0
	for _, slot := range sq {
		if slot.Player.TeamID == teamID && slot.Player.ID != excludedPlayerID {
			n++
		}
	}
	return n
}

// =============================================================================
// Undo
// =============================================================================

// Undo reverses the transfer at the given index: the original player
// returns to the slot the incoming player occupies, the record is
// removed, and the bank is restored. A stale transfer was never applied
// to the squad or bank, so undoing one only deletes the record. Undoing
// an active transfer whose incoming player has since left the squad is a
// caller-discipline violation and fails with ErrUndoOrder.
func Undo(state domain.GameweekState, index int) (domain.GameweekState, error) {
	if index < 0 || index >= len(state.Transfers) {
		return domain.GameweekState{}, fmt.Errorf("index %d with %d transfers recorded: %w",
			index, len(state.Transfers), domain.ErrIndexOutOfRange)
	}

	t := state.Transfers[index]
	if t.Stale {
		next := state.Clone()
		next.Transfers = append(next.Transfers[:index], next.Transfers[index+1:]...)
		return next, nil
	}

	idx := state.Squad.IndexOf(t.In.ID)
	if idx < 0 {
		return domain.GameweekState{}, fmt.Errorf("%s already transferred out again: %w", t.In.Name, domain.ErrUndoOrder)
	}

	next := state.Clone()
	next.Squad[idx].Player = t.Out
	next.Transfers = append(next.Transfers[:index], next.Transfers[index+1:]...)
	next.Bank = next.Bank.Add(t.In.Price).Sub(t.Out.Price)
	return next, nil
}

// =============================================================================
// Hit Accounting
// =============================================================================

// ExtraTransfers counts active transfers beyond the free allowance.
func ExtraTransfers(state domain.GameweekState) int {
	extra := len(state.ActiveTransfers()) - state.FreeTransfers
	if extra < 0 {
		return 0
	}
	return extra
}

// PointsCost is the derived points penalty for the gameweek's transfers.
// It is a read, never stored.
func PointsCost(state domain.GameweekState) int {
	return ExtraTransfers(state) * domain.TransferPointsPenalty
}
