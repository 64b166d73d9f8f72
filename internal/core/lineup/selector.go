package lineup

import "github.com/fplkit/planner/internal/core/domain"

// =============================================================================
// Swap Selection State Machine
// =============================================================================

// SelectorState is the click-selection state for a swap attempt.
type SelectorState int

const (
	// SelectFirst is the initial and terminal state: no player armed.
	SelectFirst SelectorState = iota

	// AwaitingSecond means one player is armed and the next click
	// completes or cancels the swap.
	AwaitingSecond
)

// Outcome reports what a click did.
type Outcome int

const (
	// OutcomeArmed: first player selected, waiting for the second.
	OutcomeArmed Outcome = iota

	// OutcomeCancelled: the armed player was clicked again.
	OutcomeCancelled

	// OutcomeApplied: the swap was legal and has been applied.
	OutcomeApplied

	// OutcomeRejected: the swap was refused; the squad is unchanged.
	OutcomeRejected
)

// Selector drives swap selection one click at a time. Every click ends in
// SelectFirst except the first of a pair. The selector holds no squad
// state of its own and must be Reset on any transfer action or gameweek
// navigation.
type Selector struct {
	state   SelectorState
	armedID int
}

// State returns the current selection state.
func (s *Selector) State() SelectorState {
	return s.state
}

// Reset returns the selector to SelectFirst.
func (s *Selector) Reset() {
	s.state = SelectFirst
	s.armedID = 0
}

// Click feeds one player click into the machine. When a second player
// completes the pair the swap is evaluated; on rejection the returned
// error carries the reason and the squad comes back unchanged.
func (s *Selector) Click(sq domain.Squad, playerID int) (domain.Squad, Outcome, error) {
	if s.state == SelectFirst {
		s.state = AwaitingSecond
		s.armedID = playerID
		return sq, OutcomeArmed, nil
	}

	first := s.armedID
	s.Reset()

	if playerID == first {
		return sq, OutcomeCancelled, nil
	}

	next, err := ProposeSwap(sq, first, playerID)
	if err != nil {
		return sq, OutcomeRejected, err
	}
	return next, OutcomeApplied, nil
}
