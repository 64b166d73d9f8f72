package transfer

import (
	"fmt"
	"testing"

	"github.com/fplkit/planner/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fixtures
// =============================================================================

func player(id int, pos domain.Position, teamID int, price float64) domain.Player {
	return domain.Player{
		ID:       id,
		Name:     fmt.Sprintf("Player %d", id),
		Position: pos,
		TeamID:   teamID,
		Team:     fmt.Sprintf("Club %d", teamID),
		Price:    decimal.NewFromFloat(price),
	}
}

func testState() domain.GameweekState {
	var sq domain.Squad
	players := []domain.Player{
		player(1, domain.PositionGK, 1, 5.0),
		player(2, domain.PositionDEF, 1, 5.5),
		player(3, domain.PositionDEF, 2, 4.5),
		player(4, domain.PositionDEF, 2, 5.0),
		player(5, domain.PositionDEF, 3, 4.0),
		player(6, domain.PositionMID, 3, 8.0),
		player(7, domain.PositionMID, 4, 7.5),
		player(8, domain.PositionMID, 4, 6.0),
		player(9, domain.PositionMID, 5, 5.0),
		player(10, domain.PositionFWD, 5, 9.0),
		player(11, domain.PositionFWD, 6, 8.0),
		player(12, domain.PositionGK, 6, 4.0),
		player(13, domain.PositionDEF, 7, 4.0),
		player(14, domain.PositionMID, 7, 4.5),
		player(15, domain.PositionFWD, 8, 4.5),
	}
	for i, p := range players {
		sq[i] = domain.SquadSlot{Player: p, SlotIndex: i + 1}
	}
	sq[9].IsCaptain = true
	sq[5].IsViceCaptain = true

	return domain.GameweekState{
		Squad:         sq,
		Transfers:     []domain.Transfer{},
		Bank:          decimal.NewFromFloat(2.0),
		FreeTransfers: 1,
	}
}

// =============================================================================
// Propose Tests
// =============================================================================

func TestPropose_LegalTransfer(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player // FWD, 9.0, captain
	in := player(50, domain.PositionFWD, 9, 9.5)

	next, err := Propose(state, out, in)

	require.NoError(t, err)
	assert.True(t, next.Squad.Holds(50))
	assert.False(t, next.Squad.Holds(out.ID))
	require.Len(t, next.Transfers, 1)
	assert.Equal(t, out.ID, next.Transfers[0].Out.ID)
	assert.Equal(t, in.ID, next.Transfers[0].In.ID)
	// Bank: 2.0 + 9.0 - 9.5 = 1.5
	assert.True(t, next.Bank.Equal(decimal.NewFromFloat(1.5)), next.Bank.String())
}

func TestPropose_IncomingInheritsSlotAndArmband(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player
	in := player(50, domain.PositionFWD, 9, 9.5)

	next, err := Propose(state, out, in)

	require.NoError(t, err)
	idx := next.Squad.IndexOf(50)
	assert.Equal(t, 10, next.Squad[idx].SlotIndex)
	assert.True(t, next.Squad[idx].IsCaptain)
}

func TestPropose_InputStateUntouched(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player
	in := player(50, domain.PositionFWD, 9, 9.5)

	_, err := Propose(state, out, in)

	require.NoError(t, err)
	assert.True(t, state.Squad.Holds(out.ID))
	assert.Empty(t, state.Transfers)
	assert.True(t, state.Bank.Equal(decimal.NewFromFloat(2.0)))
}

func TestPropose_PositionMismatch(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player // FWD
	in := player(50, domain.PositionMID, 9, 9.5)

	_, err := Propose(state, out, in)

	assert.ErrorIs(t, err, domain.ErrIllegalTransfer)
}

func TestPropose_OutgoingNotHeld(t *testing.T) {
	state := testState()
	out := player(77, domain.PositionFWD, 9, 6.0)
	in := player(50, domain.PositionFWD, 9, 9.5)

	_, err := Propose(state, out, in)

	assert.ErrorIs(t, err, domain.ErrIllegalTransfer)
}

func TestPropose_IncomingAlreadyHeld(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player
	in := state.Squad[10].Player // also a FWD, already held

	_, err := Propose(state, out, in)

	assert.ErrorIs(t, err, domain.ErrIllegalTransfer)
}

func TestPropose_ClubQuotaExceeded(t *testing.T) {
	state := testState()
	// Clubs 1..8 hold at most two players each; stack club 2 to three
	// first, then a fourth must be refused.
	state.Squad[4].Player.TeamID = 2

	out := state.Squad[9].Player // FWD from club 5
	in := player(50, domain.PositionFWD, 2, 9.0)

	_, err := Propose(state, out, in)

	assert.ErrorIs(t, err, domain.ErrIllegalTransfer)
}

func TestPropose_CompositionUnchangedByAcceptedTransfers(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player
	in := player(50, domain.PositionFWD, 9, 9.5)

	next, err := Propose(state, out, in)

	require.NoError(t, err)
	assert.NoError(t, domain.CheckComposition(next.Squad))
}

// =============================================================================
// Undo Tests
// =============================================================================

func TestUndo_RoundTripRestoresState(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player
	in := player(50, domain.PositionFWD, 9, 9.5)

	applied, err := Propose(state, out, in)
	require.NoError(t, err)

	restored, err := Undo(applied, 0)
	require.NoError(t, err)

	assert.Equal(t, state.Squad, restored.Squad)
	assert.Empty(t, restored.Transfers)
	assert.True(t, restored.Bank.Equal(state.Bank), restored.Bank.String())
}

func TestUndo_IndexOutOfRange(t *testing.T) {
	state := testState()

	_, err := Undo(state, 0)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	_, err = Undo(state, -1)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestUndo_OutOfOrderFailsFast(t *testing.T) {
	state := testState()
	fwd := state.Squad[9].Player
	first := player(50, domain.PositionFWD, 9, 9.0)
	second := player(51, domain.PositionFWD, 10, 8.5)

	applied, err := Propose(state, fwd, first)
	require.NoError(t, err)
	applied, err = Propose(applied, first, second)
	require.NoError(t, err)

	// Transfer 0 brought in player 50, who has since left again.
	_, err = Undo(applied, 0)

	assert.ErrorIs(t, err, domain.ErrUndoOrder)
}

func TestUndo_StaleRecordRemovedWithoutReversal(t *testing.T) {
	state := testState()
	// Player 60 already arrived through an upstream transfer, so the
	// intent 9 -> 60 went stale and was never applied here: player 9 kept
	// their slot and the bank never moved.
	arrived := player(60, domain.PositionMID, 9, 5.0)
	state.Squad[7].Player = arrived
	state.Transfers = []domain.Transfer{
		{Out: state.Squad[8].Player, In: arrived, Stale: true},
	}

	next, err := Undo(state, 0)

	require.NoError(t, err)
	assert.Empty(t, next.Transfers)
	assert.Equal(t, state.Squad, next.Squad)
	assert.True(t, next.Bank.Equal(state.Bank), next.Bank.String())
	assert.NoError(t, domain.CheckComposition(next.Squad))
}

func TestUndo_StaleRecordWithDepartedPlayers(t *testing.T) {
	state := testState()
	// Neither side of the stale intent is in the squad anymore. The record
	// must still be deletable.
	state.Transfers = []domain.Transfer{
		{Out: player(70, domain.PositionMID, 9, 5.0), In: player(71, domain.PositionMID, 9, 5.5), Stale: true},
	}

	next, err := Undo(state, 0)

	require.NoError(t, err)
	assert.Empty(t, next.Transfers)
	assert.Equal(t, state.Squad, next.Squad)
	assert.True(t, next.Bank.Equal(state.Bank), next.Bank.String())
}

// =============================================================================
// Hit Accounting Tests
// =============================================================================

func TestPointsCost_WithinFreeAllowance(t *testing.T) {
	state := testState()
	out := state.Squad[9].Player
	in := player(50, domain.PositionFWD, 9, 9.0)

	applied, err := Propose(state, out, in)
	require.NoError(t, err)

	assert.Equal(t, 0, ExtraTransfers(applied))
	assert.Equal(t, 0, PointsCost(applied))
}

func TestPointsCost_BeyondFreeAllowance(t *testing.T) {
	state := testState()
	fwd := state.Squad[9].Player
	mid := state.Squad[5].Player

	applied, err := Propose(state, fwd, player(50, domain.PositionFWD, 9, 9.0))
	require.NoError(t, err)
	applied, err = Propose(applied, mid, player(51, domain.PositionMID, 10, 7.0))
	require.NoError(t, err)

	assert.Equal(t, 1, ExtraTransfers(applied))
	assert.Equal(t, 4, PointsCost(applied))
}

func TestPointsCost_StaleTransfersExcluded(t *testing.T) {
	state := testState()
	state.Transfers = []domain.Transfer{
		{Out: player(60, domain.PositionMID, 9, 5.0), In: player(61, domain.PositionMID, 9, 5.0)},
		{Out: player(62, domain.PositionMID, 10, 5.0), In: player(63, domain.PositionMID, 10, 5.0), Stale: true},
		{Out: player(64, domain.PositionMID, 11, 5.0), In: player(65, domain.PositionMID, 11, 5.0)},
	}

	assert.Equal(t, 1, ExtraTransfers(state))
	assert.Equal(t, 4, PointsCost(state))
}
