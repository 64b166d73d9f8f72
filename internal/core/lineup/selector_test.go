package lineup

import (
	"testing"

	"github.com/fplkit/planner/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Selector Tests
// =============================================================================

func TestSelector_FirstClickArms(t *testing.T) {
	var sel Selector
	sq := testSquad()

	next, outcome, err := sel.Click(sq, 5)

	require.NoError(t, err)
	assert.Equal(t, OutcomeArmed, outcome)
	assert.Equal(t, AwaitingSecond, sel.State())
	assert.Equal(t, sq, next)
}

func TestSelector_SameClickCancels(t *testing.T) {
	var sel Selector
	sq := testSquad()

	_, _, err := sel.Click(sq, 5)
	require.NoError(t, err)

	next, outcome, err := sel.Click(sq, 5)

	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Equal(t, SelectFirst, sel.State())
	assert.Equal(t, sq, next)
}

func TestSelector_SecondClickApplies(t *testing.T) {
	var sel Selector
	sq := testSquad()

	_, _, err := sel.Click(sq, 5)
	require.NoError(t, err)

	next, outcome, err := sel.Click(sq, 9)

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, SelectFirst, sel.State())
	assert.Equal(t, 9, next[4].Player.ID)
}

func TestSelector_RejectionReturnsToSelectFirst(t *testing.T) {
	var sel Selector
	sq := testSquad()

	_, _, err := sel.Click(sq, 1)
	require.NoError(t, err)

	next, outcome, err := sel.Click(sq, 12)

	assert.Equal(t, OutcomeRejected, outcome)
	assert.ErrorIs(t, err, domain.ErrGoalkeeperBenchFixed)
	assert.Equal(t, SelectFirst, sel.State())
	assert.Equal(t, sq, next)
}

func TestSelector_ResetClearsArmedSelection(t *testing.T) {
	var sel Selector
	sq := testSquad()

	_, _, err := sel.Click(sq, 5)
	require.NoError(t, err)

	sel.Reset()

	assert.Equal(t, SelectFirst, sel.State())

	// The next click arms again instead of completing the old pair.
	_, outcome, err := sel.Click(sq, 9)
	require.NoError(t, err)
	assert.Equal(t, OutcomeArmed, outcome)
}
