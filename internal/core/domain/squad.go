package domain

import "fmt"

// =============================================================================
// Squad Layout
// =============================================================================

const (
	// SquadSize is the number of slots in a full squad.
	SquadSize = 15

	// StarterCount is the number of starting slots. Slots 1..11 start,
	// slots 12..15 are the bench.
	StarterCount = 11

	// BenchGoalkeeperSlot is the bench slot reserved for the second goalkeeper.
	BenchGoalkeeperSlot = 12

	// MaxPerClub is the maximum number of players from one club.
	MaxPerClub = 3
)

// SquadSlot binds a player to a squad slot. Slot 1..11 are starters,
// 12..15 the bench.
type SquadSlot struct {
	Player        Player `json:"player"`
	SlotIndex     int    `json:"slot_index"`
	IsCaptain     bool   `json:"is_captain"`
	IsViceCaptain bool   `json:"is_vice_captain"`
}

// IsStarter reports whether the slot is in the starting eleven.
func (s SquadSlot) IsStarter() bool {
	return s.SlotIndex <= StarterCount
}

// Squad is a full 15-man squad. It is a value type: assignment copies it,
// so the pure engines can return modified squads without touching their
// input.
type Squad [SquadSize]SquadSlot

// =============================================================================
// Lookup
// =============================================================================

// IndexOf returns the array index of the slot held by the given player,
// or -1 if the player holds no slot.
func (sq Squad) IndexOf(playerID int) int {
	for i := range sq {
		if sq[i].Player.ID == playerID {
			return i
		}
	}
	return -1
}

// Holds reports whether the player occupies any slot.
func (sq Squad) Holds(playerID int) bool {
	return sq.IndexOf(playerID) >= 0
}

// Starters returns the starting slots ordered by slot index.
func (sq Squad) Starters() []SquadSlot {
	out := make([]SquadSlot, 0, StarterCount)
	for _, s := range sq.ordered() {
		if s.IsStarter() {
			out = append(out, s)
		}
	}
	return out
}

// Bench returns the bench slots ordered by slot index.
func (sq Squad) Bench() []SquadSlot {
	out := make([]SquadSlot, 0, SquadSize-StarterCount)
	for _, s := range sq.ordered() {
		if !s.IsStarter() {
			out = append(out, s)
		}
	}
	return out
}

func (sq Squad) ordered() []SquadSlot {
	out := make([]SquadSlot, SquadSize)
	copy(out, sq[:])
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].SlotIndex < out[i].SlotIndex {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// =============================================================================
// Composition Rules
// =============================================================================

// CheckComposition validates the standard-squad invariant: exactly
// 2 GKP / 5 DEF / 5 MID / 3 FWD across all 15 slots, 15 unique player ids,
// and at most MaxPerClub players from any one club.
func CheckComposition(sq Squad) error {
	positions := map[Position]int{}
	clubs := map[int]int{}
	ids := map[int]bool{}

	for _, slot := range sq {
		positions[slot.Player.Position]++
		clubs[slot.Player.TeamID]++
		if ids[slot.Player.ID] {
			return fmt.Errorf("duplicate player %d: %w", slot.Player.ID, ErrIllegalTransfer)
		}
		ids[slot.Player.ID] = true
	}

	for _, pos := range []Position{PositionGK, PositionDEF, PositionMID, PositionFWD} {
		if positions[pos] != pos.SquadQuota() {
			return fmt.Errorf("squad has %d %s, want %d: %w", positions[pos], pos, pos.SquadQuota(), ErrIllegalTransfer)
		}
	}

	for club, n := range clubs {
		if n > MaxPerClub {
			return fmt.Errorf("club %d has %d players, max %d: %w", club, n, MaxPerClub, ErrIllegalTransfer)
		}
	}

	return nil
}
