package lineup

import (
	"fmt"

	"github.com/fplkit/planner/internal/core/domain"
)

// =============================================================================
// Captaincy
// =============================================================================

// SetCaptain assigns the armband to a starter. Whoever held it before
// loses it, and a player cannot hold both armbands at once.
func SetCaptain(sq domain.Squad, playerID int) (domain.Squad, error) {
	return setArmband(sq, playerID, true)
}

// SetViceCaptain assigns the vice armband to a starter, with the same
// exclusivity rules as SetCaptain.
func SetViceCaptain(sq domain.Squad, playerID int) (domain.Squad, error) {
	return setArmband(sq, playerID, false)
}

func setArmband(sq domain.Squad, playerID int, captain bool) (domain.Squad, error) {
	idx := sq.IndexOf(playerID)
	if idx < 0 {
		return domain.Squad{}, fmt.Errorf("player %d: %w", playerID, domain.ErrNotInSquad)
	}
	if !sq[idx].IsStarter() {
		return domain.Squad{}, fmt.Errorf("%s is on the bench: %w", sq[idx].Player.Name, domain.ErrNotAStarter)
	}

	next := sq
	for i := range next {
		if captain {
			next[i].IsCaptain = i == idx
		} else {
			next[i].IsViceCaptain = i == idx
		}
	}

	// The same player never holds both armbands.
	if captain {
		next[idx].IsViceCaptain = false
	} else {
		next[idx].IsCaptain = false
	}

	return next, nil
}
