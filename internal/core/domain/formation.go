package domain

import "fmt"

// =============================================================================
// Formation Rules
// =============================================================================

// legalFormations is the fixed set of legal outfield starter patterns.
// The starting goalkeeper is always exactly one and is not part of the key.
var legalFormations = map[string]bool{
	"3-4-3": true,
	"3-5-2": true,
	"4-3-3": true,
	"4-4-2": true,
	"4-5-1": true,
	"5-2-3": true,
	"5-3-2": true,
	"5-4-1": true,
}

// FormationOf derives the outfield formation key of the starting eleven,
// e.g. "4-4-2" for 4 defenders, 4 midfielders and 2 forwards.
func FormationOf(sq Squad) string {
	var def, mid, fwd int
	for _, slot := range sq {
		if !slot.IsStarter() {
			continue
		}
		switch slot.Player.Position {
		case PositionDEF:
			def++
		case PositionMID:
			mid++
		case PositionFWD:
			fwd++
		}
	}
	return fmt.Sprintf("%d-%d-%d", def, mid, fwd)
}

// IsLegalFormation reports whether the formation key is playable.
func IsLegalFormation(key string) bool {
	return legalFormations[key]
}

// LegalFormations returns the legal formation keys in display order.
func LegalFormations() []string {
	return []string{"3-4-3", "3-5-2", "4-3-3", "4-4-2", "4-5-1", "5-2-3", "5-3-2", "5-4-1"}
}

// InvalidFormationError reports a rejected starter/bench swap, naming the
// two players whose exchange would produce an unplayable formation.
type InvalidFormationError struct {
	Formation string
	PlayerA   string
	PlayerB   string
}

func (e *InvalidFormationError) Error() string {
	return fmt.Sprintf("swapping %s and %s leaves illegal formation %s", e.PlayerA, e.PlayerB, e.Formation)
}
