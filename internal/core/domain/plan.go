package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Transfer
// =============================================================================

// Transfer records swapping one held player for one from the catalog,
// within a single gameweek. Transfers are identified by player, not slot,
// so an upstream re-base can re-validate them (see Stale).
type Transfer struct {
	Out Player `json:"out"`
	In  Player `json:"in"`

	// Stale marks a transfer whose outgoing player is no longer present
	// after an upstream re-base. Stale transfers are excluded from
	// re-application and from cost accounting, and may return to active
	// if a later edit restores their precondition.
	Stale bool `json:"stale,omitempty"`
}

// TransferPointsPenalty is the points charge per transfer beyond the free
// allowance.
const TransferPointsPenalty = 4

// =============================================================================
// GameweekState
// =============================================================================

// GameweekState is one gameweek's planned position: the squad and bank
// with that gameweek's active transfers already applied, the transfer
// records themselves, and the free-transfer allowance.
type GameweekState struct {
	Squad         Squad           `json:"squad"`
	Transfers     []Transfer      `json:"transfers"`
	Bank          decimal.Decimal `json:"bank"`
	FreeTransfers int             `json:"free_transfers"`
}

// Clone returns a deep copy. Squad is a value type; only the transfer
// slice needs copying.
func (s GameweekState) Clone() GameweekState {
	out := s
	out.Transfers = make([]Transfer, len(s.Transfers))
	copy(out.Transfers, s.Transfers)
	return out
}

// ActiveTransfers returns the transfers currently applied (not stale).
func (s GameweekState) ActiveTransfers() []Transfer {
	out := make([]Transfer, 0, len(s.Transfers))
	for _, t := range s.Transfers {
		if !t.Stale {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// Gameweek
// =============================================================================

// Gameweek is one scheduling period, supplied read-only by the timeline
// source.
type Gameweek struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	DeadlineTime time.Time `json:"deadline_time"`
	IsCurrent    bool      `json:"is_current"`
	IsNext       bool      `json:"is_next"`
	Finished     bool      `json:"finished"`
}

// =============================================================================
// Plan
// =============================================================================

// Plan is a user's multi-gameweek squad plan. The anchor entry is seeded
// from the real imported squad and is never overwritten by propagation;
// later entries are materialized lazily on forward navigation.
type Plan struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	TeamName         string `json:"team_name"`
	ManagerName      string `json:"manager_name"`
	AnchorGameweekID int    `json:"anchor_gameweek_id"`

	Entries map[int]GameweekState `json:"entries"`

	// AnchorImport retains the original imported state so ResetAll can
	// collapse the plan back to a pristine anchor.
	AnchorImport GameweekState `json:"anchor_import"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlan creates a plan seeded with the imported anchor state.
func NewPlan(id, userID string, anchorGameweekID int, imported GameweekState) *Plan {
	now := time.Now().UTC()
	return &Plan{
		ID:               id,
		UserID:           userID,
		AnchorGameweekID: anchorGameweekID,
		Entries: map[int]GameweekState{
			anchorGameweekID: imported.Clone(),
		},
		AnchorImport: imported.Clone(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Entry returns the state for a materialized gameweek.
func (p *Plan) Entry(gameweekID int) (GameweekState, bool) {
	state, ok := p.Entries[gameweekID]
	return state, ok
}

// MaterializedAfter returns the materialized gameweek ids strictly after
// the given id, in ascending order.
func (p *Plan) MaterializedAfter(gameweekID int) []int {
	out := []int{}
	for id := range p.Entries {
		if id > gameweekID {
			out = append(out, id)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
