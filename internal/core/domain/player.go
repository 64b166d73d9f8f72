// Package domain contains the core planning entities and the pure rules
// that govern them. Nothing in this package performs I/O.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Domain Errors
// =============================================================================

var (
	// ErrIllegalTransfer is returned when a proposed transfer violates a
	// squad rule: position mismatch, outgoing player not held, incoming
	// player already held, or club quota exceeded.
	ErrIllegalTransfer = errors.New("illegal transfer")

	// ErrGoalkeeperBenchFixed is returned when a swap would move a
	// goalkeeper across the starter/bench boundary. The bench goalkeeper
	// slot is not substitutable.
	ErrGoalkeeperBenchFixed = errors.New("bench goalkeeper slot is fixed")

	// ErrNotAStarter is returned when captaincy is assigned to a bench player.
	ErrNotAStarter = errors.New("player is not a starter")

	// ErrNotInSquad is returned when an operation references a player that
	// holds no slot in the squad.
	ErrNotInSquad = errors.New("player is not in the squad")

	// ErrIndexOutOfRange is returned for an undo index with no recorded transfer.
	ErrIndexOutOfRange = errors.New("transfer index out of range")

	// ErrUndoOrder is returned when a transfer cannot be undone because a
	// later transfer already moved the incoming player out of the squad.
	ErrUndoOrder = errors.New("transfers must be undone in reverse order")

	// ErrUnknownGameweek is returned when a plan operation targets a
	// gameweek that has not been materialized.
	ErrUnknownGameweek = errors.New("unknown gameweek")

	// ErrAnchorImmutable is returned when a reset targets the anchor gameweek.
	ErrAnchorImmutable = errors.New("anchor gameweek cannot be reset")
)

// =============================================================================
// Position
// =============================================================================

// Position is a player's registered position.
type Position string

const (
	PositionGK  Position = "GKP"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

// SquadQuota returns how many players of this position a legal 15-man
// squad carries.
func (p Position) SquadQuota() int {
	switch p {
	case PositionGK:
		return 2
	case PositionDEF, PositionMID:
		return 5
	case PositionFWD:
		return 3
	}
	return 0
}

// =============================================================================
// Player
// =============================================================================

// Player is an immutable snapshot of a player from the public catalog,
// enriched with a predicted score. Players are never mutated; a transfer
// replaces the whole value.
type Player struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Position        Position        `json:"position"`
	TeamID          int             `json:"team_id"`
	Team            string          `json:"team"`
	Price           decimal.Decimal `json:"price"`
	PredictedPoints decimal.Decimal `json:"predicted_points"`
}
