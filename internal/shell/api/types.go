package api

import (
	"sort"
	"time"

	"github.com/fplkit/planner/internal/core/domain"
	"github.com/fplkit/planner/internal/core/transfer"
)

// =============================================================================
// Request Types
// =============================================================================

// CreatePlanRequest is the request body for creating a plan from a
// manager's real squad.
type CreatePlanRequest struct {
	ManagerID string `json:"manager_id"`
}

// TransferRequest is the request body for proposing a transfer.
type TransferRequest struct {
	OutID int `json:"out_id"`
	InID  int `json:"in_id"`
}

// SwapRequest is the request body for swapping two players' slots.
type SwapRequest struct {
	FirstID  int `json:"first_id"`
	SecondID int `json:"second_id"`
}

// ArmbandRequest is the request body for captain and vice-captain
// assignment.
type ArmbandRequest struct {
	PlayerID int `json:"player_id"`
}

// AdvanceRequest is the request body for materializing the next
// gameweek.
type AdvanceRequest struct {
	FromGameweekID int `json:"from_gameweek_id"`
}

// OptimizeRequest is the request body for squad optimization.
type OptimizeRequest struct {
	Budget string `json:"budget"`
}

// =============================================================================
// Response Types
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Predictor string `json:"predictor,omitempty"`
}

// PlanResponse is the full plan view: every materialized gameweek with
// its derived transfer cost.
type PlanResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	TeamName         string             `json:"team_name"`
	ManagerName      string             `json:"manager_name"`
	AnchorGameweekID int                `json:"anchor_gameweek_id"`
	Gameweeks        []GameweekResponse `json:"gameweeks"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// GameweekResponse is one materialized gameweek of a plan.
type GameweekResponse struct {
	GameweekID     int                `json:"gameweek_id"`
	Squad          []domain.SquadSlot `json:"squad"`
	Transfers      []domain.Transfer  `json:"transfers"`
	Bank           string             `json:"bank"`
	FreeTransfers  int                `json:"free_transfers"`
	ExtraTransfers int                `json:"extra_transfers"`
	PointsCost     int                `json:"points_cost"`
}

// CurrentGameweekResponse wraps the running gameweek id.
type CurrentGameweekResponse struct {
	ID int `json:"id"`
}

// AdvanceResponse is the result of materializing the next gameweek.
type AdvanceResponse struct {
	GameweekID int          `json:"gameweek_id"`
	Plan       PlanResponse `json:"plan"`
}

// =============================================================================
// Converters
// =============================================================================

func planToResponse(pl *domain.Plan) PlanResponse {
	ids := make([]int, 0, len(pl.Entries))
	for id := range pl.Entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	gameweeks := make([]GameweekResponse, 0, len(ids))
	for _, id := range ids {
		state := pl.Entries[id]
		gameweeks = append(gameweeks, GameweekResponse{
			GameweekID:     id,
			Squad:          append([]domain.SquadSlot{}, state.Squad[:]...),
			Transfers:      state.Transfers,
			Bank:           state.Bank.StringFixed(1),
			FreeTransfers:  state.FreeTransfers,
			ExtraTransfers: transfer.ExtraTransfers(state),
			PointsCost:     transfer.PointsCost(state),
		})
	}

	return PlanResponse{
		ID:               pl.ID,
		UserID:           pl.UserID,
		TeamName:         pl.TeamName,
		ManagerName:      pl.ManagerName,
		AnchorGameweekID: pl.AnchorGameweekID,
		Gameweeks:        gameweeks,
		CreatedAt:        pl.CreatedAt,
		UpdatedAt:        pl.UpdatedAt,
	}
}
