package store

import (
	"context"

	"github.com/fplkit/planner/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines plan persistence. Plans are opaque blobs to the store:
// it never interprets their contents beyond (de)serialization.
type Store interface {
	// SavePlan inserts or replaces a plan.
	SavePlan(ctx context.Context, plan *domain.Plan) error

	// GetPlan returns a plan by id.
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)

	// GetPlanByUser returns a user's most recently updated plan.
	GetPlanByUser(ctx context.Context, userID string) (*domain.Plan, error)

	// DeletePlan removes a plan.
	DeletePlan(ctx context.Context, id string) error

	// ListPlans returns plan summaries, newest first.
	ListPlans(ctx context.Context, opts ListOptions) ([]PlanSummary, error)

	// Lifecycle
	Close() error
}

// PlanSummary is the listing view of a stored plan.
type PlanSummary struct {
	ID               string `db:"id" json:"id"`
	UserID           string `db:"user_id" json:"user_id"`
	TeamName         string `db:"team_name" json:"team_name"`
	AnchorGameweekID int    `db:"anchor_gameweek_id" json:"anchor_gameweek_id"`
	UpdatedAt        string `db:"updated_at" json:"updated_at"`
}

// =============================================================================
// Options
// =============================================================================

// ListOptions defines pagination options.
type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
