// Package planner orchestrates the pure planning engines against the
// catalog and the plan store: load, apply one edit, propagate, save.
// Handlers stay thin by calling into this service.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fplkit/planner/internal/core/domain"
	"github.com/fplkit/planner/internal/core/lineup"
	"github.com/fplkit/planner/internal/core/plan"
	"github.com/fplkit/planner/internal/core/timeline"
	"github.com/fplkit/planner/internal/core/transfer"
	"github.com/fplkit/planner/internal/shell/catalog"
	"github.com/fplkit/planner/internal/shell/store"

	"github.com/google/uuid"
)

// =============================================================================
// Service
// =============================================================================

// Service owns the engine/persistence boundary for plan editing. Every
// operation loads the plan, applies exactly one edit, re-propagates and
// saves; a rejected edit leaves the stored plan untouched.
type Service struct {
	store   store.Store
	catalog *catalog.Service
	policy  plan.FreeTransferPolicy
	logger  *slog.Logger
}

// New creates a planning service with the default free-transfer policy.
func New(s store.Store, c *catalog.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   s,
		catalog: c,
		policy:  plan.StaticFreeTransfers(1),
		logger:  logger,
	}
}

// SetFreeTransferPolicy overrides the allowance policy for newly
// materialized gameweeks.
func (s *Service) SetFreeTransferPolicy(p plan.FreeTransferPolicy) {
	s.policy = p
}

// =============================================================================
// Plan Lifecycle
// =============================================================================

// CreatePlan imports a manager's real squad and seeds a new plan
// anchored at the current gameweek. Import failure leaves any existing
// plan untouched.
func (s *Service) CreatePlan(ctx context.Context, managerID string) (*domain.Plan, error) {
	imported, err := s.catalog.ImportSquad(ctx, managerID)
	if err != nil {
		return nil, err
	}

	pl := domain.NewPlan(uuid.NewString(), managerID, imported.GameweekID, imported.State)
	pl.TeamName = imported.TeamName
	pl.ManagerName = imported.ManagerName

	if err := s.store.SavePlan(ctx, pl); err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		"plan_id", pl.ID,
		"manager_id", managerID,
		"anchor_gameweek", pl.AnchorGameweekID,
	)
	return pl, nil
}

// GetPlan returns a stored plan.
func (s *Service) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return s.store.GetPlan(ctx, id)
}

// GetPlanByUser returns a manager's most recently updated plan.
func (s *Service) GetPlanByUser(ctx context.Context, userID string) (*domain.Plan, error) {
	return s.store.GetPlanByUser(ctx, userID)
}

// ListPlans returns stored plan summaries.
func (s *Service) ListPlans(ctx context.Context, opts store.ListOptions) ([]store.PlanSummary, error) {
	return s.store.ListPlans(ctx, opts)
}

// DeletePlan removes a stored plan.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	return s.store.DeletePlan(ctx, id)
}

// =============================================================================
// Transfers
// =============================================================================

// ProposeTransfer applies a buy-for-sell transfer to one gameweek and
// propagates the change forward.
func (s *Service) ProposeTransfer(ctx context.Context, planID string, gameweekID, outID, inID int) (*domain.Plan, error) {
	pl, prop, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	state, ok := pl.Entry(gameweekID)
	if !ok {
		return nil, fmt.Errorf("gameweek %d: %w", gameweekID, domain.ErrUnknownGameweek)
	}

	outIdx := state.Squad.IndexOf(outID)
	if outIdx < 0 {
		return nil, fmt.Errorf("player %d is not in the squad: %w", outID, domain.ErrIllegalTransfer)
	}
	out := state.Squad[outIdx].Player

	in, found, err := s.catalog.PlayerByID(ctx, inID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("player %d is not in the catalog: %w", inID, domain.ErrIllegalTransfer)
	}

	next, err := transfer.Propose(state, out, in.Player)
	if err != nil {
		return nil, err
	}
	pl.Entries[gameweekID] = next

	return s.propagateAndSave(ctx, pl, prop, gameweekID)
}

// UndoTransfer reverses one recorded transfer and propagates.
func (s *Service) UndoTransfer(ctx context.Context, planID string, gameweekID, index int) (*domain.Plan, error) {
	pl, prop, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	state, ok := pl.Entry(gameweekID)
	if !ok {
		return nil, fmt.Errorf("gameweek %d: %w", gameweekID, domain.ErrUnknownGameweek)
	}

	next, err := transfer.Undo(state, index)
	if err != nil {
		return nil, err
	}
	pl.Entries[gameweekID] = next

	return s.propagateAndSave(ctx, pl, prop, gameweekID)
}

// =============================================================================
// Lineup
// =============================================================================

// Swap exchanges two players' slots in one gameweek and propagates the
// rearranged squad forward.
func (s *Service) Swap(ctx context.Context, planID string, gameweekID, playerAID, playerBID int) (*domain.Plan, error) {
	return s.editSquad(ctx, planID, gameweekID, func(sq domain.Squad) (domain.Squad, error) {
		return lineup.ProposeSwap(sq, playerAID, playerBID)
	})
}

// SetCaptain assigns the armband in one gameweek.
func (s *Service) SetCaptain(ctx context.Context, planID string, gameweekID, playerID int) (*domain.Plan, error) {
	return s.editSquad(ctx, planID, gameweekID, func(sq domain.Squad) (domain.Squad, error) {
		return lineup.SetCaptain(sq, playerID)
	})
}

// SetViceCaptain assigns the vice armband in one gameweek.
func (s *Service) SetViceCaptain(ctx context.Context, planID string, gameweekID, playerID int) (*domain.Plan, error) {
	return s.editSquad(ctx, planID, gameweekID, func(sq domain.Squad) (domain.Squad, error) {
		return lineup.SetViceCaptain(sq, playerID)
	})
}

func (s *Service) editSquad(ctx context.Context, planID string, gameweekID int, edit func(domain.Squad) (domain.Squad, error)) (*domain.Plan, error) {
	pl, prop, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	state, ok := pl.Entry(gameweekID)
	if !ok {
		return nil, fmt.Errorf("gameweek %d: %w", gameweekID, domain.ErrUnknownGameweek)
	}

	squad, err := edit(state.Squad)
	if err != nil {
		return nil, err
	}
	state.Squad = squad
	pl.Entries[gameweekID] = state

	return s.propagateAndSave(ctx, pl, prop, gameweekID)
}

// =============================================================================
// Navigation & Resets
// =============================================================================

// Advance materializes the gameweek after fromID (if absent) and
// returns the updated plan together with the new gameweek id.
func (s *Service) Advance(ctx context.Context, planID string, fromID int) (*domain.Plan, int, error) {
	pl, prop, err := s.load(ctx, planID)
	if err != nil {
		return nil, 0, err
	}

	next, err := prop.MaterializeNext(pl, fromID)
	if err != nil {
		return nil, 0, err
	}

	if err := s.store.SavePlan(ctx, pl); err != nil {
		return nil, 0, err
	}
	return pl, next, nil
}

// ResetGameweek discards one non-anchor gameweek's edits and propagates.
func (s *Service) ResetGameweek(ctx context.Context, planID string, gameweekID int) (*domain.Plan, error) {
	pl, prop, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}

	if err := prop.ResetGameweek(pl, gameweekID); err != nil {
		return nil, err
	}

	if err := s.store.SavePlan(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

// ResetAll collapses the plan back to its imported anchor.
func (s *Service) ResetAll(ctx context.Context, planID string) (*domain.Plan, error) {
	pl, _, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}

	plan.ResetAll(pl)

	if err := s.store.SavePlan(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

// =============================================================================
// Internals
// =============================================================================

func (s *Service) load(ctx context.Context, planID string) (*domain.Plan, plan.Propagator, error) {
	pl, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, plan.Propagator{}, err
	}

	weeks, err := s.catalog.Gameweeks(ctx)
	if err != nil {
		return nil, plan.Propagator{}, err
	}
	tl, err := timeline.New(weeks, pl.AnchorGameweekID)
	if err != nil {
		return nil, plan.Propagator{}, err
	}

	return pl, plan.Propagator{Timeline: tl, Policy: s.policy}, nil
}

func (s *Service) propagateAndSave(ctx context.Context, pl *domain.Plan, prop plan.Propagator, editedID int) (*domain.Plan, error) {
	if err := prop.Propagate(pl, editedID); err != nil {
		return nil, err
	}
	if err := s.store.SavePlan(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}
