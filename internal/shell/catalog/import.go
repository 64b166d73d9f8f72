package catalog

import (
	"context"
	"fmt"

	"github.com/fplkit/planner/internal/core/domain"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Squad Import
// =============================================================================

// ImportedSquad is a manager's real squad, mapped into planner terms and
// ready to seed a plan's anchor gameweek.
type ImportedSquad struct {
	State       domain.GameweekState `json:"state"`
	GameweekID  int                  `json:"gameweek_id"`
	TeamName    string               `json:"team_name"`
	ManagerName string               `json:"manager_name"`
	SquadValue  decimal.Decimal      `json:"squad_value"`
}

// ImportSquad fetches a manager's current squad and maps it onto the
// planner's slot model. Nothing is written anywhere: on any failure the
// caller's existing plan is untouched and the error surfaces as-is.
func (s *Service) ImportSquad(ctx context.Context, managerID string) (*ImportedSquad, error) {
	entry, err := s.fpl.Entry(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("import squad %s: %w", managerID, err)
	}
	currentGW, err := s.fpl.CurrentGameweek(ctx)
	if err != nil {
		return nil, fmt.Errorf("import squad %s: %w", managerID, err)
	}
	picks, err := s.fpl.Picks(ctx, managerID, currentGW)
	if err != nil {
		return nil, fmt.Errorf("import squad %s: %w", managerID, err)
	}
	if len(picks.Picks) != domain.SquadSize {
		return nil, fmt.Errorf("import squad %s: got %d picks, want %d", managerID, len(picks.Picks), domain.SquadSize)
	}

	if _, err := s.Players(ctx); err != nil {
		return nil, fmt.Errorf("import squad %s: %w", managerID, err)
	}

	var squad domain.Squad
	squadValue := decimal.Zero
	s.mu.RLock()
	for i, pick := range picks.Picks {
		player, ok := s.byID[pick.Element]
		if !ok {
			s.mu.RUnlock()
			return nil, fmt.Errorf("import squad %s: unknown player %d", managerID, pick.Element)
		}
		squad[i] = domain.SquadSlot{
			Player:        player.Player,
			SlotIndex:     pick.Position,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		}
		squadValue = squadValue.Add(player.Price)
	}
	s.mu.RUnlock()

	bank := decimal.Zero
	if picks.EntryHistory != nil {
		bank = decimal.New(int64(picks.EntryHistory.Bank), -1)
	}

	freeTransfers, err := s.availableTransfers(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("import squad %s: %w", managerID, err)
	}

	return &ImportedSquad{
		State: domain.GameweekState{
			Squad:         squad,
			Transfers:     []domain.Transfer{},
			Bank:          bank,
			FreeTransfers: freeTransfers,
		},
		GameweekID:  currentGW,
		TeamName:    entry.Name,
		ManagerName: entry.PlayerFirstName + " " + entry.PlayerLastName,
		SquadValue:  squadValue,
	}, nil
}

// availableTransfers applies the banked-transfer heuristic: a manager
// who made no transfers at no cost in the latest completed gameweek has
// two free transfers available, otherwise one.
func (s *Service) availableTransfers(ctx context.Context, managerID string) (int, error) {
	history, err := s.fpl.History(ctx, managerID)
	if err != nil {
		return 0, err
	}
	if len(history.Current) == 0 {
		return 1, nil
	}
	last := history.Current[len(history.Current)-1]
	if last.EventTransfers == 0 && last.EventTransfersCost == 0 {
		return 2, nil
	}
	return 1, nil
}
