// Package catalog builds the enriched player universe the planner works
// from: raw catalog data joined with club names, positions, prices,
// upcoming fixtures and predicted points.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/fplkit/planner/internal/core/domain"
	"github.com/fplkit/planner/internal/shell/fplapi"

	"github.com/shopspring/decimal"
)

// fixtureHorizon caps how many upcoming fixtures each player carries;
// enough for a whole season of forward planning.
const fixtureHorizon = 38

// =============================================================================
// Types
// =============================================================================

// Player is a catalog player plus the context the planner and its
// clients need.
type Player struct {
	domain.Player
	ShortName   string `json:"web_name"`
	TotalPoints int    `json:"total_points"`
	Form        string `json:"form"`

	Fixtures []UpcomingFixture `json:"fixtures"`
}

// UpcomingFixture is one future match from a player's club's calendar.
type UpcomingFixture struct {
	Gameweek   int    `json:"gw"`
	Opponent   string `json:"opponent"`
	OpponentID int    `json:"opponent_id"`
	IsHome     bool   `json:"is_home"`
	Difficulty int    `json:"fdr"`
}

// Predictor supplies predicted points for a set of players. The catalog
// treats the values as opaque ranking signals.
type Predictor interface {
	Predict(ctx context.Context, players []domain.Player) (map[int]decimal.Decimal, error)
}

// =============================================================================
// Service
// =============================================================================

// Service fetches and enriches the player catalog, keeping the last
// successful result as a snapshot for cheap reads between refreshes.
type Service struct {
	fpl       *fplapi.Client
	predictor Predictor
	logger    *slog.Logger

	mu       sync.RWMutex
	snapshot []Player
	byID     map[int]Player
}

// New creates a catalog service. predictor may be nil; predictions then
// default to zero.
func New(fpl *fplapi.Client, predictor Predictor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fpl: fpl, predictor: predictor, logger: logger}
}

// Players returns the enriched catalog, refreshing it on first use.
func (s *Service) Players(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	if s.snapshot != nil {
		players := s.snapshot
		s.mu.RUnlock()
		return players, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

// PlayerByID returns one enriched player from the snapshot.
func (s *Service) PlayerByID(ctx context.Context, id int) (Player, bool, error) {
	if _, err := s.Players(ctx); err != nil {
		return Player{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok, nil
}

// Refresh rebuilds the snapshot from the upstream catalog. Prediction
// failures degrade to zero predicted points rather than failing the
// refresh.
func (s *Service) Refresh(ctx context.Context) error {
	bootstrap, err := s.fpl.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	fixtures, err := s.fpl.Fixtures(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	currentGW, err := s.fpl.CurrentGameweek(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	players := enrich(bootstrap, fixtures, currentGW)

	if s.predictor != nil {
		base := make([]domain.Player, 0, len(players))
		for _, p := range players {
			base = append(base, p.Player)
		}
		predictions, err := s.predictor.Predict(ctx, base)
		if err != nil {
			s.logger.Warn("predictions unavailable, defaulting to zero", "error", err)
		} else {
			for i := range players {
				if points, ok := predictions[players[i].ID]; ok {
					players[i].PredictedPoints = points
				}
			}
		}
	}

	byID := make(map[int]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.snapshot = players
	s.byID = byID
	s.mu.Unlock()

	s.logger.Info("catalog refreshed", "players", len(players))
	return nil
}

// Teams returns the club list.
func (s *Service) Teams(ctx context.Context) ([]fplapi.Team, error) {
	bootstrap, err := s.fpl.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	return bootstrap.Teams, nil
}

// Gameweeks returns the season's gameweeks in order.
func (s *Service) Gameweeks(ctx context.Context) ([]domain.Gameweek, error) {
	bootstrap, err := s.fpl.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Gameweek, 0, len(bootstrap.Events))
	for _, event := range bootstrap.Events {
		out = append(out, domain.Gameweek{
			ID:           event.ID,
			Name:         event.Name,
			DeadlineTime: event.DeadlineTime,
			IsCurrent:    event.IsCurrent,
			IsNext:       event.IsNext,
			Finished:     event.Finished,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CurrentGameweek returns the id of the running gameweek.
func (s *Service) CurrentGameweek(ctx context.Context) (int, error) {
	return s.fpl.CurrentGameweek(ctx)
}

// Fixtures returns the raw fixture list.
func (s *Service) Fixtures(ctx context.Context) ([]fplapi.Fixture, error) {
	return s.fpl.Fixtures(ctx)
}

// =============================================================================
// Enrichment
// =============================================================================

func enrich(bootstrap *fplapi.Bootstrap, fixtures []fplapi.Fixture, currentGW int) []Player {
	teamNames := make(map[int]string, len(bootstrap.Teams))
	for _, team := range bootstrap.Teams {
		teamNames[team.ID] = team.ShortName
	}

	positions := make(map[int]domain.Position, len(bootstrap.ElementTypes))
	for _, et := range bootstrap.ElementTypes {
		positions[et.ID] = domain.Position(et.SingularNameShort)
	}

	teamFixtures := upcomingByTeam(fixtures, teamNames, currentGW)

	out := make([]Player, 0, len(bootstrap.Elements))
	for _, el := range bootstrap.Elements {
		upcoming := teamFixtures[el.Team]
		if len(upcoming) > fixtureHorizon {
			upcoming = upcoming[:fixtureHorizon]
		}
		out = append(out, Player{
			Player: domain.Player{
				ID:       el.ID,
				Name:     el.FirstName + " " + el.SecondName,
				Position: positions[el.ElementType],
				TeamID:   el.Team,
				Team:     teamNames[el.Team],
				Price:    decimal.New(int64(el.NowCost), -1),
			},
			ShortName:   el.WebName,
			TotalPoints: el.TotalPoints,
			Form:        el.Form,
			Fixtures:    upcoming,
		})
	}
	return out
}

// upcomingByTeam indexes future fixtures by club, ordered by gameweek,
// from each club's perspective.
func upcomingByTeam(fixtures []fplapi.Fixture, teamNames map[int]string, currentGW int) map[int][]UpcomingFixture {
	upcoming := make([]fplapi.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Event == nil || *f.Event < currentGW {
			continue
		}
		upcoming = append(upcoming, f)
	}
	sort.Slice(upcoming, func(i, j int) bool { return *upcoming[i].Event < *upcoming[j].Event })

	out := map[int][]UpcomingFixture{}
	for _, f := range upcoming {
		out[f.TeamH] = append(out[f.TeamH], UpcomingFixture{
			Gameweek:   *f.Event,
			Opponent:   opponentName(teamNames, f.TeamA),
			OpponentID: f.TeamA,
			IsHome:     true,
			Difficulty: f.TeamHDifficulty,
		})
		out[f.TeamA] = append(out[f.TeamA], UpcomingFixture{
			Gameweek:   *f.Event,
			Opponent:   opponentName(teamNames, f.TeamH),
			OpponentID: f.TeamH,
			IsHome:     false,
			Difficulty: f.TeamADifficulty,
		})
	}
	return out
}

func opponentName(teamNames map[int]string, teamID int) string {
	if name, ok := teamNames[teamID]; ok {
		return name
	}
	return "???"
}
