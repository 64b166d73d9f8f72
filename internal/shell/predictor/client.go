// Package predictor is a client for the scoring service. Predicted
// points and optimized squads are black boxes to the planner: they come
// back as opaque ranking signals and are never recomputed here.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fplkit/planner/internal/core/domain"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Client
// =============================================================================

// Client talks to the scoring service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client for the scoring service at baseURL.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// =============================================================================
// Predict
// =============================================================================

type predictRequest struct {
	Players []playerPayload `json:"players"`
}

type playerPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
	Price    string `json:"price"`
}

type predictResponse struct {
	Predictions map[string]float64 `json:"predictions"`
}

// Predict returns predicted points per player id. Players missing from
// the response simply have no prediction.
func (c *Client) Predict(ctx context.Context, players []domain.Player) (map[int]decimal.Decimal, error) {
	var resp predictResponse
	if err := c.post(ctx, "/predict", predictRequest{Players: toPayload(players)}, &resp); err != nil {
		return nil, err
	}

	out := make(map[int]decimal.Decimal, len(resp.Predictions))
	for key, points := range resp.Predictions {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			continue
		}
		out[id] = decimal.NewFromFloat(points)
	}
	return out, nil
}

// =============================================================================
// Optimize
// =============================================================================

type optimizeRequest struct {
	Players               []playerPayload `json:"players"`
	Budget                float64         `json:"budget"`
	IncludeStartingEleven bool            `json:"include_starting_eleven"`
}

// OptimizeResult is the optimizer's selection. Squad ids refer to the
// submitted players.
type OptimizeResult struct {
	Squad          []OptimizedPick `json:"squad"`
	TotalCost      float64         `json:"total_cost"`
	ExpectedPoints float64         `json:"expected_points"`
	Status         string          `json:"status"`
}

// OptimizedPick is one selected player.
type OptimizedPick struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	Price           float64 `json:"price"`
	PredictedPoints float64 `json:"predicted_points"`
}

// Optimize asks the scoring service for a squad within the budget.
func (c *Client) Optimize(ctx context.Context, players []domain.Player, budget decimal.Decimal) (*OptimizeResult, error) {
	budgetFloat, _ := budget.Float64()
	req := optimizeRequest{
		Players:               toPayload(players),
		Budget:                budgetFloat,
		IncludeStartingEleven: true,
	}
	var resp OptimizeResult
	if err := c.post(ctx, "/optimize/squad", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
}

// Healthy reports whether the scoring service answers its health check.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var payload healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false
	}
	return payload.Status == "ok"
}

// =============================================================================
// Transport
// =============================================================================

func toPayload(players []domain.Player) []playerPayload {
	out := make([]playerPayload, 0, len(players))
	for _, p := range players {
		out = append(out, playerPayload{
			ID:       p.ID,
			Name:     p.Name,
			Position: string(p.Position),
			Team:     p.Team,
			Price:    p.Price.String(),
		})
	}
	return out
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	url := c.baseURL + path
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request %s: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service %s: status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
