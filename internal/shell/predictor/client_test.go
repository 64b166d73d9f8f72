package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fplkit/planner/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayers() []domain.Player {
	return []domain.Player{
		{ID: 10, Name: "David Raya", Position: domain.PositionGK, Team: "ARS", Price: decimal.RequireFromString("5.5")},
		{ID: 20, Name: "Mohamed Salah", Position: domain.PositionMID, Team: "LIV", Price: decimal.RequireFromString("13.1")},
	}
}

func TestPredict_MapsResponseByPlayerID(t *testing.T) {
	var got predictRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"predictions": {"10": 3.2, "20": 7.8}}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	predictions, err := client.Predict(context.Background(), testPlayers())
	require.NoError(t, err)

	require.Len(t, got.Players, 2)
	assert.Equal(t, "5.5", got.Players[0].Price)
	assert.Equal(t, "MID", got.Players[1].Position)

	require.Len(t, predictions, 2)
	assert.True(t, predictions[20].Equal(decimal.NewFromFloat(7.8)))
}

func TestPredict_SkipsMalformedKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions": {"10": 3.2, "bogus": 1.0}}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	predictions, err := client.Predict(context.Background(), testPlayers())
	require.NoError(t, err)
	assert.Len(t, predictions, 1)
}

func TestPredict_UpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	_, err := client.Predict(context.Background(), testPlayers())
	assert.Error(t, err)
}

func TestOptimize_SendsBudgetAndParsesSquad(t *testing.T) {
	var got optimizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/optimize/squad", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{
			"squad": [{"id": 20, "name": "Mohamed Salah", "position": "MID", "team": "LIV", "price": 13.1, "predicted_points": 7.8}],
			"total_cost": 13.1,
			"expected_points": 7.8,
			"status": "optimal"
		}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	result, err := client.Optimize(context.Background(), testPlayers(), decimal.RequireFromString("100.0"))
	require.NoError(t, err)

	assert.InDelta(t, 100.0, got.Budget, 0.001)
	assert.True(t, got.IncludeStartingEleven)
	require.Len(t, result.Squad, 1)
	assert.Equal(t, 20, result.Squad[0].ID)
	assert.Equal(t, "optimal", result.Status)
}

func TestHealthy_RequiresOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	assert.True(t, client.Healthy(context.Background()))
}

func TestHealthy_FalseWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, time.Second, nil)
	assert.False(t, client.Healthy(context.Background()))
}
