package fplapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bootstrapJSON = `{
	"events": [
		{"id": 1, "name": "Gameweek 1", "deadline_time": "2026-08-14T17:30:00Z", "is_current": false, "finished": true},
		{"id": 2, "name": "Gameweek 2", "deadline_time": "2026-08-21T17:30:00Z", "is_current": true},
		{"id": 3, "name": "Gameweek 3", "deadline_time": "2026-08-28T17:30:00Z", "is_next": true}
	],
	"teams": [
		{"id": 1, "name": "Arsenal", "short_name": "ARS"},
		{"id": 2, "name": "Liverpool", "short_name": "LIV"}
	],
	"element_types": [
		{"id": 1, "singular_name_short": "GKP"},
		{"id": 2, "singular_name_short": "DEF"},
		{"id": 3, "singular_name_short": "MID"},
		{"id": 4, "singular_name_short": "FWD"}
	],
	"elements": [
		{"id": 10, "first_name": "David", "second_name": "Raya", "web_name": "Raya", "team": 1, "element_type": 1, "now_cost": 55, "total_points": 12, "form": "4.0"},
		{"id": 20, "first_name": "Mohamed", "second_name": "Salah", "web_name": "Salah", "team": 2, "element_type": 3, "now_cost": 131, "total_points": 25, "form": "8.5"}
	]
}`

func newTestServer(t *testing.T, bootstrapHits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		if bootstrapHits != nil {
			bootstrapHits.Add(1)
		}
		w.Write([]byte(bootstrapJSON))
	})
	mux.HandleFunc("/fixtures/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "event": 2, "team_h": 1, "team_a": 2, "team_h_difficulty": 4, "team_a_difficulty": 3},
			{"id": 2, "event": null, "team_h": 2, "team_a": 1}
		]`))
	})
	mux.HandleFunc("/entry/777/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 777, "name": "Bench Warmers", "player_first_name": "Alex", "player_last_name": "Kim"}`))
	})
	mux.HandleFunc("/entry/777/event/2/picks/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"picks": [{"element": 10, "position": 1, "is_captain": false, "is_vice_captain": true}],
			"entry_history": {"bank": 15, "value": 1003, "event_transfers": 1}
		}`))
	})
	mux.HandleFunc("/entry/777/history/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": [{"event": 1, "event_transfers": 0, "event_transfers_cost": 0}]}`))
	})
	mux.HandleFunc("/entry/777/transfers/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"element_in": 20, "element_in_cost": 131, "element_out": 10, "element_out_cost": 55, "event": 2, "time": "2026-08-20T10:00:00Z"},
			{"element_in": 10, "element_in_cost": 55, "element_out": 30, "element_out_cost": 50, "event": 1, "time": "2026-08-13T09:00:00Z"}
		]`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestBootstrap_ParsesPayload(t *testing.T) {
	server := newTestServer(t, nil)
	client := New(server.URL, time.Second, nil)

	bootstrap, err := client.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Len(t, bootstrap.Events, 3)
	assert.Len(t, bootstrap.Teams, 2)
	assert.Len(t, bootstrap.Elements, 2)
	assert.Equal(t, "Salah", bootstrap.Elements[1].WebName)
	assert.Equal(t, 131, bootstrap.Elements[1].NowCost)
}

func TestBootstrap_SecondCallServedFromCache(t *testing.T) {
	var hits atomic.Int32
	server := newTestServer(t, &hits)
	client := New(server.URL, time.Second, nil)

	_, err := client.Bootstrap(context.Background())
	require.NoError(t, err)
	_, err = client.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func TestCurrentGameweek_ReturnsCurrentFlag(t *testing.T) {
	server := newTestServer(t, nil)
	client := New(server.URL, time.Second, nil)

	gw, err := client.CurrentGameweek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, gw)
}

func TestCurrentGameweek_DefaultsToOneBeforeSeason(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": [{"id": 1, "name": "Gameweek 1"}], "teams": [], "elements": [], "element_types": []}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	client := New(server.URL, time.Second, nil)

	gw, err := client.CurrentGameweek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gw)
}

func TestFixtures_NullEventSurvivesDecoding(t *testing.T) {
	server := newTestServer(t, nil)
	client := New(server.URL, time.Second, nil)

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	require.NotNil(t, fixtures[0].Event)
	assert.Equal(t, 2, *fixtures[0].Event)
	assert.Nil(t, fixtures[1].Event)
}

func TestManagerEndpoints_RoundTrip(t *testing.T) {
	server := newTestServer(t, nil)
	client := New(server.URL, time.Second, nil)
	ctx := context.Background()

	entry, err := client.Entry(ctx, "777")
	require.NoError(t, err)
	assert.Equal(t, "Bench Warmers", entry.Name)
	assert.Equal(t, "Alex", entry.PlayerFirstName)

	picks, err := client.Picks(ctx, "777", 2)
	require.NoError(t, err)
	require.Len(t, picks.Picks, 1)
	assert.True(t, picks.Picks[0].IsViceCaptain)
	require.NotNil(t, picks.EntryHistory)
	assert.Equal(t, 15, picks.EntryHistory.Bank)

	history, err := client.History(ctx, "777")
	require.NoError(t, err)
	require.Len(t, history.Current, 1)
	assert.Equal(t, 0, history.Current[0].EventTransfers)

	transfers, err := client.Transfers(ctx, "777")
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, 20, transfers[0].ElementIn)
	assert.Equal(t, 10, transfers[0].ElementOut)
	assert.Equal(t, 2, transfers[0].Event)
	assert.Equal(t, 1, transfers[1].Event)
}

func TestEntry_UnknownManagerIsAPIError(t *testing.T) {
	server := newTestServer(t, nil)
	client := New(server.URL, time.Second, nil)

	_, err := client.Entry(context.Background(), "999")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}
