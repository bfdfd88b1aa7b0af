package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/courtstats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtstats/internal/infrastructure/statfeed"
	"github.com/riskibarqy/courtstats/internal/platform/keylock"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"github.com/riskibarqy/courtstats/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInternalToken = "maintenance-secret"

type counterIDs struct {
	n atomic.Int64
}

func (c *counterIDs) NewID() (string, error) {
	return fmt.Sprintf("id-%03d", c.n.Add(1)), nil
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type listEnvelope struct {
	Data []map[string]any `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	games := memory.NewGameRepository()
	events := memory.NewEventRepository()
	stats := memory.NewStatsRepository()
	seasons := memory.NewSeasonRepository()
	feed := statfeed.NewBroker(16, logging.NewNop())
	ids := &counterIDs{}

	engine := usecase.NewAggregationService(games, events, stats, keylock.New(), feed, logging.NewNop())
	rollup := usecase.NewSeasonRollupService(engine, seasons, 2)
	recalc := usecase.NewRecalculationService(engine, rollup, 2)
	handler := NewHandler(
		usecase.NewGameService(games, ids),
		usecase.NewEventService(engine, recalc, ids),
		engine,
		recalc,
		rollup,
		usecase.NewStatsQueryService(games, stats, seasons, engine),
		feed,
		nil,
		logging.NewNop(),
	)

	server := httptest.NewServer(NewRouter(handler, logging.NewNop(), RouterConfig{InternalToken: testInternalToken}))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, body string, headers ...string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var out envelope
	require.NoError(t, sonic.Unmarshal(raw, &out), string(raw))
	return out
}

func createTestGame(t *testing.T, server *httptest.Server, gameID string) {
	t.Helper()
	status, raw := doJSON(t, server, http.MethodPost, "/v1/games", `{
		"id": "`+gameID+`",
		"season_year": 2026,
		"home_team_id": "hawks",
		"away_team_id": "owls",
		"home_starter_ids": ["h1", "h2"],
		"away_starter_ids": ["a1"]
	}`)
	require.Equal(t, http.StatusCreated, status, string(raw))
}

func recordTestEvent(t *testing.T, server *httptest.Server, gameID, body string) envelope {
	t.Helper()
	status, raw := doJSON(t, server, http.MethodPost, "/v1/games/"+gameID+"/events", body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decodeEnvelope(t, raw)
}

func TestHandler_RecordEventsAndReadBoxScore(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	createTestGame(t, server, "g1")

	recordTestEvent(t, server, "g1", `{"side":"HOME","type":"TWO_POINTER_MADE","player_id":"h1","elapsed_seconds":30,"quarter":1}`)
	recordTestEvent(t, server, "g1", `{"side":"HOME","type":"TWO_POINTER_MISSED","player_id":"h1","elapsed_seconds":60,"quarter":1}`)
	out := recordTestEvent(t, server, "g1", `{"side":"AWAY","type":"REBOUND","player_id":"a1","elapsed_seconds":62,"quarter":1}`)

	apply, ok := out.Data["apply"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, apply["applied"])
	assert.NotEmpty(t, apply["warnings"], "a rebound without kind is defaulted with a warning")

	status, raw := doJSON(t, server, http.MethodGet, "/v1/games/g1/stats/players/h1", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	player := decodeEnvelope(t, raw).Data
	playerStats := player["stats"].(map[string]any)
	assert.EqualValues(t, 2, playerStats["points"])
	assert.EqualValues(t, 2, playerStats["field_goals_attempted"])
	assert.EqualValues(t, 0.5, playerStats["field_goal_percentage"])

	status, raw = doJSON(t, server, http.MethodGet, "/v1/games/g1/stats/teams/owls?quarter=1", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	teamStats := decodeEnvelope(t, raw).Data["stats"].(map[string]any)
	assert.EqualValues(t, 1, teamStats["rebounds_defensive"])

	status, raw = doJSON(t, server, http.MethodGet, "/v1/games/g1/stats/players?quarter=1", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	var list listEnvelope
	require.NoError(t, sonic.Unmarshal(raw, &list))
	assert.Len(t, list.Data, 2)

	status, raw = doJSON(t, server, http.MethodGet, "/v1/games/g1/events", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	require.NoError(t, sonic.Unmarshal(raw, &list))
	require.Len(t, list.Data, 3)
	assert.Equal(t, "TWO_POINTER_MADE", list.Data[0]["type"])
}

func TestHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	createTestGame(t, server, "g1")

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantReason string
	}{
		{name: "unknown game", method: http.MethodGet, path: "/v1/games/missing", wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{name: "unknown event type", method: http.MethodPost, path: "/v1/games/g1/events", body: `{"side":"HOME","type":"DUNK","player_id":"h1"}`, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "missing side", method: http.MethodPost, path: "/v1/games/g1/events", body: `{"type":"STEAL","player_id":"h1"}`, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "unknown field", method: http.MethodPost, path: "/v1/games/g1/events", body: `{"side":"HOME","type":"STEAL","minute":3}`, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "bad quarter", method: http.MethodGet, path: "/v1/games/g1/stats/players?quarter=-1", wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "missing player row", method: http.MethodGet, path: "/v1/games/g1/stats/players/nobody", wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{name: "duplicate game", method: http.MethodPost, path: "/v1/games", body: `{"id":"g1","season_year":2026,"home_team_id":"hawks","away_team_id":"owls"}`, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "rollup while recording", method: http.MethodPost, path: "/v1/games/g1/rollup", wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := doJSON(t, server, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status, string(raw))
			body := decodeEnvelope(t, raw)
			require.NotNil(t, body.Error)
			require.NotEmpty(t, body.Error.Errors)
			assert.Equal(t, tt.wantReason, body.Error.Errors[0].Reason)
		})
	}
}

func TestHandler_LifecycleRejectsEventsAfterRollup(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	createTestGame(t, server, "g1")
	recordTestEvent(t, server, "g1", `{"side":"HOME","type":"THREE_POINTER_MADE","player_id":"h1","elapsed_seconds":10,"quarter":1}`)

	status, raw := doJSON(t, server, http.MethodPost, "/v1/games/g1/complete", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "COMPLETED", decodeEnvelope(t, raw).Data["status"])

	status, raw = doJSON(t, server, http.MethodPost, "/v1/games/g1/rollup", "")
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = doJSON(t, server, http.MethodPost, "/v1/games/g1/events", `{"side":"HOME","type":"STEAL","player_id":"h1","elapsed_seconds":20}`)
	assert.Equal(t, http.StatusConflict, status, string(raw))

	status, raw = doJSON(t, server, http.MethodPost, "/v1/seasons/2026/rollups", `{"player_id":"h1","game_id":"g1"}`)
	assert.Equal(t, http.StatusConflict, status, string(raw))

	status, raw = doJSON(t, server, http.MethodGet, "/v1/players/h1/seasons/2026", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	season := decodeEnvelope(t, raw).Data
	assert.EqualValues(t, 1, season["games_played"])
	assert.EqualValues(t, 1, season["games_started"])
	assert.EqualValues(t, 3, season["points_per_game"])

	status, raw = doJSON(t, server, http.MethodGet, "/v1/players/h1/seasons/2026?team_id=hawks", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "hawks", decodeEnvelope(t, raw).Data["team_id"])
}

func TestHandler_UndoRecalculatesGame(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	createTestGame(t, server, "g1")
	recordTestEvent(t, server, "g1", `{"side":"HOME","type":"FREE_THROW_MADE","player_id":"h2","elapsed_seconds":5,"quarter":1}`)
	recordTestEvent(t, server, "g1", `{"side":"HOME","type":"FREE_THROW_MADE","player_id":"h2","elapsed_seconds":6,"quarter":1}`)

	status, raw := doJSON(t, server, http.MethodPost, "/v1/games/g1/events/undo", "")
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = doJSON(t, server, http.MethodGet, "/v1/games/g1/stats/players/h2", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.EqualValues(t, 1, decodeEnvelope(t, raw).Data["stats"].(map[string]any)["points"])
}

func TestHandler_InternalRoutesRequireToken(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	createTestGame(t, server, "g1")

	status, _ := doJSON(t, server, http.MethodPost, "/v1/internal/seasons/2026/rebuild", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, raw := doJSON(t, server, http.MethodPost, "/v1/internal/seasons/2026/rebuild", "", internalTokenHeader, testInternalToken)
	assert.Equal(t, http.StatusOK, status, string(raw))

	status, raw = doJSON(t, server, http.MethodPost, "/v1/internal/games/recalculate", `{"game_ids":["g1","missing"]}`, internalTokenHeader, testInternalToken)
	require.Equal(t, http.StatusOK, status, string(raw))
	result := decodeEnvelope(t, raw).Data
	assert.EqualValues(t, 2, result["game_count"])
	assert.EqualValues(t, 1, result["failed_count"])
}

func TestHandler_StreamPushesCommittedChanges(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	createTestGame(t, server, "g1")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/games/g1/stats/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	recordTestEvent(t, server, "g1", `{"side":"AWAY","type":"BLOCK","player_id":"a1","elapsed_seconds":40,"quarter":1}`)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &msg))
	assert.Equal(t, "event_applied", msg.Type)
	assert.Equal(t, "g1", msg.Payload["gameId"])
}

func TestHandler_StreamUnknownGame(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/games/missing/stats/stream"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequireInternalToken_UnconfiguredTokenDisablesRoute(t *testing.T) {
	t.Parallel()

	called := false
	handler := RequireInternalToken("  ", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/seasons/2026/rebuild", nil)
	req.Header.Set(internalTokenHeader, "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, called)
}
