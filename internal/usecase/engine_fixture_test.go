package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"github.com/riskibarqy/courtstats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/courtstats/internal/platform/keylock"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []boxscore.Change
}

func (p *recordingPublisher) Publish(_ context.Context, change boxscore.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
	return nil
}

func (p *recordingPublisher) kinds() []boxscore.ChangeKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]boxscore.ChangeKind, 0, len(p.changes))
	for _, c := range p.changes {
		out = append(out, c.Kind)
	}
	return out
}

type sequentialIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequentialIDs) NewID() (string, error) {
	return fmt.Sprintf("%s%04d", g.prefix, g.n.Add(1)), nil
}

type engineFixture struct {
	games   *memory.GameRepository
	events  *memory.EventRepository
	stats   *memory.StatsRepository
	seasons *memory.SeasonRepository
	feed    *recordingPublisher

	engine  *AggregationService
	recalc  *RecalculationService
	rollup  *SeasonRollupService
	writer  *EventService
	queries *StatsQueryService
}

func newEngineFixture(t *testing.T, games ...game.Game) *engineFixture {
	t.Helper()

	f := &engineFixture{
		games:   memory.NewGameRepository(games...),
		events:  memory.NewEventRepository(),
		stats:   memory.NewStatsRepository(),
		seasons: memory.NewSeasonRepository(),
		feed:    &recordingPublisher{},
	}
	f.engine = NewAggregationService(f.games, f.events, f.stats, keylock.New(), f.feed, logging.NewNop())
	f.rollup = NewSeasonRollupService(f.engine, f.seasons, 4)
	f.recalc = NewRecalculationService(f.engine, f.rollup, 2)
	f.writer = NewEventService(f.engine, f.recalc, &sequentialIDs{prefix: "evt-"})
	f.queries = NewStatsQueryService(f.games, f.stats, f.seasons, f.engine)
	return f
}

func testGame(id string) game.Game {
	return game.Game{
		ID:             id,
		SeasonYear:     2026,
		HomeTeamID:     "hawks",
		AwayTeamID:     "owls",
		HomeStarterIDs: []string{"h1", "h2", "h3", "h4", "h5"},
		AwayStarterIDs: []string{"a1", "a2", "a3", "a4", "a5"},
		Status:         game.StatusRecording,
		StartsAt:       time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC),
	}
}

func (f *engineFixture) record(t *testing.T, input RecordEventInput) gameevent.Event {
	t.Helper()
	out, err := f.writer.RecordEvent(context.Background(), input)
	require.NoError(t, err)
	return out.Event
}

var randomEventTypes = []gameevent.Type{
	gameevent.TypeTwoPointerMade, gameevent.TypeTwoPointerMissed,
	gameevent.TypeThreePointerMade, gameevent.TypeThreePointerMissed,
	gameevent.TypeFreeThrowMade, gameevent.TypeFreeThrowMissed,
	gameevent.TypeRebound, gameevent.TypeAssist, gameevent.TypeSteal,
	gameevent.TypeBlock, gameevent.TypeTurnover, gameevent.TypeFoul,
	gameevent.TypeSubstitution,
}

// randomGameInputs builds a full four-quarter game. Several events share a timestamp.
func randomGameInputs(seed int64, gameID string, n int) []RecordEventInput {
	r := rand.New(rand.NewSource(seed))
	out := make([]RecordEventInput, 0, n)
	for i := 0; i < n; i++ {
		elapsed := (i / 3) * 20
		quarter := elapsed/(12*60) + 1
		if quarter > 4 {
			quarter = 4
		}
		side, prefix := "HOME", "h"
		if r.Intn(2) == 1 {
			side, prefix = "AWAY", "a"
		}
		in := RecordEventInput{
			GameID:         gameID,
			Side:           side,
			Type:           string(randomEventTypes[r.Intn(len(randomEventTypes))]),
			PlayerID:       fmt.Sprintf("%s%d", prefix, r.Intn(7)+1),
			ElapsedSeconds: elapsed,
			Quarter:        quarter,
		}
		switch gameevent.Type(in.Type) {
		case gameevent.TypeRebound:
			in.ReboundKind = []string{"OFFENSIVE", "DEFENSIVE", ""}[r.Intn(3)]
		case gameevent.TypeFoul:
			in.FoulKind = []string{"PERSONAL", "TECHNICAL", ""}[r.Intn(3)]
		}
		out = append(out, in)
	}
	return out
}

// teamRowsWithoutTimestamps strips UpdatedAt so stored state can be compared across runs.
func teamRowsWithoutTimestamps(rows []boxscore.GameStats) []boxscore.GameStats {
	out := make([]boxscore.GameStats, len(rows))
	for i, row := range rows {
		row.UpdatedAt = time.Time{}
		out[i] = row
	}
	return out
}

func playerRowsWithoutTimestamps(rows []boxscore.PlayerGameStats) []boxscore.PlayerGameStats {
	out := make([]boxscore.PlayerGameStats, len(rows))
	for i, row := range rows {
		row.UpdatedAt = time.Time{}
		out[i] = row
	}
	return out
}
