package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	boxscoremock "github.com/riskibarqy/courtstats/internal/mocks/domain/boxscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func recordScoringGame(t *testing.T, f *engineFixture, gameID string) {
	t.Helper()
	f.record(t, RecordEventInput{GameID: gameID, Side: "HOME", Type: "THREE_POINTER_MADE", PlayerID: "h1", ElapsedSeconds: 15, Quarter: 1})
	f.record(t, RecordEventInput{GameID: gameID, Side: "HOME", Type: "ASSIST", PlayerID: "h2", ElapsedSeconds: 15, Quarter: 1})
	f.record(t, RecordEventInput{GameID: gameID, Side: "HOME", Type: "TWO_POINTER_MADE", PlayerID: "h6", ElapsedSeconds: 400, Quarter: 2})
	f.record(t, RecordEventInput{GameID: gameID, Side: "AWAY", Type: "REBOUND", PlayerID: "a1", ReboundKind: "DEFENSIVE", ElapsedSeconds: 420, Quarter: 2})
}

func TestSeasonRollupService_RollupGameAccumulatesOnce(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGame("g1"), testGame("g2"))
	ctx := context.Background()
	recordScoringGame(t, f, "g1")
	recordScoringGame(t, f, "g2")

	err := f.rollup.RollupGame(ctx, "h1", "g1", 2026)
	require.ErrorIs(t, err, ErrInvalidInput, "recording games cannot be rolled up")

	for _, gameID := range []string{"g1", "g2"} {
		_, err := f.rollup.CompleteGame(ctx, gameID)
		require.NoError(t, err)
	}

	require.NoError(t, f.rollup.RollupGame(ctx, "h1", "g1", 2026))
	afterOne, err := f.queries.GetSeasonStats(ctx, "h1", 2026, "hawks")
	require.NoError(t, err)
	assert.Equal(t, 1, afterOne.GamesPlayed)
	assert.Equal(t, 1, afterOne.GamesStarted)
	assert.Equal(t, 3, afterOne.Counters.Points)

	err = f.rollup.RollupGame(ctx, "h1", "g1", 2026)
	require.ErrorIs(t, err, ErrAlreadyRolledUp)

	unchanged, err := f.queries.GetSeasonStats(ctx, "h1", 2026, "hawks")
	require.NoError(t, err)
	assert.Equal(t, afterOne.Counters, unchanged.Counters)
	assert.Equal(t, 1, unchanged.GamesPlayed)

	require.NoError(t, f.rollup.RollupGame(ctx, "h1", "g2", 2026))
	afterTwo, err := f.queries.GetSeasonStats(ctx, "h1", 2026, "")
	require.NoError(t, err)
	assert.Equal(t, 2, afterTwo.GamesPlayed)
	assert.Equal(t, 6, afterTwo.Counters.Points)
	assert.GreaterOrEqual(t, afterTwo.Counters.Points, afterOne.Counters.Points)
	assert.InDelta(t, 3.0, afterTwo.PointsPerGame(), 1e-9)

	err = f.rollup.RollupGame(ctx, "h1", "g2", 2025)
	require.ErrorIs(t, err, ErrInvalidInput)
	err = f.rollup.RollupGame(ctx, "ghost", "g2", 2026)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSeasonRollupService_RollupCompletedGame(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGame("g1"))
	ctx := context.Background()
	recordScoringGame(t, f, "g1")

	_, err := f.rollup.RollupCompletedGame(ctx, "g1")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.rollup.CompleteGame(ctx, "g1")
	require.NoError(t, err)
	again, err := f.rollup.CompleteGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.StatusCompleted, again.Status)

	require.NoError(t, f.rollup.RollupGame(ctx, "a1", "g1", 2026))

	out, err := f.rollup.RollupCompletedGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2", "h6"}, out.RolledUpPlayers)
	assert.Equal(t, []string{"a1"}, out.SkippedPlayers)

	bench, err := f.queries.GetSeasonStats(ctx, "h6", 2026, "hawks")
	require.NoError(t, err)
	assert.Equal(t, 1, bench.GamesPlayed)
	assert.Equal(t, 0, bench.GamesStarted)

	stored, exists, err := f.games.GetByID(ctx, "g1")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, game.StatusRolledUp, stored.Status)

	_, err = f.rollup.RollupCompletedGame(ctx, "g1")
	require.ErrorIs(t, err, ErrAlreadyRolledUp)
	_, err = f.rollup.CompleteGame(ctx, "g1")
	require.ErrorIs(t, err, ErrAlreadyRolledUp)
	_, err = f.writer.UndoLastEvent(ctx, "g1")
	require.ErrorIs(t, err, ErrAlreadyRolledUp)

	assert.Contains(t, f.feed.kinds(), boxscore.ChangeGameRolledUp)
}

func TestSeasonRollupService_RecalculatingRolledUpGameRebuildsSeason(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGame("g1"))
	ctx := context.Background()
	recordScoringGame(t, f, "g1")
	extra := f.record(t, RecordEventInput{GameID: "g1", Side: "HOME", Type: "FREE_THROW_MADE", PlayerID: "h1", ElapsedSeconds: 500, Quarter: 2})

	_, err := f.rollup.CompleteGame(ctx, "g1")
	require.NoError(t, err)
	_, err = f.rollup.RollupCompletedGame(ctx, "g1")
	require.NoError(t, err)

	before, err := f.queries.GetSeasonStats(ctx, "h1", 2026, "hawks")
	require.NoError(t, err)
	assert.Equal(t, 4, before.Counters.Points)

	// A correction made at the store level after the game was closed.
	deleted, err := f.events.Delete(ctx, extra.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	out, err := f.recalc.Recalculate(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, out.SeasonRebuilt)

	for _, teamID := range []string{"hawks", ""} {
		after, err := f.queries.GetSeasonStats(ctx, "h1", 2026, teamID)
		require.NoError(t, err)
		assert.Equal(t, 3, after.Counters.Points)
		assert.Equal(t, 1, after.GamesPlayed)
	}
	assert.Contains(t, f.feed.kinds(), boxscore.ChangeSeasonRebuilt)
}

func TestSeasonRollupService_RebuildSeasonMatchesIncrementalRollup(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGame("g1"), testGame("g2"))
	ctx := context.Background()
	for i, gameID := range []string{"g1", "g2"} {
		for _, in := range randomGameInputs(int64(31+i), gameID, 90) {
			f.record(t, in)
		}
		_, err := f.rollup.CompleteGame(ctx, gameID)
		require.NoError(t, err)
		_, err = f.rollup.RollupCompletedGame(ctx, gameID)
		require.NoError(t, err)
	}

	players := []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7", "a1", "a2", "a3", "a4", "a5", "a6", "a7"}
	snapshot := func() map[string][]boxscore.PlayerSeasonStats {
		out := make(map[string][]boxscore.PlayerSeasonStats, len(players))
		for _, playerID := range players {
			rows, err := f.queries.ListSeasonStats(ctx, playerID)
			require.NoError(t, err)
			for i := range rows {
				rows[i].UpdatedAt = time.Time{}
			}
			out[playerID] = rows
		}
		return out
	}

	incremental := snapshot()
	seasonRows := 0
	for _, rows := range incremental {
		seasonRows += len(rows)
	}
	require.Positive(t, seasonRows)

	out, err := f.rollup.RebuildSeason(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, out.GameCount)

	assert.Equal(t, incremental, snapshot())

	_, err = f.rollup.RebuildSeason(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeasonRollupService_StorageFailureIsAggregationError(t *testing.T) {
	t.Parallel()

	f := newEngineFixture(t, testGame("g1"))
	ctx := context.Background()
	f.record(t, RecordEventInput{GameID: "g1", Side: "HOME", Type: "TWO_POINTER_MADE", PlayerID: "h1", ElapsedSeconds: 30, Quarter: 1})
	_, err := f.rollup.CompleteGame(ctx, "g1")
	require.NoError(t, err)

	storeErr := errors.New("deadlock detected")
	seasons := boxscoremock.NewSeasonRepository(t)
	seasons.On("RollupPlayerGame",
		mock.Anything,
		mock.MatchedBy(func(m boxscore.RollupMarker) bool {
			return m.PlayerID == "h1" && m.GameID == "g1" && m.SeasonYear == 2026 && m.Started
		}),
		mock.MatchedBy(func(inc boxscore.PlayerSeasonStats) bool { return inc.GamesPlayed == 1 }),
	).Return(storeErr).Once()

	rollup := NewSeasonRollupService(f.engine, seasons, 2)
	err = rollup.RollupGame(ctx, "h1", "g1", 2026)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrAggregation))
	assert.True(t, crerr.Is(err, storeErr))
	assert.Equal(t, []boxscore.ChangeKind{boxscore.ChangeEventApplied}, f.feed.kinds())
}
