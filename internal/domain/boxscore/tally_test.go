package boxscore

import (
	"testing"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyInto(t *testing.T, tally *Tally, evt gameevent.Event) {
	t.Helper()
	cls, err := Classify(evt, "home", game.TrackingByPlayer)
	require.NoError(t, err)
	tally.Apply(Increment{GameID: evt.GameID, EventID: evt.ID, Delta: cls.Delta, TeamKeys: cls.TeamKeys, PlayerKeys: cls.PlayerKeys})
}

func TestTally_TwoShotScenario(t *testing.T) {
	t.Parallel()

	tally := NewTally("g1")
	classifyInto(t, tally, gameevent.Event{ID: "e1", GameID: "g1", PlayerID: "P", Type: gameevent.TypeTwoPointerMade, ElapsedSeconds: 10, Quarter: 1})
	classifyInto(t, tally, gameevent.Event{ID: "e2", GameID: "g1", PlayerID: "P", Type: gameevent.TypeThreePointerMissed, ElapsedSeconds: 200, Quarter: 2})

	snap := tally.Snapshot(time.Unix(0, 0))
	require.Len(t, snap.Players, 3)

	full, q1, q2 := snap.Players[0], snap.Players[1], snap.Players[2]
	assert.Equal(t, FullGame, full.Quarter)
	assert.Equal(t, Counters{Points: 2, FieldGoalsMade: 1, FieldGoalsAttempted: 2, ThreePointersAttempted: 1}, full.Counters)
	assert.Equal(t, Counters{Points: 2, FieldGoalsMade: 1, FieldGoalsAttempted: 1}, q1.Counters)
	assert.Equal(t, Counters{FieldGoalsAttempted: 1, ThreePointersAttempted: 1}, q2.Counters)
	assert.InDelta(t, 0.5, full.Counters.FieldGoalPercentage(), 1e-9)

	assert.Equal(t, []string{"e1", "e2"}, snap.AppliedEventIDs)
}

func TestTally_IgnoresRepeatedEventAndCarriesAnnotations(t *testing.T) {
	t.Parallel()

	tally := NewTally("g1")
	evt := gameevent.Event{ID: "e1", GameID: "g1", PlayerID: "P", Type: gameevent.TypeFreeThrowMade}
	classifyInto(t, tally, evt)
	classifyInto(t, tally, evt)

	assert.True(t, tally.Annotate(PlayerKey{GameID: "g1", PlayerID: "P"}, -3, []byte("chart")))
	assert.False(t, tally.Annotate(PlayerKey{GameID: "g1", PlayerID: "ghost"}, 1, nil))

	snap := tally.Snapshot(time.Unix(0, 0))
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 1, snap.Players[0].Counters.Points)
	assert.Equal(t, -3, snap.Players[0].PlusMinus)
	assert.Equal(t, []byte("chart"), snap.Players[0].ShotChart)
}
