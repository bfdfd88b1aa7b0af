package boxscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounters_Percentages(t *testing.T) {
	t.Parallel()

	c := Counters{FieldGoalsMade: 1, FieldGoalsAttempted: 2, FreeThrowsMade: 3, FreeThrowsAttempted: 4}
	assert.InDelta(t, 0.5, c.FieldGoalPercentage(), 1e-9)
	assert.InDelta(t, 0.75, c.FreeThrowPercentage(), 1e-9)
	assert.Equal(t, 0.0, c.ThreePointPercentage(), "zero attempts must read as 0")

	c = c.Add(Counters{FieldGoalsAttempted: 2})
	assert.InDelta(t, 0.25, c.FieldGoalPercentage(), 1e-9)
}

func TestCounters_AddAndFields(t *testing.T) {
	t.Parallel()

	sum := Counters{Points: 2, ReboundsOffensive: 1}.Add(Counters{Points: 3, ReboundsDefensive: 2})
	assert.Equal(t, 5, sum.Points)
	assert.Equal(t, 3, sum.TotalRebounds())
	assert.Equal(t, map[Field]int{
		FieldPoints:            5,
		FieldReboundsOffensive: 1,
		FieldReboundsDefensive: 2,
	}, sum.Fields())
}

func TestPlayerSeasonStats_PerGameAverages(t *testing.T) {
	t.Parallel()

	s := PlayerSeasonStats{GamesPlayed: 4, Counters: Counters{Points: 50, Assists: 10, ReboundsDefensive: 6, SecondsPlayed: 4 * 30 * 60}}
	assert.InDelta(t, 12.5, s.PointsPerGame(), 1e-9)
	assert.InDelta(t, 2.5, s.AssistsPerGame(), 1e-9)
	assert.InDelta(t, 1.5, s.ReboundsPerGame(), 1e-9)
	assert.InDelta(t, 30.0, s.MinutesPerGame(), 1e-9)

	assert.Equal(t, 0.0, PlayerSeasonStats{}.PointsPerGame())
}

func TestRollupMarker_SeasonIncrement(t *testing.T) {
	t.Parallel()

	inc := RollupMarker{PlayerID: "p1", TeamID: "t1", SeasonYear: 2026, Started: true}.SeasonIncrement(Counters{Points: 7})
	assert.Equal(t, 1, inc.GamesPlayed)
	assert.Equal(t, 1, inc.GamesStarted)

	acc := PlayerSeasonStats{}.Accumulate(inc).Accumulate(inc)
	assert.Equal(t, 14, acc.Counters.Points)
	assert.Equal(t, 2, acc.GamesPlayed)
}
