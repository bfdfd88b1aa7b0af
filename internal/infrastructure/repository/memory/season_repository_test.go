package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

func TestSeasonRepository_RollupUpdatesTeamAndCombinedRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository()

	marker := boxscore.RollupMarker{PlayerID: "p1", GameID: "g1", TeamID: "home", SeasonYear: 2026, Started: true}
	inc := marker.SeasonIncrement(boxscore.Counters{Points: 12})
	if err := repo.RollupPlayerGame(ctx, marker, inc); err != nil {
		t.Fatalf("rollup: %v", err)
	}

	traded := boxscore.RollupMarker{PlayerID: "p1", GameID: "g2", TeamID: "away", SeasonYear: 2026}
	if err := repo.RollupPlayerGame(ctx, traded, traded.SeasonIncrement(boxscore.Counters{Points: 8})); err != nil {
		t.Fatalf("rollup second team: %v", err)
	}

	home, ok, _ := repo.GetSeasonStats(ctx, "p1", 2026, "home")
	if !ok || home.Counters.Points != 12 || home.GamesPlayed != 1 || home.GamesStarted != 1 {
		t.Fatalf("unexpected home season row: %+v", home)
	}
	all, ok, _ := repo.GetSeasonStats(ctx, "p1", 2026, "")
	if !ok || all.Counters.Points != 20 || all.GamesPlayed != 2 || all.GamesStarted != 1 {
		t.Fatalf("unexpected combined season row: %+v", all)
	}
}

func TestSeasonRepository_RejectsSecondRollupOfSameGame(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository()
	marker := boxscore.RollupMarker{PlayerID: "p1", GameID: "g1", TeamID: "home", SeasonYear: 2026}
	inc := marker.SeasonIncrement(boxscore.Counters{Points: 5})

	if err := repo.RollupPlayerGame(ctx, marker, inc); err != nil {
		t.Fatalf("rollup: %v", err)
	}
	if err := repo.RollupPlayerGame(ctx, marker, inc); !errors.Is(err, boxscore.ErrAlreadyRolledUp) {
		t.Fatalf("expected ErrAlreadyRolledUp, got %v", err)
	}

	row, _, _ := repo.GetSeasonStats(ctx, "p1", 2026, "home")
	if row.Counters.Points != 5 || row.GamesPlayed != 1 {
		t.Fatalf("rejected rollup must not change counters: %+v", row)
	}
}

func TestSeasonRepository_ReplaceSeasonKeepsMarkers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository()
	marker := boxscore.RollupMarker{PlayerID: "p1", GameID: "g1", TeamID: "home", SeasonYear: 2026}
	if err := repo.RollupPlayerGame(ctx, marker, marker.SeasonIncrement(boxscore.Counters{Points: 5})); err != nil {
		t.Fatalf("rollup: %v", err)
	}

	err := repo.ReplaceSeason(ctx, 2026, []boxscore.PlayerSeasonStats{
		{PlayerID: "p1", TeamID: "home", GamesPlayed: 1, Counters: boxscore.Counters{Points: 7}},
	})
	if err != nil {
		t.Fatalf("replace season: %v", err)
	}

	if _, ok, _ := repo.GetSeasonStats(ctx, "p1", 2026, ""); ok {
		t.Fatalf("rows missing from the replacement set must be dropped")
	}
	row, ok, _ := repo.GetSeasonStats(ctx, "p1", 2026, "home")
	if !ok || row.Counters.Points != 7 {
		t.Fatalf("unexpected replaced row: %+v", row)
	}
	if rolled, _ := repo.IsRolledUp(ctx, "p1", "g1"); !rolled {
		t.Fatalf("markers must survive a season replace")
	}
}
