package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

func twoPointIncrement(eventID string) boxscore.Increment {
	return boxscore.Increment{
		GameID:  "g1",
		EventID: eventID,
		Delta:   boxscore.Counters{Points: 2, FieldGoalsMade: 1, FieldGoalsAttempted: 1},
		TeamKeys: []boxscore.TeamKey{
			{GameID: "g1", TeamID: "home", Quarter: boxscore.FullGame},
			{GameID: "g1", TeamID: "home", Quarter: 1},
		},
		PlayerKeys: []boxscore.PlayerKey{
			{GameID: "g1", PlayerID: "p1", TeamID: "home", Quarter: boxscore.FullGame},
			{GameID: "g1", PlayerID: "p1", TeamID: "home", Quarter: 1},
		},
	}
}

func TestStatsRepository_ApplyIncrementIsAtMostOncePerEvent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStatsRepository()

	applied, err := repo.ApplyIncrement(ctx, twoPointIncrement("e1"))
	if err != nil || !applied {
		t.Fatalf("first apply: applied=%v err=%v", applied, err)
	}
	applied, err = repo.ApplyIncrement(ctx, twoPointIncrement("e1"))
	if err != nil || applied {
		t.Fatalf("duplicate apply must be a no-op: applied=%v err=%v", applied, err)
	}

	row, ok, err := repo.GetTeamStats(ctx, "g1", "home", boxscore.FullGame)
	if err != nil || !ok {
		t.Fatalf("get team stats: ok=%v err=%v", ok, err)
	}
	if row.Counters.Points != 2 {
		t.Fatalf("expected 2 points, got %d", row.Counters.Points)
	}

	players, err := repo.ListPlayerStatsByGame(ctx, "g1")
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].Quarter != boxscore.FullGame || players[1].Quarter != 1 {
		t.Fatalf("unexpected player rows: %+v", players)
	}
}

func TestStatsRepository_ApplyIncrementHonoursCancellation(t *testing.T) {
	t.Parallel()

	repo := NewStatsRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.ApplyIncrement(ctx, twoPointIncrement("e1")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if applied, _ := repo.IsEventApplied(context.Background(), "g1", "e1"); applied {
		t.Fatalf("cancelled apply must not reach the ledger")
	}
	rows, _ := repo.ListTeamStatsByGame(context.Background(), "g1")
	if len(rows) != 0 {
		t.Fatalf("cancelled apply must not write rows, got %+v", rows)
	}
}

func TestStatsRepository_ResetGameClearsRowsAndLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStatsRepository()
	if _, err := repo.ApplyIncrement(ctx, twoPointIncrement("e1")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	other := twoPointIncrement("e9")
	other.GameID = "g2"
	other.TeamKeys = []boxscore.TeamKey{{GameID: "g2", TeamID: "home"}}
	other.PlayerKeys = nil
	if _, err := repo.ApplyIncrement(ctx, other); err != nil {
		t.Fatalf("apply other game: %v", err)
	}

	if err := repo.ResetGame(ctx, "g1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if rows, _ := repo.ListTeamStatsByGame(ctx, "g1"); len(rows) != 0 {
		t.Fatalf("expected g1 team rows gone, got %+v", rows)
	}
	if rows, _ := repo.ListPlayerStatsByGame(ctx, "g1"); len(rows) != 0 {
		t.Fatalf("expected g1 player rows gone, got %+v", rows)
	}
	if applied, _ := repo.IsEventApplied(ctx, "g1", "e1"); applied {
		t.Fatalf("expected ledger cleared for g1")
	}
	if rows, _ := repo.ListTeamStatsByGame(ctx, "g2"); len(rows) != 1 {
		t.Fatalf("reset of g1 must not touch g2, got %+v", rows)
	}
}

func TestStatsRepository_SetPlayerAnnotations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStatsRepository()
	key := boxscore.PlayerKey{GameID: "g1", PlayerID: "p1", Quarter: boxscore.FullGame}

	if ok, err := repo.SetPlayerAnnotations(ctx, key, 4, []byte(`{"zones":[]}`)); err != nil || ok {
		t.Fatalf("annotating a missing row must report false: ok=%v err=%v", ok, err)
	}

	if _, err := repo.ApplyIncrement(ctx, twoPointIncrement("e1")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	chart := []byte(`{"zones":[1]}`)
	if ok, err := repo.SetPlayerAnnotations(ctx, key, 4, chart); err != nil || !ok {
		t.Fatalf("annotate: ok=%v err=%v", ok, err)
	}
	chart[0] = 'x'

	row, _, _ := repo.GetPlayerStats(ctx, "g1", "p1", boxscore.FullGame)
	if row.PlusMinus != 4 || string(row.ShotChart) != `{"zones":[1]}` {
		t.Fatalf("unexpected annotations: %+v", row)
	}
	if row.TeamID != "home" {
		t.Fatalf("expected carried team, got %q", row.TeamID)
	}
}
