package game

import "testing"

func TestGame_TrackingModeDefaultsToByPlayer(t *testing.T) {
	g := Game{HomeTracking: TrackingByTeam}
	if got := g.TrackingMode(SideHome); got != TrackingByTeam {
		t.Fatalf("unexpected home tracking mode: %s", got)
	}
	if got := g.TrackingMode(SideAway); got != TrackingByPlayer {
		t.Fatalf("unexpected away tracking mode: %s", got)
	}
}

func TestGame_SideOfAndTeamID(t *testing.T) {
	g := Game{HomeTeamID: "t-home", AwayTeamID: "t-away"}

	side, ok := g.SideOf("t-away")
	if !ok || side != SideAway {
		t.Fatalf("expected away side, got=%s ok=%t", side, ok)
	}
	if _, ok := g.SideOf("other"); ok {
		t.Fatalf("expected unknown team to have no side")
	}

	teamID, ok := g.TeamID(SideHome)
	if !ok || teamID != "t-home" {
		t.Fatalf("unexpected home team id: %s", teamID)
	}
	if _, ok := g.TeamID(Side("CENTER")); ok {
		t.Fatalf("expected invalid side to resolve nothing")
	}
}

func TestGame_IsStarter(t *testing.T) {
	g := Game{HomeStarterIDs: []string{"p1", "p2"}, AwayStarterIDs: []string{"p9"}}
	if !g.IsStarter("p2") || !g.IsStarter("p9") {
		t.Fatalf("expected listed players to be starters")
	}
	if g.IsStarter("p3") || g.IsStarter("") {
		t.Fatalf("expected unlisted players not to be starters")
	}
}

func TestParseHelpers(t *testing.T) {
	if side, ok := ParseSide(" home "); !ok || side != SideHome {
		t.Fatalf("unexpected parsed side: %s", side)
	}
	if _, ok := ParseSide("bench"); ok {
		t.Fatalf("expected invalid side")
	}
	if mode, ok := ParseTrackingMode("by_team"); !ok || mode != TrackingByTeam {
		t.Fatalf("unexpected tracking mode: %s", mode)
	}
	if mode, ok := ParseTrackingMode(""); !ok || mode != TrackingByPlayer {
		t.Fatalf("expected empty tracking mode to default to BY_PLAYER")
	}
	if got := NormalizeStatus("rolled_up"); got != StatusRolledUp {
		t.Fatalf("unexpected status: %s", got)
	}
	if got := NormalizeStatus(""); got != StatusRecording {
		t.Fatalf("unexpected default status: %s", got)
	}
}
