package boxscore

import (
	"bytes"
	"sort"
	"time"
)

// GameSnapshot is the complete derived state of one game.
type GameSnapshot struct {
	GameID          string
	Teams           []GameStats
	Players         []PlayerGameStats
	AppliedEventIDs []string
}

// Tally accumulates increments in memory with the same additive rules the stores use.
type Tally struct {
	gameID  string
	teams   map[TeamKey]GameStats
	players map[PlayerKey]PlayerGameStats
	applied []string
	seen    map[string]struct{}
}

func NewTally(gameID string) *Tally {
	return &Tally{
		gameID:  gameID,
		teams:   make(map[TeamKey]GameStats),
		players: make(map[PlayerKey]PlayerGameStats),
		seen:    make(map[string]struct{}),
	}
}

// Apply adds inc to its rows. It returns false for an event id already applied.
func (t *Tally) Apply(inc Increment) bool {
	if _, ok := t.seen[inc.EventID]; ok {
		return false
	}
	t.seen[inc.EventID] = struct{}{}
	t.applied = append(t.applied, inc.EventID)

	for _, key := range inc.TeamKeys {
		row, ok := t.teams[key]
		if !ok {
			row = GameStats{GameID: key.GameID, TeamID: key.TeamID, Quarter: key.Quarter}
		}
		row.Counters = row.Counters.Add(inc.Delta)
		t.teams[key] = row
	}
	for _, key := range inc.PlayerKeys {
		id := key.Identity()
		row, ok := t.players[id]
		if !ok {
			row = PlayerGameStats{GameID: key.GameID, PlayerID: key.PlayerID, Quarter: key.Quarter}
		}
		row.TeamID = key.TeamID
		row.Counters = row.Counters.Add(inc.Delta)
		t.players[id] = row
	}
	return true
}

// Annotate carries plus/minus and shot chart onto a row the events produced.
func (t *Tally) Annotate(key PlayerKey, plusMinus int, shotChart []byte) bool {
	id := key.Identity()
	row, ok := t.players[id]
	if !ok {
		return false
	}
	row.PlusMinus = plusMinus
	row.ShotChart = bytes.Clone(shotChart)
	t.players[id] = row
	return true
}

func (t *Tally) Snapshot(at time.Time) GameSnapshot {
	out := GameSnapshot{
		GameID:          t.gameID,
		Teams:           make([]GameStats, 0, len(t.teams)),
		Players:         make([]PlayerGameStats, 0, len(t.players)),
		AppliedEventIDs: append([]string(nil), t.applied...),
	}
	for _, row := range t.teams {
		row.UpdatedAt = at
		out.Teams = append(out.Teams, row)
	}
	for _, row := range t.players {
		row.UpdatedAt = at
		out.Players = append(out.Players, row)
	}
	sort.Slice(out.Teams, func(i, j int) bool {
		if out.Teams[i].TeamID != out.Teams[j].TeamID {
			return out.Teams[i].TeamID < out.Teams[j].TeamID
		}
		return out.Teams[i].Quarter < out.Teams[j].Quarter
	})
	sort.Slice(out.Players, func(i, j int) bool {
		if out.Players[i].PlayerID != out.Players[j].PlayerID {
			return out.Players[i].PlayerID < out.Players[j].PlayerID
		}
		return out.Players[i].Quarter < out.Players[j].Quarter
	})
	return out
}
