package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

// StatsRepository holds game and player box scores. One mutex covers rows and ledger
// so every increment is all-or-none.
type StatsRepository struct {
	mu      sync.RWMutex
	teams   map[boxscore.TeamKey]boxscore.GameStats
	players map[boxscore.PlayerKey]boxscore.PlayerGameStats
	applied map[string]map[string]struct{}
	now     func() time.Time
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		teams:   make(map[boxscore.TeamKey]boxscore.GameStats),
		players: make(map[boxscore.PlayerKey]boxscore.PlayerGameStats),
		applied: make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (r *StatsRepository) ApplyIncrement(ctx context.Context, inc boxscore.Increment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.applied[inc.GameID][inc.EventID]; ok {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	now := r.now().UTC()
	for _, key := range inc.TeamKeys {
		row, ok := r.teams[key]
		if !ok {
			row = boxscore.GameStats{GameID: key.GameID, TeamID: key.TeamID, Quarter: key.Quarter}
		}
		row.Counters = row.Counters.Add(inc.Delta)
		row.UpdatedAt = now
		r.teams[key] = row
	}
	for _, key := range inc.PlayerKeys {
		id := key.Identity()
		row, ok := r.players[id]
		if !ok {
			row = boxscore.PlayerGameStats{GameID: key.GameID, PlayerID: key.PlayerID, Quarter: key.Quarter}
		}
		row.TeamID = key.TeamID
		row.Counters = row.Counters.Add(inc.Delta)
		row.UpdatedAt = now
		r.players[id] = row
	}

	ledger, ok := r.applied[inc.GameID]
	if !ok {
		ledger = make(map[string]struct{})
		r.applied[inc.GameID] = ledger
	}
	ledger[inc.EventID] = struct{}{}
	return true, nil
}

func (r *StatsRepository) IsEventApplied(_ context.Context, gameID, eventID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.applied[gameID][eventID]
	return ok, nil
}

func (r *StatsRepository) GetTeamStats(_ context.Context, gameID, teamID string, quarter int) (boxscore.GameStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.teams[boxscore.TeamKey{GameID: gameID, TeamID: teamID, Quarter: quarter}]
	return row, ok, nil
}

func (r *StatsRepository) ListTeamStatsByGame(_ context.Context, gameID string) ([]boxscore.GameStats, error) {
	r.mu.RLock()
	out := make([]boxscore.GameStats, 0)
	for key, row := range r.teams {
		if key.GameID == gameID {
			out = append(out, row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].Quarter < out[j].Quarter
	})
	return out, nil
}

func (r *StatsRepository) GetPlayerStats(_ context.Context, gameID, playerID string, quarter int) (boxscore.PlayerGameStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.players[boxscore.PlayerKey{GameID: gameID, PlayerID: playerID, Quarter: quarter}]
	if !ok {
		return boxscore.PlayerGameStats{}, false, nil
	}
	return clonePlayerRow(row), true, nil
}

func (r *StatsRepository) ListPlayerStatsByGame(_ context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	r.mu.RLock()
	out := make([]boxscore.PlayerGameStats, 0)
	for key, row := range r.players {
		if key.GameID == gameID {
			out = append(out, clonePlayerRow(row))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Quarter < out[j].Quarter
	})
	return out, nil
}

func (r *StatsRepository) ResetGame(ctx context.Context, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.dropGameLocked(gameID)
	return nil
}

func (r *StatsRepository) dropGameLocked(gameID string) {
	for key := range r.teams {
		if key.GameID == gameID {
			delete(r.teams, key)
		}
	}
	for key := range r.players {
		if key.GameID == gameID {
			delete(r.players, key)
		}
	}
	delete(r.applied, gameID)
}

func (r *StatsRepository) ReplaceGame(ctx context.Context, snapshot boxscore.GameSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.dropGameLocked(snapshot.GameID)
	for _, row := range snapshot.Teams {
		r.teams[boxscore.TeamKey{GameID: snapshot.GameID, TeamID: row.TeamID, Quarter: row.Quarter}] = row
	}
	for _, row := range snapshot.Players {
		r.players[boxscore.PlayerKey{GameID: snapshot.GameID, PlayerID: row.PlayerID, Quarter: row.Quarter}] = clonePlayerRow(row)
	}
	ledger := make(map[string]struct{}, len(snapshot.AppliedEventIDs))
	for _, id := range snapshot.AppliedEventIDs {
		ledger[id] = struct{}{}
	}
	r.applied[snapshot.GameID] = ledger
	return nil
}

func (r *StatsRepository) SetPlayerAnnotations(_ context.Context, key boxscore.PlayerKey, plusMinus int, shotChart []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := key.Identity()
	row, ok := r.players[id]
	if !ok {
		return false, nil
	}
	row.PlusMinus = plusMinus
	row.ShotChart = bytes.Clone(shotChart)
	row.UpdatedAt = r.now().UTC()
	r.players[id] = row
	return true, nil
}

func clonePlayerRow(row boxscore.PlayerGameStats) boxscore.PlayerGameStats {
	row.ShotChart = bytes.Clone(row.ShotChart)
	return row
}
