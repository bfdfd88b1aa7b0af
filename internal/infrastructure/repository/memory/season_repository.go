package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

type seasonKey struct {
	PlayerID   string
	TeamID     string
	SeasonYear int
}

type rollupKey struct {
	PlayerID string
	GameID   string
}

type SeasonRepository struct {
	mu      sync.RWMutex
	rows    map[seasonKey]boxscore.PlayerSeasonStats
	markers map[rollupKey]boxscore.RollupMarker
	now     func() time.Time
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		rows:    make(map[seasonKey]boxscore.PlayerSeasonStats),
		markers: make(map[rollupKey]boxscore.RollupMarker),
		now:     time.Now,
	}
}

func (r *SeasonRepository) RollupPlayerGame(ctx context.Context, marker boxscore.RollupMarker, inc boxscore.PlayerSeasonStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mk := rollupKey{PlayerID: marker.PlayerID, GameID: marker.GameID}
	if _, ok := r.markers[mk]; ok {
		return boxscore.ErrAlreadyRolledUp
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := r.now().UTC()
	if marker.RolledUpAt.IsZero() {
		marker.RolledUpAt = now
	}
	r.markers[mk] = marker

	for _, teamID := range []string{marker.TeamID, ""} {
		key := seasonKey{PlayerID: marker.PlayerID, TeamID: teamID, SeasonYear: marker.SeasonYear}
		row, ok := r.rows[key]
		if !ok {
			row = boxscore.PlayerSeasonStats{PlayerID: key.PlayerID, TeamID: teamID, SeasonYear: key.SeasonYear}
		}
		row = row.Accumulate(inc)
		row.UpdatedAt = now
		r.rows[key] = row
	}
	return nil
}

func (r *SeasonRepository) IsRolledUp(_ context.Context, playerID, gameID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.markers[rollupKey{PlayerID: playerID, GameID: gameID}]
	return ok, nil
}

func (r *SeasonRepository) ListRollupMarkersBySeason(_ context.Context, seasonYear int) ([]boxscore.RollupMarker, error) {
	r.mu.RLock()
	out := make([]boxscore.RollupMarker, 0)
	for _, m := range r.markers {
		if m.SeasonYear == seasonYear {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].GameID != out[j].GameID {
			return out[i].GameID < out[j].GameID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *SeasonRepository) GetSeasonStats(_ context.Context, playerID string, seasonYear int, teamID string) (boxscore.PlayerSeasonStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[seasonKey{PlayerID: playerID, TeamID: teamID, SeasonYear: seasonYear}]
	return row, ok, nil
}

func (r *SeasonRepository) ListSeasonStatsByPlayer(_ context.Context, playerID string) ([]boxscore.PlayerSeasonStats, error) {
	r.mu.RLock()
	out := make([]boxscore.PlayerSeasonStats, 0)
	for key, row := range r.rows {
		if key.PlayerID == playerID {
			out = append(out, row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SeasonYear != out[j].SeasonYear {
			return out[i].SeasonYear > out[j].SeasonYear
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (r *SeasonRepository) ReplaceSeason(ctx context.Context, seasonYear int, rows []boxscore.PlayerSeasonStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.rows {
		if key.SeasonYear == seasonYear {
			delete(r.rows, key)
		}
	}
	now := r.now().UTC()
	for _, row := range rows {
		row.SeasonYear = seasonYear
		row.UpdatedAt = now
		r.rows[seasonKey{PlayerID: row.PlayerID, TeamID: row.TeamID, SeasonYear: seasonYear}] = row
	}
	return nil
}
