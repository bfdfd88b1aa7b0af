package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
	now   func() time.Time
}

func NewGameRepository(games ...game.Game) *GameRepository {
	r := &GameRepository{games: make(map[string]game.Game, len(games)), now: time.Now}
	for _, g := range games {
		r.games[g.ID] = cloneGame(g)
	}
	return r
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[gameID]
	if !ok {
		return game.Game{}, false, nil
	}
	return cloneGame(g), true, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonYear int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.games {
		if g.SeasonYear == seasonYear {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Upsert(_ context.Context, g game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if existing, ok := r.games[g.ID]; ok {
		g.CreatedAt = existing.CreatedAt
	} else if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.Status == "" {
		g.Status = game.StatusRecording
	}
	g.UpdatedAt = now
	r.games[g.ID] = cloneGame(g)
	return nil
}

func (r *GameRepository) UpdateStatus(_ context.Context, gameID string, from, to game.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok || g.Status != from {
		return game.ErrStatusConflict
	}
	g.Status = to
	g.UpdatedAt = r.now().UTC()
	r.games[gameID] = g
	return nil
}

func cloneGame(g game.Game) game.Game {
	g.HomeStarterIDs = append([]string(nil), g.HomeStarterIDs...)
	g.AwayStarterIDs = append([]string(nil), g.AwayStarterIDs...)
	return g
}
