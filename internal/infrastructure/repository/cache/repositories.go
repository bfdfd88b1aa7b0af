package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	basecache "github.com/riskibarqy/courtstats/internal/platform/cache"
)

const (
	gamePrefix   = "game"
	statsPrefix  = "stats"
	seasonPrefix = "season"
)

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := basecache.Key(gamePrefix, "id", gameID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGameByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGameByID)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonYear int) ([]game.Game, error) {
	key := basecache.Key(gamePrefix, "season", strconv.Itoa(seasonYear))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonYear)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, gamePrefix)
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, gameID string, from, to game.Status) error {
	err := r.next.UpdateStatus(ctx, gameID, from, to)
	// A conflict means the cached status is stale too.
	r.cache.DeletePrefix(ctx, gamePrefix)
	return err
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

// StatsRepository caches box score reads. Every write drops the game's entries.
type StatsRepository struct {
	next  boxscore.Repository
	cache *basecache.Store
}

func NewStatsRepository(next boxscore.Repository, cache *basecache.Store) *StatsRepository {
	return &StatsRepository{next: next, cache: cache}
}

func (r *StatsRepository) ApplyIncrement(ctx context.Context, inc boxscore.Increment) (bool, error) {
	applied, err := r.next.ApplyIncrement(ctx, inc)
	if applied {
		r.invalidateGame(ctx, inc.GameID)
	}
	return applied, err
}

// IsEventApplied always reads through; the ledger is what makes applies idempotent.
func (r *StatsRepository) IsEventApplied(ctx context.Context, gameID, eventID string) (bool, error) {
	return r.next.IsEventApplied(ctx, gameID, eventID)
}

func (r *StatsRepository) GetTeamStats(ctx context.Context, gameID, teamID string, quarter int) (boxscore.GameStats, bool, error) {
	key := basecache.Key(statsPrefix, gameID, "team", teamID, strconv.Itoa(quarter))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		row, exists, err := r.next.GetTeamStats(ctx, gameID, teamID, quarter)
		if err != nil {
			return nil, err
		}
		return cachedTeamStats{value: row, exists: exists}, nil
	})
	if err != nil {
		return boxscore.GameStats{}, false, err
	}

	cached, _ := v.(cachedTeamStats)
	return cached.value, cached.exists, nil
}

func (r *StatsRepository) ListTeamStatsByGame(ctx context.Context, gameID string) ([]boxscore.GameStats, error) {
	key := basecache.Key(statsPrefix, gameID, "teams")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, err := r.next.ListTeamStatsByGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return append([]boxscore.GameStats(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]boxscore.GameStats)
	return append([]boxscore.GameStats(nil), rows...), nil
}

func (r *StatsRepository) GetPlayerStats(ctx context.Context, gameID, playerID string, quarter int) (boxscore.PlayerGameStats, bool, error) {
	key := basecache.Key(statsPrefix, gameID, "player", playerID, strconv.Itoa(quarter))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		row, exists, err := r.next.GetPlayerStats(ctx, gameID, playerID, quarter)
		if err != nil {
			return nil, err
		}
		return cachedPlayerStats{value: row, exists: exists}, nil
	})
	if err != nil {
		return boxscore.PlayerGameStats{}, false, err
	}

	cached, _ := v.(cachedPlayerStats)
	return clonePlayerRow(cached.value), cached.exists, nil
}

func (r *StatsRepository) ListPlayerStatsByGame(ctx context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	key := basecache.Key(statsPrefix, gameID, "players")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, err := r.next.ListPlayerStatsByGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return append([]boxscore.PlayerGameStats(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]boxscore.PlayerGameStats)
	out := make([]boxscore.PlayerGameStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, clonePlayerRow(row))
	}
	return out, nil
}

func (r *StatsRepository) ResetGame(ctx context.Context, gameID string) error {
	err := r.next.ResetGame(ctx, gameID)
	r.invalidateGame(ctx, gameID)
	return err
}

func (r *StatsRepository) ReplaceGame(ctx context.Context, snapshot boxscore.GameSnapshot) error {
	err := r.next.ReplaceGame(ctx, snapshot)
	r.invalidateGame(ctx, snapshot.GameID)
	return err
}

func (r *StatsRepository) SetPlayerAnnotations(ctx context.Context, key boxscore.PlayerKey, plusMinus int, shotChart []byte) (bool, error) {
	ok, err := r.next.SetPlayerAnnotations(ctx, key, plusMinus, shotChart)
	if ok {
		r.invalidateGame(ctx, key.GameID)
	}
	return ok, err
}

func (r *StatsRepository) invalidateGame(ctx context.Context, gameID string) {
	r.cache.DeletePrefix(ctx, basecache.Key(statsPrefix, gameID))
}

type cachedTeamStats struct {
	value  boxscore.GameStats
	exists bool
}

type cachedPlayerStats struct {
	value  boxscore.PlayerGameStats
	exists bool
}

func clonePlayerRow(row boxscore.PlayerGameStats) boxscore.PlayerGameStats {
	if row.ShotChart != nil {
		row.ShotChart = append([]byte(nil), row.ShotChart...)
	}
	return row
}

// SeasonRepository caches season reads per player.
type SeasonRepository struct {
	next  boxscore.SeasonRepository
	cache *basecache.Store
}

func NewSeasonRepository(next boxscore.SeasonRepository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) RollupPlayerGame(ctx context.Context, marker boxscore.RollupMarker, inc boxscore.PlayerSeasonStats) error {
	err := r.next.RollupPlayerGame(ctx, marker, inc)
	if err == nil {
		r.cache.DeletePrefix(ctx, basecache.Key(seasonPrefix, marker.PlayerID))
	}
	return err
}

func (r *SeasonRepository) IsRolledUp(ctx context.Context, playerID, gameID string) (bool, error) {
	return r.next.IsRolledUp(ctx, playerID, gameID)
}

func (r *SeasonRepository) ListRollupMarkersBySeason(ctx context.Context, seasonYear int) ([]boxscore.RollupMarker, error) {
	return r.next.ListRollupMarkersBySeason(ctx, seasonYear)
}

func (r *SeasonRepository) GetSeasonStats(ctx context.Context, playerID string, seasonYear int, teamID string) (boxscore.PlayerSeasonStats, bool, error) {
	key := basecache.Key(seasonPrefix, playerID, strconv.Itoa(seasonYear), teamID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		row, exists, err := r.next.GetSeasonStats(ctx, playerID, seasonYear, teamID)
		if err != nil {
			return nil, err
		}
		return cachedSeasonStats{value: row, exists: exists}, nil
	})
	if err != nil {
		return boxscore.PlayerSeasonStats{}, false, err
	}

	cached, _ := v.(cachedSeasonStats)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) ListSeasonStatsByPlayer(ctx context.Context, playerID string) ([]boxscore.PlayerSeasonStats, error) {
	key := basecache.Key(seasonPrefix, playerID, "list")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rows, err := r.next.ListSeasonStatsByPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return append([]boxscore.PlayerSeasonStats(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]boxscore.PlayerSeasonStats)
	return append([]boxscore.PlayerSeasonStats(nil), rows...), nil
}

func (r *SeasonRepository) ReplaceSeason(ctx context.Context, seasonYear int, rows []boxscore.PlayerSeasonStats) error {
	err := r.next.ReplaceSeason(ctx, seasonYear, rows)
	r.cache.DeletePrefix(ctx, seasonPrefix)
	return err
}

type cachedSeasonStats struct {
	value  boxscore.PlayerSeasonStats
	exists bool
}
