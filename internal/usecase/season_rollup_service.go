package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultRollupWorkers = 8

type RollupGameResult struct {
	GameID          string   `json:"game_id"`
	SeasonYear      int      `json:"season_year"`
	RolledUpPlayers []string `json:"rolled_up_players"`
	SkippedPlayers  []string `json:"skipped_players,omitempty"`
}

type RebuildSeasonResult struct {
	SeasonYear  int `json:"season_year"`
	GameCount   int `json:"game_count"`
	MarkerCount int `json:"marker_count"`
	RowCount    int `json:"row_count"`
}

// SeasonRollupService folds completed games into PlayerSeasonStats and owns the game lifecycle.
type SeasonRollupService struct {
	engine     *AggregationService
	seasons    boxscore.SeasonRepository
	maxWorkers int
}

func NewSeasonRollupService(engine *AggregationService, seasons boxscore.SeasonRepository, maxWorkers int) *SeasonRollupService {
	if maxWorkers <= 0 {
		maxWorkers = defaultRollupWorkers
	}
	return &SeasonRollupService{engine: engine, seasons: seasons, maxWorkers: maxWorkers}
}

// CompleteGame moves a game from Recording to Completed. Completing twice is a no-op.
func (s *SeasonRollupService) CompleteGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonRollupService.CompleteGame", attribute.String("game.id", gameID))
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	lock, err := s.engine.lockGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	defer lock.unlock(ctx)

	g, err := s.engine.loadGame(ctx, gameID)
	if err != nil {
		return game.Game{}, err
	}
	switch g.Status {
	case game.StatusCompleted:
		return g, nil
	case game.StatusRolledUp:
		return g, fmt.Errorf("complete game %s: %w", gameID, ErrAlreadyRolledUp)
	}

	if err := s.engine.games.UpdateStatus(ctx, gameID, game.StatusRecording, game.StatusCompleted); err != nil {
		return g, fmt.Errorf("mark game completed: %w", err)
	}
	g.Status = game.StatusCompleted
	return g, nil
}

// RollupGame folds one player's full-game line into the season. A second call for the same
// player and game fails with ErrAlreadyRolledUp.
func (s *SeasonRollupService) RollupGame(ctx context.Context, playerID, gameID string, seasonYear int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonRollupService.RollupGame",
		attribute.String("game.id", gameID),
		attribute.String("player.id", playerID),
	)
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	gameID = strings.TrimSpace(gameID)
	if playerID == "" || gameID == "" {
		return fmt.Errorf("%w: player id and game id are required", ErrInvalidInput)
	}

	lock, err := s.engine.lockGame(ctx, gameID)
	if err != nil {
		return err
	}
	defer lock.unlock(ctx)

	g, err := s.engine.loadGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Status == game.StatusRecording {
		return fmt.Errorf("%w: game %s is still recording", ErrInvalidInput, gameID)
	}
	if seasonYear != g.SeasonYear {
		return fmt.Errorf("%w: game %s belongs to season %d, not %d", ErrInvalidInput, gameID, g.SeasonYear, seasonYear)
	}

	row, exists, err := s.engine.stats.GetPlayerStats(ctx, gameID, playerID, boxscore.FullGame)
	if err != nil {
		return fmt.Errorf("get player game stats: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: no full-game stats for player=%s game=%s", ErrNotFound, playerID, gameID)
	}

	unlockSeason, err := s.engine.locks.Lock(ctx, seasonLockKey(g.SeasonYear))
	if err != nil {
		return fmt.Errorf("wait for season %d: %w", g.SeasonYear, err)
	}
	defer unlockSeason()

	if err := s.rollupRow(ctx, g, row); err != nil {
		recordSpanError(span, err)
		return err
	}
	lock.queue(boxscore.Change{
		Kind:       boxscore.ChangeGameRolledUp,
		GameID:     gameID,
		SeasonYear: g.SeasonYear,
		PlayerIDs:  []string{playerID},
		OccurredAt: s.engine.now().UTC(),
	})
	return nil
}

// RollupCompletedGame rolls every player with a full-game line into the season and moves the
// game to RolledUp. Players rolled up individually beforehand are skipped.
func (s *SeasonRollupService) RollupCompletedGame(ctx context.Context, gameID string) (RollupGameResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonRollupService.RollupCompletedGame", attribute.String("game.id", gameID))
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return RollupGameResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	lock, err := s.engine.lockGame(ctx, gameID)
	if err != nil {
		return RollupGameResult{}, err
	}
	defer lock.unlock(ctx)

	g, err := s.engine.loadGame(ctx, gameID)
	if err != nil {
		return RollupGameResult{}, err
	}
	switch g.Status {
	case game.StatusRecording:
		return RollupGameResult{}, fmt.Errorf("%w: game %s is still recording", ErrInvalidInput, gameID)
	case game.StatusRolledUp:
		return RollupGameResult{}, fmt.Errorf("rollup game %s: %w", gameID, ErrAlreadyRolledUp)
	}

	rows, err := s.engine.stats.ListPlayerStatsByGame(ctx, gameID)
	if err != nil {
		return RollupGameResult{}, fmt.Errorf("list player game stats: %w", err)
	}

	unlockSeason, err := s.engine.locks.Lock(ctx, seasonLockKey(g.SeasonYear))
	if err != nil {
		return RollupGameResult{}, fmt.Errorf("wait for season %d: %w", g.SeasonYear, err)
	}
	defer unlockSeason()

	type outcome struct {
		playerID string
		skipped  bool
	}
	workers := pool.NewWithResults[outcome]().
		WithContext(ctx).
		WithMaxGoroutines(s.maxWorkers)
	for _, row := range rows {
		if !row.IsFullGame() {
			continue
		}
		row := row
		workers.Go(func(ctx context.Context) (outcome, error) {
			err := s.rollupRow(ctx, g, row)
			if crerr.Is(err, ErrAlreadyRolledUp) {
				return outcome{playerID: row.PlayerID, skipped: true}, nil
			}
			return outcome{playerID: row.PlayerID}, err
		})
	}
	outcomes, err := workers.Wait()
	if err != nil {
		recordSpanError(span, err)
		return RollupGameResult{}, err
	}

	result := RollupGameResult{GameID: gameID, SeasonYear: g.SeasonYear, RolledUpPlayers: []string{}}
	for _, o := range outcomes {
		if o.skipped {
			result.SkippedPlayers = append(result.SkippedPlayers, o.playerID)
			continue
		}
		result.RolledUpPlayers = append(result.RolledUpPlayers, o.playerID)
	}
	sort.Strings(result.RolledUpPlayers)
	sort.Strings(result.SkippedPlayers)

	if err := s.engine.games.UpdateStatus(ctx, gameID, game.StatusCompleted, game.StatusRolledUp); err != nil {
		return result, fmt.Errorf("mark game rolled up: %w", err)
	}

	lock.queue(boxscore.Change{
		Kind:       boxscore.ChangeGameRolledUp,
		GameID:     gameID,
		SeasonYear: g.SeasonYear,
		PlayerIDs:  result.RolledUpPlayers,
		OccurredAt: s.engine.now().UTC(),
	})
	return result, nil
}

func (s *SeasonRollupService) rollupRow(ctx context.Context, g game.Game, row boxscore.PlayerGameStats) error {
	marker := boxscore.RollupMarker{
		PlayerID:   row.PlayerID,
		GameID:     g.ID,
		TeamID:     row.TeamID,
		SeasonYear: g.SeasonYear,
		Started:    g.IsStarter(row.PlayerID),
		RolledUpAt: s.engine.now().UTC(),
	}
	err := s.seasons.RollupPlayerGame(ctx, marker, marker.SeasonIncrement(row.Counters))
	switch {
	case err == nil:
		return nil
	case crerr.Is(err, ErrAlreadyRolledUp):
		return fmt.Errorf("rollup player %s game %s: %w", row.PlayerID, g.ID, ErrAlreadyRolledUp)
	default:
		return aggregationFailure(err, "rollup player %s game %s", row.PlayerID, g.ID)
	}
}

// RebuildSeason recomputes every season record of seasonYear from the rollup markers and the
// current full-game player lines, then replaces the stored records at once.
func (s *SeasonRollupService) RebuildSeason(ctx context.Context, seasonYear int) (RebuildSeasonResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonRollupService.RebuildSeason", attribute.Int("season.year", seasonYear))
	defer span.End()

	if seasonYear <= 0 {
		return RebuildSeasonResult{}, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}

	unlock, err := s.engine.locks.Lock(ctx, seasonLockKey(seasonYear))
	if err != nil {
		return RebuildSeasonResult{}, fmt.Errorf("wait for season %d: %w", seasonYear, err)
	}
	defer unlock()

	markers, err := s.seasons.ListRollupMarkersBySeason(ctx, seasonYear)
	if err != nil {
		return RebuildSeasonResult{}, fmt.Errorf("list rollup markers: %w", err)
	}

	byGame := make(map[string][]boxscore.RollupMarker)
	for _, m := range markers {
		byGame[m.GameID] = append(byGame[m.GameID], m)
	}

	type gameLines struct {
		gameID string
		lines  map[string]boxscore.Counters
	}
	loaders := pool.NewWithResults[gameLines]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(s.maxWorkers)
	for gameID := range byGame {
		gameID := gameID
		loaders.Go(func(ctx context.Context) (gameLines, error) {
			rows, err := s.engine.stats.ListPlayerStatsByGame(ctx, gameID)
			if err != nil {
				return gameLines{}, fmt.Errorf("list player stats of game %s: %w", gameID, err)
			}
			lines := make(map[string]boxscore.Counters, len(rows))
			for _, row := range rows {
				if row.IsFullGame() {
					lines[row.PlayerID] = row.Counters
				}
			}
			return gameLines{gameID: gameID, lines: lines}, nil
		})
	}
	loaded, err := loaders.Wait()
	if err != nil {
		recordSpanError(span, err)
		return RebuildSeasonResult{}, err
	}

	type seasonKey struct{ playerID, teamID string }
	acc := make(map[seasonKey]boxscore.PlayerSeasonStats)
	missing := 0
	for _, gl := range loaded {
		for _, m := range byGame[gl.gameID] {
			line, ok := gl.lines[m.PlayerID]
			if !ok {
				missing++
			}
			inc := m.SeasonIncrement(line)
			for _, teamID := range []string{m.TeamID, ""} {
				key := seasonKey{playerID: m.PlayerID, teamID: teamID}
				row, exists := acc[key]
				if !exists {
					row = boxscore.PlayerSeasonStats{PlayerID: m.PlayerID, TeamID: teamID, SeasonYear: seasonYear}
				}
				acc[key] = row.Accumulate(inc)
			}
		}
	}
	if missing > 0 {
		s.engine.logger.WarnContext(ctx, "rolled-up games without a full-game line counted with zero stats",
			"season_year", seasonYear, "count", missing)
	}

	rows := make([]boxscore.PlayerSeasonStats, 0, len(acc))
	for _, row := range acc {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlayerID != rows[j].PlayerID {
			return rows[i].PlayerID < rows[j].PlayerID
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	if err := s.seasons.ReplaceSeason(ctx, seasonYear, rows); err != nil {
		return RebuildSeasonResult{}, aggregationFailure(err, "replace season %d", seasonYear)
	}
	unlock()

	s.engine.publish(ctx, boxscore.Change{
		Kind:       boxscore.ChangeSeasonRebuilt,
		SeasonYear: seasonYear,
		OccurredAt: s.engine.now().UTC(),
	})
	return RebuildSeasonResult{
		SeasonYear:  seasonYear,
		GameCount:   len(byGame),
		MarkerCount: len(markers),
		RowCount:    len(rows),
	}, nil
}
