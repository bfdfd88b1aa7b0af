package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
)

type AnnotatePlayerInput struct {
	GameID    string
	PlayerID  string
	Quarter   int
	PlusMinus int
	ShotChart []byte
}

// StatsQueryService is the read side of the stat record store plus carried annotations.
type StatsQueryService struct {
	games   game.Repository
	stats   boxscore.Repository
	seasons boxscore.SeasonRepository
	engine  *AggregationService
}

func NewStatsQueryService(games game.Repository, stats boxscore.Repository, seasons boxscore.SeasonRepository, engine *AggregationService) *StatsQueryService {
	return &StatsQueryService{games: games, stats: stats, seasons: seasons, engine: engine}
}

func (s *StatsQueryService) GetTeamStats(ctx context.Context, gameID, teamID string, quarter int) (boxscore.GameStats, error) {
	if err := requireIDs(gameID, teamID); err != nil {
		return boxscore.GameStats{}, err
	}
	if quarter < 0 {
		return boxscore.GameStats{}, fmt.Errorf("%w: quarter must be >= 0", ErrInvalidInput)
	}

	row, exists, err := s.stats.GetTeamStats(ctx, gameID, teamID, quarter)
	if err != nil {
		return boxscore.GameStats{}, fmt.Errorf("get team stats: %w", err)
	}
	if !exists {
		return boxscore.GameStats{}, fmt.Errorf("%w: team stats game=%s team=%s quarter=%d", ErrNotFound, gameID, teamID, quarter)
	}
	return row, nil
}

// ListTeamStats returns every team row of a game, full-game rows first per team.
func (s *StatsQueryService) ListTeamStats(ctx context.Context, gameID string) ([]boxscore.GameStats, error) {
	if err := s.requireGame(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.stats.ListTeamStatsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list team stats: %w", err)
	}
	return rows, nil
}

func (s *StatsQueryService) GetPlayerStats(ctx context.Context, gameID, playerID string, quarter int) (boxscore.PlayerGameStats, error) {
	if err := requireIDs(gameID, playerID); err != nil {
		return boxscore.PlayerGameStats{}, err
	}
	if quarter < 0 {
		return boxscore.PlayerGameStats{}, fmt.Errorf("%w: quarter must be >= 0", ErrInvalidInput)
	}

	row, exists, err := s.stats.GetPlayerStats(ctx, gameID, playerID, quarter)
	if err != nil {
		return boxscore.PlayerGameStats{}, fmt.Errorf("get player stats: %w", err)
	}
	if !exists {
		return boxscore.PlayerGameStats{}, fmt.Errorf("%w: player stats game=%s player=%s quarter=%d", ErrNotFound, gameID, playerID, quarter)
	}
	return row, nil
}

// ListPlayerStats returns player rows of a game. A nil quarter returns every granularity.
func (s *StatsQueryService) ListPlayerStats(ctx context.Context, gameID string, quarter *int) ([]boxscore.PlayerGameStats, error) {
	if err := s.requireGame(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.stats.ListPlayerStatsByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}
	if quarter == nil {
		return rows, nil
	}
	out := make([]boxscore.PlayerGameStats, 0, len(rows))
	for _, row := range rows {
		if row.Quarter == *quarter {
			out = append(out, row)
		}
	}
	return out, nil
}

// GetSeasonStats reads a season record. An empty teamID reads the all-teams record.
func (s *StatsQueryService) GetSeasonStats(ctx context.Context, playerID string, seasonYear int, teamID string) (boxscore.PlayerSeasonStats, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" || seasonYear <= 0 {
		return boxscore.PlayerSeasonStats{}, fmt.Errorf("%w: player id and season year are required", ErrInvalidInput)
	}

	row, exists, err := s.seasons.GetSeasonStats(ctx, playerID, seasonYear, strings.TrimSpace(teamID))
	if err != nil {
		return boxscore.PlayerSeasonStats{}, fmt.Errorf("get season stats: %w", err)
	}
	if !exists {
		return boxscore.PlayerSeasonStats{}, fmt.Errorf("%w: season stats player=%s season=%d", ErrNotFound, playerID, seasonYear)
	}
	return row, nil
}

func (s *StatsQueryService) ListSeasonStats(ctx context.Context, playerID string) ([]boxscore.PlayerSeasonStats, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	rows, err := s.seasons.ListSeasonStatsByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}
	return rows, nil
}

// AttachAnnotations sets plus/minus and the opaque shot chart on an existing player row.
func (s *StatsQueryService) AttachAnnotations(ctx context.Context, input AnnotatePlayerInput) (boxscore.PlayerGameStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsQueryService.AttachAnnotations")
	defer span.End()

	if err := requireIDs(input.GameID, input.PlayerID); err != nil {
		return boxscore.PlayerGameStats{}, err
	}
	if input.Quarter < 0 {
		return boxscore.PlayerGameStats{}, fmt.Errorf("%w: quarter must be >= 0", ErrInvalidInput)
	}

	lock, err := s.engine.lockGame(ctx, input.GameID)
	if err != nil {
		return boxscore.PlayerGameStats{}, err
	}
	defer lock.unlock(ctx)

	key := boxscore.PlayerKey{GameID: input.GameID, PlayerID: input.PlayerID, Quarter: input.Quarter}
	ok, err := s.stats.SetPlayerAnnotations(ctx, key, input.PlusMinus, input.ShotChart)
	if err != nil {
		return boxscore.PlayerGameStats{}, aggregationFailure(err, "annotate player %s", input.PlayerID)
	}
	if !ok {
		return boxscore.PlayerGameStats{}, fmt.Errorf("%w: player stats game=%s player=%s quarter=%d", ErrNotFound, input.GameID, input.PlayerID, input.Quarter)
	}

	lock.queue(boxscore.Change{
		Kind:       boxscore.ChangeAnnotated,
		GameID:     input.GameID,
		PlayerIDs:  []string{input.PlayerID},
		Quarters:   []int{input.Quarter},
		OccurredAt: s.engine.now().UTC(),
	})

	row, _, err := s.stats.GetPlayerStats(ctx, input.GameID, input.PlayerID, input.Quarter)
	if err != nil {
		return boxscore.PlayerGameStats{}, fmt.Errorf("get player stats: %w", err)
	}
	return row, nil
}

func (s *StatsQueryService) requireGame(ctx context.Context, gameID string) error {
	if strings.TrimSpace(gameID) == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	_, exists, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return nil
}

func requireIDs(ids ...string) error {
	for _, v := range ids {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: game and subject ids are required", ErrInvalidInput)
		}
	}
	return nil
}
