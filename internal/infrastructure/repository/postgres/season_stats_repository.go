package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	qb "github.com/riskibarqy/courtstats/internal/platform/querybuilder"
)

var (
	seasonStatsConflict = []string{"player_id", "season_year", "team_id"}
	seasonCounterNames  = append(append([]string{}, counterColumnNames...), "games_played", "games_started")
)

type SeasonRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db, now: time.Now}
}

func (r *SeasonRepository) RollupPlayerGame(ctx context.Context, marker boxscore.RollupMarker, inc boxscore.PlayerSeasonStats) error {
	now := r.now().UTC()
	if marker.RolledUpAt.IsZero() {
		marker.RolledUpAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx rollup player game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	markerQuery, markerArgs, err := qb.InsertModel(seasonRollupsTable, seasonRollupModel{
		PlayerID:   marker.PlayerID,
		GameID:     marker.GameID,
		TeamID:     marker.TeamID,
		SeasonYear: marker.SeasonYear,
		Started:    marker.Started,
		RolledUpAt: marker.RolledUpAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert rollup marker query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, markerQuery, markerArgs...); err != nil {
		if isUniqueViolation(err) {
			return boxscore.ErrAlreadyRolledUp
		}
		return fmt.Errorf("insert rollup marker player=%s game=%s: %w", marker.PlayerID, marker.GameID, err)
	}

	for _, teamID := range []string{marker.TeamID, ""} {
		query, args, err := qb.InsertModel(playerSeasonStatsTable, playerSeasonStatsModel{
			PlayerID:       marker.PlayerID,
			TeamID:         teamID,
			SeasonYear:     marker.SeasonYear,
			CounterColumns: counterColumns(inc.Counters),
			GamesPlayed:    inc.GamesPlayed,
			GamesStarted:   inc.GamesStarted,
			UpdatedAt:      now,
		}, qb.OnConflictIncrement(playerSeasonStatsTable, seasonStatsConflict, seasonCounterNames, "updated_at"))
		if err != nil {
			return fmt.Errorf("build increment season stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("increment season stats player=%s team=%q: %w", marker.PlayerID, teamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rollup player game tx: %w", err)
	}
	return nil
}

func (r *SeasonRepository) IsRolledUp(ctx context.Context, playerID, gameID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From(seasonRollupsTable).
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("game_public_id", gameID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build rollup marker query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check rollup marker: %w", err)
	}
	return count > 0, nil
}

func (r *SeasonRepository) ListRollupMarkersBySeason(ctx context.Context, seasonYear int) ([]boxscore.RollupMarker, error) {
	query, args, err := qb.Select("*").From(seasonRollupsTable).
		Where(qb.Eq("season_year", seasonYear)).
		OrderBy("game_public_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rollup markers query: %w", err)
	}

	var rows []seasonRollupModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rollup markers: %w", err)
	}
	out := make([]boxscore.RollupMarker, 0, len(rows))
	for _, row := range rows {
		out = append(out, boxscore.RollupMarker{
			PlayerID:   row.PlayerID,
			GameID:     row.GameID,
			TeamID:     row.TeamID,
			SeasonYear: row.SeasonYear,
			Started:    row.Started,
			RolledUpAt: row.RolledUpAt,
		})
	}
	return out, nil
}

func (r *SeasonRepository) GetSeasonStats(ctx context.Context, playerID string, seasonYear int, teamID string) (boxscore.PlayerSeasonStats, bool, error) {
	query, args, err := qb.Select("*").From(playerSeasonStatsTable).
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("season_year", seasonYear),
			qb.Eq("team_id", teamID),
		).
		ToSQL()
	if err != nil {
		return boxscore.PlayerSeasonStats{}, false, fmt.Errorf("build get season stats query: %w", err)
	}

	var row playerSeasonStatsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boxscore.PlayerSeasonStats{}, false, nil
		}
		return boxscore.PlayerSeasonStats{}, false, fmt.Errorf("get season stats: %w", err)
	}
	return seasonRowFromModel(row), true, nil
}

func (r *SeasonRepository) ListSeasonStatsByPlayer(ctx context.Context, playerID string) ([]boxscore.PlayerSeasonStats, error) {
	query, args, err := qb.Select("*").From(playerSeasonStatsTable).
		Where(qb.Eq("player_id", playerID)).
		OrderBy("season_year DESC", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season stats query: %w", err)
	}

	var rows []playerSeasonStatsModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}
	out := make([]boxscore.PlayerSeasonStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonRowFromModel(row))
	}
	return out, nil
}

func (r *SeasonRepository) ReplaceSeason(ctx context.Context, seasonYear int, rows []boxscore.PlayerSeasonStats) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace season stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom(playerSeasonStatsTable).
		Where(qb.Eq("season_year", seasonYear)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear season stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear season stats season=%d: %w", seasonYear, err)
	}

	if len(rows) > 0 {
		now := r.now().UTC()
		models := make([]playerSeasonStatsModel, 0, len(rows))
		for _, row := range rows {
			models = append(models, playerSeasonStatsModel{
				PlayerID:       row.PlayerID,
				TeamID:         row.TeamID,
				SeasonYear:     seasonYear,
				CounterColumns: counterColumns(row.Counters),
				GamesPlayed:    row.GamesPlayed,
				GamesStarted:   row.GamesStarted,
				UpdatedAt:      now,
			})
		}
		if err := execInsertModels(ctx, tx, playerSeasonStatsTable, models); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace season stats tx: %w", err)
	}
	return nil
}
