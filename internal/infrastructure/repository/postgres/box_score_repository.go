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
	teamStatsConflict   = []string{"game_public_id", "team_id", "quarter"}
	playerStatsConflict = []string{"game_public_id", "player_id", "quarter"}
)

// StatsRepository keeps game and player box scores. Every write runs in one transaction
// together with the applied_events ledger.
type StatsRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db, now: time.Now}
}

func (r *StatsRepository) ApplyIncrement(ctx context.Context, inc boxscore.Increment) (bool, error) {
	now := r.now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx apply increment: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ledgerQuery, ledgerArgs, err := qb.InsertModel(appliedEventsTable,
		appliedEventModel{GameID: inc.GameID, EventID: inc.EventID, AppliedAt: now},
		"ON CONFLICT (game_public_id, event_public_id) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build insert applied event query: %w", err)
	}
	result, err := tx.ExecContext(ctx, ledgerQuery, ledgerArgs...)
	if err != nil {
		return false, fmt.Errorf("insert applied event game=%s event=%s: %w", inc.GameID, inc.EventID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows insert applied event: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	delta := counterColumns(inc.Delta)
	for _, key := range inc.TeamKeys {
		query, args, err := qb.InsertModel(teamGameStatsTable, teamGameStatsModel{
			GameID:         key.GameID,
			TeamID:         key.TeamID,
			Quarter:        key.Quarter,
			CounterColumns: delta,
			UpdatedAt:      now,
		}, qb.OnConflictIncrement(teamGameStatsTable, teamStatsConflict, counterColumnNames, "updated_at"))
		if err != nil {
			return false, fmt.Errorf("build increment team stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("increment team stats team=%s quarter=%d: %w", key.TeamID, key.Quarter, err)
		}
	}
	for _, key := range inc.PlayerKeys {
		query, args, err := qb.InsertModel(playerGameStatsTable, playerGameStatsIncrementModel{
			GameID:         key.GameID,
			PlayerID:       key.PlayerID,
			Quarter:        key.Quarter,
			TeamID:         key.TeamID,
			CounterColumns: delta,
			UpdatedAt:      now,
		}, qb.OnConflictIncrement(playerGameStatsTable, playerStatsConflict, counterColumnNames, "team_id", "updated_at"))
		if err != nil {
			return false, fmt.Errorf("build increment player stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("increment player stats player=%s quarter=%d: %w", key.PlayerID, key.Quarter, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit apply increment tx: %w", err)
	}
	return true, nil
}

func (r *StatsRepository) IsEventApplied(ctx context.Context, gameID, eventID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From(appliedEventsTable).
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("event_public_id", eventID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build applied event query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check applied event: %w", err)
	}
	return count > 0, nil
}

func (r *StatsRepository) GetTeamStats(ctx context.Context, gameID, teamID string, quarter int) (boxscore.GameStats, bool, error) {
	query, args, err := qb.Select("*").From(teamGameStatsTable).
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("team_id", teamID),
			qb.Eq("quarter", quarter),
		).
		ToSQL()
	if err != nil {
		return boxscore.GameStats{}, false, fmt.Errorf("build get team stats query: %w", err)
	}

	var row teamGameStatsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boxscore.GameStats{}, false, nil
		}
		return boxscore.GameStats{}, false, fmt.Errorf("get team stats: %w", err)
	}
	return teamRowFromModel(row), true, nil
}

func (r *StatsRepository) ListTeamStatsByGame(ctx context.Context, gameID string) ([]boxscore.GameStats, error) {
	query, args, err := qb.Select("*").From(teamGameStatsTable).
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("team_id", "quarter").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team stats query: %w", err)
	}

	var rows []teamGameStatsModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team stats: %w", err)
	}
	out := make([]boxscore.GameStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamRowFromModel(row))
	}
	return out, nil
}

func (r *StatsRepository) GetPlayerStats(ctx context.Context, gameID, playerID string, quarter int) (boxscore.PlayerGameStats, bool, error) {
	query, args, err := qb.Select("*").From(playerGameStatsTable).
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("player_id", playerID),
			qb.Eq("quarter", quarter),
		).
		ToSQL()
	if err != nil {
		return boxscore.PlayerGameStats{}, false, fmt.Errorf("build get player stats query: %w", err)
	}

	var row playerGameStatsModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boxscore.PlayerGameStats{}, false, nil
		}
		return boxscore.PlayerGameStats{}, false, fmt.Errorf("get player stats: %w", err)
	}
	return playerRowFromModel(row), true, nil
}

func (r *StatsRepository) ListPlayerStatsByGame(ctx context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	query, args, err := qb.Select("*").From(playerGameStatsTable).
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("team_id", "player_id", "quarter").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player stats query: %w", err)
	}

	var rows []playerGameStatsModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}
	out := make([]boxscore.PlayerGameStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerRowFromModel(row))
	}
	return out, nil
}

func (r *StatsRepository) ResetGame(ctx context.Context, gameID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx reset game stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearGameStats(ctx, tx, gameID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset game stats tx: %w", err)
	}
	return nil
}

func (r *StatsRepository) ReplaceGame(ctx context.Context, snapshot boxscore.GameSnapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace game stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := clearGameStats(ctx, tx, snapshot.GameID); err != nil {
		return err
	}

	now := r.now().UTC()
	if len(snapshot.Teams) > 0 {
		models := make([]teamGameStatsModel, 0, len(snapshot.Teams))
		for _, row := range snapshot.Teams {
			models = append(models, teamGameStatsModel{
				GameID:         snapshot.GameID,
				TeamID:         row.TeamID,
				Quarter:        row.Quarter,
				CounterColumns: counterColumns(row.Counters),
				UpdatedAt:      row.UpdatedAt,
			})
		}
		if err := execInsertModels(ctx, tx, teamGameStatsTable, models); err != nil {
			return err
		}
	}
	if len(snapshot.Players) > 0 {
		models := make([]playerGameStatsModel, 0, len(snapshot.Players))
		for _, row := range snapshot.Players {
			models = append(models, playerGameStatsModel{
				GameID:         snapshot.GameID,
				PlayerID:       row.PlayerID,
				Quarter:        row.Quarter,
				TeamID:         row.TeamID,
				CounterColumns: counterColumns(row.Counters),
				PlusMinus:      row.PlusMinus,
				ShotChart:      row.ShotChart,
				UpdatedAt:      row.UpdatedAt,
			})
		}
		if err := execInsertModels(ctx, tx, playerGameStatsTable, models); err != nil {
			return err
		}
	}
	if len(snapshot.AppliedEventIDs) > 0 {
		models := make([]appliedEventModel, 0, len(snapshot.AppliedEventIDs))
		for _, eventID := range snapshot.AppliedEventIDs {
			models = append(models, appliedEventModel{GameID: snapshot.GameID, EventID: eventID, AppliedAt: now})
		}
		if err := execInsertModels(ctx, tx, appliedEventsTable, models); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace game stats tx: %w", err)
	}
	return nil
}

func (r *StatsRepository) SetPlayerAnnotations(ctx context.Context, key boxscore.PlayerKey, plusMinus int, shotChart []byte) (bool, error) {
	query, args, err := qb.Update(playerGameStatsTable).
		Set("plus_minus", plusMinus).
		Set("shot_chart", shotChart).
		Set("updated_at", r.now().UTC()).
		Where(
			qb.Eq("game_public_id", key.GameID),
			qb.Eq("player_id", key.PlayerID),
			qb.Eq("quarter", key.Quarter),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set player annotations query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set player annotations: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows set player annotations: %w", err)
	}
	return affected > 0, nil
}

func clearGameStats(ctx context.Context, tx *sqlx.Tx, gameID string) error {
	for _, table := range []string{teamGameStatsTable, playerGameStatsTable, appliedEventsTable} {
		query, args, err := qb.DeleteFrom(table).
			Where(qb.Eq("game_public_id", gameID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s game=%s: %w", table, gameID, err)
		}
	}
	return nil
}

// insertBatchSize keeps multi-row inserts under the driver's bind parameter limit.
const insertBatchSize = 500

func execInsertModels[T any](ctx context.Context, tx *sqlx.Tx, table string, models []T) error {
	for start := 0; start < len(models); start += insertBatchSize {
		end := min(start+insertBatchSize, len(models))
		query, args, err := qb.InsertModels(table, models[start:end], "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}
