package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	qb "github.com/riskibarqy/courtstats/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("public_id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}
	return gameFromModel(row), true, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonYear int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("season_year", seasonYear)).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by season query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games by season: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromModel(row))
	}
	return out, nil
}

// Upsert writes game metadata. Status only moves through UpdateStatus, so an existing
// row keeps its status.
func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	insertModel := gameInsertModel{
		PublicID:       item.ID,
		SeasonYear:     item.SeasonYear,
		HomeTeamID:     item.HomeTeamID,
		AwayTeamID:     item.AwayTeamID,
		HomeTracking:   string(item.TrackingMode(game.SideHome)),
		AwayTracking:   string(item.TrackingMode(game.SideAway)),
		HomeStarterIDs: nonNilStrings(item.HomeStarterIDs),
		AwayStarterIDs: nonNilStrings(item.AwayStarterIDs),
		Status:         string(game.NormalizeStatus(string(item.Status))),
		StartsAt:       item.StartsAt.UTC(),
	}

	query, args, err := qb.InsertModel("games", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    season_year = EXCLUDED.season_year,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_tracking = EXCLUDED.home_tracking,
    away_tracking = EXCLUDED.away_tracking,
    home_starter_ids = EXCLUDED.home_starter_ids,
    away_starter_ids = EXCLUDED.away_starter_ids,
    starts_at = EXCLUDED.starts_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, gameID string, from, to game.Status) error {
	query, args, err := qb.Update("games").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update game status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows update game status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update game %s from %s to %s: %w", gameID, from, to, game.ErrStatusConflict)
	}
	return nil
}

func gameFromModel(row gameTableModel) game.Game {
	home, _ := game.ParseTrackingMode(row.HomeTracking)
	away, _ := game.ParseTrackingMode(row.AwayTracking)
	return game.Game{
		ID:             row.PublicID,
		SeasonYear:     row.SeasonYear,
		HomeTeamID:     row.HomeTeamID,
		AwayTeamID:     row.AwayTeamID,
		HomeTracking:   home,
		AwayTracking:   away,
		HomeStarterIDs: []string(row.HomeStarterIDs),
		AwayStarterIDs: []string(row.AwayStarterIDs),
		Status:         game.NormalizeStatus(row.Status),
		StartsAt:       row.StartsAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func nonNilStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
