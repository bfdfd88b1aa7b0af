package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	qb "github.com/riskibarqy/courtstats/internal/platform/querybuilder"
)

// EventRepository stores game events. The BIGSERIAL sequence column is the insertion order.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append inserts evt. Appending an id that already exists returns the stored event.
func (r *EventRepository) Append(ctx context.Context, evt gameevent.Event) (gameevent.Event, error) {
	shotDetail, err := encodeShotDetail(evt.Shot)
	if err != nil {
		return gameevent.Event{}, fmt.Errorf("insert game event id=%s: %w", evt.ID, err)
	}
	insertModel := gameEventInsertModel{
		PublicID:       evt.ID,
		GameID:         evt.GameID,
		Side:           string(evt.Side),
		EventType:      string(evt.Type),
		PlayerID:       evt.PlayerID,
		ElapsedSeconds: evt.ElapsedSeconds,
		Quarter:        evt.Quarter,
		ReboundKind:    string(evt.ReboundKind),
		FoulKind:       string(evt.FoulKind),
		ShotDetail:     shotDetail,
	}
	query, args, err := qb.InsertModel("game_events", insertModel, "RETURNING *")
	if err != nil {
		return gameevent.Event{}, fmt.Errorf("build insert game event query: %w", err)
	}

	var row gameEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isUniqueViolation(err) {
			return gameevent.Event{}, fmt.Errorf("insert game event id=%s: %w", evt.ID, err)
		}
		stored, exists, getErr := r.GetByID(ctx, evt.ID)
		if getErr != nil {
			return gameevent.Event{}, getErr
		}
		if !exists {
			return gameevent.Event{}, fmt.Errorf("insert game event id=%s: %w", evt.ID, err)
		}
		return stored, nil
	}
	return eventFromModel(row)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (gameevent.Event, bool, error) {
	query, args, err := qb.Select("*").From("game_events").
		Where(
			qb.Eq("public_id", eventID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return gameevent.Event{}, false, fmt.Errorf("build get game event query: %w", err)
	}

	var row gameEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameevent.Event{}, false, nil
		}
		return gameevent.Event{}, false, fmt.Errorf("get game event by id: %w", err)
	}
	evt, err := eventFromModel(row)
	if err != nil {
		return gameevent.Event{}, false, err
	}
	return evt, true, nil
}

func (r *EventRepository) ListByGame(ctx context.Context, gameID string) ([]gameevent.Event, error) {
	query, args, err := qb.Select("*").From("game_events").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("elapsed_seconds", "sequence").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game events query: %w", err)
	}

	var rows []gameEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list game events: %w", err)
	}

	out := make([]gameevent.Event, 0, len(rows))
	for _, row := range rows {
		evt, err := eventFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, nil
}

func (r *EventRepository) LastByGame(ctx context.Context, gameID string) (gameevent.Event, bool, error) {
	query, args, err := qb.Select("*").From("game_events").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("sequence DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return gameevent.Event{}, false, fmt.Errorf("build last game event query: %w", err)
	}

	var row gameEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameevent.Event{}, false, nil
		}
		return gameevent.Event{}, false, fmt.Errorf("get last game event: %w", err)
	}
	evt, err := eventFromModel(row)
	if err != nil {
		return gameevent.Event{}, false, err
	}
	return evt, true, nil
}

// Delete soft-deletes the event so the log keeps an audit trail.
func (r *EventRepository) Delete(ctx context.Context, eventID string) (bool, error) {
	query, args, err := qb.Update("game_events").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", eventID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete game event query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete game event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows delete game event: %w", err)
	}
	return affected > 0, nil
}

func eventFromModel(row gameEventTableModel) (gameevent.Event, error) {
	shot, err := decodeShotDetail(row.ShotDetail)
	if err != nil {
		return gameevent.Event{}, fmt.Errorf("game event id=%s: %w", row.PublicID, err)
	}
	return gameevent.Event{
		ID:             row.PublicID,
		GameID:         row.GameID,
		Side:           game.Side(row.Side),
		Type:           gameevent.Type(row.EventType),
		PlayerID:       row.PlayerID,
		ElapsedSeconds: row.ElapsedSeconds,
		Quarter:        row.Quarter,
		ReboundKind:    gameevent.ReboundKind(row.ReboundKind),
		FoulKind:       gameevent.FoulKind(row.FoulKind),
		Shot:           shot,
		Sequence:       row.Sequence,
		RecordedAt:     row.RecordedAt,
	}, nil
}
