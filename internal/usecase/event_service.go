package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"github.com/riskibarqy/courtstats/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
)

type RecordEventInput struct {
	GameID         string
	Side           string
	Type           string
	PlayerID       string
	ElapsedSeconds int
	Quarter        int
	ReboundKind    string
	FoulKind       string
	Shot           gameevent.ShotDetail
}

type RecordEventResult struct {
	Event gameevent.Event
	Apply ApplyResult
}

type RemoveEventResult struct {
	Event       gameevent.Event
	Recalculate RecalculateResult
}

// EventService records events and applies them, and handles deletion through recalculation.
type EventService struct {
	engine *AggregationService
	recalc *RecalculationService
	ids    id.Generator
}

func NewEventService(engine *AggregationService, recalc *RecalculationService, ids id.Generator) *EventService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &EventService{engine: engine, recalc: recalc, ids: ids}
}

// RecordEvent stores a new event and applies it. Events the classifier rejects are not stored.
// When the store fails after the event was appended, the event is returned with the error and
// can be re-driven with ApplyEventByID.
func (s *EventService) RecordEvent(ctx context.Context, input RecordEventInput) (RecordEventResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecordEvent", attribute.String("game.id", input.GameID))
	defer span.End()

	evt, err := eventFromInput(input)
	if err != nil {
		return RecordEventResult{}, err
	}
	eventID, err := s.ids.NewID()
	if err != nil {
		return RecordEventResult{}, fmt.Errorf("generate event id: %w", err)
	}
	evt.ID = eventID

	lock, err := s.engine.lockGame(ctx, evt.GameID)
	if err != nil {
		return RecordEventResult{}, err
	}
	defer lock.unlock(ctx)

	g, err := s.engine.loadGame(ctx, evt.GameID)
	if err != nil {
		return RecordEventResult{}, err
	}
	if !g.AcceptsEvents() {
		return RecordEventResult{}, fmt.Errorf("record event: %w", ErrAlreadyRolledUp)
	}
	if _, _, err := s.engine.prepare(ctx, g, evt); err != nil {
		return RecordEventResult{}, err
	}

	stored, err := s.engine.events.Append(ctx, evt)
	if err != nil {
		return RecordEventResult{}, fmt.Errorf("append event: %w", err)
	}

	applied, err := s.engine.applyLocked(ctx, lock, g, stored)
	if err != nil {
		recordSpanError(span, err)
		s.engine.logger.ErrorContext(ctx, "event stored but not applied", "game_id", stored.GameID, "event_id", stored.ID, "error", err)
		return RecordEventResult{Event: stored, Apply: applied}, err
	}
	return RecordEventResult{Event: stored, Apply: applied}, nil
}

func (s *EventService) ListEvents(ctx context.Context, gameID string) ([]gameevent.Event, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if _, err := s.engine.loadGame(ctx, gameID); err != nil {
		return nil, err
	}

	events, err := s.engine.events.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	gameevent.SortCanonical(events)
	return events, nil
}

// DeleteEvent removes an event and recalculates its game.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) (RemoveEventResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.DeleteEvent", attribute.String("event.id", eventID))
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return RemoveEventResult{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	evt, exists, err := s.engine.events.GetByID(ctx, eventID)
	if err != nil {
		return RemoveEventResult{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return RemoveEventResult{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}
	return s.remove(ctx, evt)
}

// UndoLastEvent deletes the most recently recorded event of a game.
func (s *EventService) UndoLastEvent(ctx context.Context, gameID string) (RemoveEventResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.UndoLastEvent", attribute.String("game.id", gameID))
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return RemoveEventResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	evt, exists, err := s.engine.events.LastByGame(ctx, gameID)
	if err != nil {
		return RemoveEventResult{}, fmt.Errorf("get last event: %w", err)
	}
	if !exists {
		return RemoveEventResult{}, fmt.Errorf("%w: game %s has no events", ErrNotFound, gameID)
	}
	return s.remove(ctx, evt)
}

func (s *EventService) remove(ctx context.Context, evt gameevent.Event) (RemoveEventResult, error) {
	lock, err := s.engine.lockGame(ctx, evt.GameID)
	if err != nil {
		return RemoveEventResult{}, err
	}
	g, err := s.engine.loadGame(ctx, evt.GameID)
	if err != nil {
		lock.unlock(ctx)
		return RemoveEventResult{}, err
	}
	if !g.AcceptsEvents() {
		lock.unlock(ctx)
		return RemoveEventResult{}, fmt.Errorf("delete event %s: %w", evt.ID, ErrAlreadyRolledUp)
	}
	deleted, err := s.engine.events.Delete(ctx, evt.ID)
	lock.unlock(ctx)
	if err != nil {
		return RemoveEventResult{}, fmt.Errorf("delete event: %w", err)
	}
	if !deleted {
		return RemoveEventResult{}, fmt.Errorf("%w: event=%s", ErrNotFound, evt.ID)
	}

	recalc, err := s.recalc.Recalculate(ctx, evt.GameID)
	if err != nil {
		s.engine.logger.ErrorContext(ctx, "event deleted but game not recalculated", "game_id", evt.GameID, "event_id", evt.ID, "error", err)
		return RemoveEventResult{Event: evt, Recalculate: recalc}, err
	}
	return RemoveEventResult{Event: evt, Recalculate: recalc}, nil
}

func eventFromInput(input RecordEventInput) (gameevent.Event, error) {
	gameID := strings.TrimSpace(input.GameID)
	if gameID == "" {
		return gameevent.Event{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	side, ok := game.ParseSide(input.Side)
	if !ok {
		return gameevent.Event{}, fmt.Errorf("%w: side must be HOME or AWAY", ErrInvalidInput)
	}
	typ, ok := gameevent.ParseType(input.Type)
	if !ok {
		return gameevent.Event{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Type)
	}
	if input.ElapsedSeconds < 0 {
		return gameevent.Event{}, fmt.Errorf("%w: elapsed seconds must be >= 0", ErrInvalidInput)
	}
	if input.Quarter < 0 {
		return gameevent.Event{}, fmt.Errorf("%w: quarter must be >= 1 when set", ErrInvalidInput)
	}

	return gameevent.Event{
		GameID:         gameID,
		Side:           side,
		Type:           typ,
		PlayerID:       strings.TrimSpace(input.PlayerID),
		ElapsedSeconds: input.ElapsedSeconds,
		Quarter:        input.Quarter,
		ReboundKind:    gameevent.ReboundKind(strings.ToUpper(strings.TrimSpace(input.ReboundKind))),
		FoulKind:       gameevent.FoulKind(strings.ToUpper(strings.TrimSpace(input.FoulKind))),
		Shot:           input.Shot,
	}, nil
}
