package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"github.com/riskibarqy/courtstats/internal/platform/keylock"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ApplyResult reports what one event application did.
type ApplyResult struct {
	GameID  string
	EventID string
	// Applied is true when this call committed the event's increment.
	Applied bool
	// Duplicate is true when the processing ledger already held the event.
	Duplicate bool
	// Noop is true for events that touch no stat rows (e.g. substitutions).
	Noop     bool
	Warnings []string
}

// AggregationService is the single write path for game and player box scores.
type AggregationService struct {
	games     game.Repository
	events    gameevent.Repository
	stats     boxscore.Repository
	locks     *keylock.Map
	publisher boxscore.ChangePublisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewAggregationService(
	games game.Repository,
	events gameevent.Repository,
	stats boxscore.Repository,
	locks *keylock.Map,
	publisher boxscore.ChangePublisher,
	logger *logging.Logger,
) *AggregationService {
	if locks == nil {
		locks = keylock.New()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregationService{
		games:     games,
		events:    events,
		stats:     stats,
		locks:     locks,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ApplyEvent commits the stored copy of evt to every affected row at once. Only events present
// in the event store are applied; the store is re-read under the game lock so an event deleted
// concurrently is reported as not found. Applying an event already in the processing ledger is
// reported as a duplicate.
func (s *AggregationService) ApplyEvent(ctx context.Context, evt gameevent.Event) (ApplyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.ApplyEvent",
		attribute.String("game.id", evt.GameID),
		attribute.String("event.id", evt.ID),
	)
	defer span.End()

	eventID := strings.TrimSpace(evt.ID)
	gameID := strings.TrimSpace(evt.GameID)
	if eventID == "" || gameID == "" {
		return ApplyResult{}, fmt.Errorf("%w: event id and game id are required", ErrInvalidInput)
	}

	lock, err := s.lockGame(ctx, gameID)
	if err != nil {
		return ApplyResult{}, err
	}
	defer lock.unlock(ctx)

	g, err := s.loadGame(ctx, gameID)
	if err != nil {
		return ApplyResult{}, err
	}
	if !g.AcceptsEvents() {
		return ApplyResult{}, fmt.Errorf("apply event %s: %w", eventID, ErrAlreadyRolledUp)
	}

	stored, exists, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("get event: %w", err)
	}
	if !exists || stored.GameID != gameID {
		return ApplyResult{}, fmt.Errorf("%w: event=%s game=%s", ErrNotFound, eventID, gameID)
	}

	result, err := s.applyLocked(ctx, lock, g, stored)
	recordSpanError(span, err)
	return result, err
}

// ApplyEventByID re-drives a stored event, e.g. after a failed attempt.
func (s *AggregationService) ApplyEventByID(ctx context.Context, eventID string) (ApplyResult, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ApplyResult{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	evt, exists, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return ApplyResult{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}
	return s.ApplyEvent(ctx, evt)
}

// applyLocked expects the caller to hold the game lock.
func (s *AggregationService) applyLocked(ctx context.Context, lock *gameLock, g game.Game, evt gameevent.Event) (ApplyResult, error) {
	inc, result, err := s.prepare(ctx, g, evt)
	if err != nil {
		return result, err
	}

	applied, err := s.stats.ApplyIncrement(ctx, inc)
	if err != nil {
		return result, aggregationFailure(err, "apply event %s", evt.ID)
	}
	if !applied {
		result.Duplicate = true
		return result, nil
	}
	result.Applied = true

	if !result.Noop {
		lock.queue(boxscore.ChangeFromIncrement(inc, s.now().UTC()))
	}
	return result, nil
}

// prepare classifies evt against the game's teams and tracking modes.
func (s *AggregationService) prepare(ctx context.Context, g game.Game, evt gameevent.Event) (boxscore.Increment, ApplyResult, error) {
	result := ApplyResult{GameID: evt.GameID, EventID: evt.ID}

	teamID, _ := g.TeamID(evt.Side)
	cls, err := boxscore.Classify(evt, teamID, g.TrackingMode(evt.Side))
	if err != nil {
		return boxscore.Increment{}, result, err
	}
	for _, w := range cls.Warnings {
		s.logger.WarnContext(ctx, "event data quality", "game_id", evt.GameID, "event_id", evt.ID, "warning", w)
	}
	result.Warnings = cls.Warnings
	result.Noop = cls.IsNoop()

	inc := boxscore.Increment{GameID: evt.GameID, EventID: evt.ID, Delta: cls.Delta}
	if !result.Noop {
		inc.TeamKeys, inc.PlayerKeys = cls.TeamKeys, cls.PlayerKeys
	}
	return inc, result, nil
}

// gameLock is the single-writer hold on one game. Changes queued while it is held are
// published after the lock is released.
type gameLock struct {
	engine  *AggregationService
	release func()
	pending []boxscore.Change
}

func (s *AggregationService) lockGame(ctx context.Context, gameID string) (*gameLock, error) {
	release, err := s.locks.Lock(ctx, gameLockKey(gameID))
	if err != nil {
		return nil, fmt.Errorf("wait for game %s: %w", gameID, err)
	}
	return &gameLock{engine: s, release: release}, nil
}

func (l *gameLock) queue(change boxscore.Change) {
	l.pending = append(l.pending, change)
}

// unlock releases the game, then publishes queued changes in order. Later calls do nothing.
func (l *gameLock) unlock(ctx context.Context) {
	if l.release == nil {
		return
	}
	l.release()
	l.release = nil

	pending := l.pending
	l.pending = nil
	for _, change := range pending {
		l.engine.publish(ctx, change)
	}
}

func (s *AggregationService) loadGame(ctx context.Context, gameID string) (game.Game, error) {
	g, exists, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *AggregationService) publish(ctx context.Context, change boxscore.Change) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.logger.WarnContext(ctx, "publish stat change failed", "kind", change.Kind, "game_id", change.GameID, "error", err)
	}
}

func gameLockKey(gameID string) string {
	return "game:" + gameID
}

func seasonLockKey(seasonYear int) string {
	return fmt.Sprintf("season:%d", seasonYear)
}
