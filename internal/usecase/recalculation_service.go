package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"go.opentelemetry.io/otel/attribute"
)

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"

	defaultRecalcWorkers = 4
)

type RecalculateResult struct {
	GameID        string   `json:"game_id"`
	EventCount    int      `json:"event_count"`
	NoopCount     int      `json:"noop_count"`
	Warnings      []string `json:"warnings,omitempty"`
	SeasonRebuilt bool     `json:"season_rebuilt"`
}

type BulkRecalculateResult struct {
	GameCount    int                   `json:"game_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	WorkerCount  int                   `json:"worker_count"`
	Games        []RecalculateGameTask `json:"games"`
}

type RecalculateGameTask struct {
	GameID        string `json:"game_id"`
	Status        string `json:"status"`
	EventCount    int    `json:"event_count"`
	FailedEventID string `json:"failed_event_id,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
	Message       string `json:"message,omitempty"`
}

type seasonRebuilder interface {
	RebuildSeason(ctx context.Context, seasonYear int) (RebuildSeasonResult, error)
}

// RecalculationService rebuilds a game's box scores from its event log.
type RecalculationService struct {
	engine     *AggregationService
	seasons    seasonRebuilder
	maxWorkers int
}

func NewRecalculationService(engine *AggregationService, seasons seasonRebuilder, maxWorkers int) *RecalculationService {
	if maxWorkers <= 0 {
		maxWorkers = defaultRecalcWorkers
	}
	return &RecalculationService{engine: engine, seasons: seasons, maxWorkers: maxWorkers}
}

// Recalculate rebuilds the game's rows and processing ledger by replaying every event in
// canonical order, then swaps them in at once. Plus/minus and shot charts carry over.
// On the first invalid event the game is left with no stat rows and the failing event
// is reported.
func (s *RecalculationService) Recalculate(ctx context.Context, gameID string) (RecalculateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationService.Recalculate", attribute.String("game.id", gameID))
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return RecalculateResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	lock, err := s.engine.lockGame(ctx, gameID)
	if err != nil {
		return RecalculateResult{}, err
	}
	g, result, err := s.recalculateLocked(ctx, lock, gameID)
	lock.unlock(ctx)
	if err != nil {
		recordSpanError(span, err)
		return result, err
	}

	if g.Status == game.StatusRolledUp && s.seasons != nil {
		if _, err := s.seasons.RebuildSeason(ctx, g.SeasonYear); err != nil {
			return result, fmt.Errorf("rebuild season %d after recalculating %s: %w", g.SeasonYear, gameID, err)
		}
		result.SeasonRebuilt = true
	}
	return result, nil
}

func (s *RecalculationService) recalculateLocked(ctx context.Context, lock *gameLock, gameID string) (game.Game, RecalculateResult, error) {
	result := RecalculateResult{GameID: gameID}
	engine := s.engine

	g, err := engine.loadGame(ctx, gameID)
	if err != nil {
		return game.Game{}, result, err
	}

	events, err := engine.events.ListByGame(ctx, gameID)
	if err != nil {
		return g, result, fmt.Errorf("list events for game: %w", err)
	}
	gameevent.SortCanonical(events)
	result.EventCount = len(events)

	tally := boxscore.NewTally(gameID)
	for _, evt := range events {
		inc, applied, err := engine.prepare(ctx, g, evt)
		if err != nil {
			if crerr.Is(err, ErrInvalidEvent) {
				s.abandon(ctx, gameID, evt.ID, err)
			}
			return g, result, &RecalculationError{GameID: gameID, EventID: evt.ID, Err: err}
		}
		if applied.Noop {
			result.NoopCount++
		}
		result.Warnings = append(result.Warnings, applied.Warnings...)
		tally.Apply(inc)
	}

	if err := s.carryAnnotations(ctx, gameID, tally); err != nil {
		return g, result, err
	}

	if err := engine.stats.ReplaceGame(ctx, tally.Snapshot(engine.now().UTC())); err != nil {
		return g, result, aggregationFailure(err, "replace box score of game %s", gameID)
	}

	lock.queue(boxscore.Change{
		Kind:       boxscore.ChangeGameRecalculated,
		GameID:     gameID,
		OccurredAt: engine.now().UTC(),
	})
	return g, result, nil
}

// abandon clears the game's rows so a replay that cannot finish leaves nothing stale behind.
func (s *RecalculationService) abandon(ctx context.Context, gameID, eventID string, cause error) {
	logger := s.engine.logger
	logger.ErrorContext(ctx, "recalculation aborted on invalid event", "game_id", gameID, "event_id", eventID, "error", cause)
	if err := s.engine.stats.ResetGame(ctx, gameID); err != nil {
		logger.ErrorContext(ctx, "clear stats of aborted recalculation failed", "game_id", gameID, "error", err)
	}
}

func (s *RecalculationService) carryAnnotations(ctx context.Context, gameID string, tally *boxscore.Tally) error {
	rows, err := s.engine.stats.ListPlayerStatsByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list player stats for annotations: %w", err)
	}
	for _, row := range rows {
		if !row.HasAnnotations() {
			continue
		}
		key := boxscore.PlayerKey{GameID: row.GameID, PlayerID: row.PlayerID, Quarter: row.Quarter}
		if !tally.Annotate(key, row.PlusMinus, row.ShotChart) {
			s.engine.logger.WarnContext(ctx, "annotations dropped: player row no longer produced by events",
				"game_id", gameID, "player_id", row.PlayerID, "quarter", row.Quarter)
		}
	}
	return nil
}

// RecalculateGames runs Recalculate for each game on a bounded worker pool. A failing game
// is reported in its task row and does not stop the others.
func (s *RecalculationService) RecalculateGames(ctx context.Context, gameIDs []string, maxWorkers int) (BulkRecalculateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalculationService.RecalculateGames")
	defer span.End()

	ids := uniqueTrimmed(gameIDs)
	if len(ids) == 0 {
		return BulkRecalculateResult{}, fmt.Errorf("%w: at least one game id is required", ErrInvalidInput)
	}

	workerCount := normalizeWorkerCount(maxWorkers, s.maxWorkers, len(ids))
	result := BulkRecalculateResult{
		GameCount:   len(ids),
		WorkerCount: workerCount,
		Games:       make([]RecalculateGameTask, 0, len(ids)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BulkRecalculateResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RecalculateGameTask, len(ids))
	var successCount, failedCount atomic.Int32
	var workers sync.WaitGroup
	for _, gameID := range ids {
		gameID := gameID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecalculateGameTask{GameID: gameID, Status: recalcStatusSuccess}
			out, err := s.Recalculate(ctx, gameID)
			row.EventCount = out.EventCount
			if err != nil {
				row.Status = recalcStatusFailed
				row.Message = err.Error()
				var recalcErr *RecalculationError
				if crerr.As(err, &recalcErr) {
					row.FailedEventID = recalcErr.EventID
				}
				failedCount.Add(1)
			} else {
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return BulkRecalculateResult{}, fmt.Errorf("submit recalculation to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)
	for row := range results {
		result.Games = append(result.Games, row)
	}
	sort.SliceStable(result.Games, func(i, j int) bool {
		return result.Games[i].GameID < result.Games[j].GameID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func normalizeWorkerCount(requested, limit, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if requested <= 0 {
		requested = limit
	}
	if limit > 0 && requested > limit {
		requested = limit
	}
	if requested > taskCount {
		requested = taskCount
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
