package usecase

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	// ErrAggregation marks a store failure while committing stat rows. Nothing was
	// committed, so retrying the same event is safe. Match it with crerr.Is.
	ErrAggregation = crerr.New("aggregation failed")

	ErrInvalidEvent    = boxscore.ErrInvalidEvent
	ErrAlreadyRolledUp = boxscore.ErrAlreadyRolledUp
)

func aggregationFailure(err error, format string, args ...any) error {
	return crerr.Mark(crerr.Wrapf(err, format, args...), ErrAggregation)
}

// RecalculationError reports the event that aborted a replay.
type RecalculationError struct {
	GameID  string
	EventID string
	Err     error
}

func (e *RecalculationError) Error() string {
	return "recalculate game " + e.GameID + ": event " + e.EventID + ": " + e.Err.Error()
}

func (e *RecalculationError) Unwrap() error {
	return e.Err
}
