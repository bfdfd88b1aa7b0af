package boxscore

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEvent    = errors.New("invalid event")
	ErrAlreadyRolledUp = errors.New("game already rolled up")
)

// InvalidEventError explains why an event produced no delta.
type InvalidEventError struct {
	EventID string
	Reason  string
}

func (e *InvalidEventError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("invalid event: %s", e.Reason)
	}
	return fmt.Sprintf("invalid event %s: %s", e.EventID, e.Reason)
}

func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}

func invalidEvent(eventID, format string, args ...any) error {
	return &InvalidEventError{EventID: eventID, Reason: fmt.Sprintf(format, args...)}
}
