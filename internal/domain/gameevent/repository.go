package gameevent

import "context"

// Repository is the append-biased event store.
type Repository interface {
	// Append stores a new event and returns it with its assigned sequence.
	Append(ctx context.Context, item Event) (Event, error)
	GetByID(ctx context.Context, eventID string) (Event, bool, error)
	// ListByGame returns events ordered by elapsed time, then insertion order.
	ListByGame(ctx context.Context, gameID string) ([]Event, error)
	// LastByGame returns the most recently inserted event of a game.
	LastByGame(ctx context.Context, gameID string) (Event, bool, error)
	Delete(ctx context.Context, eventID string) (bool, error)
}
