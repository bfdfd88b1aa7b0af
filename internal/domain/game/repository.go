package game

import "context"

// Repository exposes game metadata used by aggregation and rollup.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListBySeason(ctx context.Context, seasonYear int) ([]Game, error)
	Upsert(ctx context.Context, item Game) error
	// UpdateStatus moves a game from one status to another and fails with
	// ErrStatusConflict when the stored status is not `from`.
	UpdateStatus(ctx context.Context, gameID string, from, to Status) error
}
