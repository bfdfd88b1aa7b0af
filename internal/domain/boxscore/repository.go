package boxscore

import "context"

// Increment is the atomic unit the aggregation engine commits for one event.
type Increment struct {
	GameID     string
	EventID    string
	Delta      Counters
	TeamKeys   []TeamKey
	PlayerKeys []PlayerKey
}

// Repository is the stat record store for game-level shapes.
type Repository interface {
	// ApplyIncrement records EventID in the game's processing ledger and adds Delta to
	// every key in one atomic unit. It returns false, without touching any row, when
	// the event was already applied.
	ApplyIncrement(ctx context.Context, inc Increment) (bool, error)
	IsEventApplied(ctx context.Context, gameID, eventID string) (bool, error)

	GetTeamStats(ctx context.Context, gameID, teamID string, quarter int) (GameStats, bool, error)
	ListTeamStatsByGame(ctx context.Context, gameID string) ([]GameStats, error)
	GetPlayerStats(ctx context.Context, gameID, playerID string, quarter int) (PlayerGameStats, bool, error)
	ListPlayerStatsByGame(ctx context.Context, gameID string) ([]PlayerGameStats, error)

	// ResetGame deletes every GameStats and PlayerGameStats row of the game together
	// with its processing ledger.
	ResetGame(ctx context.Context, gameID string) error
	// ReplaceGame swaps all rows and the ledger of snapshot.GameID for the snapshot in
	// one atomic unit.
	ReplaceGame(ctx context.Context, snapshot GameSnapshot) error
	// SetPlayerAnnotations stores plus/minus and shot chart on an existing row.
	SetPlayerAnnotations(ctx context.Context, key PlayerKey, plusMinus int, shotChart []byte) (bool, error)
}

// SeasonRepository is the stat record store for season rollups.
type SeasonRepository interface {
	// RollupPlayerGame stores the marker and adds inc to both the (player, team, season)
	// and the (player, all teams, season) records atomically. It fails with
	// ErrAlreadyRolledUp when a marker for (player, game) exists.
	RollupPlayerGame(ctx context.Context, marker RollupMarker, inc PlayerSeasonStats) error
	IsRolledUp(ctx context.Context, playerID, gameID string) (bool, error)
	ListRollupMarkersBySeason(ctx context.Context, seasonYear int) ([]RollupMarker, error)

	GetSeasonStats(ctx context.Context, playerID string, seasonYear int, teamID string) (PlayerSeasonStats, bool, error)
	ListSeasonStatsByPlayer(ctx context.Context, playerID string) ([]PlayerSeasonStats, error)

	// ReplaceSeason swaps every record of a season for rows in one atomic unit. Markers are kept.
	ReplaceSeason(ctx context.Context, seasonYear int, rows []PlayerSeasonStats) error
}
