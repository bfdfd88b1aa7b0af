package boxscore

import (
	"context"
	"time"
)

type ChangeKind string

const (
	ChangeEventApplied     ChangeKind = "event_applied"
	ChangeGameRecalculated ChangeKind = "game_recalculated"
	ChangeAnnotated        ChangeKind = "player_annotated"
	ChangeGameRolledUp     ChangeKind = "game_rolled_up"
	ChangeSeasonRebuilt    ChangeKind = "season_rebuilt"
)

// Change describes committed stat rows so read-side subscribers can refresh.
type Change struct {
	Kind       ChangeKind `json:"kind"`
	GameID     string     `json:"gameId,omitempty"`
	EventID    string     `json:"eventId,omitempty"`
	SeasonYear int        `json:"seasonYear,omitempty"`
	TeamIDs    []string   `json:"teamIds,omitempty"`
	PlayerIDs  []string   `json:"playerIds,omitempty"`
	Quarters   []int      `json:"quarters,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// ChangePublisher is told about every committed write. It is never on the write's critical path.
type ChangePublisher interface {
	Publish(ctx context.Context, change Change) error
}

// ChangeFromIncrement lists the rows an applied increment touched.
func ChangeFromIncrement(inc Increment, at time.Time) Change {
	c := Change{Kind: ChangeEventApplied, GameID: inc.GameID, EventID: inc.EventID, OccurredAt: at}
	seenTeam := map[string]struct{}{}
	seenQuarter := map[int]struct{}{}
	for _, k := range inc.TeamKeys {
		if _, ok := seenTeam[k.TeamID]; !ok {
			seenTeam[k.TeamID] = struct{}{}
			c.TeamIDs = append(c.TeamIDs, k.TeamID)
		}
		if _, ok := seenQuarter[k.Quarter]; !ok {
			seenQuarter[k.Quarter] = struct{}{}
			c.Quarters = append(c.Quarters, k.Quarter)
		}
	}
	for _, k := range inc.PlayerKeys {
		if k.Quarter == FullGame {
			c.PlayerIDs = append(c.PlayerIDs, k.PlayerID)
		}
	}
	return c
}
