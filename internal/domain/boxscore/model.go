package boxscore

import "time"

// FullGame is the quarter value of whole-game rows. Quarters are numbered from 1.
const FullGame = 0

type Field string

const (
	FieldPoints                 Field = "points"
	FieldFieldGoalsMade         Field = "fieldGoalsMade"
	FieldFieldGoalsAttempted    Field = "fieldGoalsAttempted"
	FieldThreePointersMade      Field = "threePointersMade"
	FieldThreePointersAttempted Field = "threePointersAttempted"
	FieldFreeThrowsMade         Field = "freeThrowsMade"
	FieldFreeThrowsAttempted    Field = "freeThrowsAttempted"
	FieldReboundsOffensive      Field = "reboundsOffensive"
	FieldReboundsDefensive      Field = "reboundsDefensive"
	FieldAssists                Field = "assists"
	FieldSteals                 Field = "steals"
	FieldBlocks                 Field = "blocks"
	FieldTurnovers              Field = "turnovers"
	FieldFoulsPersonal          Field = "foulsPersonal"
	FieldFoulsTechnical         Field = "foulsTechnical"
	FieldSecondsPlayed          Field = "secondsPlayed"
)

// Counters are the raw additive statistics shared by every stat record shape.
// A Counters value is also the delta an event contributes.
type Counters struct {
	Points                 int
	FieldGoalsMade         int
	FieldGoalsAttempted    int
	ThreePointersMade      int
	ThreePointersAttempted int
	FreeThrowsMade         int
	FreeThrowsAttempted    int
	ReboundsOffensive      int
	ReboundsDefensive      int
	Assists                int
	Steals                 int
	Blocks                 int
	Turnovers              int
	FoulsPersonal          int
	FoulsTechnical         int
	SecondsPlayed          int
}

func (c Counters) Add(d Counters) Counters {
	return Counters{
		Points:                 c.Points + d.Points,
		FieldGoalsMade:         c.FieldGoalsMade + d.FieldGoalsMade,
		FieldGoalsAttempted:    c.FieldGoalsAttempted + d.FieldGoalsAttempted,
		ThreePointersMade:      c.ThreePointersMade + d.ThreePointersMade,
		ThreePointersAttempted: c.ThreePointersAttempted + d.ThreePointersAttempted,
		FreeThrowsMade:         c.FreeThrowsMade + d.FreeThrowsMade,
		FreeThrowsAttempted:    c.FreeThrowsAttempted + d.FreeThrowsAttempted,
		ReboundsOffensive:      c.ReboundsOffensive + d.ReboundsOffensive,
		ReboundsDefensive:      c.ReboundsDefensive + d.ReboundsDefensive,
		Assists:                c.Assists + d.Assists,
		Steals:                 c.Steals + d.Steals,
		Blocks:                 c.Blocks + d.Blocks,
		Turnovers:              c.Turnovers + d.Turnovers,
		FoulsPersonal:          c.FoulsPersonal + d.FoulsPersonal,
		FoulsTechnical:         c.FoulsTechnical + d.FoulsTechnical,
		SecondsPlayed:          c.SecondsPlayed + d.SecondsPlayed,
	}
}

func (c Counters) IsZero() bool {
	return c == Counters{}
}

// Fields returns the non-zero counters keyed by field name.
func (c Counters) Fields() map[Field]int {
	all := map[Field]int{
		FieldPoints:                 c.Points,
		FieldFieldGoalsMade:         c.FieldGoalsMade,
		FieldFieldGoalsAttempted:    c.FieldGoalsAttempted,
		FieldThreePointersMade:      c.ThreePointersMade,
		FieldThreePointersAttempted: c.ThreePointersAttempted,
		FieldFreeThrowsMade:         c.FreeThrowsMade,
		FieldFreeThrowsAttempted:    c.FreeThrowsAttempted,
		FieldReboundsOffensive:      c.ReboundsOffensive,
		FieldReboundsDefensive:      c.ReboundsDefensive,
		FieldAssists:                c.Assists,
		FieldSteals:                 c.Steals,
		FieldBlocks:                 c.Blocks,
		FieldTurnovers:              c.Turnovers,
		FieldFoulsPersonal:          c.FoulsPersonal,
		FieldFoulsTechnical:         c.FoulsTechnical,
		FieldSecondsPlayed:          c.SecondsPlayed,
	}
	out := make(map[Field]int)
	for k, v := range all {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// TeamKey addresses one GameStats row.
type TeamKey struct {
	GameID  string
	TeamID  string
	Quarter int
}

// PlayerKey addresses one PlayerGameStats row. TeamID is carried, not part of identity.
type PlayerKey struct {
	GameID   string
	PlayerID string
	TeamID   string
	Quarter  int
}

// Identity strips the carried team from the key.
func (k PlayerKey) Identity() PlayerKey {
	k.TeamID = ""
	return k
}

// GameStats is the team box score for a game or one of its quarters.
type GameStats struct {
	GameID    string
	TeamID    string
	Quarter   int
	Counters  Counters
	UpdatedAt time.Time
}

func (s GameStats) IsFullGame() bool { return s.Quarter == FullGame }

// PlayerGameStats is one player's box score for a game or one of its quarters.
type PlayerGameStats struct {
	GameID    string
	PlayerID  string
	TeamID    string
	Quarter   int
	Counters  Counters
	PlusMinus int
	// ShotChart is opaque and carried through unmodified.
	ShotChart []byte
	UpdatedAt time.Time
}

func (s PlayerGameStats) IsFullGame() bool { return s.Quarter == FullGame }

// HasAnnotations reports whether the row carries values the engine never produces.
func (s PlayerGameStats) HasAnnotations() bool {
	return s.PlusMinus != 0 || len(s.ShotChart) > 0
}

// PlayerSeasonStats is the cumulative record of a player for a season.
// An empty TeamID groups every team the player appeared for.
type PlayerSeasonStats struct {
	PlayerID     string
	TeamID       string
	SeasonYear   int
	Counters     Counters
	GamesPlayed  int
	GamesStarted int
	UpdatedAt    time.Time
}

// RollupMarker records that one player's game was folded into a season.
type RollupMarker struct {
	PlayerID   string
	GameID     string
	TeamID     string
	SeasonYear int
	Started    bool
	RolledUpAt time.Time
}

// SeasonIncrement is what one rolled-up game adds to a season record.
func (m RollupMarker) SeasonIncrement(game Counters) PlayerSeasonStats {
	started := 0
	if m.Started {
		started = 1
	}
	return PlayerSeasonStats{
		PlayerID:     m.PlayerID,
		TeamID:       m.TeamID,
		SeasonYear:   m.SeasonYear,
		Counters:     game,
		GamesPlayed:  1,
		GamesStarted: started,
	}
}

// Accumulate folds an increment into a season record.
func (s PlayerSeasonStats) Accumulate(inc PlayerSeasonStats) PlayerSeasonStats {
	s.Counters = s.Counters.Add(inc.Counters)
	s.GamesPlayed += inc.GamesPlayed
	s.GamesStarted += inc.GamesStarted
	return s
}
