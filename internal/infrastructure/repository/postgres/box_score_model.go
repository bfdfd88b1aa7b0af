package postgres

import (
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	qb "github.com/riskibarqy/courtstats/internal/platform/querybuilder"
)

const (
	teamGameStatsTable     = "team_game_stats"
	playerGameStatsTable   = "player_game_stats"
	appliedEventsTable     = "applied_events"
	playerSeasonStatsTable = "player_season_stats"
	seasonRollupsTable     = "season_rollups"
)

// CounterColumns is embedded by every stat row model.
type CounterColumns struct {
	Points                 int `db:"points"`
	FieldGoalsMade         int `db:"field_goals_made"`
	FieldGoalsAttempted    int `db:"field_goals_attempted"`
	ThreePointersMade      int `db:"three_pointers_made"`
	ThreePointersAttempted int `db:"three_pointers_attempted"`
	FreeThrowsMade         int `db:"free_throws_made"`
	FreeThrowsAttempted    int `db:"free_throws_attempted"`
	ReboundsOffensive      int `db:"rebounds_offensive"`
	ReboundsDefensive      int `db:"rebounds_defensive"`
	Assists                int `db:"assists"`
	Steals                 int `db:"steals"`
	Blocks                 int `db:"blocks"`
	Turnovers              int `db:"turnovers"`
	FoulsPersonal          int `db:"fouls_personal"`
	FoulsTechnical         int `db:"fouls_technical"`
	SecondsPlayed          int `db:"seconds_played"`
}

var counterColumnNames = mustColumns(CounterColumns{})

func mustColumns(model any) []string {
	cols, err := qb.Columns(model)
	if err != nil {
		panic(err)
	}
	return cols
}

func counterColumns(c boxscore.Counters) CounterColumns {
	return CounterColumns(c)
}

func (c CounterColumns) counters() boxscore.Counters {
	return boxscore.Counters(c)
}

type teamGameStatsModel struct {
	GameID  string `db:"game_public_id"`
	TeamID  string `db:"team_id"`
	Quarter int    `db:"quarter"`
	CounterColumns
	UpdatedAt time.Time `db:"updated_at"`
}

type playerGameStatsModel struct {
	GameID   string `db:"game_public_id"`
	PlayerID string `db:"player_id"`
	Quarter  int    `db:"quarter"`
	TeamID   string `db:"team_id"`
	CounterColumns
	PlusMinus int       `db:"plus_minus"`
	ShotChart []byte    `db:"shot_chart"`
	UpdatedAt time.Time `db:"updated_at"`
}

// playerGameStatsIncrementModel leaves annotations out so increments never overwrite them.
type playerGameStatsIncrementModel struct {
	GameID   string `db:"game_public_id"`
	PlayerID string `db:"player_id"`
	Quarter  int    `db:"quarter"`
	TeamID   string `db:"team_id"`
	CounterColumns
	UpdatedAt time.Time `db:"updated_at"`
}

type appliedEventModel struct {
	GameID    string    `db:"game_public_id"`
	EventID   string    `db:"event_public_id"`
	AppliedAt time.Time `db:"applied_at"`
}

type playerSeasonStatsModel struct {
	PlayerID   string `db:"player_id"`
	TeamID     string `db:"team_id"`
	SeasonYear int    `db:"season_year"`
	CounterColumns
	GamesPlayed  int       `db:"games_played"`
	GamesStarted int       `db:"games_started"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type seasonRollupModel struct {
	PlayerID   string    `db:"player_id"`
	GameID     string    `db:"game_public_id"`
	TeamID     string    `db:"team_id"`
	SeasonYear int       `db:"season_year"`
	Started    bool      `db:"started"`
	RolledUpAt time.Time `db:"rolled_up_at"`
}

func teamRowFromModel(row teamGameStatsModel) boxscore.GameStats {
	return boxscore.GameStats{
		GameID:    row.GameID,
		TeamID:    row.TeamID,
		Quarter:   row.Quarter,
		Counters:  row.counters(),
		UpdatedAt: row.UpdatedAt,
	}
}

func playerRowFromModel(row playerGameStatsModel) boxscore.PlayerGameStats {
	return boxscore.PlayerGameStats{
		GameID:    row.GameID,
		PlayerID:  row.PlayerID,
		TeamID:    row.TeamID,
		Quarter:   row.Quarter,
		Counters:  row.counters(),
		PlusMinus: row.PlusMinus,
		ShotChart: row.ShotChart,
		UpdatedAt: row.UpdatedAt,
	}
}

func seasonRowFromModel(row playerSeasonStatsModel) boxscore.PlayerSeasonStats {
	return boxscore.PlayerSeasonStats{
		PlayerID:     row.PlayerID,
		TeamID:       row.TeamID,
		SeasonYear:   row.SeasonYear,
		Counters:     row.counters(),
		GamesPlayed:  row.GamesPlayed,
		GamesStarted: row.GamesStarted,
		UpdatedAt:    row.UpdatedAt,
	}
}
