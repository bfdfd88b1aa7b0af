package httpapi

import (
	"math"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
	"github.com/riskibarqy/courtstats/internal/usecase"
)

type createGameRequest struct {
	ID             string   `json:"id" validate:"omitempty,max=64"`
	SeasonYear     int      `json:"season_year" validate:"required,gt=0"`
	HomeTeamID     string   `json:"home_team_id" validate:"required,max=64"`
	AwayTeamID     string   `json:"away_team_id" validate:"required,max=64,nefield=HomeTeamID"`
	HomeTracking   string   `json:"home_tracking" validate:"omitempty,oneof=BY_PLAYER BY_TEAM"`
	AwayTracking   string   `json:"away_tracking" validate:"omitempty,oneof=BY_PLAYER BY_TEAM"`
	HomeStarterIDs []string `json:"home_starter_ids" validate:"omitempty,max=5,dive,required"`
	AwayStarterIDs []string `json:"away_starter_ids" validate:"omitempty,max=5,dive,required"`
	StartsAt       string   `json:"starts_at" validate:"omitempty"`
}

type recordEventRequest struct {
	Side           string             `json:"side" validate:"required,oneof=HOME AWAY home away"`
	Type           string             `json:"type" validate:"required"`
	PlayerID       string             `json:"player_id" validate:"omitempty,max=64"`
	ElapsedSeconds int                `json:"elapsed_seconds" validate:"gte=0"`
	Quarter        int                `json:"quarter" validate:"gte=0"`
	ReboundKind    string             `json:"rebound_kind" validate:"omitempty"`
	FoulKind       string             `json:"foul_kind" validate:"omitempty"`
	Shot           *shotDetailPayload `json:"shot,omitempty"`
}

type shotDetailPayload struct {
	LocationX      *float64 `json:"location_x,omitempty"`
	LocationY      *float64 `json:"location_y,omitempty"`
	DistanceFeet   *float64 `json:"distance_feet,omitempty" validate:"omitempty,gte=0"`
	Result         string   `json:"result,omitempty"`
	AssistPlayerID string   `json:"assist_player_id,omitempty"`
	PointsValue    *int     `json:"points_value,omitempty" validate:"omitempty,gte=0,lte=3"`
}

type annotatePlayerRequest struct {
	Quarter   int    `json:"quarter" validate:"gte=0"`
	PlusMinus int    `json:"plus_minus"`
	ShotChart []byte `json:"shot_chart,omitempty"`
}

type rollupGameRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	GameID   string `json:"game_id" validate:"required"`
}

type recalculateGamesRequest struct {
	GameIDs    []string `json:"game_ids" validate:"required,min=1,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,gte=1,lte=64"`
}

type gameDTO struct {
	ID             string   `json:"id"`
	SeasonYear     int      `json:"season_year"`
	HomeTeamID     string   `json:"home_team_id"`
	AwayTeamID     string   `json:"away_team_id"`
	HomeTracking   string   `json:"home_tracking"`
	AwayTracking   string   `json:"away_tracking"`
	HomeStarterIDs []string `json:"home_starter_ids"`
	AwayStarterIDs []string `json:"away_starter_ids"`
	Status         string   `json:"status"`
	StartsAt       string   `json:"starts_at,omitempty"`
}

type eventDTO struct {
	ID             string         `json:"id"`
	GameID         string         `json:"game_id"`
	Side           string         `json:"side"`
	Type           string         `json:"type"`
	PlayerID       string         `json:"player_id,omitempty"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	Quarter        int            `json:"quarter,omitempty"`
	ReboundKind    string         `json:"rebound_kind,omitempty"`
	FoulKind       string         `json:"foul_kind,omitempty"`
	Shot           *shotDetailDTO `json:"shot,omitempty"`
	Sequence       int64          `json:"sequence"`
	RecordedAt     string         `json:"recorded_at"`
}

type shotDetailDTO struct {
	LocationX      *float64 `json:"location_x,omitempty"`
	LocationY      *float64 `json:"location_y,omitempty"`
	DistanceFeet   *float64 `json:"distance_feet,omitempty"`
	Result         string   `json:"result,omitempty"`
	AssistPlayerID string   `json:"assist_player_id,omitempty"`
	PointsValue    *int     `json:"points_value,omitempty"`
}

type applyResultDTO struct {
	Applied   bool     `json:"applied"`
	Duplicate bool     `json:"duplicate"`
	Noop      bool     `json:"noop"`
	Warnings  []string `json:"warnings,omitempty"`
}

type recordEventResponse struct {
	Event eventDTO       `json:"event"`
	Apply applyResultDTO `json:"apply"`
}

type removeEventResponse struct {
	Event       eventDTO                  `json:"event"`
	Recalculate usecase.RecalculateResult `json:"recalculate"`
}

type countersDTO struct {
	Points                 int     `json:"points"`
	FieldGoalsMade         int     `json:"field_goals_made"`
	FieldGoalsAttempted    int     `json:"field_goals_attempted"`
	FieldGoalPercentage    float64 `json:"field_goal_percentage"`
	ThreePointersMade      int     `json:"three_pointers_made"`
	ThreePointersAttempted int     `json:"three_pointers_attempted"`
	ThreePointPercentage   float64 `json:"three_point_percentage"`
	FreeThrowsMade         int     `json:"free_throws_made"`
	FreeThrowsAttempted    int     `json:"free_throws_attempted"`
	FreeThrowPercentage    float64 `json:"free_throw_percentage"`
	ReboundsOffensive      int     `json:"rebounds_offensive"`
	ReboundsDefensive      int     `json:"rebounds_defensive"`
	TotalRebounds          int     `json:"total_rebounds"`
	Assists                int     `json:"assists"`
	Steals                 int     `json:"steals"`
	Blocks                 int     `json:"blocks"`
	Turnovers              int     `json:"turnovers"`
	FoulsPersonal          int     `json:"fouls_personal"`
	FoulsTechnical         int     `json:"fouls_technical"`
	SecondsPlayed          int     `json:"seconds_played"`
	MinutesPlayed          float64 `json:"minutes_played"`
}

type teamStatsDTO struct {
	GameID    string      `json:"game_id"`
	TeamID    string      `json:"team_id"`
	Quarter   int         `json:"quarter"`
	Stats     countersDTO `json:"stats"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

type playerStatsDTO struct {
	GameID    string      `json:"game_id"`
	PlayerID  string      `json:"player_id"`
	TeamID    string      `json:"team_id"`
	Quarter   int         `json:"quarter"`
	Stats     countersDTO `json:"stats"`
	PlusMinus int         `json:"plus_minus"`
	ShotChart []byte      `json:"shot_chart,omitempty"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

type seasonStatsDTO struct {
	PlayerID        string      `json:"player_id"`
	TeamID          string      `json:"team_id,omitempty"`
	SeasonYear      int         `json:"season_year"`
	GamesPlayed     int         `json:"games_played"`
	GamesStarted    int         `json:"games_started"`
	Stats           countersDTO `json:"stats"`
	PointsPerGame   float64     `json:"points_per_game"`
	ReboundsPerGame float64     `json:"rebounds_per_game"`
	AssistsPerGame  float64     `json:"assists_per_game"`
	MinutesPerGame  float64     `json:"minutes_per_game"`
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:             g.ID,
		SeasonYear:     g.SeasonYear,
		HomeTeamID:     g.HomeTeamID,
		AwayTeamID:     g.AwayTeamID,
		HomeTracking:   string(g.TrackingMode(game.SideHome)),
		AwayTracking:   string(g.TrackingMode(game.SideAway)),
		HomeStarterIDs: nonNil(g.HomeStarterIDs),
		AwayStarterIDs: nonNil(g.AwayStarterIDs),
		Status:         string(g.Status),
		StartsAt:       formatTime(g.StartsAt),
	}
}

func eventToDTO(e gameevent.Event) eventDTO {
	out := eventDTO{
		ID:             e.ID,
		GameID:         e.GameID,
		Side:           string(e.Side),
		Type:           string(e.Type),
		PlayerID:       e.PlayerID,
		ElapsedSeconds: e.ElapsedSeconds,
		Quarter:        e.Quarter,
		ReboundKind:    string(e.ReboundKind),
		FoulKind:       string(e.FoulKind),
		Sequence:       e.Sequence,
		RecordedAt:     formatTime(e.RecordedAt),
	}
	if e.Shot != (gameevent.ShotDetail{}) {
		out.Shot = &shotDetailDTO{
			LocationX:      e.Shot.LocationX,
			LocationY:      e.Shot.LocationY,
			DistanceFeet:   e.Shot.DistanceFeet,
			Result:         e.Shot.Result,
			AssistPlayerID: e.Shot.AssistPlayerID,
			PointsValue:    e.Shot.PointsValue,
		}
	}
	return out
}

func (p *shotDetailPayload) toDomain() gameevent.ShotDetail {
	if p == nil {
		return gameevent.ShotDetail{}
	}
	return gameevent.ShotDetail{
		LocationX:      p.LocationX,
		LocationY:      p.LocationY,
		DistanceFeet:   p.DistanceFeet,
		Result:         p.Result,
		AssistPlayerID: p.AssistPlayerID,
		PointsValue:    p.PointsValue,
	}
}

func applyResultToDTO(r usecase.ApplyResult) applyResultDTO {
	return applyResultDTO{
		Applied:   r.Applied,
		Duplicate: r.Duplicate,
		Noop:      r.Noop,
		Warnings:  r.Warnings,
	}
}

func countersToDTO(c boxscore.Counters) countersDTO {
	return countersDTO{
		Points:                 c.Points,
		FieldGoalsMade:         c.FieldGoalsMade,
		FieldGoalsAttempted:    c.FieldGoalsAttempted,
		FieldGoalPercentage:    round3(c.FieldGoalPercentage()),
		ThreePointersMade:      c.ThreePointersMade,
		ThreePointersAttempted: c.ThreePointersAttempted,
		ThreePointPercentage:   round3(c.ThreePointPercentage()),
		FreeThrowsMade:         c.FreeThrowsMade,
		FreeThrowsAttempted:    c.FreeThrowsAttempted,
		FreeThrowPercentage:    round3(c.FreeThrowPercentage()),
		ReboundsOffensive:      c.ReboundsOffensive,
		ReboundsDefensive:      c.ReboundsDefensive,
		TotalRebounds:          c.TotalRebounds(),
		Assists:                c.Assists,
		Steals:                 c.Steals,
		Blocks:                 c.Blocks,
		Turnovers:              c.Turnovers,
		FoulsPersonal:          c.FoulsPersonal,
		FoulsTechnical:         c.FoulsTechnical,
		SecondsPlayed:          c.SecondsPlayed,
		MinutesPlayed:          round3(c.MinutesPlayed()),
	}
}

func teamStatsToDTO(s boxscore.GameStats) teamStatsDTO {
	return teamStatsDTO{
		GameID:    s.GameID,
		TeamID:    s.TeamID,
		Quarter:   s.Quarter,
		Stats:     countersToDTO(s.Counters),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

func playerStatsToDTO(s boxscore.PlayerGameStats) playerStatsDTO {
	return playerStatsDTO{
		GameID:    s.GameID,
		PlayerID:  s.PlayerID,
		TeamID:    s.TeamID,
		Quarter:   s.Quarter,
		Stats:     countersToDTO(s.Counters),
		PlusMinus: s.PlusMinus,
		ShotChart: s.ShotChart,
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

func seasonStatsToDTO(s boxscore.PlayerSeasonStats) seasonStatsDTO {
	return seasonStatsDTO{
		PlayerID:        s.PlayerID,
		TeamID:          s.TeamID,
		SeasonYear:      s.SeasonYear,
		GamesPlayed:     s.GamesPlayed,
		GamesStarted:    s.GamesStarted,
		Stats:           countersToDTO(s.Counters),
		PointsPerGame:   round3(s.PointsPerGame()),
		ReboundsPerGame: round3(s.ReboundsPerGame()),
		AssistsPerGame:  round3(s.AssistsPerGame()),
		MinutesPerGame:  round3(s.MinutesPerGame()),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
