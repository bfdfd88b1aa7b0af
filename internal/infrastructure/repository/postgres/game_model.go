package postgres

import (
	"time"

	"github.com/lib/pq"
)

type gameTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	SeasonYear     int            `db:"season_year"`
	HomeTeamID     string         `db:"home_team_id"`
	AwayTeamID     string         `db:"away_team_id"`
	HomeTracking   string         `db:"home_tracking"`
	AwayTracking   string         `db:"away_tracking"`
	HomeStarterIDs pq.StringArray `db:"home_starter_ids"`
	AwayStarterIDs pq.StringArray `db:"away_starter_ids"`
	Status         string         `db:"status"`
	StartsAt       time.Time      `db:"starts_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type gameInsertModel struct {
	PublicID       string         `db:"public_id"`
	SeasonYear     int            `db:"season_year"`
	HomeTeamID     string         `db:"home_team_id"`
	AwayTeamID     string         `db:"away_team_id"`
	HomeTracking   string         `db:"home_tracking"`
	AwayTracking   string         `db:"away_tracking"`
	HomeStarterIDs pq.StringArray `db:"home_starter_ids"`
	AwayStarterIDs pq.StringArray `db:"away_starter_ids"`
	Status         string         `db:"status"`
	StartsAt       time.Time      `db:"starts_at"`
}
