package game

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// TrackingMode controls whether player-level statistics are derivable for a team in a game.
type TrackingMode string

const (
	TrackingByPlayer TrackingMode = "BY_PLAYER"
	TrackingByTeam   TrackingMode = "BY_TEAM"
)

type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// Status is the per-game lifecycle: Recording -> Completed -> RolledUp.
type Status string

const (
	StatusRecording Status = "RECORDING"
	StatusCompleted Status = "COMPLETED"
	StatusRolledUp  Status = "ROLLED_UP"
)

var ErrStatusConflict = errors.New("game status changed concurrently")

// Game is the metadata the aggregation engine needs about one basketball game.
type Game struct {
	ID             string
	SeasonYear     int
	HomeTeamID     string
	AwayTeamID     string
	HomeTracking   TrackingMode
	AwayTracking   TrackingMode
	HomeStarterIDs []string
	AwayStarterIDs []string
	Status         Status
	StartsAt       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (g Game) TeamID(side Side) (string, bool) {
	switch side {
	case SideHome:
		return g.HomeTeamID, g.HomeTeamID != ""
	case SideAway:
		return g.AwayTeamID, g.AwayTeamID != ""
	default:
		return "", false
	}
}

// SideOf reports which side teamID plays on in this game.
func (g Game) SideOf(teamID string) (Side, bool) {
	switch teamID {
	case "":
		return "", false
	case g.HomeTeamID:
		return SideHome, true
	case g.AwayTeamID:
		return SideAway, true
	default:
		return "", false
	}
}

// TrackingMode returns the recording mode of a side. Unset modes default to BY_PLAYER.
func (g Game) TrackingMode(side Side) TrackingMode {
	var mode TrackingMode
	switch side {
	case SideHome:
		mode = g.HomeTracking
	case SideAway:
		mode = g.AwayTracking
	}
	if mode == "" {
		return TrackingByPlayer
	}
	return mode
}

func (g Game) IsStarter(playerID string) bool {
	if playerID == "" {
		return false
	}
	return slices.Contains(g.HomeStarterIDs, playerID) || slices.Contains(g.AwayStarterIDs, playerID)
}

// AcceptsEvents reports whether events may still mutate the game's box score.
func (g Game) AcceptsEvents() bool {
	return g.Status != StatusRolledUp
}

func ParseSide(v string) (Side, bool) {
	switch Side(strings.ToUpper(strings.TrimSpace(v))) {
	case SideHome:
		return SideHome, true
	case SideAway:
		return SideAway, true
	default:
		return "", false
	}
}

func ParseTrackingMode(v string) (TrackingMode, bool) {
	switch TrackingMode(strings.ToUpper(strings.TrimSpace(v))) {
	case "", TrackingByPlayer:
		return TrackingByPlayer, true
	case TrackingByTeam:
		return TrackingByTeam, true
	default:
		return "", false
	}
}

func NormalizeStatus(v string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(v))) {
	case StatusCompleted:
		return StatusCompleted
	case StatusRolledUp:
		return StatusRolledUp
	default:
		return StatusRecording
	}
}
