package boxscore

import (
	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/domain/gameevent"
)

const WarningReboundKindDefaulted = "rebound kind missing, counted as defensive"

// Classification is the delta one event contributes and the rows it applies to.
type Classification struct {
	Delta      Counters
	TeamKeys   []TeamKey
	PlayerKeys []PlayerKey
	Warnings   []string
}

// IsNoop reports whether applying the classification touches no stat rows.
func (c Classification) IsNoop() bool {
	return c.Delta.IsZero() || (len(c.TeamKeys) == 0 && len(c.PlayerKeys) == 0)
}

// Classify maps an event owned by teamID, recorded under mode, to its statistical delta.
func Classify(evt gameevent.Event, teamID string, mode game.TrackingMode) (Classification, error) {
	if evt.GameID == "" {
		return Classification{}, invalidEvent(evt.ID, "game id is required")
	}
	if teamID == "" {
		return Classification{}, invalidEvent(evt.ID, "team for side %q is unknown", evt.Side)
	}
	if evt.Quarter < 0 {
		return Classification{}, invalidEvent(evt.ID, "quarter must be >= 1 when set, got %d", evt.Quarter)
	}

	delta, warnings, err := deltaFor(evt)
	if err != nil {
		return Classification{}, err
	}

	out := Classification{Delta: delta, Warnings: warnings}
	if evt.Type == gameevent.TypeSubstitution {
		return out, nil
	}

	playerScoped := mode != game.TrackingByTeam
	if playerScoped && !evt.HasPlayer() {
		return Classification{}, invalidEvent(evt.ID, "%s requires a player under %s tracking", evt.Type, game.TrackingByPlayer)
	}

	out.TeamKeys = append(out.TeamKeys, TeamKey{GameID: evt.GameID, TeamID: teamID, Quarter: FullGame})
	if evt.Quarter > 0 {
		out.TeamKeys = append(out.TeamKeys, TeamKey{GameID: evt.GameID, TeamID: teamID, Quarter: evt.Quarter})
	}
	if playerScoped {
		out.PlayerKeys = append(out.PlayerKeys, PlayerKey{GameID: evt.GameID, PlayerID: evt.PlayerID, TeamID: teamID, Quarter: FullGame})
		if evt.Quarter > 0 {
			out.PlayerKeys = append(out.PlayerKeys, PlayerKey{GameID: evt.GameID, PlayerID: evt.PlayerID, TeamID: teamID, Quarter: evt.Quarter})
		}
	}

	return out, nil
}

func deltaFor(evt gameevent.Event) (Counters, []string, error) {
	var warnings []string
	var d Counters

	switch evt.Type {
	case gameevent.TypeTwoPointerMade:
		d.FieldGoalsMade, d.FieldGoalsAttempted = 1, 1
	case gameevent.TypeTwoPointerMissed:
		d.FieldGoalsAttempted = 1
	case gameevent.TypeThreePointerMade:
		d.FieldGoalsMade, d.FieldGoalsAttempted = 1, 1
		d.ThreePointersMade, d.ThreePointersAttempted = 1, 1
	case gameevent.TypeThreePointerMissed:
		d.FieldGoalsAttempted = 1
		d.ThreePointersAttempted = 1
	case gameevent.TypeFreeThrowMade:
		d.FreeThrowsMade, d.FreeThrowsAttempted = 1, 1
	case gameevent.TypeFreeThrowMissed:
		d.FreeThrowsAttempted = 1
	case gameevent.TypeRebound:
		switch evt.ReboundKind {
		case gameevent.ReboundOffensive:
			d.ReboundsOffensive = 1
		case gameevent.ReboundDefensive:
			d.ReboundsDefensive = 1
		case "":
			d.ReboundsDefensive = 1
			warnings = append(warnings, WarningReboundKindDefaulted)
		default:
			return Counters{}, nil, invalidEvent(evt.ID, "unknown rebound kind %q", evt.ReboundKind)
		}
	case gameevent.TypeAssist:
		d.Assists = 1
	case gameevent.TypeSteal:
		d.Steals = 1
	case gameevent.TypeBlock:
		d.Blocks = 1
	case gameevent.TypeTurnover:
		d.Turnovers = 1
	case gameevent.TypeFoul:
		if evt.FoulKind == gameevent.FoulTechnical {
			d.FoulsTechnical = 1
		} else {
			d.FoulsPersonal = 1
		}
	case gameevent.TypeSubstitution:
		return Counters{}, nil, nil
	default:
		return Counters{}, nil, invalidEvent(evt.ID, "unsupported event type %q", evt.Type)
	}

	points, pointWarnings, err := pointsFor(evt)
	if err != nil {
		return Counters{}, nil, err
	}
	d.Points = points
	return d, append(warnings, pointWarnings...), nil
}

func impliedPoints(t gameevent.Type) int {
	switch t {
	case gameevent.TypeTwoPointerMade:
		return 2
	case gameevent.TypeThreePointerMade:
		return 3
	case gameevent.TypeFreeThrowMade:
		return 1
	default:
		return 0
	}
}

func pointsFor(evt gameevent.Event) (int, []string, error) {
	explicit := evt.Shot.PointsValue
	if explicit == nil {
		return impliedPoints(evt.Type), nil, nil
	}

	value := *explicit
	switch {
	case value < 0:
		return 0, nil, invalidEvent(evt.ID, "points value must be >= 0, got %d", value)
	case evt.Type.IsMadeShot():
		if value == 0 {
			return 0, nil, invalidEvent(evt.ID, "%s cannot score 0 points", evt.Type)
		}
		return value, nil, nil
	case evt.Type.IsShot():
		if value != 0 {
			return 0, nil, invalidEvent(evt.ID, "%s cannot score %d points", evt.Type, value)
		}
		return 0, nil, nil
	default:
		if value != 0 {
			return 0, []string{"points value ignored on non-shot event"}, nil
		}
		return 0, nil, nil
	}
}
