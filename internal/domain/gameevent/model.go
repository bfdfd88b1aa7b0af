package gameevent

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/game"
)

// Type is the closed set of recordable game events.
type Type string

const (
	TypeTwoPointerMade     Type = "TWO_POINTER_MADE"
	TypeTwoPointerMissed   Type = "TWO_POINTER_MISSED"
	TypeThreePointerMade   Type = "THREE_POINTER_MADE"
	TypeThreePointerMissed Type = "THREE_POINTER_MISSED"
	TypeFreeThrowMade      Type = "FREE_THROW_MADE"
	TypeFreeThrowMissed    Type = "FREE_THROW_MISSED"
	TypeRebound            Type = "REBOUND"
	TypeAssist             Type = "ASSIST"
	TypeSteal              Type = "STEAL"
	TypeBlock              Type = "BLOCK"
	TypeTurnover           Type = "TURNOVER"
	TypeFoul               Type = "FOUL"
	TypeSubstitution       Type = "SUBSTITUTION"
)

var knownTypes = map[Type]struct{}{
	TypeTwoPointerMade:     {},
	TypeTwoPointerMissed:   {},
	TypeThreePointerMade:   {},
	TypeThreePointerMissed: {},
	TypeFreeThrowMade:      {},
	TypeFreeThrowMissed:    {},
	TypeRebound:            {},
	TypeAssist:             {},
	TypeSteal:              {},
	TypeBlock:              {},
	TypeTurnover:           {},
	TypeFoul:               {},
	TypeSubstitution:       {},
}

func ParseType(v string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(v)))
	_, ok := knownTypes[t]
	return t, ok
}

func (t Type) IsShot() bool {
	switch t {
	case TypeTwoPointerMade, TypeTwoPointerMissed,
		TypeThreePointerMade, TypeThreePointerMissed,
		TypeFreeThrowMade, TypeFreeThrowMissed:
		return true
	default:
		return false
	}
}

func (t Type) IsMadeShot() bool {
	return t == TypeTwoPointerMade || t == TypeThreePointerMade || t == TypeFreeThrowMade
}

type ReboundKind string

const (
	ReboundOffensive ReboundKind = "OFFENSIVE"
	ReboundDefensive ReboundKind = "DEFENSIVE"
)

type FoulKind string

const (
	FoulPersonal  FoulKind = "PERSONAL"
	FoulTechnical FoulKind = "TECHNICAL"
)

// ShotDetail is optional metadata recorded with an event.
type ShotDetail struct {
	LocationX      *float64
	LocationY      *float64
	DistanceFeet   *float64
	Result         string
	AssistPlayerID string
	// PointsValue overrides the point value implied by the event type.
	PointsValue *int
}

// Event is one recorded occurrence in a game. It is never mutated by aggregation.
type Event struct {
	ID      string
	GameID  string
	Side    game.Side
	Type    Type
	// PlayerID is empty for team-only events.
	PlayerID string
	// ElapsedSeconds is the offset from game start and the ordering key within a game.
	ElapsedSeconds int
	// Quarter is 1-based; 0 means the period was not recorded.
	Quarter     int
	ReboundKind ReboundKind
	FoulKind    FoulKind
	Shot        ShotDetail
	// Sequence is the insertion order assigned by the event store.
	Sequence   int64
	RecordedAt time.Time
}

func (e Event) HasPlayer() bool {
	return strings.TrimSpace(e.PlayerID) != ""
}

// SortCanonical orders events by elapsed time with insertion order as tie-break.
func SortCanonical(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].ElapsedSeconds != events[j].ElapsedSeconds {
			return events[i].ElapsedSeconds < events[j].ElapsedSeconds
		}
		return events[i].Sequence < events[j].Sequence
	})
}
