package postgres

import (
	"time"
)

type gameEventTableModel struct {
	Sequence       int64      `db:"sequence"`
	PublicID       string     `db:"public_id"`
	GameID         string     `db:"game_public_id"`
	Side           string     `db:"side"`
	EventType      string     `db:"event_type"`
	PlayerID       string     `db:"player_id"`
	ElapsedSeconds int        `db:"elapsed_seconds"`
	Quarter        int        `db:"quarter"`
	ReboundKind    string     `db:"rebound_kind"`
	FoulKind       string     `db:"foul_kind"`
	ShotDetail     string     `db:"shot_detail"`
	RecordedAt     time.Time  `db:"recorded_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type gameEventInsertModel struct {
	PublicID       string `db:"public_id"`
	GameID         string `db:"game_public_id"`
	Side           string `db:"side"`
	EventType      string `db:"event_type"`
	PlayerID       string `db:"player_id"`
	ElapsedSeconds int    `db:"elapsed_seconds"`
	Quarter        int    `db:"quarter"`
	ReboundKind    string `db:"rebound_kind"`
	FoulKind       string `db:"foul_kind"`
	ShotDetail     string `db:"shot_detail"`
}

// shotDetailDocument is the JSONB shape of gameevent.ShotDetail.
type shotDetailDocument struct {
	LocationX      *float64 `json:"location_x,omitempty"`
	LocationY      *float64 `json:"location_y,omitempty"`
	DistanceFeet   *float64 `json:"distance_feet,omitempty"`
	Result         string   `json:"result,omitempty"`
	AssistPlayerID string   `json:"assist_player_id,omitempty"`
	PointsValue    *int     `json:"points_value,omitempty"`
}
