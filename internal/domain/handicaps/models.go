package handicaps

import "time"

// Method tags how a handicap value was produced.
type Method string

const (
	MethodCalculated Method = "calculated"
	MethodManual     Method = "manual"
)

// Handicap is a golfer's current playing handicap.
type Handicap struct {
	GolferID         string    `json:"golferId"`
	Current          float64   `json:"currentHandicap"`
	RoundsPlayed     int       `json:"roundsPlayed"`
	LastCalculatedAt time.Time `json:"lastCalculatedAt"`
	IsManualOverride bool      `json:"isManualOverride"`
}

// History is an audit row written on every handicap change.
type History struct {
	ID         string    `json:"id"`
	GolferID   string    `json:"golferId"`
	Value      float64   `json:"value"`
	Method     Method    `json:"method"`
	ScoresUsed []int     `json:"scoresUsed"`
	ChangedBy  string    `json:"changedBy"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Clone returns a copy that does not share the scores slice.
func (h History) Clone() History {
	out := h
	out.ScoresUsed = append([]int{}, h.ScoresUsed...)
	return out
}
