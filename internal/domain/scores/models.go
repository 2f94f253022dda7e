package scores

import (
	"math"
	"time"

	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
)

// Holes is the number of holes in a league round.
const Holes = 9

// State is where a score sits in its entry lifecycle.
type State string

const (
	StateUnscored         State = "unscored"
	StatePartiallyEntered State = "partially_entered"
	StateFullyEntered     State = "fully_entered"
	StateLocked           State = "locked"
)

// Score is one player's hole-by-hole card for a round. A zero hole means not yet entered.
type Score struct {
	ID             string         `json:"id"`
	RoundID        string         `json:"roundId"`
	Player         players.Player `json:"player"`
	TeamID         string         `json:"teamId"`
	HoleScores     []int          `json:"holeScores"`
	HandicapAtTime float64        `json:"handicapAtTime"`
	GrossScore     int            `json:"grossScore"`
	NetScore       *float64       `json:"netScore"`
	IsLocked       bool           `json:"isLocked"`
	IsSubstitute   bool           `json:"isSubstitute"`
	SubmittedBy    string         `json:"submittedBy,omitempty"`
	SubmittedAt    time.Time      `json:"submittedAt"`
}

// Entered counts holes with a recorded stroke count.
func (s Score) Entered() int {
	n := 0
	for _, h := range s.HoleScores {
		if h > 0 {
			n++
		}
	}
	return n
}

// Complete reports whether every hole has been entered.
func (s Score) Complete() bool {
	return len(s.HoleScores) == Holes && s.Entered() == Holes
}

// State derives the lifecycle state from the card.
func (s Score) State() State {
	switch {
	case s.IsLocked:
		return StateLocked
	case s.Complete():
		return StateFullyEntered
	case s.Entered() > 0:
		return StatePartiallyEntered
	default:
		return StateUnscored
	}
}

// Clone returns a copy that does not share the hole slice or net pointer.
func (s Score) Clone() Score {
	out := s
	out.HoleScores = append([]int(nil), s.HoleScores...)
	if s.NetScore != nil {
		v := *s.NetScore
		out.NetScore = &v
	}
	return out
}

// ToPar is a card expressed relative to the course pars. Unentered holes are nil.
type ToPar struct {
	Holes []*int `json:"holes"`
	Total int    `json:"total"`
}

// View is a score as returned to clients.
type View struct {
	Score
	State State `json:"state"`
	ToPar ToPar `json:"toPar"`
}

// RoundPoints is a team's finish and points for one finalized round.
type RoundPoints struct {
	RoundID        string   `json:"roundId"`
	TeamID         string   `json:"teamId"`
	NetScore       float64  `json:"netScore"`
	FinishPosition int      `json:"finishPosition"`
	PointsEarned   float64  `json:"pointsEarned"`
	IsTied         bool     `json:"isTied"`
	TiedWithTeams  []string `json:"tiedWithTeams"`
}

// Clone returns a copy that does not share the tied-teams slice.
func (p RoundPoints) Clone() RoundPoints {
	out := p
	out.TiedWithTeams = append([]string{}, p.TiedWithTeams...)
	return out
}

// Standing is a team's season total.
type Standing struct {
	TeamID       string  `json:"teamId"`
	TotalPoints  float64 `json:"totalPoints"`
	RoundsPlayed int     `json:"roundsPlayed"`
}

// Round1 rounds to one decimal place, halves rounding up.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
