package availability

import "github.com/preston-bernstein/golf-league-service/internal/domain/players"

// Status is a golfer's declaration for a round.
type Status string

const (
	StatusUndeclared Status = "undeclared"
	StatusIn         Status = "in"
	StatusOut        Status = "out"
)

// SubStatus is the approval state of a substitute request.
type SubStatus string

const (
	SubPending  SubStatus = "pending"
	SubApproved SubStatus = "approved"
	SubDeclined SubStatus = "declined"
)

// Declaration records whether a golfer is playing a round for their team.
type Declaration struct {
	RoundID     string `json:"roundId"`
	GolferID    string `json:"golferId"`
	TeamID      string `json:"teamId"`
	DisplayName string `json:"displayName"`
	Status      Status `json:"status"`
}

// In reports whether the golfer has declared themselves in.
func (d Declaration) In() bool {
	return d.Status == StatusIn
}

// Substitution assigns a substitute to play for a team in one round.
type Substitution struct {
	RoundID      string    `json:"roundId"`
	TeamID       string    `json:"teamId"`
	SubstituteID string    `json:"substituteId"`
	GolferID     string    `json:"golferId,omitempty"`
	DisplayName  string    `json:"displayName"`
	Status       SubStatus `json:"status"`
}

// Approved reports whether the substitute has been approved to play.
func (s Substitution) Approved() bool {
	return s.Status == SubApproved
}

// Player returns the substitute as a player variant.
func (s Substitution) Player() players.Player {
	return players.Substitute(s.SubstituteID, s.GolferID)
}

// ValidStatus reports whether the declaration status is known.
func ValidStatus(s Status) bool {
	return s == StatusUndeclared || s == StatusIn || s == StatusOut
}

// ValidSubStatus reports whether the substitution status is known.
func ValidSubStatus(s SubStatus) bool {
	return s == SubPending || s == SubApproved || s == SubDeclined
}
