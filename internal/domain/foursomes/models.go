package foursomes

import (
	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
)

const (
	// PerRound is the number of foursomes (tee times) in a round.
	PerRound = 2
	// GolfersPerFoursome is the size of a foursome.
	GolfersPerFoursome = 4
	// CartCapacity is the number of golfers sharing a cart.
	CartCapacity = 2
	// GolfersPerRound is the default number of golfer slots across both foursomes.
	GolfersPerRound = PerRound * GolfersPerFoursome
)

// Golfer is the "in" player for a team in a given round.
type Golfer struct {
	Player      players.Player `json:"player"`
	TeamID      string         `json:"teamId"`
	DisplayName string         `json:"displayName"`
}

// Member is one occupied slot of a foursome.
type Member struct {
	FoursomeID  string         `json:"foursomeId"`
	Player      players.Player `json:"player"`
	TeamID      string         `json:"teamId"`
	CartNumber  int            `json:"cartNumber"`
	DisplayName string         `json:"displayName,omitempty"`
}

// IsSubstitute reports whether the slot is held by a substitute.
func (m Member) IsSubstitute() bool {
	return m.Player.IsSubstitute()
}

// Foursome is a tee-time group. Members are ordered by cart, then position within the cart.
type Foursome struct {
	ID          string   `json:"id"`
	RoundID     string   `json:"roundId"`
	TeeTimeSlot int      `json:"teeTimeSlot"`
	Members     []Member `json:"members"`
}

// Cart returns the members riding in cart n, in slot order.
func (f Foursome) Cart(n int) []Member {
	var out []Member
	for _, m := range f.Members {
		if m.CartNumber == n {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy of the foursome.
func (f Foursome) Clone() Foursome {
	out := f
	out.Members = append([]Member(nil), f.Members...)
	return out
}

// Assignment is the output of the generator: two foursomes and the repeat-pairing score.
type Assignment struct {
	Foursomes [PerRound]Foursome `json:"foursomes"`
	Score     int                `json:"score"`
	Trials    int                `json:"trials"`
}

// NewMember builds a member occupying a cart slot.
func NewMember(foursomeID string, g Golfer, cart int) Member {
	return Member{
		FoursomeID:  foursomeID,
		Player:      g.Player,
		TeamID:      g.TeamID,
		CartNumber:  cart,
		DisplayName: g.DisplayName,
	}
}

// Validate checks the cross-foursome invariants: carts are 1 or 2 and hold at
// most two golfers, and each team contributes at most one golfer to the round.
func Validate(set []Foursome) error {
	teams := make(map[string]int)
	seen := make(map[string]int)
	for i, f := range set {
		counts := map[int]int{}
		for _, m := range f.Members {
			if m.CartNumber != 1 && m.CartNumber != 2 {
				return domain.Validation("cartNumber", "foursome %d has invalid cart %d", i+1, m.CartNumber)
			}
			counts[m.CartNumber]++
			if counts[m.CartNumber] > CartCapacity {
				return domain.Validation("cartNumber", "foursome %d cart %d has more than %d golfers", i+1, m.CartNumber, CartCapacity)
			}
			if m.TeamID == "" {
				return domain.Validation("teamId", "foursome %d has a member without a team", i+1)
			}
			if !m.Player.Valid() {
				return domain.Validation("player", "foursome %d has a member without a golfer or substitute reference", i+1)
			}
			teams[m.TeamID]++
			if teams[m.TeamID] > 1 {
				return domain.Validation("teamId", "team %s appears more than once", m.TeamID)
			}
			seen[m.Player.Key()]++
			if seen[m.Player.Key()] > 1 {
				return domain.Validation("player", "%s appears more than once", m.Player.Key())
			}
		}
	}
	return nil
}
