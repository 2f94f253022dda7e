package players

// Kind distinguishes the two shapes a player slot can hold.
type Kind string

const (
	// KindMember is a registered league golfer, possibly standing in as a substitute.
	KindMember Kind = "member"
	// KindExternalSub is a substitute with no golfer account, known only by substitute id.
	KindExternalSub Kind = "external_sub"
)

// Player identifies whoever occupies a foursome slot or owns a score.
// A registered golfer playing as a substitute is a member with SubstituteID set.
type Player struct {
	Kind         Kind   `json:"kind"`
	GolferID     string `json:"golferId,omitempty"`
	SubstituteID string `json:"substituteId,omitempty"`
}

// Member returns a regular (non-substitute) golfer.
func Member(golferID string) Player {
	return Player{Kind: KindMember, GolferID: golferID}
}

// Substitute returns a substitute player. golferID may be empty for substitutes
// who do not have a golfer account.
func Substitute(substituteID, golferID string) Player {
	if golferID == "" {
		return Player{Kind: KindExternalSub, SubstituteID: substituteID}
	}
	return Player{Kind: KindMember, GolferID: golferID, SubstituteID: substituteID}
}

// IsSubstitute reports whether the player stands in for a team's declared golfer.
func (p Player) IsSubstitute() bool {
	return p.SubstituteID != ""
}

// IsExternal reports whether the player has no golfer account.
func (p Player) IsExternal() bool {
	return p.Kind == KindExternalSub
}

// Key returns a stable identity for maps and storage keys.
func (p Player) Key() string {
	if p.Kind == KindExternalSub {
		return "sub:" + p.SubstituteID
	}
	return "golfer:" + p.GolferID
}

// Valid reports whether the variant carries the reference its kind requires.
func (p Player) Valid() bool {
	switch p.Kind {
	case KindMember:
		return p.GolferID != ""
	case KindExternalSub:
		return p.SubstituteID != "" && p.GolferID == ""
	default:
		return false
	}
}
