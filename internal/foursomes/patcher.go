package foursomes

import (
	"sort"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
)

// PatchResult is the repaired assignment plus what could not be seated.
type PatchResult struct {
	Foursomes []model.Foursome `json:"foursomes"`
	Changed   []bool           `json:"changed"`
	Unplaced  []model.Golfer   `json:"unplaced,omitempty"`
	Vacant    int              `json:"vacant"`
}

type slot struct {
	team   string
	member *model.Member
}

// Patch repairs an existing two-foursome assignment after availability or
// substitute changes. in lists the golfers currently declared in; subs lists
// the approved substitutes, at most one per team. Members that need no change
// keep their foursome and cart.
func Patch(existing []model.Foursome, in []model.Golfer, subs []model.Golfer) (PatchResult, error) {
	if len(existing) != model.PerRound {
		return PatchResult{}, domain.NotFound("foursomes", "")
	}

	subByTeam := make(map[string]model.Golfer, len(subs))
	for _, s := range subs {
		if _, dup := subByTeam[s.TeamID]; !dup {
			subByTeam[s.TeamID] = s
		}
	}
	inKeys := make(map[string]struct{}, len(in))
	for _, g := range in {
		inKeys[g.Player.Key()] = struct{}{}
	}

	placed := make(map[string]struct{})
	subPlaced := make(map[string]struct{})
	// teams holds every team with a seat, so a round never seats two teammates.
	teams := make(map[string]struct{})
	carts := make([][2][]slot, len(existing))

	for fi, f := range existing {
		members := append([]model.Member(nil), f.Members...)
		sort.SliceStable(members, func(i, j int) bool { return members[i].CartNumber < members[j].CartNumber })
		for _, m := range members {
			ci := cartIndex(m.CartNumber)
			s := slot{team: m.TeamID}
			sub, covered := subByTeam[m.TeamID]
			_, subDone := subPlaced[m.TeamID]
			switch {
			case covered && !subDone:
				nm := model.NewMember(f.ID, sub, m.CartNumber)
				if samePlayer(m, nm) && m.DisplayName != "" && nm.DisplayName == "" {
					nm.DisplayName = m.DisplayName
				}
				s.member = &nm
				subPlaced[m.TeamID] = struct{}{}
				placed[sub.Player.Key()] = struct{}{}
				teams[m.TeamID] = struct{}{}
			case covered:
				// team already seated its substitute elsewhere
			case m.IsSubstitute():
				// substitute no longer approved
			default:
				_, isIn := inKeys[m.Player.Key()]
				_, teamSeated := teams[m.TeamID]
				if isIn && !teamSeated {
					kept := m
					kept.FoursomeID = f.ID
					s.member = &kept
					placed[m.Player.Key()] = struct{}{}
					teams[m.TeamID] = struct{}{}
				}
			}
			carts[fi][ci] = append(carts[fi][ci], s)
		}
		for ci := range carts[fi] {
			for len(carts[fi][ci]) < model.CartCapacity {
				carts[fi][ci] = append(carts[fi][ci], slot{})
			}
		}
	}

	var pending []model.Golfer
	for _, g := range in {
		if _, ok := placed[g.Player.Key()]; ok {
			continue
		}
		if _, covered := subByTeam[g.TeamID]; covered {
			continue
		}
		pending = append(pending, g)
	}
	for _, s := range subs {
		if _, done := subPlaced[s.TeamID]; done {
			continue
		}
		if _, ok := placed[s.Player.Key()]; ok {
			continue
		}
		subPlaced[s.TeamID] = struct{}{}
		pending = append(pending, s)
	}

	// A golfer whose team vacated a slot takes that slot first.
	var rest, unplaced []model.Golfer
	for _, g := range pending {
		if _, ok := teams[g.TeamID]; ok {
			unplaced = append(unplaced, g)
			continue
		}
		if seat(existing, carts, g, func(s slot) bool { return s.team == g.TeamID }) {
			teams[g.TeamID] = struct{}{}
			continue
		}
		rest = append(rest, g)
	}
	for _, g := range rest {
		if _, ok := teams[g.TeamID]; ok {
			unplaced = append(unplaced, g)
			continue
		}
		if !seat(existing, carts, g, func(slot) bool { return true }) {
			unplaced = append(unplaced, g)
			continue
		}
		teams[g.TeamID] = struct{}{}
	}

	result := PatchResult{Unplaced: unplaced}
	for fi, f := range existing {
		out := model.Foursome{ID: f.ID, RoundID: f.RoundID, TeeTimeSlot: f.TeeTimeSlot}
		for ci := range carts[fi] {
			for _, s := range carts[fi][ci] {
				if s.member == nil {
					result.Vacant++
					continue
				}
				out.Members = append(out.Members, *s.member)
			}
		}
		result.Foursomes = append(result.Foursomes, out)
		result.Changed = append(result.Changed, !sameMembers(f.Members, out.Members))
	}
	return result, nil
}

// seat places g in the first open slot accepted by match, walking foursomes in
// order and cart 1 before cart 2.
func seat(existing []model.Foursome, carts [][2][]slot, g model.Golfer, match func(slot) bool) bool {
	for fi := range carts {
		for ci := range carts[fi] {
			for si, s := range carts[fi][ci] {
				if s.member != nil || !match(s) {
					continue
				}
				m := model.NewMember(existing[fi].ID, g, ci+1)
				carts[fi][ci][si] = slot{team: g.TeamID, member: &m}
				return true
			}
		}
	}
	return false
}

func cartIndex(cart int) int {
	if cart == 2 {
		return 1
	}
	return 0
}

func samePlayer(a, b model.Member) bool {
	return a.Player == b.Player && a.TeamID == b.TeamID
}

func sameMembers(before, after []model.Member) bool {
	if len(before) != len(after) {
		return false
	}
	type key struct {
		player players.Player
		team   string
		cart   int
	}
	count := make(map[key]int, len(before))
	for _, m := range before {
		count[key{m.Player, m.TeamID, m.CartNumber}]++
	}
	for _, m := range after {
		k := key{m.Player, m.TeamID, m.CartNumber}
		if count[k] == 0 {
			return false
		}
		count[k]--
	}
	return true
}
