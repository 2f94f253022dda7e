package standings

import (
	"cmp"
	"slices"

	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

// Season totals points and rounds played per team, best first. Ties on points
// are ordered by team id.
func Season(points []scores.RoundPoints) []scores.Standing {
	byTeam := make(map[string]*scores.Standing)
	for _, p := range points {
		st, ok := byTeam[p.TeamID]
		if !ok {
			st = &scores.Standing{TeamID: p.TeamID}
			byTeam[p.TeamID] = st
		}
		st.TotalPoints += p.PointsEarned
		st.RoundsPlayed++
	}
	out := make([]scores.Standing, 0, len(byTeam))
	for _, st := range byTeam {
		st.TotalPoints = scores.Round1(st.TotalPoints)
		out = append(out, *st)
	}
	slices.SortFunc(out, func(a, b scores.Standing) int {
		if n := cmp.Compare(b.TotalPoints, a.TotalPoints); n != 0 {
			return n
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})
	return out
}
