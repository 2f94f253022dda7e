package standings

import (
	"cmp"
	"slices"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

// DefaultPointsTable awards points by finish position; positions beyond it earn 0.
var DefaultPointsTable = []float64{8, 7, 6, 5, 4, 3, 2, 1}

// TeamScore is the net score that represents a team in a round.
type TeamScore struct {
	TeamID       string
	ScoreID      string
	Net          float64
	IsSubstitute bool
}

// Calculator turns team net scores into finish positions and points.
type Calculator struct {
	table []float64
}

// NewCalculator builds a calculator over table, or the default table when empty.
func NewCalculator(table []float64) *Calculator {
	if len(table) == 0 {
		table = DefaultPointsTable
	}
	return &Calculator{table: append([]float64(nil), table...)}
}

// SelectTeamScores picks one locked net score per team, preferring the
// declared golfer's score over a substitute's. Unlocked or incomplete scores are ignored.
func SelectTeamScores(all []scores.Score) []TeamScore {
	byTeam := make(map[string]TeamScore)
	var order []string
	for _, pass := range []bool{false, true} {
		for _, s := range all {
			if !s.IsLocked || s.NetScore == nil || s.IsSubstitute != pass {
				continue
			}
			if _, ok := byTeam[s.TeamID]; ok {
				continue
			}
			byTeam[s.TeamID] = TeamScore{TeamID: s.TeamID, ScoreID: s.ID, Net: *s.NetScore, IsSubstitute: s.IsSubstitute}
			order = append(order, s.TeamID)
		}
	}
	out := make([]TeamScore, 0, len(order))
	for _, id := range order {
		out = append(out, byTeam[id])
	}
	return out
}

// Rank orders teams by ascending net score using competition ranking. Tied
// teams share the first position of their group and the mean of the points
// the group occupies, rounded to a tenth.
func (c *Calculator) Rank(roundID string, teams []TeamScore) ([]scores.RoundPoints, error) {
	if len(teams) == 0 {
		return nil, &domain.NoScoresError{RoundID: roundID}
	}
	sorted := append([]TeamScore(nil), teams...)
	slices.SortStableFunc(sorted, func(a, b TeamScore) int {
		if n := cmp.Compare(a.Net, b.Net); n != 0 {
			return n
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	out := make([]scores.RoundPoints, 0, len(sorted))
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Net == sorted[i].Net {
			j++
		}
		bucket := sorted[i:j]
		total := 0.0
		for pos := i; pos < j; pos++ {
			total += c.pointsAt(pos)
		}
		points := scores.Round1(total / float64(len(bucket)))
		tied := len(bucket) > 1
		for _, team := range bucket {
			rp := scores.RoundPoints{
				RoundID:        roundID,
				TeamID:         team.TeamID,
				NetScore:       team.Net,
				FinishPosition: i + 1,
				PointsEarned:   points,
				IsTied:         tied,
				TiedWithTeams:  []string{},
			}
			if tied {
				for _, other := range bucket {
					if other.TeamID != team.TeamID {
						rp.TiedWithTeams = append(rp.TiedWithTeams, other.TeamID)
					}
				}
			}
			out = append(out, rp)
		}
		i = j
	}
	return out, nil
}

func (c *Calculator) pointsAt(index int) float64 {
	if index < len(c.table) {
		return c.table[index]
	}
	return 0
}
