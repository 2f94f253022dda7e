package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

func TestSeasonTotalsAndOrders(t *testing.T) {
	got := Season([]scores.RoundPoints{
		{RoundID: "r1", TeamID: "t1", PointsEarned: 7.5},
		{RoundID: "r1", TeamID: "t2", PointsEarned: 7.5},
		{RoundID: "r1", TeamID: "t3", PointsEarned: 6},
		{RoundID: "r2", TeamID: "t3", PointsEarned: 8},
		{RoundID: "r2", TeamID: "t1", PointsEarned: 6.5},
		{RoundID: "r2", TeamID: "t2", PointsEarned: 6.5},
	})

	assert.Equal(t, []scores.Standing{
		{TeamID: "t1", TotalPoints: 14, RoundsPlayed: 2},
		{TeamID: "t2", TotalPoints: 14, RoundsPlayed: 2},
		{TeamID: "t3", TotalPoints: 14, RoundsPlayed: 2},
	}, got)
}

func TestSeasonEmpty(t *testing.T) {
	assert.Empty(t, Season(nil))
}
