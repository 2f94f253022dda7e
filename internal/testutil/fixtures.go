package testutil

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
)

// FixtureSeason is the season used by round fixtures.
const FixtureSeason = 2025

// Teams returns the eight fixture team ids t1..t8.
func Teams() []string {
	out := make([]string, foursomes.GolfersPerRound)
	for i := range out {
		out[i] = fmt.Sprintf("t%d", i+1)
	}
	return out
}

// Golfers returns one declared golfer per fixture team: g1 plays for t1, and so on.
func Golfers() []foursomes.Golfer {
	out := make([]foursomes.Golfer, 0, foursomes.GolfersPerRound)
	for i, team := range Teams() {
		id := fmt.Sprintf("g%d", i+1)
		out = append(out, foursomes.Golfer{Player: players.Member(id), TeamID: team, DisplayName: "Golfer " + id})
	}
	return out
}

// Round returns round number n of the fixture season, dated one week apart.
func Round(id string, n int, status rounds.Status) rounds.Round {
	return rounds.Round{
		ID:     id,
		Season: FixtureSeason,
		Number: n,
		Date:   fmt.Sprintf("%d-05-%02d", FixtureSeason, 1+7*(n-1)),
		Status: status,
	}
}

// FullCard returns a fully entered card: 4,4,4,5,3,4,3,4,5 (gross 36).
func FullCard() []int {
	return []int{4, 4, 4, 5, 3, 4, 3, 4, 5}
}

// CardWithGross returns a complete card that sums to gross. gross must be at least 9.
func CardWithGross(gross int) []int {
	holes := make([]int, 9)
	for i := range holes {
		holes[i] = gross / 9
	}
	for i := 0; i < gross%9; i++ {
		holes[i]++
	}
	return holes
}

// DeclarationSaver is the slice of the store the availability helpers need.
type DeclarationSaver interface {
	SaveDeclaration(ctx context.Context, d availability.Declaration) error
}

// DeclareIn marks every golfer as "in" for the round.
func DeclareIn(ctx context.Context, s DeclarationSaver, roundID string, golfers []foursomes.Golfer) error {
	for _, g := range golfers {
		err := s.SaveDeclaration(ctx, availability.Declaration{
			RoundID:     roundID,
			GolferID:    g.Player.GolferID,
			TeamID:      g.TeamID,
			DisplayName: g.DisplayName,
			Status:      availability.StatusIn,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
