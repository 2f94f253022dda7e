package providers

import (
	"context"

	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
)

// AvailabilityProvider supplies the golfers currently marked "in" for a round,
// each tagged with the team they represent.
type AvailabilityProvider interface {
	InGolfers(ctx context.Context, roundID string) ([]foursomes.Golfer, error)
}

// SubstituteProvider supplies a round's approved substitutes, one per covered team.
// External substitutes carry no golfer id.
type SubstituteProvider interface {
	ApprovedSubstitutes(ctx context.Context, roundID string) ([]foursomes.Golfer, error)
}

// ScoreHistoryProvider returns a golfer's most recent eligible locked gross scores,
// newest first. Eligibility filtering belongs to the implementation.
type ScoreHistoryProvider interface {
	EligibleGrossScores(ctx context.Context, golferID string, limit int) ([]int, error)
}

// LeagueProvider combines every collaborator the round engine reads from.
type LeagueProvider interface {
	AvailabilityProvider
	SubstituteProvider
	ScoreHistoryProvider
}

// Collaborator names used in logs and metrics.
const (
	NameAvailability = "availability"
	NameSubstitutes  = "substitutes"
	NameScoreHistory = "score_history"
)
