package store

import (
	"context"

	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

// RoundRepository persists rounds and their lifecycle status.
type RoundRepository interface {
	CreateRound(ctx context.Context, r rounds.Round) error
	GetRound(ctx context.Context, id string) (rounds.Round, error)
	// ListRounds returns the rounds of a season ordered by number; season 0 lists every round.
	ListRounds(ctx context.Context, season int) ([]rounds.Round, error)
	SetRoundStatus(ctx context.Context, id string, status rounds.Status) error
}

// AvailabilityRepository persists declarations and substitute assignments.
type AvailabilityRepository interface {
	SaveDeclaration(ctx context.Context, d availability.Declaration) error
	ListDeclarations(ctx context.Context, roundID string) ([]availability.Declaration, error)
	SaveSubstitution(ctx context.Context, s availability.Substitution) error
	ListSubstitutions(ctx context.Context, roundID string) ([]availability.Substitution, error)
}

// FoursomeRepository persists a round's foursomes and their members.
type FoursomeRepository interface {
	// ListFoursomes returns the round's foursomes ordered by tee time slot.
	ListFoursomes(ctx context.Context, roundID string) ([]foursomes.Foursome, error)
	// ReplaceFoursomes deletes every foursome of the round and writes set.
	ReplaceFoursomes(ctx context.Context, roundID string, set []foursomes.Foursome) error
	// ReplaceMembers swaps the member list of one existing foursome.
	ReplaceMembers(ctx context.Context, foursomeID string, members []foursomes.Member) error
}

// ScoreRepository persists score cards keyed by round and player.
type ScoreRepository interface {
	GetScore(ctx context.Context, id string) (scores.Score, error)
	FindScore(ctx context.Context, roundID string, player players.Player) (scores.Score, error)
	// SaveScore upserts on (round, player).
	SaveScore(ctx context.Context, s scores.Score) error
	SetScoreLocked(ctx context.Context, id string, locked bool) error
	ListScores(ctx context.Context, roundID string) ([]scores.Score, error)
	// EligibleGrossScores returns a golfer's locked, complete, non-substitute
	// gross scores, most recent round first.
	EligibleGrossScores(ctx context.Context, golferID string, limit int) ([]int, error)
}

// PointsRepository persists finalized round points.
type PointsRepository interface {
	// ReplaceRoundPoints upserts rows by (round, team) and drops teams absent from rows.
	ReplaceRoundPoints(ctx context.Context, roundID string, rows []scores.RoundPoints) error
	ListRoundPoints(ctx context.Context, roundID string) ([]scores.RoundPoints, error)
	// ListSeasonPoints returns points from the completed rounds of a season.
	ListSeasonPoints(ctx context.Context, season int) ([]scores.RoundPoints, error)
}

// HandicapRepository persists handicaps and their audit history.
type HandicapRepository interface {
	GetHandicap(ctx context.Context, golferID string) (handicaps.Handicap, error)
	SaveHandicap(ctx context.Context, h handicaps.Handicap) error
	AddHandicapHistory(ctx context.Context, h handicaps.History) error
	// ListHandicapHistory returns the golfer's history, newest first.
	ListHandicapHistory(ctx context.Context, golferID string) ([]handicaps.History, error)
}

// Repository is the full set of league persistence operations.
type Repository interface {
	RoundRepository
	AvailabilityRepository
	FoursomeRepository
	ScoreRepository
	PointsRepository
	HandicapRepository
}

// Store is a Repository that can run work atomically.
type Store interface {
	Repository
	// InTx runs fn against a transactional view. Returning an error discards every write fn made.
	InTx(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
