package providers

import (
	"context"

	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

// storeProvider answers collaborator queries from the league store.
type storeProvider struct {
	repo store.Repository
}

// NewStoreProvider returns a LeagueProvider backed by repo.
func NewStoreProvider(repo store.Repository) LeagueProvider {
	return &storeProvider{repo: repo}
}

func (p *storeProvider) InGolfers(ctx context.Context, roundID string) ([]foursomes.Golfer, error) {
	decls, err := p.repo.ListDeclarations(ctx, roundID)
	if err != nil {
		return nil, err
	}
	out := make([]foursomes.Golfer, 0, len(decls))
	for _, d := range decls {
		if !d.In() {
			continue
		}
		out = append(out, foursomes.Golfer{
			Player:      players.Member(d.GolferID),
			TeamID:      d.TeamID,
			DisplayName: d.DisplayName,
		})
	}
	return out, nil
}

func (p *storeProvider) ApprovedSubstitutes(ctx context.Context, roundID string) ([]foursomes.Golfer, error) {
	subs, err := p.repo.ListSubstitutions(ctx, roundID)
	if err != nil {
		return nil, err
	}
	out := make([]foursomes.Golfer, 0, len(subs))
	for _, s := range subs {
		if !s.Approved() {
			continue
		}
		out = append(out, foursomes.Golfer{
			Player:      s.Player(),
			TeamID:      s.TeamID,
			DisplayName: s.DisplayName,
		})
	}
	return out, nil
}

func (p *storeProvider) EligibleGrossScores(ctx context.Context, golferID string, limit int) ([]int, error) {
	return p.repo.EligibleGrossScores(ctx, golferID, limit)
}
