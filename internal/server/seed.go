package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/store"
	"github.com/preston-bernstein/golf-league-service/internal/timeutil"
)

const demoRounds = 3

// seedFixtures loads a demo season: three weekly rounds, the first open for
// availability with one golfer per team declared in. Existing rounds are left alone.
func seedFixtures(ctx context.Context, st store.Store, now time.Time, logger *slog.Logger) error {
	season := timeutil.CurrentSeason(now)
	start := now.UTC().Truncate(24 * time.Hour)

	return st.InTx(ctx, func(repo store.Repository) error {
		for n := 1; n <= demoRounds; n++ {
			status := rounds.StatusScheduled
			if n == 1 {
				status = rounds.StatusAvailabilityOpen
			}
			r := rounds.Round{
				ID:     fmt.Sprintf("demo-%d-r%d", season, n),
				Season: season,
				Number: n,
				Date:   timeutil.FormatDate(start.AddDate(0, 0, 7*(n-1))),
				Status: status,
			}
			if err := repo.CreateRound(ctx, r); err != nil {
				if _, ok := domain.AsValidation(err); ok {
					logging.Info(logger, "demo season already seeded", "season", season)
					return nil
				}
				return err
			}
		}

		first := fmt.Sprintf("demo-%d-r1", season)
		for i := 1; i <= foursomes.GolfersPerRound; i++ {
			err := repo.SaveDeclaration(ctx, availability.Declaration{
				RoundID:     first,
				GolferID:    fmt.Sprintf("g%d", i),
				TeamID:      fmt.Sprintf("t%d", i),
				DisplayName: fmt.Sprintf("Golfer %d", i),
				Status:      availability.StatusIn,
			})
			if err != nil {
				return err
			}
		}
		logging.Info(logger, "demo season seeded", "season", season, logging.FieldCount, demoRounds)
		return nil
	})
}
