package server

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/app/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/app/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/app/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/app/scores"
	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	engine "github.com/preston-bernstein/golf-league-service/internal/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/handicap"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/providers"
	"github.com/preston-bernstein/golf-league-service/internal/scoring"
	"github.com/preston-bernstein/golf-league-service/internal/standings"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

type services struct {
	rounds    *rounds.Service
	foursomes *foursomes.Service
	scores    *scores.Service
	handicaps *handicaps.Service
}

type serviceDeps struct {
	cfg       config.Config
	rules     config.Rules
	store     store.Store
	emitter   *events.Emitter
	snapshots snapshotComponents
	recorder  *metrics.Recorder
	logger    *slog.Logger
	clock     clockwork.Clock
}

// buildServices applies the league rules to the engines and wires the app services.
// Collaborator reads go through the retrying provider.
func buildServices(d serviceDeps) services {
	provider := providers.NewRetryingProvider(
		providers.NewStoreProvider(d.store),
		d.logger,
		d.recorder,
		d.cfg.Providers.RetryAttempts,
		d.cfg.Providers.RetryBackoff,
	)

	genOpts := []engine.Option{engine.WithTrials(d.cfg.Generator.Trials)}
	if d.cfg.Generator.Seed != 0 {
		genOpts = append(genOpts, engine.WithSeed(d.cfg.Generator.Seed))
	}

	hc := handicaps.NewService(handicaps.Deps{
		Store:      d.store,
		Provider:   provider,
		Calculator: handicap.NewCalculator(d.rules.Handicap.Window, d.rules.Handicap.BestFraction, d.rules.CoursePar()),
		Recorder:   d.recorder,
		Events:     d.emitter,
		Logger:     d.logger,
		Clock:      d.clock,
	})

	return services{
		rounds: rounds.NewService(rounds.Deps{
			Store:     d.store,
			Points:    standings.NewCalculator(d.rules.PointsTable),
			Handicaps: hc,
			Archives:  d.snapshots.writer,
			Loader:    d.snapshots.store,
			Recorder:  d.recorder,
			Events:    d.emitter,
			Logger:    d.logger,
			Clock:     d.clock,
		}),
		foursomes: foursomes.NewService(foursomes.Deps{
			Store:           d.store,
			Provider:        provider,
			Generator:       engine.NewGenerator(genOpts...),
			GolfersPerRound: d.rules.GolfersPerRound,
			Recorder:        d.recorder,
			Events:          d.emitter,
			Logger:          d.logger,
		}),
		scores: scores.NewService(scores.Deps{
			Store:    d.store,
			Engine:   scoring.New(d.rules.ScoringEngineRules()),
			Recorder: d.recorder,
			Logger:   d.logger,
			Clock:    d.clock,
		}),
		handicaps: hc,
	}
}
