package handicaps

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	"github.com/preston-bernstein/golf-league-service/internal/handicap"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/providers"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

const (
	// ReasonAutomatic is recorded on history rows written after finalization.
	ReasonAutomatic = "Auto-calculated after round finalization"
	// ReasonManualDefault is recorded when an override carries no reason.
	ReasonManualDefault = "Manual admin override"
)

// Deps wires a Service.
type Deps struct {
	Store      store.Store
	Provider   providers.ScoreHistoryProvider
	Calculator *handicap.Calculator
	Recorder   *metrics.Recorder
	Events     *events.Emitter
	Logger     *slog.Logger
	Clock      clockwork.Clock
}

// Service maintains golfers' handicaps and their audit trail.
type Service struct {
	store    store.Store
	provider providers.ScoreHistoryProvider
	calc     *handicap.Calculator
	recorder *metrics.Recorder
	events   *events.Emitter
	logger   *slog.Logger
	clock    clockwork.Clock
}

// NewService constructs a Service. A nil Provider reads score history from the store.
func NewService(d Deps) *Service {
	if d.Provider == nil {
		d.Provider = providers.NewStoreProvider(d.Store)
	}
	if d.Calculator == nil {
		d.Calculator = handicap.NewCalculator(0, 0, 0)
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	return &Service{
		store:    d.Store,
		provider: d.Provider,
		calc:     d.Calculator,
		recorder: d.Recorder,
		events:   d.Events,
		logger:   d.Logger,
		clock:    d.Clock,
	}
}

// Get returns a golfer's current handicap.
func (s *Service) Get(ctx context.Context, golferID string) (model.Handicap, error) {
	return s.store.GetHandicap(ctx, golferID)
}

// History returns a golfer's handicap changes, newest first.
func (s *Service) History(ctx context.Context, golferID string) ([]model.History, error) {
	return s.store.ListHandicapHistory(ctx, golferID)
}

// RecalculateForGolfers recomputes each golfer's handicap from their recent
// eligible scores. Golfers with no eligible scores keep their handicap.
// Automatic recalculation replaces a manual override.
func (s *Service) RecalculateForGolfers(ctx context.Context, golferIDs []string, actor string) ([]model.Handicap, error) {
	var out []model.Handicap
	for _, id := range golferIDs {
		h, ok, err := s.recalculate(ctx, id, actor)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Service) recalculate(ctx context.Context, golferID, actor string) (h model.Handicap, updated bool, err error) {
	start := time.Now()
	defer func() { s.recorder.RecordOperation(metrics.OpHandicapRecalc, time.Since(start), err) }()

	gross, err := s.provider.EligibleGrossScores(ctx, golferID, s.calc.Window())
	if err != nil {
		return model.Handicap{}, false, err
	}
	if len(gross) == 0 {
		return model.Handicap{}, false, nil
	}
	res, err := s.calc.Calculate(gross)
	if err != nil {
		return model.Handicap{}, false, err
	}

	now := s.clock.Now().UTC()
	h = model.Handicap{
		GolferID:         golferID,
		Current:          res.Value,
		RoundsPlayed:     res.Considered,
		LastCalculatedAt: now,
		IsManualOverride: false,
	}
	entry := model.History{
		ID:         uuid.NewString(),
		GolferID:   golferID,
		Value:      res.Value,
		Method:     model.MethodCalculated,
		ScoresUsed: res.Used,
		ChangedBy:  actor,
		Reason:     ReasonAutomatic,
		CreatedAt:  now,
	}
	if err := s.save(ctx, h, entry); err != nil {
		return model.Handicap{}, false, err
	}

	logging.Info(s.log(ctx), "handicap recalculated",
		logging.FieldGolferID, golferID, "handicap", res.Value, logging.FieldCount, res.Considered)
	s.events.Emit(ctx, events.HandicapUpdated, map[string]any{
		"golferId": golferID,
		"value":    res.Value,
		"method":   model.MethodCalculated,
	})
	return h, true, nil
}

// Set records an administrator's manual handicap. The value is floored at 0
// and rounded to a tenth.
func (s *Service) Set(ctx context.Context, caller domain.Caller, golferID string, value float64, reason string) (h model.Handicap, err error) {
	start := time.Now()
	defer func() { s.recorder.RecordOperation(metrics.OpHandicapManual, time.Since(start), err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return model.Handicap{}, err
	}
	if golferID == "" {
		return model.Handicap{}, domain.Validation("golferId", "golfer id is required")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return model.Handicap{}, domain.Validation("handicap", "handicap must be a finite number")
	}
	if reason == "" {
		reason = ReasonManualDefault
	}

	v := handicap.Manual(value)
	now := s.clock.Now().UTC()
	h = model.Handicap{GolferID: golferID, Current: v, LastCalculatedAt: now, IsManualOverride: true}
	if prev, err := s.store.GetHandicap(ctx, golferID); err == nil {
		h.RoundsPlayed = prev.RoundsPlayed
	} else if _, ok := domain.AsNotFound(err); !ok {
		return model.Handicap{}, err
	}

	entry := model.History{
		ID:         uuid.NewString(),
		GolferID:   golferID,
		Value:      v,
		Method:     model.MethodManual,
		ScoresUsed: []int{},
		ChangedBy:  caller.Actor(),
		Reason:     reason,
		CreatedAt:  now,
	}
	if err := s.save(ctx, h, entry); err != nil {
		return model.Handicap{}, err
	}

	logging.Info(s.log(ctx), "handicap overridden",
		logging.FieldGolferID, golferID, "handicap", v, logging.FieldActor, caller.Actor())
	s.events.Emit(ctx, events.HandicapUpdated, map[string]any{
		"golferId": golferID,
		"value":    v,
		"method":   model.MethodManual,
	})
	return h, nil
}

func (s *Service) save(ctx context.Context, h model.Handicap, entry model.History) error {
	return s.store.InTx(ctx, func(repo store.Repository) error {
		if err := repo.SaveHandicap(ctx, h); err != nil {
			return err
		}
		return repo.AddHandicapHistory(ctx, entry)
	})
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}
