package foursomes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	engine "github.com/preston-bernstein/golf-league-service/internal/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/pairing"
	"github.com/preston-bernstein/golf-league-service/internal/providers"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

// Deps wires a Service.
type Deps struct {
	Store     store.Store
	Provider  providers.LeagueProvider
	Generator *engine.Generator
	// GolfersPerRound is the regular field size before substitutes are accounted for.
	GolfersPerRound int
	Recorder        *metrics.Recorder
	Events          *events.Emitter
	Logger          *slog.Logger
}

// Service generates, repairs and edits a round's foursomes.
type Service struct {
	store           store.Store
	provider        providers.LeagueProvider
	generator       *engine.Generator
	golfersPerRound int
	recorder        *metrics.Recorder
	events          *events.Emitter
	logger          *slog.Logger
}

// NewService constructs a Service. A nil Provider reads collaborators from the store.
func NewService(d Deps) *Service {
	if d.Provider == nil {
		d.Provider = providers.NewStoreProvider(d.Store)
	}
	if d.Generator == nil {
		d.Generator = engine.NewGenerator()
	}
	if d.GolfersPerRound <= 0 {
		d.GolfersPerRound = model.GolfersPerRound
	}
	return &Service{
		store:           d.Store,
		provider:        d.Provider,
		generator:       d.Generator,
		golfersPerRound: d.GolfersPerRound,
		recorder:        d.Recorder,
		events:          d.Events,
		logger:          d.Logger,
	}
}

// List returns the round's foursomes ordered by tee time.
func (s *Service) List(ctx context.Context, roundID string) ([]model.Foursome, error) {
	if _, err := s.store.GetRound(ctx, roundID); err != nil {
		return nil, err
	}
	return s.store.ListFoursomes(ctx, roundID)
}

// Generate replaces the round's foursomes with a fresh assignment that
// minimizes repeat pairings against the rest of the season.
func (s *Service) Generate(ctx context.Context, caller domain.Caller, roundID string) (out model.Assignment, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpGenerate, roundID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return model.Assignment{}, err
	}
	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return model.Assignment{}, err
	}

	golfers, err := s.eligibleGolfers(ctx, roundID)
	if err != nil {
		return model.Assignment{}, err
	}
	history, err := s.seasonHistory(ctx, round)
	if err != nil {
		return model.Assignment{}, err
	}

	out, err = s.generator.Generate(roundID, golfers, history)
	if err != nil {
		return model.Assignment{}, err
	}

	err = s.store.InTx(ctx, func(repo store.Repository) error {
		if err := repo.ReplaceFoursomes(ctx, roundID, out.Foursomes[:]); err != nil {
			return err
		}
		if round.Status == rounds.StatusScheduled || round.Status == rounds.StatusAvailabilityOpen {
			return repo.SetRoundStatus(ctx, roundID, rounds.StatusFoursomesSet)
		}
		return nil
	})
	if err != nil {
		return model.Assignment{}, err
	}

	s.recorder.RecordPairingScore(out.Score)
	s.events.Emit(ctx, events.FoursomesGenerated, map[string]any{
		"roundId":   roundID,
		"foursomes": out.Foursomes,
		"score":     out.Score,
	})
	return out, nil
}

// eligibleGolfers returns the declared golfers followed by the approved
// substitutes, after checking the field has the expected size.
func (s *Service) eligibleGolfers(ctx context.Context, roundID string) ([]model.Golfer, error) {
	in, err := s.provider.InGolfers(ctx, roundID)
	if err != nil {
		return nil, err
	}
	subs, err := s.provider.ApprovedSubstitutes(ctx, roundID)
	if err != nil {
		return nil, err
	}
	expected := s.golfersPerRound - len(subs)
	if len(in) != expected {
		return nil, domain.Validation("golfers", "expected %d available golfers, found %d", expected, len(in))
	}
	out := make([]model.Golfer, 0, len(in)+len(subs))
	out = append(out, in...)
	return append(out, subs...), nil
}

// seasonHistory indexes the pairings of every other round in the same season.
func (s *Service) seasonHistory(ctx context.Context, round rounds.Round) (*pairing.Index, error) {
	season, err := s.store.ListRounds(ctx, round.Season)
	if err != nil {
		return nil, err
	}
	var past [][]model.Foursome
	for _, r := range season {
		if !playedBefore(r, round) {
			continue
		}
		set, err := s.store.ListFoursomes(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if len(set) > 0 {
			past = append(past, set)
		}
	}
	return pairing.FromRounds(past), nil
}

// playedBefore orders rounds by date, then number.
func playedBefore(a, b rounds.Round) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.Number < b.Number
}

// Patch repairs the existing assignment after availability or substitute
// changes. Each changed foursome is rewritten in its own transaction.
func (s *Service) Patch(ctx context.Context, caller domain.Caller, roundID string) (out engine.PatchResult, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpPatch, roundID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return engine.PatchResult{}, err
	}
	if _, err := s.store.GetRound(ctx, roundID); err != nil {
		return engine.PatchResult{}, err
	}
	existing, err := s.store.ListFoursomes(ctx, roundID)
	if err != nil {
		return engine.PatchResult{}, err
	}
	if len(existing) != model.PerRound {
		return engine.PatchResult{}, domain.NotFound("foursomes", roundID)
	}

	in, err := s.provider.InGolfers(ctx, roundID)
	if err != nil {
		return engine.PatchResult{}, err
	}
	subs, err := s.provider.ApprovedSubstitutes(ctx, roundID)
	if err != nil {
		return engine.PatchResult{}, err
	}

	out, err = engine.Patch(existing, in, subs)
	if err != nil {
		return engine.PatchResult{}, err
	}
	if err := model.Validate(out.Foursomes); err != nil {
		return engine.PatchResult{}, err
	}

	for i, f := range out.Foursomes {
		if !out.Changed[i] {
			continue
		}
		err := s.store.InTx(ctx, func(repo store.Repository) error {
			return repo.ReplaceMembers(ctx, f.ID, f.Members)
		})
		if err != nil {
			return engine.PatchResult{}, fmt.Errorf("patch foursome %d: %w", f.TeeTimeSlot, err)
		}
	}

	if len(out.Unplaced) > 0 || out.Vacant > 0 {
		logging.Warn(s.log(ctx), "patched foursomes are not full",
			logging.FieldRoundID, roundID, "unplaced", len(out.Unplaced), "vacant", out.Vacant)
	}
	s.events.Emit(ctx, events.FoursomesPatched, map[string]any{
		"roundId":   roundID,
		"foursomes": out.Foursomes,
		"changed":   out.Changed,
	})
	return out, nil
}

// MemberInput is one seat in a manual foursome edit.
type MemberInput struct {
	GolferID     string `json:"golferId,omitempty"`
	SubstituteID string `json:"substituteId,omitempty"`
	TeamID       string `json:"teamId"`
	CartNumber   int    `json:"cartNumber"`
	DisplayName  string `json:"displayName,omitempty"`
}

// Player resolves the seat's player variant.
func (m MemberInput) Player() players.Player {
	if m.SubstituteID != "" {
		return players.Substitute(m.SubstituteID, m.GolferID)
	}
	return players.Member(m.GolferID)
}

// FoursomeInput is the replacement member list for one existing foursome.
type FoursomeInput struct {
	FoursomeID string        `json:"foursomeId"`
	Members    []MemberInput `json:"members"`
}

// Update replaces the members of the round's existing foursomes wholesale.
// Foursomes not named in input are emptied.
func (s *Service) Update(ctx context.Context, caller domain.Caller, roundID string, input []FoursomeInput) (out []model.Foursome, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpUpdateFoursomes, roundID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return nil, err
	}
	existing, err := s.store.ListFoursomes(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if len(existing) != model.PerRound {
		return nil, domain.NotFound("foursomes", roundID)
	}

	byID := make(map[string]FoursomeInput, len(input))
	for _, fi := range input {
		byID[fi.FoursomeID] = fi
	}
	out = make([]model.Foursome, 0, len(existing))
	for _, f := range existing {
		next := model.Foursome{ID: f.ID, RoundID: f.RoundID, TeeTimeSlot: f.TeeTimeSlot}
		for _, m := range byID[f.ID].Members {
			next.Members = append(next.Members, model.Member{
				FoursomeID:  f.ID,
				Player:      m.Player(),
				TeamID:      m.TeamID,
				CartNumber:  m.CartNumber,
				DisplayName: m.DisplayName,
			})
		}
		delete(byID, f.ID)
		out = append(out, next)
	}
	for id := range byID {
		return nil, domain.NotFound("foursome", id)
	}
	if err := model.Validate(out); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(repo store.Repository) error {
		for _, f := range out {
			if err := repo.ReplaceMembers(ctx, f.ID, f.Members); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.FoursomesUpdated, map[string]any{"roundId": roundID, "foursomes": out})
	return out, nil
}

func (s *Service) finish(ctx context.Context, op, roundID string, start time.Time, err error) {
	elapsed := time.Since(start)
	s.recorder.RecordOperation(op, elapsed, err)
	logger := s.log(ctx)
	if err != nil {
		logging.Warn(logger, op+" failed", logging.FieldRoundID, roundID, logging.FieldError, err)
		return
	}
	logging.Info(logger, op+" completed", logging.FieldRoundID, roundID, logging.FieldDurationMS, elapsed.Milliseconds())
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}
