package scores

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/scores"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/scoring"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

// Deps wires a Service.
type Deps struct {
	Store    store.Store
	Engine   *scoring.Engine
	Recorder *metrics.Recorder
	Logger   *slog.Logger
	Clock    clockwork.Clock
	NewID    func() string
}

// Service records hole-by-hole cards and locks them for finalization.
type Service struct {
	store    store.Store
	engine   *scoring.Engine
	recorder *metrics.Recorder
	logger   *slog.Logger
	clock    clockwork.Clock
	newID    func() string
}

// NewService constructs a Service with defaults for the optional deps.
func NewService(d Deps) *Service {
	if d.Engine == nil {
		d.Engine = scoring.New(scoring.DefaultRules())
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return &Service{
		store:    d.Store,
		engine:   d.Engine,
		recorder: d.Recorder,
		logger:   d.Logger,
		clock:    d.Clock,
		newID:    d.NewID,
	}
}

// SaveInput is an administrator's card entry for any player in a round.
type SaveInput struct {
	RoundID      string `json:"roundId"`
	GolferID     string `json:"golferId,omitempty"`
	SubstituteID string `json:"substituteId,omitempty"`
	TeamID       string `json:"teamId"`
	IsSubstitute bool   `json:"isSubstitute"`
	Holes        []int  `json:"holes"`
}

// Player resolves the input's player variant.
func (in SaveInput) Player() players.Player {
	if in.SubstituteID != "" {
		return players.Substitute(in.SubstituteID, in.GolferID)
	}
	return players.Member(in.GolferID)
}

// Submit records the caller's own card. The caller must hold a seat in the
// round's foursomes, and golfers may only submit while scoring is open.
func (s *Service) Submit(ctx context.Context, caller domain.Caller, roundID string, holes []int) (out model.View, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpSubmitScore, roundID, start, err) }()

	round, err := s.store.GetRound(ctx, roundID)
	if err != nil {
		return model.View{}, err
	}
	set, err := s.store.ListFoursomes(ctx, roundID)
	if err != nil {
		return model.View{}, err
	}
	member := scoring.FindMember(set, caller.GolferID)
	if err := scoring.AuthorizeSubmission(caller, round, member); err != nil {
		return model.View{}, err
	}
	if member == nil {
		return model.View{}, &domain.ForbiddenError{Reason: "you are not listed as a player in this round"}
	}
	return s.write(ctx, caller, roundID, member.Player, member.TeamID, member.IsSubstitute(), holes)
}

// Save records a card on behalf of any player. Administrators only.
func (s *Service) Save(ctx context.Context, caller domain.Caller, in SaveInput) (out model.View, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpSubmitScore, in.RoundID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return model.View{}, err
	}
	player := in.Player()
	if !player.Valid() {
		return model.View{}, domain.Validation("golferId", "a golfer or substitute id is required")
	}
	if in.TeamID == "" {
		return model.View{}, domain.Validation("teamId", "team id is required")
	}
	if _, err := s.store.GetRound(ctx, in.RoundID); err != nil {
		return model.View{}, err
	}
	return s.write(ctx, caller, in.RoundID, player, in.TeamID, player.IsSubstitute() || in.IsSubstitute, in.Holes)
}

// write upserts the player's card inside one transaction so the lock check
// and the write see the same row.
func (s *Service) write(ctx context.Context, caller domain.Caller, roundID string, player players.Player, teamID string, isSub bool, holes []int) (model.View, error) {
	var saved model.Score
	err := s.store.InTx(ctx, func(repo store.Repository) error {
		existing, err := repo.FindScore(ctx, roundID, player)
		switch {
		case err == nil:
		case isNotFound(err):
			existing = model.Score{ID: s.newID(), RoundID: roundID, Player: player}
		default:
			return err
		}
		existing.TeamID = teamID
		existing.IsSubstitute = isSub

		hcp, err := s.handicapFor(ctx, repo, player)
		if err != nil {
			return err
		}
		card, err := s.engine.Card(holes, hcp)
		if err != nil {
			return err
		}
		next, err := scoring.Apply(existing, card, hcp)
		if err != nil {
			return err
		}
		next.SubmittedBy = caller.Actor()
		next.SubmittedAt = s.clock.Now().UTC()
		if err := repo.SaveScore(ctx, next); err != nil {
			return err
		}
		saved = next
		return nil
	})
	if err != nil {
		return model.View{}, err
	}
	return s.engine.View(saved), nil
}

// handicapFor returns the player's current handicap, or 0 for players
// without one.
func (s *Service) handicapFor(ctx context.Context, repo store.Repository, player players.Player) (float64, error) {
	if player.IsExternal() || player.GolferID == "" {
		return 0, nil
	}
	h, err := repo.GetHandicap(ctx, player.GolferID)
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Current, nil
}

// Lock freezes a fully entered score. Administrators only.
func (s *Service) Lock(ctx context.Context, caller domain.Caller, scoreID string) (out model.View, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpLockScore, scoreID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return model.View{}, err
	}
	var locked model.Score
	err = s.store.InTx(ctx, func(repo store.Repository) error {
		sc, err := repo.GetScore(ctx, scoreID)
		if err != nil {
			return err
		}
		if err := scoring.CheckLock(sc); err != nil {
			return err
		}
		if err := repo.SetScoreLocked(ctx, scoreID, true); err != nil {
			return err
		}
		sc.IsLocked = true
		locked = sc
		return nil
	})
	if err != nil {
		return model.View{}, err
	}
	return s.engine.View(locked), nil
}

// Unlock reopens a score for edits. Unlocking an unlocked score is a no-op.
func (s *Service) Unlock(ctx context.Context, caller domain.Caller, scoreID string) (model.View, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return model.View{}, err
	}
	sc, err := s.store.GetScore(ctx, scoreID)
	if err != nil {
		return model.View{}, err
	}
	if sc.IsLocked {
		if err := s.store.SetScoreLocked(ctx, scoreID, false); err != nil {
			return model.View{}, err
		}
		sc.IsLocked = false
		logging.Info(s.log(ctx), "score unlocked", logging.FieldScoreID, scoreID, logging.FieldActor, caller.Actor())
	}
	return s.engine.View(sc), nil
}

// List returns every card recorded for the round.
func (s *Service) List(ctx context.Context, roundID string) ([]model.View, error) {
	if _, err := s.store.GetRound(ctx, roundID); err != nil {
		return nil, err
	}
	all, err := s.store.ListScores(ctx, roundID)
	if err != nil {
		return nil, err
	}
	out := make([]model.View, 0, len(all))
	for _, sc := range all {
		out = append(out, s.engine.View(sc))
	}
	return out, nil
}

func (s *Service) finish(ctx context.Context, op, id string, start time.Time, err error) {
	elapsed := time.Since(start)
	s.recorder.RecordOperation(op, elapsed, err)
	if err != nil {
		logging.Warn(s.log(ctx), op+" failed", "id", id, logging.FieldError, err)
		return
	}
	logging.Info(s.log(ctx), op+" completed", "id", id, logging.FieldDurationMS, elapsed.Milliseconds())
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

func isNotFound(err error) bool {
	_, ok := domain.AsNotFound(err)
	return ok
}
