package rounds

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/snapshots"
	"github.com/preston-bernstein/golf-league-service/internal/standings"
	"github.com/preston-bernstein/golf-league-service/internal/store"
	"github.com/preston-bernstein/golf-league-service/internal/timeutil"
)

// HandicapUpdater recalculates handicaps once a round's scores are final.
type HandicapUpdater interface {
	RecalculateForGolfers(ctx context.Context, golferIDs []string, actor string) ([]handicaps.Handicap, error)
}

// ArchiveWriter persists the frozen record of a finalized round.
type ArchiveWriter interface {
	WriteRound(a snapshots.RoundArchive) error
}

// Deps wires a Service. Handicaps, Archives and Loader are optional.
type Deps struct {
	Store     store.Store
	Points    *standings.Calculator
	Handicaps HandicapUpdater
	Archives  ArchiveWriter
	Loader    snapshots.Store
	Recorder  *metrics.Recorder
	Events    *events.Emitter
	Logger    *slog.Logger
	Clock     clockwork.Clock
}

// Service owns the round lifecycle: scheduling, availability, finalization
// and the standings derived from it.
type Service struct {
	store     store.Store
	points    *standings.Calculator
	handicaps HandicapUpdater
	archives  ArchiveWriter
	loader    snapshots.Store
	recorder  *metrics.Recorder
	events    *events.Emitter
	logger    *slog.Logger
	clock     clockwork.Clock
}

// NewService constructs a Service.
func NewService(d Deps) *Service {
	if d.Points == nil {
		d.Points = standings.NewCalculator(nil)
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	return &Service{
		store:     d.Store,
		points:    d.Points,
		handicaps: d.Handicaps,
		archives:  d.Archives,
		loader:    d.Loader,
		recorder:  d.Recorder,
		events:    d.Events,
		logger:    d.Logger,
		clock:     d.Clock,
	}
}

// CreateInput schedules a round. Season defaults to the date's year.
type CreateInput struct {
	ID     string `json:"id,omitempty"`
	Season int    `json:"season"`
	Number int    `json:"number"`
	Date   string `json:"date"`
}

// Create schedules a new round.
func (s *Service) Create(ctx context.Context, caller domain.Caller, in CreateInput) (model.Round, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return model.Round{}, err
	}
	year, err := timeutil.SeasonOf(in.Date)
	if err != nil {
		return model.Round{}, domain.Validation("date", "date must be YYYY-MM-DD")
	}
	if in.Season == 0 {
		in.Season = year
	}
	if in.Season < 0 {
		return model.Round{}, domain.Validation("season", "season must be positive")
	}
	if in.Number <= 0 {
		return model.Round{}, domain.Validation("number", "round number must be positive")
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	r := model.Round{ID: in.ID, Season: in.Season, Number: in.Number, Date: in.Date, Status: model.StatusScheduled}
	if err := s.store.CreateRound(ctx, r); err != nil {
		return model.Round{}, err
	}
	logging.Info(s.log(ctx), "round created", logging.FieldRoundID, r.ID, "season", r.Season, "number", r.Number)
	return r, nil
}

// Get returns one round.
func (s *Service) Get(ctx context.Context, id string) (model.Round, error) {
	return s.store.GetRound(ctx, id)
}

// List returns a season's rounds by number; season 0 lists every round.
func (s *Service) List(ctx context.Context, season int) ([]model.Round, error) {
	return s.store.ListRounds(ctx, season)
}

// SetStatus moves a round to any known status.
func (s *Service) SetStatus(ctx context.Context, caller domain.Caller, id string, status model.Status) (model.Round, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return model.Round{}, err
	}
	if !status.Valid() {
		return model.Round{}, domain.Validation("status", "unknown round status %q", status)
	}
	if err := s.store.SetRoundStatus(ctx, id, status); err != nil {
		return model.Round{}, err
	}
	logging.Info(s.log(ctx), "round status changed", logging.FieldRoundID, id, "status", status, logging.FieldActor, caller.Actor())
	return s.store.GetRound(ctx, id)
}

// DeclareAvailability records a golfer's in/out declaration. Golfers may
// only declare for themselves.
func (s *Service) DeclareAvailability(ctx context.Context, caller domain.Caller, d availability.Declaration) (availability.Declaration, error) {
	if !caller.IsAdmin() && caller.GolferID != d.GolferID {
		return availability.Declaration{}, &domain.ForbiddenError{Reason: "golfers may only declare their own availability"}
	}
	if d.GolferID == "" || d.TeamID == "" {
		return availability.Declaration{}, domain.Validation("golferId", "golfer and team are required")
	}
	if d.Status == "" {
		d.Status = availability.StatusIn
	}
	if !availability.ValidStatus(d.Status) {
		return availability.Declaration{}, domain.Validation("status", "unknown availability %q", d.Status)
	}
	if _, err := s.store.GetRound(ctx, d.RoundID); err != nil {
		return availability.Declaration{}, err
	}
	if err := s.store.SaveDeclaration(ctx, d); err != nil {
		return availability.Declaration{}, err
	}
	return d, nil
}

// SetSubstitute records a team's substitute for the round.
func (s *Service) SetSubstitute(ctx context.Context, caller domain.Caller, sub availability.Substitution) (availability.Substitution, error) {
	if err := domain.RequireAdmin(caller); err != nil {
		return availability.Substitution{}, err
	}
	if sub.TeamID == "" || sub.SubstituteID == "" {
		return availability.Substitution{}, domain.Validation("substituteId", "team and substitute are required")
	}
	if sub.Status == "" {
		sub.Status = availability.SubApproved
	}
	if !availability.ValidSubStatus(sub.Status) {
		return availability.Substitution{}, domain.Validation("status", "unknown substitute status %q", sub.Status)
	}
	if _, err := s.store.GetRound(ctx, sub.RoundID); err != nil {
		return availability.Substitution{}, err
	}
	if err := s.store.SaveSubstitution(ctx, sub); err != nil {
		return availability.Substitution{}, err
	}
	return sub, nil
}

// FinalizeResult reports what a finalize run produced.
type FinalizeResult struct {
	Round     model.Round          `json:"round"`
	Points    []scores.RoundPoints `json:"points"`
	Handicaps []handicaps.Handicap `json:"handicaps"`
	Archived  bool                 `json:"archived"`
}

// Finalize ranks the round's teams, writes their points, completes the round
// and recalculates the handicaps of every golfer with a locked regular score.
// Archiving and event publishing are best-effort.
func (s *Service) Finalize(ctx context.Context, caller domain.Caller, roundID string) (out FinalizeResult, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpFinalize, roundID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return FinalizeResult{}, err
	}
	var all []scores.Score
	err = s.store.InTx(ctx, func(repo store.Repository) error {
		if _, err := repo.GetRound(ctx, roundID); err != nil {
			return err
		}
		var err error
		all, err = repo.ListScores(ctx, roundID)
		if err != nil {
			return err
		}
		out.Points, err = s.points.Rank(roundID, standings.SelectTeamScores(all))
		if err != nil {
			return err
		}
		if err := repo.ReplaceRoundPoints(ctx, roundID, out.Points); err != nil {
			return err
		}
		return repo.SetRoundStatus(ctx, roundID, model.StatusCompleted)
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	if s.handicaps != nil {
		out.Handicaps, err = s.handicaps.RecalculateForGolfers(ctx, handicapGolfers(all), caller.Actor())
		if err != nil {
			return FinalizeResult{}, err
		}
	}

	out.Round, err = s.store.GetRound(ctx, roundID)
	if err != nil {
		return FinalizeResult{}, err
	}
	out.Archived = s.archive(ctx, out.Round, all, out.Points)

	s.events.Emit(ctx, events.RoundFinalized, map[string]any{
		"roundId": roundID,
		"season":  out.Round.Season,
		"points":  out.Points,
	})
	return out, nil
}

// handicapGolfers lists the golfers whose locked, non-substitute score
// counts toward their handicap.
func handicapGolfers(all []scores.Score) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, sc := range all {
		if !sc.IsLocked || sc.IsSubstitute || sc.Player.GolferID == "" {
			continue
		}
		if _, ok := seen[sc.Player.GolferID]; ok {
			continue
		}
		seen[sc.Player.GolferID] = struct{}{}
		ids = append(ids, sc.Player.GolferID)
	}
	sort.Strings(ids)
	return ids
}

func (s *Service) archive(ctx context.Context, round model.Round, all []scores.Score, points []scores.RoundPoints) bool {
	if s.archives == nil {
		return false
	}
	start := time.Now()
	set, err := s.store.ListFoursomes(ctx, round.ID)
	if err == nil {
		err = s.archives.WriteRound(snapshots.RoundArchive{
			Round:      round,
			Foursomes:  set,
			Scores:     all,
			Points:     points,
			ArchivedAt: s.clock.Now().UTC(),
		})
	}
	s.recorder.RecordOperation(metrics.OpArchiveRound, time.Since(start), err)
	if err != nil {
		logging.Warn(s.log(ctx), "round archive failed", logging.FieldRoundID, round.ID, logging.FieldError, err)
		return false
	}
	return true
}

// RecalculatePoints re-ranks a round from its current locked scores without
// touching its status.
func (s *Service) RecalculatePoints(ctx context.Context, caller domain.Caller, roundID string) (out []scores.RoundPoints, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, metrics.OpRecalculatePts, roundID, start, err) }()

	if err := domain.RequireAdmin(caller); err != nil {
		return nil, err
	}
	err = s.store.InTx(ctx, func(repo store.Repository) error {
		if _, err := repo.GetRound(ctx, roundID); err != nil {
			return err
		}
		all, err := repo.ListScores(ctx, roundID)
		if err != nil {
			return err
		}
		out, err = s.points.Rank(roundID, standings.SelectTeamScores(all))
		if err != nil {
			return err
		}
		return repo.ReplaceRoundPoints(ctx, roundID, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Points returns the round's points ordered by finish.
func (s *Service) Points(ctx context.Context, roundID string) ([]scores.RoundPoints, error) {
	if _, err := s.store.GetRound(ctx, roundID); err != nil {
		return nil, err
	}
	return s.store.ListRoundPoints(ctx, roundID)
}

// SeasonStandings totals each team's points over the season's completed rounds.
func (s *Service) SeasonStandings(ctx context.Context, season int) ([]scores.Standing, error) {
	if season <= 0 {
		return nil, domain.Validation("season", "season must be positive")
	}
	points, err := s.store.ListSeasonPoints(ctx, season)
	if err != nil {
		return nil, err
	}
	return standings.Season(points), nil
}

// Archive loads a finalized round's snapshot.
func (s *Service) Archive(ctx context.Context, roundID string) (snapshots.RoundArchive, error) {
	if s.loader == nil {
		return snapshots.RoundArchive{}, domain.NotFound("round archive", roundID)
	}
	return s.loader.LoadRound(roundID)
}

func (s *Service) finish(ctx context.Context, op, roundID string, start time.Time, err error) {
	elapsed := time.Since(start)
	s.recorder.RecordOperation(op, elapsed, err)
	if err != nil {
		logging.Warn(s.log(ctx), op+" failed", logging.FieldRoundID, roundID, logging.FieldError, err)
		return
	}
	logging.Info(s.log(ctx), op+" completed", logging.FieldRoundID, roundID, logging.FieldDurationMS, elapsed.Milliseconds())
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}
