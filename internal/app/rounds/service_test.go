package rounds

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/scoring"
	"github.com/preston-bernstein/golf-league-service/internal/snapshots"
	"github.com/preston-bernstein/golf-league-service/internal/store"
	"github.com/preston-bernstein/golf-league-service/internal/testutil"
)

var admin = domain.Admin("commissioner")

type recordingUpdater struct {
	golfers []string
	actor   string
	err     error
}

func (u *recordingUpdater) RecalculateForGolfers(_ context.Context, ids []string, actor string) ([]handicaps.Handicap, error) {
	u.golfers = append([]string(nil), ids...)
	u.actor = actor
	if u.err != nil {
		return nil, u.err
	}
	out := make([]handicaps.Handicap, 0, len(ids))
	for _, id := range ids {
		out = append(out, handicaps.Handicap{GolferID: id})
	}
	return out, nil
}

type failingArchive struct{}

func (failingArchive) WriteRound(snapshots.RoundArchive) error { return errors.New("disk full") }

type capturePublisher struct {
	sent []events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, e events.Envelope) error {
	p.sent = append(p.sent, e)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type fixture struct {
	svc      *Service
	store    store.Store
	updater  *recordingUpdater
	pub      *capturePublisher
	recorder *metrics.Recorder
	loader   *snapshots.FSStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.CreateRound(context.Background(), testutil.Round("r1", 1, model.StatusScoring)); err != nil {
		t.Fatalf("create round: %v", err)
	}
	clock := testutil.NewFakeClock()
	writer := testutil.NewTempWriter(t)
	loader := snapshots.NewFSStore(writer.BasePath())
	f := fixture{
		store:    st,
		updater:  &recordingUpdater{},
		pub:      &capturePublisher{},
		recorder: metrics.NewRecorder(),
		loader:   loader,
	}
	f.svc = NewService(Deps{
		Store:     st,
		Handicaps: f.updater,
		Archives:  writer,
		Loader:    loader,
		Recorder:  f.recorder,
		Events:    events.NewEmitter(f.pub, clock, nil, nil),
		Clock:     clock,
	})
	return f
}

// seedScore stores a complete card with the given gross for player on team.
func seedScore(t *testing.T, st store.Store, roundID string, p players.Player, team string, gross int, locked bool) {
	t.Helper()
	holes := testutil.CardWithGross(gross)
	sc := scores.Score{
		ID:           roundID + "-" + p.Key(),
		RoundID:      roundID,
		Player:       p,
		TeamID:       team,
		HoleScores:   holes,
		GrossScore:   scoring.Gross(holes),
		NetScore:     scoring.Net(holes, 0),
		IsLocked:     locked,
		IsSubstitute: p.IsSubstitute(),
	}
	if err := st.SaveScore(context.Background(), sc); err != nil {
		t.Fatalf("save score: %v", err)
	}
}

func TestFinalizeRanksCompletesAndRecalculates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 40, true)
	seedScore(t, f.store, "r1", players.Member("g2"), "t2", 38, true)
	seedScore(t, f.store, "r1", players.Member("g3"), "t3", 40, true)
	seedScore(t, f.store, "r1", players.Substitute("s4", ""), "t4", 45, true)
	seedScore(t, f.store, "r1", players.Member("g5"), "t5", 36, false)

	res, err := f.svc.Finalize(ctx, admin, "r1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if res.Round.Status != model.StatusCompleted {
		t.Fatalf("expected completed, got %s", res.Round.Status)
	}
	if len(res.Points) != 4 {
		t.Fatalf("expected 4 teams ranked, got %d", len(res.Points))
	}

	byTeam := map[string]scores.RoundPoints{}
	for _, p := range res.Points {
		byTeam[p.TeamID] = p
	}
	if p := byTeam["t2"]; p.FinishPosition != 1 || p.PointsEarned != 8 {
		t.Fatalf("unexpected winner %+v", p)
	}
	if p := byTeam["t1"]; p.FinishPosition != 2 || p.PointsEarned != 6.5 || !p.IsTied || !reflect.DeepEqual(p.TiedWithTeams, []string{"t3"}) {
		t.Fatalf("unexpected tie %+v", p)
	}
	if p := byTeam["t4"]; p.FinishPosition != 4 || p.PointsEarned != 5 {
		t.Fatalf("unexpected substitute team %+v", p)
	}

	if !reflect.DeepEqual(f.updater.golfers, []string{"g1", "g2", "g3"}) || f.updater.actor != "commissioner" {
		t.Fatalf("unexpected handicap recalculation %v by %s", f.updater.golfers, f.updater.actor)
	}
	if len(res.Handicaps) != 3 {
		t.Fatalf("expected 3 handicaps, got %d", len(res.Handicaps))
	}
	if len(f.pub.sent) != 1 || f.pub.sent[0].EventType != events.RoundFinalized {
		t.Fatalf("expected round finalized event, got %+v", f.pub.sent)
	}

	stored, _ := f.svc.Points(ctx, "r1")
	if len(stored) != 4 {
		t.Fatalf("expected points persisted, got %d", len(stored))
	}
}

func TestFinalizeArchivesRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 40, true)

	res, err := f.svc.Finalize(ctx, admin, "r1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !res.Archived {
		t.Fatalf("expected archive to be written")
	}
	a, err := f.svc.Archive(ctx, "r1")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if a.Round.Status != model.StatusCompleted || len(a.Scores) != 1 || len(a.Points) != 1 {
		t.Fatalf("unexpected archive %+v", a)
	}
	if a.Points[0].TeamID != "t1" || a.Scores[0].GrossScore != 40 {
		t.Fatalf("archive content differs: %+v", a)
	}
	if !a.ArchivedAt.Equal(testutil.FixtureTime) {
		t.Fatalf("unexpected archivedAt %s", a.ArchivedAt)
	}
}

func TestFinalizeSurvivesArchiveFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.archives = failingArchive{}
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 40, true)

	res, err := f.svc.Finalize(context.Background(), admin, "r1")
	if err != nil {
		t.Fatalf("finalize should not fail on archive errors: %v", err)
	}
	if res.Archived {
		t.Fatalf("expected archive to be reported as skipped")
	}
	if snap := f.recorder.Snapshot(metrics.OpArchiveRound); snap.Errors != 1 {
		t.Fatalf("expected archive error recorded, got %+v", snap)
	}
}

func TestFinalizeWithoutLockedScores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 40, false)

	_, err := f.svc.Finalize(ctx, admin, "r1")
	if _, ok := domain.AsNoScores(err); !ok {
		t.Fatalf("expected no scores error, got %v", err)
	}
	r, _ := f.store.GetRound(ctx, "r1")
	if r.Status != model.StatusScoring {
		t.Fatalf("failed finalize must not change status, got %s", r.Status)
	}
	if f.updater.golfers != nil {
		t.Fatalf("handicaps should not be recalculated")
	}
}

func TestFinalizeRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Finalize(context.Background(), domain.Golfer("g1"), "r1")
	if _, ok := domain.AsForbidden(err); !ok {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestFinalizeIsRerunnable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 40, true)
	seedScore(t, f.store, "r1", players.Member("g2"), "t2", 42, true)
	if _, err := f.svc.Finalize(ctx, admin, "r1"); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	seedScore(t, f.store, "r1", players.Member("g2"), "t2", 38, true)
	if _, err := f.svc.Finalize(ctx, admin, "r1"); err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	points, _ := f.svc.Points(ctx, "r1")
	if len(points) != 2 || points[0].TeamID != "t2" {
		t.Fatalf("expected t2 to lead after refinalize, got %+v", points)
	}
}

func TestRecalculatePointsKeepsStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 40, true)

	points, err := f.svc.RecalculatePoints(ctx, admin, "r1")
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if len(points) != 1 || points[0].PointsEarned != 8 {
		t.Fatalf("unexpected points %+v", points)
	}
	r, _ := f.store.GetRound(ctx, "r1")
	if r.Status != model.StatusScoring {
		t.Fatalf("recalculate must not change status, got %s", r.Status)
	}
	if f.updater.golfers != nil || len(f.pub.sent) != 0 {
		t.Fatalf("recalculate should not trigger handicaps or events")
	}
}

func TestSeasonStandings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if err := f.store.CreateRound(ctx, testutil.Round("r2", 2, model.StatusScoring)); err != nil {
		t.Fatalf("create: %v", err)
	}
	seedScore(t, f.store, "r1", players.Member("g1"), "t1", 38, true)
	seedScore(t, f.store, "r1", players.Member("g2"), "t2", 40, true)
	seedScore(t, f.store, "r2", players.Member("g1"), "t1", 42, true)
	seedScore(t, f.store, "r2", players.Member("g2"), "t2", 39, true)
	for _, id := range []string{"r1", "r2"} {
		if _, err := f.svc.Finalize(ctx, admin, id); err != nil {
			t.Fatalf("finalize %s: %v", id, err)
		}
	}

	table, err := f.svc.SeasonStandings(ctx, testutil.FixtureSeason)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	want := []scores.Standing{
		{TeamID: "t1", TotalPoints: 15, RoundsPlayed: 2},
		{TeamID: "t2", TotalPoints: 15, RoundsPlayed: 2},
	}
	if !reflect.DeepEqual(table, want) {
		t.Fatalf("unexpected standings %+v", table)
	}
	if _, err := f.svc.SeasonStandings(ctx, 0); err == nil {
		t.Fatalf("expected validation error for season 0")
	}
}

func TestCreateRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, err := f.svc.Create(ctx, admin, CreateInput{Number: 2, Date: "2025-05-08"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID == "" || r.Season != 2025 || r.Status != model.StatusScheduled {
		t.Fatalf("unexpected round %+v", r)
	}

	cases := map[string]CreateInput{
		"bad date":   {Number: 1, Date: "May 8"},
		"zero round": {Date: "2025-05-08"},
		"duplicate":  {ID: "r1", Number: 1, Date: "2025-05-01"},
	}
	for name, in := range cases {
		if _, err := f.svc.Create(ctx, admin, in); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if _, ok := domain.AsValidation(err); !ok {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
	if _, err := f.svc.Create(ctx, domain.Golfer("g1"), CreateInput{Number: 3, Date: "2025-05-15"}); err == nil {
		t.Fatalf("expected forbidden for golfer")
	}

	all, _ := f.svc.List(ctx, 2025)
	if len(all) != 2 || all[0].ID != "r1" {
		t.Fatalf("unexpected round list %+v", all)
	}
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r, err := f.svc.SetStatus(ctx, admin, "r1", model.StatusInProgress)
	if err != nil || r.Status != model.StatusInProgress {
		t.Fatalf("set status: %v %+v", err, r)
	}
	if _, err := f.svc.SetStatus(ctx, admin, "r1", "finished"); err == nil {
		t.Fatalf("expected validation error for unknown status")
	}
	if _, err := f.svc.SetStatus(ctx, admin, "missing", model.StatusScoring); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestDeclareAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := availability.Declaration{RoundID: "r1", GolferID: "g1", TeamID: "t1", Status: availability.StatusOut}

	if _, err := f.svc.DeclareAvailability(ctx, domain.Golfer("g2"), d); err == nil {
		t.Fatalf("expected forbidden for another golfer")
	}
	if _, err := f.svc.DeclareAvailability(ctx, domain.Golfer("g1"), d); err != nil {
		t.Fatalf("self declaration: %v", err)
	}
	d.Status = "maybe"
	if _, err := f.svc.DeclareAvailability(ctx, admin, d); err == nil {
		t.Fatalf("expected validation error for unknown status")
	}
	decls, _ := f.store.ListDeclarations(ctx, "r1")
	if len(decls) != 1 || decls[0].Status != availability.StatusOut {
		t.Fatalf("unexpected declarations %+v", decls)
	}
}

func TestSetSubstitute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sub := availability.Substitution{RoundID: "r1", TeamID: "t1", SubstituteID: "s1", DisplayName: "Sub"}

	if _, err := f.svc.SetSubstitute(ctx, domain.Golfer("g1"), sub); err == nil {
		t.Fatalf("expected forbidden for golfer")
	}
	saved, err := f.svc.SetSubstitute(ctx, admin, sub)
	if err != nil {
		t.Fatalf("set substitute: %v", err)
	}
	if saved.Status != availability.SubApproved {
		t.Fatalf("expected default approval, got %s", saved.Status)
	}
	sub.RoundID = "missing"
	if _, err := f.svc.SetSubstitute(ctx, admin, sub); err == nil {
		t.Fatalf("expected not found for unknown round")
	}
}

func TestArchiveWithoutLoader(t *testing.T) {
	svc := NewService(Deps{Store: store.NewMemoryStore()})
	_, err := svc.Archive(context.Background(), "r1")
	if _, ok := domain.AsNotFound(err); !ok {
		t.Fatalf("expected not found, got %v", err)
	}
}
