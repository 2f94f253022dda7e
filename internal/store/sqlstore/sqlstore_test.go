package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
	"github.com/preston-bernstein/golf-league-service/internal/store"
	"github.com/preston-bernstein/golf-league-service/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "league.db"), ConnectTimeout: time.Second}
	logger, _ := testutil.NewBufferLogger()
	s, err := Open(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"}, nil); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := Open(context.Background(), Config{Driver: DriverSQLite}, nil); err == nil {
		t.Fatalf("expected missing DSN error")
	}
}

func TestOpenIsRepeatable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "league.db")
	for i := 0; i < 2; i++ {
		s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn}, nil)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if s.Driver() != DriverSQLite {
			t.Fatalf("unexpected driver %s", s.Driver())
		}
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
		_ = s.Close()
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b IN (?, ?)`
	if got := rebind(false, q); got != q {
		t.Fatalf("sqlite query should be untouched, got %s", got)
	}
	want := `SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)`
	if got := rebind(true, q); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "league", Password: "pw", Database: "golf", SSLMode: "disable"}
	if got := cfg.DSN(); got != "postgres://league:pw@db:5432/golf?sslmode=disable" {
		t.Fatalf("unexpected dsn %s", got)
	}
}

func TestRounds(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_ = s.CreateRound(ctx, rounds.Round{ID: "r2", Season: 2025, Number: 2, Date: "2025-05-08", Status: rounds.StatusScheduled})
	_ = s.CreateRound(ctx, rounds.Round{ID: "r1", Season: 2025, Number: 1, Date: "2025-05-01", Status: rounds.StatusScheduled})
	_ = s.CreateRound(ctx, rounds.Round{ID: "old", Season: 2024, Number: 1, Date: "2024-05-01", Status: rounds.StatusCompleted})

	if _, ok := domain.AsValidation(s.CreateRound(ctx, rounds.Round{ID: "r1"})); !ok {
		t.Fatalf("expected duplicate round to be a validation error")
	}

	list, err := s.ListRounds(ctx, 2025)
	if err != nil || len(list) != 2 || list[0].ID != "r1" {
		t.Fatalf("unexpected season rounds %+v %v", list, err)
	}
	all, _ := s.ListRounds(ctx, 0)
	if len(all) != 3 || all[0].ID != "old" {
		t.Fatalf("unexpected rounds %+v", all)
	}

	if err := s.SetRoundStatus(ctx, "r1", rounds.StatusScoring); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ := s.GetRound(ctx, "r1")
	if got.Status != rounds.StatusScoring || got.Date != "2025-05-01" {
		t.Fatalf("unexpected round %+v", got)
	}
	if _, ok := domain.AsNotFound(s.SetRoundStatus(ctx, "missing", rounds.StatusScoring)); !ok {
		t.Fatalf("expected not found")
	}
	if _, err := s.GetRound(ctx, "missing"); err == nil {
		t.Fatalf("expected missing round")
	}
}

func TestAvailability(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_ = s.SaveDeclaration(ctx, availability.Declaration{RoundID: "r1", GolferID: "g1", TeamID: "t1", DisplayName: "Ann", Status: availability.StatusIn})
	_ = s.SaveDeclaration(ctx, availability.Declaration{RoundID: "r1", GolferID: "g1", TeamID: "t1", DisplayName: "Ann", Status: availability.StatusOut})
	decls, err := s.ListDeclarations(ctx, "r1")
	if err != nil || len(decls) != 1 || decls[0].Status != availability.StatusOut {
		t.Fatalf("unexpected declarations %+v %v", decls, err)
	}

	_ = s.SaveSubstitution(ctx, availability.Substitution{RoundID: "r1", TeamID: "t1", SubstituteID: "s1", Status: availability.SubPending})
	_ = s.SaveSubstitution(ctx, availability.Substitution{RoundID: "r1", TeamID: "t1", SubstituteID: "s1", GolferID: "g9", Status: availability.SubApproved})
	subs, _ := s.ListSubstitutions(ctx, "r1")
	if len(subs) != 1 || !subs[0].Approved() || subs[0].GolferID != "g9" {
		t.Fatalf("unexpected substitutions %+v", subs)
	}
}

func sampleSet() []foursomes.Foursome {
	return []foursomes.Foursome{
		{ID: "f1", RoundID: "r1", TeeTimeSlot: 1, Members: []foursomes.Member{
			{FoursomeID: "f1", Player: players.Member("g1"), TeamID: "t1", CartNumber: 1, DisplayName: "Ann"},
			{FoursomeID: "f1", Player: players.Member("g2"), TeamID: "t2", CartNumber: 1, DisplayName: "Bo"},
			{FoursomeID: "f1", Player: players.Substitute("s3", ""), TeamID: "t3", CartNumber: 2, DisplayName: "Cy"},
			{FoursomeID: "f1", Player: players.Substitute("s4", "g40"), TeamID: "t4", CartNumber: 2, DisplayName: "Di"},
		}},
		{ID: "f2", RoundID: "r1", TeeTimeSlot: 2, Members: []foursomes.Member{
			{FoursomeID: "f2", Player: players.Member("g5"), TeamID: "t5", CartNumber: 1, DisplayName: "Ed"},
			{FoursomeID: "f2", Player: players.Member("g6"), TeamID: "t6", CartNumber: 1, DisplayName: "Fay"},
			{FoursomeID: "f2", Player: players.Member("g7"), TeamID: "t7", CartNumber: 2, DisplayName: "Gus"},
			{FoursomeID: "f2", Player: players.Member("g8"), TeamID: "t8", CartNumber: 2, DisplayName: "Hal"},
		}},
	}
}

func TestFoursomesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	want := sampleSet()
	if err := s.ReplaceFoursomes(ctx, "r1", want); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.ListFoursomes(ctx, "r1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", want, got)
	}

	// patch one foursome and reload
	patched := append([]foursomes.Member(nil), want[0].Members...)
	patched[1] = foursomes.Member{FoursomeID: "f1", Player: players.Substitute("s2", ""), TeamID: "t2", CartNumber: 1, DisplayName: "Sub"}
	if err := s.ReplaceMembers(ctx, "f1", patched); err != nil {
		t.Fatalf("replace members: %v", err)
	}
	got, _ = s.ListFoursomes(ctx, "r1")
	if !reflect.DeepEqual(got[0].Members, patched) || !reflect.DeepEqual(got[1], want[1]) {
		t.Fatalf("patch round trip mismatch %+v", got)
	}

	if _, ok := domain.AsNotFound(s.ReplaceMembers(ctx, "nope", nil)); !ok {
		t.Fatalf("expected not found for unknown foursome")
	}

	// regenerate replaces everything
	if err := s.ReplaceFoursomes(ctx, "r1", want[1:]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = s.ListFoursomes(ctx, "r1")
	if len(got) != 1 || got[0].ID != "f2" {
		t.Fatalf("expected only regenerated foursome, got %+v", got)
	}
}

func TestScoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	net := 28.0
	at := time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC)
	want := scores.Score{
		ID: "sc1", RoundID: "r1", Player: players.Member("g1"), TeamID: "t1",
		HoleScores: []int{4, 4, 4, 5, 3, 4, 3, 4, 5}, HandicapAtTime: 8, GrossScore: 36, NetScore: &net,
		SubmittedBy: "g1", SubmittedAt: at,
	}
	if err := s.SaveScore(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetScore(ctx, "sc1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.SubmittedAt.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got.SubmittedAt)
	}
	got.SubmittedAt = at
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", want, got)
	}

	// upsert keeps the original id and clears net
	partial := want.Clone()
	partial.ID = "other"
	partial.HoleScores = []int{4, 0, 0, 0, 0, 0, 0, 0, 0}
	partial.GrossScore = 4
	partial.NetScore = nil
	_ = s.SaveScore(ctx, partial)
	list, _ := s.ListScores(ctx, "r1")
	if len(list) != 1 || list[0].ID != "sc1" || list[0].NetScore != nil || list[0].GrossScore != 4 {
		t.Fatalf("unexpected upsert %+v", list)
	}

	ext := players.Substitute("s9", "")
	_ = s.SaveScore(ctx, scores.Score{ID: "sc2", RoundID: "r1", Player: ext, TeamID: "t2", HoleScores: make([]int, 9), IsSubstitute: true, SubmittedAt: at})
	found, err := s.FindScore(ctx, "r1", ext)
	if err != nil || found.ID != "sc2" || !found.Player.IsExternal() {
		t.Fatalf("unexpected external score %+v %v", found, err)
	}
	if _, ok := domain.AsNotFound(errOnly(s.FindScore(ctx, "r1", players.Member("nobody")))); !ok {
		t.Fatalf("expected not found")
	}

	if err := s.SetScoreLocked(ctx, "sc1", true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	locked, _ := s.GetScore(ctx, "sc1")
	if !locked.IsLocked {
		t.Fatalf("expected locked score")
	}
	if _, ok := domain.AsNotFound(s.SetScoreLocked(ctx, "zzz", true)); !ok {
		t.Fatalf("expected not found when locking unknown score")
	}
}

func errOnly(_ scores.Score, err error) error { return err }

func TestEligibleGrossScores(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	full := []int{4, 4, 4, 4, 4, 4, 4, 4, 4}
	for i, d := range []string{"2025-05-01", "2025-05-08", "2025-05-15"} {
		id := []string{"r1", "r2", "r3"}[i]
		_ = s.CreateRound(ctx, rounds.Round{ID: id, Season: 2025, Number: i + 1, Date: d, Status: rounds.StatusCompleted})
		holes := append([]int(nil), full...)
		holes[0] = 4 + i
		_ = s.SaveScore(ctx, scores.Score{ID: "s" + id, RoundID: id, Player: players.Member("g1"), TeamID: "t1", HoleScores: holes, GrossScore: 36 + i, IsLocked: true})
	}
	_ = s.CreateRound(ctx, rounds.Round{ID: "r4", Season: 2025, Number: 4, Date: "2025-05-22"})
	_ = s.SaveScore(ctx, scores.Score{ID: "unlocked", RoundID: "r4", Player: players.Member("g1"), TeamID: "t1", HoleScores: full, GrossScore: 36})
	_ = s.SaveScore(ctx, scores.Score{ID: "asSub", RoundID: "r4", Player: players.Substitute("s1", "g1"), TeamID: "t2", HoleScores: full, GrossScore: 30, IsLocked: true, IsSubstitute: true})

	got, err := s.EligibleGrossScores(ctx, "g1", 10)
	if err != nil {
		t.Fatalf("eligible: %v", err)
	}
	if !reflect.DeepEqual(got, []int{38, 37, 36}) {
		t.Fatalf("unexpected eligible scores %v", got)
	}
	limited, _ := s.EligibleGrossScores(ctx, "g1", 2)
	if !reflect.DeepEqual(limited, []int{38, 37}) {
		t.Fatalf("unexpected limited scores %v", limited)
	}
}

func TestRoundPointsReplaceAndSeason(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_ = s.CreateRound(ctx, rounds.Round{ID: "r1", Season: 2025, Number: 1, Status: rounds.StatusCompleted})
	_ = s.CreateRound(ctx, rounds.Round{ID: "r2", Season: 2025, Number: 2, Status: rounds.StatusScoring})

	first := []scores.RoundPoints{
		{RoundID: "r1", TeamID: "t1", NetScore: 30, FinishPosition: 1, PointsEarned: 7.5, IsTied: true, TiedWithTeams: []string{"t2"}},
		{RoundID: "r1", TeamID: "t2", NetScore: 30, FinishPosition: 1, PointsEarned: 7.5, IsTied: true, TiedWithTeams: []string{"t1"}},
		{RoundID: "r1", TeamID: "t3", NetScore: 32, FinishPosition: 3, PointsEarned: 6, TiedWithTeams: []string{}},
	}
	if err := s.ReplaceRoundPoints(ctx, "r1", first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceRoundPoints(ctx, "r1", first); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	got, _ := s.ListRoundPoints(ctx, "r1")
	if !reflect.DeepEqual(got, first) {
		t.Fatalf("expected idempotent points\nwant %+v\ngot  %+v", first, got)
	}

	second := []scores.RoundPoints{{RoundID: "r1", TeamID: "t1", NetScore: 29, FinishPosition: 1, PointsEarned: 8, TiedWithTeams: []string{}}}
	_ = s.ReplaceRoundPoints(ctx, "r1", second)
	got, _ = s.ListRoundPoints(ctx, "r1")
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("expected overwrite, got %+v", got)
	}

	_ = s.ReplaceRoundPoints(ctx, "r2", first)
	season, _ := s.ListSeasonPoints(ctx, 2025)
	if len(season) != 1 || season[0].RoundID != "r1" {
		t.Fatalf("expected completed rounds only, got %+v", season)
	}

	_ = s.ReplaceRoundPoints(ctx, "r1", nil)
	got, _ = s.ListRoundPoints(ctx, "r1")
	if len(got) != 0 {
		t.Fatalf("expected empty points, got %+v", got)
	}
}

func TestHandicaps(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	at := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	if _, ok := domain.AsNotFound(errOnlyHandicap(s.GetHandicap(ctx, "g1"))); !ok {
		t.Fatalf("expected missing handicap")
	}
	_ = s.SaveHandicap(ctx, handicaps.Handicap{GolferID: "g1", Current: 5, RoundsPlayed: 3, LastCalculatedAt: at})
	_ = s.SaveHandicap(ctx, handicaps.Handicap{GolferID: "g1", Current: 4.5, RoundsPlayed: 0, LastCalculatedAt: at, IsManualOverride: true})
	h, err := s.GetHandicap(ctx, "g1")
	if err != nil || h.Current != 4.5 || !h.IsManualOverride || !h.LastCalculatedAt.Equal(at) {
		t.Fatalf("unexpected handicap %+v %v", h, err)
	}

	_ = s.AddHandicapHistory(ctx, handicaps.History{ID: "h1", GolferID: "g1", Value: 5, Method: handicaps.MethodCalculated, ScoresUsed: []int{40, 41}, CreatedAt: at})
	_ = s.AddHandicapHistory(ctx, handicaps.History{ID: "h2", GolferID: "g1", Value: 4.5, Method: handicaps.MethodManual, ChangedBy: "admin", Reason: "fix", CreatedAt: at})
	hist, _ := s.ListHandicapHistory(ctx, "g1")
	if len(hist) != 2 || hist[0].ID != "h2" || hist[1].ID != "h1" {
		t.Fatalf("expected newest first, got %+v", hist)
	}
	if !reflect.DeepEqual(hist[1].ScoresUsed, []int{40, 41}) || len(hist[0].ScoresUsed) != 0 || hist[0].ScoresUsed == nil {
		t.Fatalf("unexpected scores used %+v", hist)
	}
}

func errOnlyHandicap(_ handicaps.Handicap, err error) error { return err }

func TestInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_ = s.ReplaceFoursomes(ctx, "r1", sampleSet())

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Repository) error {
		if err := tx.ReplaceFoursomes(ctx, "r1", nil); err != nil {
			return err
		}
		if err := tx.SetRoundStatus(ctx, "r1", rounds.StatusCompleted); err == nil {
			t.Fatalf("expected missing round inside tx")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	set, _ := s.ListFoursomes(ctx, "r1")
	if len(set) != 2 {
		t.Fatalf("expected rollback to keep foursomes, got %d", len(set))
	}

	err = s.InTx(ctx, func(tx store.Repository) error {
		return tx.CreateRound(ctx, rounds.Round{ID: "r1", Season: 2025, Number: 1, Status: rounds.StatusScheduled})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := s.GetRound(ctx, "r1"); err != nil {
		t.Fatalf("expected committed round: %v", err)
	}
}
