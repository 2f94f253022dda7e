package snapshots

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

var archiveTime = time.Date(2025, 5, 1, 21, 0, 0, 0, time.UTC)

func sampleArchive(id string, season, number int) RoundArchive {
	net := 28.0
	return RoundArchive{
		Round: rounds.Round{ID: id, Season: season, Number: number, Date: "2025-05-01", Status: rounds.StatusCompleted},
		Foursomes: []foursomes.Foursome{
			{ID: "f2", RoundID: id, TeeTimeSlot: 2, Members: []foursomes.Member{
				{FoursomeID: "f2", Player: players.Member("g5"), TeamID: "t5", CartNumber: 1},
			}},
			{ID: "f1", RoundID: id, TeeTimeSlot: 1, Members: []foursomes.Member{
				{FoursomeID: "f1", Player: players.Substitute("s1", ""), TeamID: "t1", CartNumber: 1, DisplayName: "Sub"},
			}},
		},
		Scores: []scores.Score{
			{ID: "sc2", RoundID: id, Player: players.Member("g5"), TeamID: "t5", HoleScores: []int{4, 0, 0, 0, 0, 0, 0, 0, 0}, GrossScore: 4, SubmittedAt: archiveTime},
			{ID: "sc1", RoundID: id, Player: players.Substitute("s1", ""), TeamID: "t1", HoleScores: []int{4, 4, 4, 5, 3, 4, 3, 4, 5},
				HandicapAtTime: 8, GrossScore: 36, NetScore: &net, IsLocked: true, IsSubstitute: true, SubmittedAt: archiveTime},
		},
		Points: []scores.RoundPoints{
			{RoundID: id, TeamID: "t1", NetScore: 28, FinishPosition: 1, PointsEarned: 8, TiedWithTeams: []string{}},
		},
		ArchivedAt: archiveTime,
	}
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 0, clockwork.NewFakeClockAt(archiveTime))
	want := sampleArchive("r1", 2025, 1)
	if err := w.WriteRound(want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFSStore(dir).LoadRound("r1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want.normalize()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", want, got)
	}
	if got.Foursomes[0].ID != "f1" || got.Scores[0].TeamID != "t1" {
		t.Fatalf("expected normalized ordering, got %+v", got)
	}
}

func TestWriterSkipsUnchangedArchive(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 0, clockwork.NewFakeClockAt(archiveTime))
	a := sampleArchive("r1", 2025, 1)
	if err := w.WriteRound(a); err != nil {
		t.Fatalf("write: %v", err)
	}
	path := RoundArchivePath(dir, "r1")
	old := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := w.WriteRound(a); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(old) {
		t.Fatalf("expected unchanged archive to be left alone")
	}
}

func TestWriterManifestAndRetention(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 1, clockwork.NewFakeClockAt(archiveTime))
	for _, a := range []RoundArchive{
		sampleArchive("old", 2024, 3),
		sampleArchive("r2", 2025, 2),
		sampleArchive("r1", 2025, 1),
	} {
		if err := w.WriteRound(a); err != nil {
			t.Fatalf("write %s: %v", a.Round.ID, err)
		}
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(m.Rounds) != 2 || m.Rounds[0].RoundID != "r1" || m.Rounds[1].RoundID != "r2" {
		t.Fatalf("unexpected manifest rounds %+v", m.Rounds)
	}
	if m.Retention.Seasons != 1 || !m.GeneratedAt.Equal(archiveTime) {
		t.Fatalf("unexpected manifest metadata %+v", m)
	}
	if _, err := os.Stat(filepath.Join(dir, "rounds", "old.json")); !os.IsNotExist(err) {
		t.Fatalf("expected previous season archive to be pruned, got %v", err)
	}
	if !NewFSStore(dir).HasRound("r2") || NewFSStore(dir).HasRound("old") {
		t.Fatalf("unexpected HasRound results")
	}
}

func TestWriterRejectsBadRoundID(t *testing.T) {
	w := NewWriter(t.TempDir(), 0, nil)
	a := sampleArchive("../escape", 2025, 1)
	if _, ok := domain.AsValidation(w.WriteRound(a)); !ok {
		t.Fatalf("expected validation error for path-like round id")
	}
	var nilWriter *Writer
	if err := nilWriter.WriteRound(a); err == nil {
		t.Fatalf("expected error from nil writer")
	}
	if nilWriter.BasePath() != "" {
		t.Fatalf("expected empty base path for nil writer")
	}
}

func TestFSStoreMissingArchive(t *testing.T) {
	s := NewFSStore(t.TempDir())
	if _, err := s.LoadRound("nope"); err == nil {
		t.Fatalf("expected error")
	} else if _, ok := domain.AsNotFound(err); !ok {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, ok := domain.AsValidation(errOf(s.LoadRound("a/b"))); !ok {
		t.Fatalf("expected validation error")
	}
}

func errOf(_ RoundArchive, err error) error { return err }
