package testutil

import (
	"testing"

	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/snapshots"
)

// NewTempWriter returns an archive writer rooted in a temp dir on the fixture clock.
func NewTempWriter(t *testing.T) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir(), 0, NewFakeClock())
}

// WriteArchive writes an empty archive for a completed fixture round.
func WriteArchive(t *testing.T, w *snapshots.Writer, roundID string) {
	t.Helper()
	err := w.WriteRound(snapshots.RoundArchive{Round: Round(roundID, 1, rounds.StatusCompleted)})
	if err != nil {
		t.Fatalf("failed to write archive %s: %v", roundID, err)
	}
}
