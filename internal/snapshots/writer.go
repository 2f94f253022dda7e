package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
)

// Writer persists round archives and the manifest, pruning old seasons.
type Writer struct {
	basePath         string
	retentionSeasons int
	clock            clockwork.Clock
}

// NewWriter constructs a writer rooted at basePath. retentionSeasons <= 0 keeps every season.
func NewWriter(basePath string, retentionSeasons int, clock clockwork.Clock) *Writer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if retentionSeasons < 0 {
		retentionSeasons = 0
	}
	return &Writer{
		basePath:         basePath,
		retentionSeasons: retentionSeasons,
		clock:            clock,
	}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteRound writes the archive atomically and records it in the manifest.
// An unchanged archive is not rewritten.
func (w *Writer) WriteRound(a RoundArchive) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if err := checkRoundID(a.Round.ID); err != nil {
		return err
	}
	if a.ArchivedAt.IsZero() {
		a.ArchivedAt = w.clock.Now()
	}
	a.normalize()

	target := RoundArchivePath(w.basePath, a.Round.ID)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err != nil || !bytes.Equal(existing, data) {
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, target); err != nil {
			return err
		}
	}

	return w.updateManifest(ManifestEntry{
		RoundID:    a.Round.ID,
		Season:     a.Round.Season,
		Number:     a.Round.Number,
		ArchivedAt: a.ArchivedAt,
	})
}

func (w *Writer) updateManifest(e ManifestEntry) error {
	m, _ := readManifest(filepath.Join(w.basePath, manifestName), w.retentionSeasons)
	m.Retention.Seasons = w.retentionSeasons
	m.upsert(e)
	m.Rounds = w.prune(m.Rounds)
	m.LastArchived = e.ArchivedAt
	return writeManifest(w.basePath, m, w.clock.Now().UTC())
}

// prune removes archives older than the retention window, counted back from the newest season.
func (w *Writer) prune(entries []ManifestEntry) []ManifestEntry {
	if w.retentionSeasons == 0 || len(entries) == 0 {
		return entries
	}
	newest := entries[0].Season
	for _, e := range entries {
		if e.Season > newest {
			newest = e.Season
		}
	}
	cutoff := newest - w.retentionSeasons + 1

	keep := entries[:0]
	for _, e := range entries {
		if e.Season < cutoff {
			_ = os.Remove(RoundArchivePath(w.basePath, e.RoundID))
			continue
		}
		keep = append(keep, e)
	}
	return keep
}
