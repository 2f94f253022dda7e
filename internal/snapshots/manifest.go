package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Manifest lists archived rounds.
type Manifest struct {
	Version      int             `json:"version"`
	GeneratedAt  time.Time       `json:"generatedAt"`
	Retention    Retention       `json:"retention"`
	Rounds       []ManifestEntry `json:"rounds"`
	LastArchived time.Time       `json:"lastArchived"`
}

type Retention struct {
	Seasons int `json:"seasons"`
}

// ManifestEntry is one archived round.
type ManifestEntry struct {
	RoundID    string    `json:"roundId"`
	Season     int       `json:"season"`
	Number     int       `json:"number"`
	ArchivedAt time.Time `json:"archivedAt"`
}

func defaultManifest(retentionSeasons int) Manifest {
	return Manifest{
		Version:   1,
		Retention: Retention{Seasons: retentionSeasons},
		Rounds:    []ManifestEntry{},
	}
}

func (m *Manifest) upsert(e ManifestEntry) {
	for i := range m.Rounds {
		if m.Rounds[i].RoundID == e.RoundID {
			m.Rounds[i] = e
			m.sort()
			return
		}
	}
	m.Rounds = append(m.Rounds, e)
	m.sort()
}

func (m *Manifest) sort() {
	sort.Slice(m.Rounds, func(i, j int) bool {
		a, b := m.Rounds[i], m.Rounds[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.RoundID < b.RoundID
	})
}

// ReadManifest loads the manifest under basePath.
func ReadManifest(basePath string) (Manifest, error) {
	return readManifest(filepath.Join(basePath, manifestName), 0)
}

func readManifest(path string, retentionSeasons int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retentionSeasons), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionSeasons), err
	}
	if m.Rounds == nil {
		m.Rounds = []ManifestEntry{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now
	path := filepath.Join(basePath, manifestName)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
