package snapshots

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
)

// Store defines how round archives are loaded.
type Store interface {
	LoadRound(roundID string) (RoundArchive, error)
}

// FSStore loads round archives from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed archive store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadRound reads {basePath}/rounds/{roundID}.json. A missing archive is a NotFoundError.
func (s *FSStore) LoadRound(roundID string) (RoundArchive, error) {
	if s == nil {
		return RoundArchive{}, errors.New("snapshot store not configured")
	}
	if err := checkRoundID(roundID); err != nil {
		return RoundArchive{}, err
	}
	f, err := os.Open(RoundArchivePath(s.basePath, roundID))
	if errors.Is(err, fs.ErrNotExist) {
		return RoundArchive{}, domain.NotFound("archive", roundID)
	}
	if err != nil {
		return RoundArchive{}, err
	}
	defer f.Close()

	var a RoundArchive
	if err := json.NewDecoder(f).Decode(&a); err != nil {
		return RoundArchive{}, err
	}
	return a, nil
}

// HasRound reports whether an archive exists for the round.
func (s *FSStore) HasRound(roundID string) bool {
	if s == nil || checkRoundID(roundID) != nil {
		return false
	}
	_, err := os.Stat(RoundArchivePath(s.basePath, roundID))
	return err == nil
}
