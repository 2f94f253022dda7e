package snapshots

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
)

const (
	roundsDir    = "rounds"
	manifestName = "manifest.json"
)

// RoundArchivePath builds the path to a round archive.
func RoundArchivePath(basePath, roundID string) string {
	return filepath.Join(basePath, roundsDir, fmt.Sprintf("%s.json", roundID))
}

func checkRoundID(roundID string) error {
	if roundID == "" || roundID == "." || roundID == ".." || strings.ContainsAny(roundID, `/\`) {
		return domain.Validation("roundId", "invalid round id %q", roundID)
	}
	return nil
}
