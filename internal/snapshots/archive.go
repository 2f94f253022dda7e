package snapshots

import (
	"sort"
	"time"

	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

// RoundArchive is the frozen record of a finalized round.
type RoundArchive struct {
	Round      rounds.Round         `json:"round"`
	Foursomes  []foursomes.Foursome `json:"foursomes"`
	Scores     []scores.Score       `json:"scores"`
	Points     []scores.RoundPoints `json:"points"`
	ArchivedAt time.Time            `json:"archivedAt"`
}

// normalize orders the archive's collections so identical rounds encode identically.
func (a *RoundArchive) normalize() {
	if a.Foursomes == nil {
		a.Foursomes = []foursomes.Foursome{}
	}
	if a.Scores == nil {
		a.Scores = []scores.Score{}
	}
	if a.Points == nil {
		a.Points = []scores.RoundPoints{}
	}
	sort.SliceStable(a.Foursomes, func(i, j int) bool {
		return a.Foursomes[i].TeeTimeSlot < a.Foursomes[j].TeeTimeSlot
	})
	sort.SliceStable(a.Scores, func(i, j int) bool {
		if a.Scores[i].TeamID != a.Scores[j].TeamID {
			return a.Scores[i].TeamID < a.Scores[j].TeamID
		}
		return a.Scores[i].Player.Key() < a.Scores[j].Player.Key()
	})
	sort.SliceStable(a.Points, func(i, j int) bool {
		if a.Points[i].FinishPosition != a.Points[j].FinishPosition {
			return a.Points[i].FinishPosition < a.Points[j].FinishPosition
		}
		return a.Points[i].TeamID < a.Points[j].TeamID
	})
	a.ArchivedAt = a.ArchivedAt.UTC()
}
