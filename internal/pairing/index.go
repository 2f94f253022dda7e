package pairing

import model "github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"

// Index counts how many times two players shared a foursome. Keys are Player.Key values.
// A nil Index behaves as empty history.
type Index struct {
	counts map[string]map[string]int
}

// New returns an empty index.
func New() *Index {
	return &Index{counts: make(map[string]map[string]int)}
}

// Add records one co-occurrence of a and b in both directions.
func (ix *Index) Add(a, b string) {
	if a == b {
		return
	}
	ix.bump(a, b)
	ix.bump(b, a)
}

func (ix *Index) bump(a, b string) {
	row, ok := ix.counts[a]
	if !ok {
		row = make(map[string]int)
		ix.counts[a] = row
	}
	row[b]++
}

// AddGroup records every pair within one group.
func (ix *Index) AddGroup(keys []string) {
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			ix.Add(keys[i], keys[j])
		}
	}
}

// AddFoursome records every pair of members in f.
func (ix *Index) AddFoursome(f model.Foursome) {
	keys := make([]string, 0, len(f.Members))
	for _, m := range f.Members {
		keys = append(keys, m.Player.Key())
	}
	ix.AddGroup(keys)
}

// Count returns how often a and b have played together.
func (ix *Index) Count(a, b string) int {
	if ix == nil {
		return 0
	}
	return ix.counts[a][b]
}

// Len returns the number of players with at least one recorded pairing.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.counts)
}

// FromRounds builds an index from the foursome sets of past rounds.
func FromRounds(rounds [][]model.Foursome) *Index {
	ix := New()
	for _, set := range rounds {
		for _, f := range set {
			ix.AddFoursome(f)
		}
	}
	return ix
}
