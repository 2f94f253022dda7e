package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
)

func TestIndexIsSymmetric(t *testing.T) {
	ix := New()
	ix.Add("a", "b")
	ix.Add("b", "a")
	ix.Add("a", "a")

	assert.Equal(t, 2, ix.Count("a", "b"))
	assert.Equal(t, 2, ix.Count("b", "a"))
	assert.Equal(t, 0, ix.Count("a", "a"))
	assert.Equal(t, 0, ix.Count("a", "z"))
}

func TestNilIndexIsEmpty(t *testing.T) {
	var ix *Index
	assert.Equal(t, 0, ix.Count("a", "b"))
	assert.Equal(t, 0, ix.Len())
}

func TestFromRoundsCountsIntraFoursomePairs(t *testing.T) {
	mk := func(ids ...string) model.Foursome {
		var f model.Foursome
		for _, id := range ids {
			f.Members = append(f.Members, model.Member{Player: players.Member(id)})
		}
		return f
	}
	ix := FromRounds([][]model.Foursome{
		{mk("g1", "g2", "g3", "g4"), mk("g5", "g6", "g7", "g8")},
		{mk("g1", "g2", "g5", "g6"), mk("g3", "g4", "g7", "g8")},
	})

	g := func(id string) string { return players.Member(id).Key() }
	assert.Equal(t, 2, ix.Count(g("g1"), g("g2")))
	assert.Equal(t, 1, ix.Count(g("g1"), g("g5")))
	assert.Equal(t, 0, ix.Count(g("g1"), g("g7")))
	assert.Equal(t, 8, ix.Len())
}
