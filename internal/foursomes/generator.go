package foursomes

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/pairing"
)

// DefaultTrials is the number of random partitions sampled per generation.
const DefaultTrials = 100

// Generator partitions a round's golfers into two foursomes, keeping the
// lowest repeat-pairing score over a fixed number of shuffles.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	trials int
	newID  func() string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithTrials overrides the number of sampled partitions. Non-positive values are ignored.
func WithTrials(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.trials = n
		}
	}
}

// WithSeed makes generation reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithIDFunc overrides how foursome ids are minted.
func WithIDFunc(fn func() string) Option {
	return func(g *Generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// NewGenerator builds a generator seeded from crypto/rand unless an option says otherwise.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		trials: DefaultTrials,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(randomSeed()))
	}
	return g
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Trials returns the configured number of sampled partitions.
func (g *Generator) Trials() int {
	return g.trials
}

// Generate assigns exactly eight golfers from distinct teams to two foursomes.
// Positions 0-3 of a shuffle form tee time 1 (cart 1 = 0,1; cart 2 = 2,3) and
// positions 4-7 form tee time 2. Ties keep the first partition found.
func (g *Generator) Generate(roundID string, golfers []model.Golfer, history *pairing.Index) (model.Assignment, error) {
	if err := checkGolfers(golfers); err != nil {
		return model.Assignment{}, err
	}

	work := append([]model.Golfer(nil), golfers...)
	var best []model.Golfer
	bestScore := 0

	g.mu.Lock()
	for i := 0; i < g.trials; i++ {
		shuffle(g.rng, work)
		score := partitionScore(work, history)
		if best == nil || score < bestScore {
			best = append(best[:0], work...)
			bestScore = score
		}
	}
	g.mu.Unlock()

	out := model.Assignment{Score: bestScore, Trials: g.trials}
	for slot := 0; slot < model.PerRound; slot++ {
		f := model.Foursome{ID: g.newID(), RoundID: roundID, TeeTimeSlot: slot + 1}
		group := best[slot*model.GolfersPerFoursome : (slot+1)*model.GolfersPerFoursome]
		for pos, golfer := range group {
			f.Members = append(f.Members, model.NewMember(f.ID, golfer, pos/model.CartCapacity+1))
		}
		out.Foursomes[slot] = f
	}
	return out, nil
}

func checkGolfers(golfers []model.Golfer) error {
	if len(golfers) != model.GolfersPerRound {
		return domain.Validation("golfers", "exactly %d golfers are required, got %d", model.GolfersPerRound, len(golfers))
	}
	teams := make(map[string]struct{}, len(golfers))
	keys := make(map[string]struct{}, len(golfers))
	for _, g := range golfers {
		if !g.Player.Valid() {
			return domain.Validation("golfers", "golfer for team %s has no golfer or substitute reference", g.TeamID)
		}
		if g.TeamID == "" {
			return domain.Validation("golfers", "golfer %s has no team", g.Player.Key())
		}
		if _, dup := teams[g.TeamID]; dup {
			return domain.Validation("golfers", "team %s has more than one golfer", g.TeamID)
		}
		if _, dup := keys[g.Player.Key()]; dup {
			return domain.Validation("golfers", "%s listed more than once", g.Player.Key())
		}
		teams[g.TeamID] = struct{}{}
		keys[g.Player.Key()] = struct{}{}
	}
	return nil
}

// shuffle is a Fisher-Yates pass over golfers.
func shuffle(r *rand.Rand, golfers []model.Golfer) {
	for i := len(golfers) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		golfers[i], golfers[j] = golfers[j], golfers[i]
	}
}

// partitionScore sums historical co-occurrences over the six pairs of each foursome.
func partitionScore(golfers []model.Golfer, history *pairing.Index) int {
	if history == nil {
		return 0
	}
	score := 0
	for start := 0; start < len(golfers); start += model.GolfersPerFoursome {
		group := golfers[start : start+model.GolfersPerFoursome]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				score += history.Count(group[i].Player.Key(), group[j].Player.Key())
			}
		}
	}
	return score
}

// Score evaluates an existing set of foursomes against history.
func Score(set []model.Foursome, history *pairing.Index) int {
	score := 0
	for _, f := range set {
		for i := 0; i < len(f.Members); i++ {
			for j := i + 1; j < len(f.Members); j++ {
				score += history.Count(f.Members[i].Player.Key(), f.Members[j].Player.Key())
			}
		}
	}
	return score
}
