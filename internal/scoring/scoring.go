package scoring

import (
	"github.com/preston-bernstein/golf-league-service/internal/domain"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

// DefaultMaxHoleScore caps a single hole.
const DefaultMaxHoleScore = 20

// DefaultHolePars are the pars of the league's nine holes.
var DefaultHolePars = []int{4, 4, 4, 5, 3, 4, 3, 4, 5}

// DefaultStrokeIndex ranks the holes from hardest (1) to easiest (9).
var DefaultStrokeIndex = []int{5, 7, 1, 3, 9, 2, 8, 4, 6}

// Rules parameterize score validation and reporting.
type Rules struct {
	MaxHoleScore int
	HolePars     []int
	StrokeIndex  []int
}

// DefaultRules returns the league's standard course and caps.
func DefaultRules() Rules {
	return Rules{
		MaxHoleScore: DefaultMaxHoleScore,
		HolePars:     append([]int(nil), DefaultHolePars...),
		StrokeIndex:  append([]int(nil), DefaultStrokeIndex...),
	}
}

// Par returns the course par.
func (r Rules) Par() int {
	total := 0
	for _, p := range r.HolePars {
		total += p
	}
	return total
}

// Card is a validated set of hole scores with its derived totals.
type Card struct {
	Holes []int
	Gross int
	Net   *float64
}

// Engine applies the scoring rules.
type Engine struct {
	rules Rules
}

// New builds an engine, falling back to defaults for unset rules.
func New(rules Rules) *Engine {
	def := DefaultRules()
	if rules.MaxHoleScore <= 0 {
		rules.MaxHoleScore = def.MaxHoleScore
	}
	if len(rules.HolePars) != scores.Holes {
		rules.HolePars = def.HolePars
	}
	if len(rules.StrokeIndex) != scores.Holes {
		rules.StrokeIndex = def.StrokeIndex
	}
	return &Engine{rules: rules}
}

// Rules returns the engine's effective rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Normalize checks the hole count, rejects negatives and clamps values above the cap.
func (e *Engine) Normalize(holes []int) ([]int, error) {
	if len(holes) != scores.Holes {
		return nil, domain.Validation("holeScores", "expected %d hole scores, got %d", scores.Holes, len(holes))
	}
	out := make([]int, scores.Holes)
	for i, h := range holes {
		if h < 0 {
			return nil, domain.Validation("holeScores", "hole %d score cannot be negative", i+1)
		}
		if h > e.rules.MaxHoleScore {
			h = e.rules.MaxHoleScore
		}
		out[i] = h
	}
	return out, nil
}

// Card validates holes and computes gross and net against handicap.
func (e *Engine) Card(holes []int, handicap float64) (Card, error) {
	norm, err := e.Normalize(holes)
	if err != nil {
		return Card{}, err
	}
	return Card{Holes: norm, Gross: Gross(norm), Net: Net(norm, handicap)}, nil
}

// Gross sums the entered holes only.
func Gross(holes []int) int {
	total := 0
	for _, h := range holes {
		if h > 0 {
			total += h
		}
	}
	return total
}

// Net is gross minus handicap rounded to a tenth, or nil until every hole is entered.
func Net(holes []int, handicap float64) *float64 {
	if len(holes) != scores.Holes {
		return nil
	}
	for _, h := range holes {
		if h <= 0 {
			return nil
		}
	}
	v := scores.Round1(float64(Gross(holes)) - handicap)
	return &v
}

// Apply writes a card onto a score. Locked scores reject the write.
func Apply(s scores.Score, card Card, handicap float64) (scores.Score, error) {
	if s.IsLocked {
		return s, &domain.LockedError{ScoreID: s.ID}
	}
	s.HoleScores = append([]int(nil), card.Holes...)
	s.GrossScore = card.Gross
	s.NetScore = card.Net
	s.HandicapAtTime = handicap
	return s, nil
}

// CheckLock reports why s cannot be locked, if anything.
func CheckLock(s scores.Score) error {
	if s.IsLocked {
		return &domain.LockedError{ScoreID: s.ID}
	}
	if !s.Complete() {
		return &domain.IncompleteScoreError{Entered: s.Entered(), Holes: scores.Holes}
	}
	return nil
}

// AuthorizeSubmission applies the self-service rules. membership is the
// caller's seat in the round's foursomes, or nil. Admins always pass.
func AuthorizeSubmission(caller domain.Caller, round rounds.Round, membership *model.Member) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.GolferID == "" {
		return &domain.ForbiddenError{Reason: "a golfer identity is required to submit scores"}
	}
	if !round.Status.ScoreEntryOpen() {
		return &domain.ForbiddenError{Reason: "scoring is not open for this round"}
	}
	if membership == nil {
		return &domain.ForbiddenError{Reason: "you are not listed as a player in this round"}
	}
	return nil
}

// FindMember returns the seat held by golferID across a round's foursomes.
func FindMember(set []model.Foursome, golferID string) *model.Member {
	if golferID == "" {
		return nil
	}
	for _, f := range set {
		for _, m := range f.Members {
			if m.Player.GolferID == golferID {
				found := m
				return &found
			}
		}
	}
	return nil
}

// ToPar reports each entered hole relative to par.
func (e *Engine) ToPar(holes []int) scores.ToPar {
	out := scores.ToPar{Holes: make([]*int, len(holes))}
	for i, h := range holes {
		if h <= 0 || i >= len(e.rules.HolePars) {
			continue
		}
		d := h - e.rules.HolePars[i]
		out.Holes[i] = &d
		out.Total += d
	}
	return out
}

// View decorates a score with its state and to-par breakdown.
func (e *Engine) View(s scores.Score) scores.View {
	return scores.View{Score: s, State: s.State(), ToPar: e.ToPar(s.HoleScores)}
}
