package store

import (
	"context"
	"sort"
	"sync"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
)

// MemoryStore keeps league state in memory behind a RWMutex. Reads return
// copies, and transactions run against a cloned state swapped in on success.
type MemoryStore struct {
	mu    sync.RWMutex
	state *state
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newState()}
}

var (
	_ Store      = (*MemoryStore)(nil)
	_ Repository = (*state)(nil)
)

// InTx runs fn against a private copy of the state and commits it only when fn succeeds.
func (s *MemoryStore) InTx(ctx context.Context, fn func(Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(draft); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) read(fn func(*state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

func (s *MemoryStore) write(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *MemoryStore) CreateRound(ctx context.Context, r rounds.Round) error {
	return s.write(func(st *state) error { return st.CreateRound(ctx, r) })
}

func (s *MemoryStore) GetRound(ctx context.Context, id string) (out rounds.Round, err error) {
	err = s.read(func(st *state) error { out, err = st.GetRound(ctx, id); return err })
	return out, err
}

func (s *MemoryStore) ListRounds(ctx context.Context, season int) (out []rounds.Round, err error) {
	err = s.read(func(st *state) error { out, err = st.ListRounds(ctx, season); return err })
	return out, err
}

func (s *MemoryStore) SetRoundStatus(ctx context.Context, id string, status rounds.Status) error {
	return s.write(func(st *state) error { return st.SetRoundStatus(ctx, id, status) })
}

func (s *MemoryStore) SaveDeclaration(ctx context.Context, d availability.Declaration) error {
	return s.write(func(st *state) error { return st.SaveDeclaration(ctx, d) })
}

func (s *MemoryStore) ListDeclarations(ctx context.Context, roundID string) (out []availability.Declaration, err error) {
	err = s.read(func(st *state) error { out, err = st.ListDeclarations(ctx, roundID); return err })
	return out, err
}

func (s *MemoryStore) SaveSubstitution(ctx context.Context, sub availability.Substitution) error {
	return s.write(func(st *state) error { return st.SaveSubstitution(ctx, sub) })
}

func (s *MemoryStore) ListSubstitutions(ctx context.Context, roundID string) (out []availability.Substitution, err error) {
	err = s.read(func(st *state) error { out, err = st.ListSubstitutions(ctx, roundID); return err })
	return out, err
}

func (s *MemoryStore) ListFoursomes(ctx context.Context, roundID string) (out []foursomes.Foursome, err error) {
	err = s.read(func(st *state) error { out, err = st.ListFoursomes(ctx, roundID); return err })
	return out, err
}

func (s *MemoryStore) ReplaceFoursomes(ctx context.Context, roundID string, set []foursomes.Foursome) error {
	return s.write(func(st *state) error { return st.ReplaceFoursomes(ctx, roundID, set) })
}

func (s *MemoryStore) ReplaceMembers(ctx context.Context, foursomeID string, members []foursomes.Member) error {
	return s.write(func(st *state) error { return st.ReplaceMembers(ctx, foursomeID, members) })
}

func (s *MemoryStore) GetScore(ctx context.Context, id string) (out scores.Score, err error) {
	err = s.read(func(st *state) error { out, err = st.GetScore(ctx, id); return err })
	return out, err
}

func (s *MemoryStore) FindScore(ctx context.Context, roundID string, player players.Player) (out scores.Score, err error) {
	err = s.read(func(st *state) error { out, err = st.FindScore(ctx, roundID, player); return err })
	return out, err
}

func (s *MemoryStore) SaveScore(ctx context.Context, sc scores.Score) error {
	return s.write(func(st *state) error { return st.SaveScore(ctx, sc) })
}

func (s *MemoryStore) SetScoreLocked(ctx context.Context, id string, locked bool) error {
	return s.write(func(st *state) error { return st.SetScoreLocked(ctx, id, locked) })
}

func (s *MemoryStore) ListScores(ctx context.Context, roundID string) (out []scores.Score, err error) {
	err = s.read(func(st *state) error { out, err = st.ListScores(ctx, roundID); return err })
	return out, err
}

func (s *MemoryStore) EligibleGrossScores(ctx context.Context, golferID string, limit int) (out []int, err error) {
	err = s.read(func(st *state) error { out, err = st.EligibleGrossScores(ctx, golferID, limit); return err })
	return out, err
}

func (s *MemoryStore) ReplaceRoundPoints(ctx context.Context, roundID string, rows []scores.RoundPoints) error {
	return s.write(func(st *state) error { return st.ReplaceRoundPoints(ctx, roundID, rows) })
}

func (s *MemoryStore) ListRoundPoints(ctx context.Context, roundID string) (out []scores.RoundPoints, err error) {
	err = s.read(func(st *state) error { out, err = st.ListRoundPoints(ctx, roundID); return err })
	return out, err
}

func (s *MemoryStore) ListSeasonPoints(ctx context.Context, season int) (out []scores.RoundPoints, err error) {
	err = s.read(func(st *state) error { out, err = st.ListSeasonPoints(ctx, season); return err })
	return out, err
}

func (s *MemoryStore) GetHandicap(ctx context.Context, golferID string) (out handicaps.Handicap, err error) {
	err = s.read(func(st *state) error { out, err = st.GetHandicap(ctx, golferID); return err })
	return out, err
}

func (s *MemoryStore) SaveHandicap(ctx context.Context, h handicaps.Handicap) error {
	return s.write(func(st *state) error { return st.SaveHandicap(ctx, h) })
}

func (s *MemoryStore) AddHandicapHistory(ctx context.Context, h handicaps.History) error {
	return s.write(func(st *state) error { return st.AddHandicapHistory(ctx, h) })
}

func (s *MemoryStore) ListHandicapHistory(ctx context.Context, golferID string) (out []handicaps.History, err error) {
	err = s.read(func(st *state) error { out, err = st.ListHandicapHistory(ctx, golferID); return err })
	return out, err
}

// state is the unlocked data behind a MemoryStore. It implements Repository
// so a cloned state can serve as a transaction.
type state struct {
	rounds        map[string]rounds.Round
	declarations  map[string]map[string]availability.Declaration
	substitutions map[string]map[string]availability.Substitution
	foursomes     map[string][]foursomes.Foursome
	scores        map[string]scores.Score
	points        map[string]map[string]scores.RoundPoints
	handicaps     map[string]handicaps.Handicap
	history       map[string][]handicaps.History
}

func newState() *state {
	return &state{
		rounds:        make(map[string]rounds.Round),
		declarations:  make(map[string]map[string]availability.Declaration),
		substitutions: make(map[string]map[string]availability.Substitution),
		foursomes:     make(map[string][]foursomes.Foursome),
		scores:        make(map[string]scores.Score),
		points:        make(map[string]map[string]scores.RoundPoints),
		handicaps:     make(map[string]handicaps.Handicap),
		history:       make(map[string][]handicaps.History),
	}
}

func (st *state) clone() *state {
	out := newState()
	for k, v := range st.rounds {
		out.rounds[k] = v
	}
	for k, m := range st.declarations {
		cp := make(map[string]availability.Declaration, len(m))
		for kk, v := range m {
			cp[kk] = v
		}
		out.declarations[k] = cp
	}
	for k, m := range st.substitutions {
		cp := make(map[string]availability.Substitution, len(m))
		for kk, v := range m {
			cp[kk] = v
		}
		out.substitutions[k] = cp
	}
	for k, set := range st.foursomes {
		out.foursomes[k] = cloneSet(set)
	}
	for k, v := range st.scores {
		out.scores[k] = v.Clone()
	}
	for k, m := range st.points {
		cp := make(map[string]scores.RoundPoints, len(m))
		for kk, v := range m {
			cp[kk] = v.Clone()
		}
		out.points[k] = cp
	}
	for k, v := range st.handicaps {
		out.handicaps[k] = v
	}
	for k, hs := range st.history {
		cp := make([]handicaps.History, 0, len(hs))
		for _, h := range hs {
			cp = append(cp, h.Clone())
		}
		out.history[k] = cp
	}
	return out
}

func cloneSet(set []foursomes.Foursome) []foursomes.Foursome {
	out := make([]foursomes.Foursome, 0, len(set))
	for _, f := range set {
		out = append(out, f.Clone())
	}
	return out
}

func (st *state) CreateRound(_ context.Context, r rounds.Round) error {
	if _, exists := st.rounds[r.ID]; exists {
		return domain.Validation("id", "round %s already exists", r.ID)
	}
	st.rounds[r.ID] = r
	return nil
}

func (st *state) GetRound(_ context.Context, id string) (rounds.Round, error) {
	r, ok := st.rounds[id]
	if !ok {
		return rounds.Round{}, domain.NotFound("round", id)
	}
	return r, nil
}

func (st *state) ListRounds(_ context.Context, season int) ([]rounds.Round, error) {
	out := make([]rounds.Round, 0, len(st.rounds))
	for _, r := range st.rounds {
		if season == 0 || r.Season == season {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (st *state) SetRoundStatus(_ context.Context, id string, status rounds.Status) error {
	r, ok := st.rounds[id]
	if !ok {
		return domain.NotFound("round", id)
	}
	r.Status = status
	st.rounds[id] = r
	return nil
}

func (st *state) SaveDeclaration(_ context.Context, d availability.Declaration) error {
	m, ok := st.declarations[d.RoundID]
	if !ok {
		m = make(map[string]availability.Declaration)
		st.declarations[d.RoundID] = m
	}
	m[d.GolferID] = d
	return nil
}

func (st *state) ListDeclarations(_ context.Context, roundID string) ([]availability.Declaration, error) {
	out := make([]availability.Declaration, 0, len(st.declarations[roundID]))
	for _, d := range st.declarations[roundID] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].GolferID < out[j].GolferID
	})
	return out, nil
}

func (st *state) SaveSubstitution(_ context.Context, sub availability.Substitution) error {
	m, ok := st.substitutions[sub.RoundID]
	if !ok {
		m = make(map[string]availability.Substitution)
		st.substitutions[sub.RoundID] = m
	}
	m[sub.TeamID] = sub
	return nil
}

func (st *state) ListSubstitutions(_ context.Context, roundID string) ([]availability.Substitution, error) {
	out := make([]availability.Substitution, 0, len(st.substitutions[roundID]))
	for _, sub := range st.substitutions[roundID] {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (st *state) ListFoursomes(_ context.Context, roundID string) ([]foursomes.Foursome, error) {
	return cloneSet(st.foursomes[roundID]), nil
}

func (st *state) ReplaceFoursomes(_ context.Context, roundID string, set []foursomes.Foursome) error {
	cp := cloneSet(set)
	for i := range cp {
		cp[i].RoundID = roundID
		for j := range cp[i].Members {
			cp[i].Members[j].FoursomeID = cp[i].ID
		}
	}
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].TeeTimeSlot < cp[j].TeeTimeSlot })
	if len(cp) == 0 {
		delete(st.foursomes, roundID)
		return nil
	}
	st.foursomes[roundID] = cp
	return nil
}

func (st *state) ReplaceMembers(_ context.Context, foursomeID string, members []foursomes.Member) error {
	for roundID, set := range st.foursomes {
		for i := range set {
			if set[i].ID != foursomeID {
				continue
			}
			cp := append([]foursomes.Member(nil), members...)
			for j := range cp {
				cp[j].FoursomeID = foursomeID
			}
			set[i].Members = cp
			st.foursomes[roundID] = set
			return nil
		}
	}
	return domain.NotFound("foursome", foursomeID)
}

func (st *state) GetScore(_ context.Context, id string) (scores.Score, error) {
	sc, ok := st.scores[id]
	if !ok {
		return scores.Score{}, domain.NotFound("score", id)
	}
	return sc.Clone(), nil
}

func (st *state) FindScore(_ context.Context, roundID string, player players.Player) (scores.Score, error) {
	for _, sc := range st.scores {
		if sc.RoundID == roundID && sc.Player.Key() == player.Key() {
			return sc.Clone(), nil
		}
	}
	return scores.Score{}, domain.NotFound("score", player.Key())
}

func (st *state) SaveScore(_ context.Context, sc scores.Score) error {
	for id, existing := range st.scores {
		if existing.RoundID == sc.RoundID && existing.Player.Key() == sc.Player.Key() && id != sc.ID {
			sc.ID = id
			break
		}
	}
	st.scores[sc.ID] = sc.Clone()
	return nil
}

func (st *state) SetScoreLocked(_ context.Context, id string, locked bool) error {
	sc, ok := st.scores[id]
	if !ok {
		return domain.NotFound("score", id)
	}
	sc.IsLocked = locked
	st.scores[id] = sc
	return nil
}

func (st *state) ListScores(_ context.Context, roundID string) ([]scores.Score, error) {
	var out []scores.Score
	for _, sc := range st.scores {
		if sc.RoundID == roundID {
			out = append(out, sc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].Player.Key() < out[j].Player.Key()
	})
	return out, nil
}

func (st *state) EligibleGrossScores(_ context.Context, golferID string, limit int) ([]int, error) {
	type entry struct {
		round rounds.Round
		gross int
	}
	var entries []entry
	for _, sc := range st.scores {
		if sc.Player.GolferID != golferID || sc.IsSubstitute || !sc.IsLocked || !sc.Complete() {
			continue
		}
		entries = append(entries, entry{round: st.rounds[sc.RoundID], gross: sc.GrossScore})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].round, entries[j].round
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Number != b.Number {
			return a.Number > b.Number
		}
		return a.ID > b.ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.gross)
	}
	return out, nil
}

func (st *state) ReplaceRoundPoints(_ context.Context, roundID string, rows []scores.RoundPoints) error {
	m := make(map[string]scores.RoundPoints, len(rows))
	for _, r := range rows {
		r.RoundID = roundID
		m[r.TeamID] = r.Clone()
	}
	st.points[roundID] = m
	return nil
}

func (st *state) ListRoundPoints(_ context.Context, roundID string) ([]scores.RoundPoints, error) {
	return sortedPoints(st.points[roundID]), nil
}

func sortedPoints(m map[string]scores.RoundPoints) []scores.RoundPoints {
	out := make([]scores.RoundPoints, 0, len(m))
	for _, p := range m {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundID != out[j].RoundID {
			return out[i].RoundID < out[j].RoundID
		}
		if out[i].FinishPosition != out[j].FinishPosition {
			return out[i].FinishPosition < out[j].FinishPosition
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

func (st *state) ListSeasonPoints(_ context.Context, season int) ([]scores.RoundPoints, error) {
	var out []scores.RoundPoints
	for roundID, m := range st.points {
		r, ok := st.rounds[roundID]
		if !ok || r.Season != season || r.Status != rounds.StatusCompleted {
			continue
		}
		out = append(out, sortedPoints(m)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoundID < out[j].RoundID })
	return out, nil
}

func (st *state) GetHandicap(_ context.Context, golferID string) (handicaps.Handicap, error) {
	h, ok := st.handicaps[golferID]
	if !ok {
		return handicaps.Handicap{}, domain.NotFound("handicap", golferID)
	}
	return h, nil
}

func (st *state) SaveHandicap(_ context.Context, h handicaps.Handicap) error {
	st.handicaps[h.GolferID] = h
	return nil
}

func (st *state) AddHandicapHistory(_ context.Context, h handicaps.History) error {
	st.history[h.GolferID] = append(st.history[h.GolferID], h.Clone())
	return nil
}

func (st *state) ListHandicapHistory(_ context.Context, golferID string) ([]handicaps.History, error) {
	hs := st.history[golferID]
	out := make([]handicaps.History, 0, len(hs))
	for i := len(hs) - 1; i >= 0; i-- {
		out = append(out, hs[i].Clone())
	}
	return out, nil
}
