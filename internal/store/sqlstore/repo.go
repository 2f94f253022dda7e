package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	"github.com/preston-bernstein/golf-league-service/internal/domain/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/domain/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/domain/players"
	"github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain/scores"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

// repo implements store.Repository over a *sql.DB or a *sql.Tx.
type repo struct {
	q        querier
	numbered bool
}

var _ store.Repository = (*repo)(nil)

func (r *repo) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.q.ExecContext(ctx, rebind(r.numbered, query), args...)
}

func (r *repo) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.q.QueryContext(ctx, rebind(r.numbered, query), args...)
}

func (r *repo) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.q.QueryRowContext(ctx, rebind(r.numbered, query), args...)
}

// atomic runs multi-statement writes in a transaction unless r is already bound to one.
func (r *repo) atomic(ctx context.Context, fn func(*repo) error) error {
	db, ok := r.q.(*sql.DB)
	if !ok {
		return fn(r)
	}
	return run(ctx, db, func(tx *sql.Tx) error {
		return fn(&repo{q: tx, numbered: r.numbered})
	})
}

func (r *repo) CreateRound(ctx context.Context, rd rounds.Round) error {
	var exists int
	err := r.queryRow(ctx, `SELECT COUNT(*) FROM rounds WHERE id = ?`, rd.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check round: %w", err)
	}
	if exists > 0 {
		return domain.Validation("id", "round %s already exists", rd.ID)
	}
	_, err = r.exec(ctx,
		`INSERT INTO rounds (id, season, number, round_date, status) VALUES (?, ?, ?, ?, ?)`,
		rd.ID, rd.Season, rd.Number, rd.Date, string(rd.Status))
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

func (r *repo) GetRound(ctx context.Context, id string) (rounds.Round, error) {
	var rd rounds.Round
	var status string
	err := r.queryRow(ctx, `SELECT id, season, number, round_date, status FROM rounds WHERE id = ?`, id).
		Scan(&rd.ID, &rd.Season, &rd.Number, &rd.Date, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return rounds.Round{}, domain.NotFound("round", id)
	}
	if err != nil {
		return rounds.Round{}, fmt.Errorf("failed to get round: %w", err)
	}
	rd.Status = rounds.Status(status)
	return rd, nil
}

func (r *repo) ListRounds(ctx context.Context, season int) ([]rounds.Round, error) {
	rows, err := r.query(ctx,
		`SELECT id, season, number, round_date, status FROM rounds
		 WHERE ? = 0 OR season = ? ORDER BY season, number, id`, season, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var out []rounds.Round
	for rows.Next() {
		var rd rounds.Round
		var status string
		if err := rows.Scan(&rd.ID, &rd.Season, &rd.Number, &rd.Date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rd.Status = rounds.Status(status)
		out = append(out, rd)
	}
	return out, rows.Err()
}

func (r *repo) SetRoundStatus(ctx context.Context, id string, status rounds.Status) error {
	res, err := r.exec(ctx, `UPDATE rounds SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update round status: %w", err)
	}
	return requireRow(res, "round", id)
}

func requireRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NotFound(resource, id)
	}
	return nil
}

func (r *repo) SaveDeclaration(ctx context.Context, d availability.Declaration) error {
	_, err := r.exec(ctx,
		`INSERT INTO round_availability (round_id, golfer_id, team_id, display_name, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (round_id, golfer_id) DO UPDATE SET
		   team_id = excluded.team_id, display_name = excluded.display_name, status = excluded.status`,
		d.RoundID, d.GolferID, d.TeamID, d.DisplayName, string(d.Status))
	if err != nil {
		return fmt.Errorf("failed to save declaration: %w", err)
	}
	return nil
}

func (r *repo) ListDeclarations(ctx context.Context, roundID string) ([]availability.Declaration, error) {
	rows, err := r.query(ctx,
		`SELECT round_id, golfer_id, team_id, display_name, status FROM round_availability
		 WHERE round_id = ? ORDER BY team_id, golfer_id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list declarations: %w", err)
	}
	defer rows.Close()

	var out []availability.Declaration
	for rows.Next() {
		var d availability.Declaration
		var status string
		if err := rows.Scan(&d.RoundID, &d.GolferID, &d.TeamID, &d.DisplayName, &status); err != nil {
			return nil, fmt.Errorf("failed to scan declaration: %w", err)
		}
		d.Status = availability.Status(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repo) SaveSubstitution(ctx context.Context, s availability.Substitution) error {
	_, err := r.exec(ctx,
		`INSERT INTO round_subs (round_id, team_id, substitute_id, golfer_id, display_name, status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (round_id, team_id) DO UPDATE SET
		   substitute_id = excluded.substitute_id, golfer_id = excluded.golfer_id,
		   display_name = excluded.display_name, status = excluded.status`,
		s.RoundID, s.TeamID, s.SubstituteID, s.GolferID, s.DisplayName, string(s.Status))
	if err != nil {
		return fmt.Errorf("failed to save substitution: %w", err)
	}
	return nil
}

func (r *repo) ListSubstitutions(ctx context.Context, roundID string) ([]availability.Substitution, error) {
	rows, err := r.query(ctx,
		`SELECT round_id, team_id, substitute_id, golfer_id, display_name, status FROM round_subs
		 WHERE round_id = ? ORDER BY team_id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list substitutions: %w", err)
	}
	defer rows.Close()

	var out []availability.Substitution
	for rows.Next() {
		var s availability.Substitution
		var status string
		if err := rows.Scan(&s.RoundID, &s.TeamID, &s.SubstituteID, &s.GolferID, &s.DisplayName, &status); err != nil {
			return nil, fmt.Errorf("failed to scan substitution: %w", err)
		}
		s.Status = availability.SubStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) ListFoursomes(ctx context.Context, roundID string) ([]foursomes.Foursome, error) {
	rows, err := r.query(ctx,
		`SELECT id, round_id, tee_time_slot FROM foursomes WHERE round_id = ? ORDER BY tee_time_slot, id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list foursomes: %w", err)
	}
	var out []foursomes.Foursome
	for rows.Next() {
		var f foursomes.Foursome
		if err := rows.Scan(&f.ID, &f.RoundID, &f.TeeTimeSlot); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan foursome: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		members, err := r.listMembers(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Members = members
	}
	return out, nil
}

func (r *repo) listMembers(ctx context.Context, foursomeID string) ([]foursomes.Member, error) {
	rows, err := r.query(ctx,
		`SELECT foursome_id, player_kind, golfer_id, substitute_id, team_id, cart_number, display_name
		 FROM foursome_members WHERE foursome_id = ? ORDER BY position`, foursomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list foursome members: %w", err)
	}
	defer rows.Close()

	var out []foursomes.Member
	for rows.Next() {
		var m foursomes.Member
		var kind string
		if err := rows.Scan(&m.FoursomeID, &kind, &m.Player.GolferID, &m.Player.SubstituteID, &m.TeamID, &m.CartNumber, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan foursome member: %w", err)
		}
		m.Player.Kind = players.Kind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) ReplaceFoursomes(ctx context.Context, roundID string, set []foursomes.Foursome) error {
	return r.atomic(ctx, func(tx *repo) error {
		if _, err := tx.exec(ctx,
			`DELETE FROM foursome_members WHERE foursome_id IN (SELECT id FROM foursomes WHERE round_id = ?)`, roundID); err != nil {
			return fmt.Errorf("failed to delete foursome members: %w", err)
		}
		if _, err := tx.exec(ctx, `DELETE FROM foursomes WHERE round_id = ?`, roundID); err != nil {
			return fmt.Errorf("failed to delete foursomes: %w", err)
		}
		for _, f := range set {
			if _, err := tx.exec(ctx,
				`INSERT INTO foursomes (id, round_id, tee_time_slot) VALUES (?, ?, ?)`,
				f.ID, roundID, f.TeeTimeSlot); err != nil {
				return fmt.Errorf("failed to insert foursome: %w", err)
			}
			if err := tx.insertMembers(ctx, f.ID, f.Members); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) insertMembers(ctx context.Context, foursomeID string, members []foursomes.Member) error {
	for pos, m := range members {
		_, err := r.exec(ctx,
			`INSERT INTO foursome_members
			 (foursome_id, position, player_kind, golfer_id, substitute_id, team_id, cart_number, display_name)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			foursomeID, pos, string(m.Player.Kind), m.Player.GolferID, m.Player.SubstituteID, m.TeamID, m.CartNumber, m.DisplayName)
		if err != nil {
			return fmt.Errorf("failed to insert foursome member: %w", err)
		}
	}
	return nil
}

func (r *repo) ReplaceMembers(ctx context.Context, foursomeID string, members []foursomes.Member) error {
	return r.atomic(ctx, func(tx *repo) error {
		var exists int
		if err := tx.queryRow(ctx, `SELECT COUNT(*) FROM foursomes WHERE id = ?`, foursomeID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check foursome: %w", err)
		}
		if exists == 0 {
			return domain.NotFound("foursome", foursomeID)
		}
		if _, err := tx.exec(ctx, `DELETE FROM foursome_members WHERE foursome_id = ?`, foursomeID); err != nil {
			return fmt.Errorf("failed to delete foursome members: %w", err)
		}
		return tx.insertMembers(ctx, foursomeID, members)
	})
}

const scoreColumns = `id, round_id, player_kind, golfer_id, substitute_id, team_id, hole_scores,
	handicap_at_time, gross_score, net_score, is_locked, is_substitute, submitted_by, submitted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (scores.Score, error) {
	var s scores.Score
	var kind, holes string
	var net sql.NullFloat64
	err := row.Scan(&s.ID, &s.RoundID, &kind, &s.Player.GolferID, &s.Player.SubstituteID, &s.TeamID, &holes,
		&s.HandicapAtTime, &s.GrossScore, &net, &s.IsLocked, &s.IsSubstitute, &s.SubmittedBy, &s.SubmittedAt)
	if err != nil {
		return scores.Score{}, err
	}
	s.Player.Kind = players.Kind(kind)
	if err := json.Unmarshal([]byte(holes), &s.HoleScores); err != nil {
		return scores.Score{}, fmt.Errorf("failed to decode hole scores: %w", err)
	}
	if net.Valid {
		v := net.Float64
		s.NetScore = &v
	}
	s.SubmittedAt = s.SubmittedAt.UTC()
	return s, nil
}

func (r *repo) GetScore(ctx context.Context, id string) (scores.Score, error) {
	s, err := scanScore(r.queryRow(ctx, `SELECT `+scoreColumns+` FROM scores WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return scores.Score{}, domain.NotFound("score", id)
	}
	if err != nil {
		return scores.Score{}, fmt.Errorf("failed to get score: %w", err)
	}
	return s, nil
}

func (r *repo) FindScore(ctx context.Context, roundID string, player players.Player) (scores.Score, error) {
	s, err := scanScore(r.queryRow(ctx,
		`SELECT `+scoreColumns+` FROM scores WHERE round_id = ? AND player_key = ?`, roundID, player.Key()))
	if errors.Is(err, sql.ErrNoRows) {
		return scores.Score{}, domain.NotFound("score", player.Key())
	}
	if err != nil {
		return scores.Score{}, fmt.Errorf("failed to find score: %w", err)
	}
	return s, nil
}

func (r *repo) SaveScore(ctx context.Context, s scores.Score) error {
	holes, err := json.Marshal(nonNilInts(s.HoleScores))
	if err != nil {
		return fmt.Errorf("failed to encode hole scores: %w", err)
	}
	var net sql.NullFloat64
	if s.NetScore != nil {
		net = sql.NullFloat64{Float64: *s.NetScore, Valid: true}
	}
	_, err = r.exec(ctx,
		`INSERT INTO scores (`+scoreColumns+`, player_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (round_id, player_key) DO UPDATE SET
		   player_kind = excluded.player_kind, golfer_id = excluded.golfer_id,
		   substitute_id = excluded.substitute_id, team_id = excluded.team_id,
		   hole_scores = excluded.hole_scores, handicap_at_time = excluded.handicap_at_time,
		   gross_score = excluded.gross_score, net_score = excluded.net_score,
		   is_locked = excluded.is_locked, is_substitute = excluded.is_substitute,
		   submitted_by = excluded.submitted_by, submitted_at = excluded.submitted_at`,
		s.ID, s.RoundID, string(s.Player.Kind), s.Player.GolferID, s.Player.SubstituteID, s.TeamID, string(holes),
		s.HandicapAtTime, s.GrossScore, net, s.IsLocked, s.IsSubstitute, s.SubmittedBy, s.SubmittedAt.UTC(),
		s.Player.Key())
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

func (r *repo) SetScoreLocked(ctx context.Context, id string, locked bool) error {
	res, err := r.exec(ctx, `UPDATE scores SET is_locked = ? WHERE id = ?`, locked, id)
	if err != nil {
		return fmt.Errorf("failed to update score lock: %w", err)
	}
	return requireRow(res, "score", id)
}

func (r *repo) ListScores(ctx context.Context, roundID string) ([]scores.Score, error) {
	rows, err := r.query(ctx,
		`SELECT `+scoreColumns+` FROM scores WHERE round_id = ? ORDER BY team_id, player_key`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var out []scores.Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) EligibleGrossScores(ctx context.Context, golferID string, limit int) ([]int, error) {
	rows, err := r.query(ctx,
		`SELECT s.gross_score, s.hole_scores FROM scores s
		 JOIN rounds r ON r.id = s.round_id
		 WHERE s.golfer_id = ? AND s.is_locked = ? AND s.is_substitute = ?
		 ORDER BY r.round_date DESC, r.number DESC, r.id DESC`, golferID, true, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible scores: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var gross int
		var holes string
		if err := rows.Scan(&gross, &holes); err != nil {
			return nil, fmt.Errorf("failed to scan eligible score: %w", err)
		}
		var card scores.Score
		if err := json.Unmarshal([]byte(holes), &card.HoleScores); err != nil {
			return nil, fmt.Errorf("failed to decode hole scores: %w", err)
		}
		if !card.Complete() {
			continue
		}
		out = append(out, gross)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

func (r *repo) ReplaceRoundPoints(ctx context.Context, roundID string, rows []scores.RoundPoints) error {
	return r.atomic(ctx, func(tx *repo) error {
		keep := make([]any, 0, len(rows)+1)
		keep = append(keep, roundID)
		placeholders := ""
		for i, p := range rows {
			tied, err := json.Marshal(nonNilStrings(p.TiedWithTeams))
			if err != nil {
				return fmt.Errorf("failed to encode tied teams: %w", err)
			}
			_, err = tx.exec(ctx,
				`INSERT INTO round_points (round_id, team_id, net_score, finish_position, points_earned, is_tied, tied_with_teams)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT (round_id, team_id) DO UPDATE SET
				   net_score = excluded.net_score, finish_position = excluded.finish_position,
				   points_earned = excluded.points_earned, is_tied = excluded.is_tied,
				   tied_with_teams = excluded.tied_with_teams`,
				roundID, p.TeamID, p.NetScore, p.FinishPosition, p.PointsEarned, p.IsTied, string(tied))
			if err != nil {
				return fmt.Errorf("failed to upsert round points: %w", err)
			}
			if i > 0 {
				placeholders += ", "
			}
			placeholders += "?"
			keep = append(keep, p.TeamID)
		}
		stmt := `DELETE FROM round_points WHERE round_id = ?`
		if placeholders != "" {
			stmt += ` AND team_id NOT IN (` + placeholders + `)`
		}
		if _, err := tx.exec(ctx, stmt, keep...); err != nil {
			return fmt.Errorf("failed to prune round points: %w", err)
		}
		return nil
	})
}

const pointsColumns = `p.round_id, p.team_id, p.net_score, p.finish_position, p.points_earned, p.is_tied, p.tied_with_teams`

func (r *repo) scanPoints(rows *sql.Rows) ([]scores.RoundPoints, error) {
	defer rows.Close()
	var out []scores.RoundPoints
	for rows.Next() {
		var p scores.RoundPoints
		var tied string
		if err := rows.Scan(&p.RoundID, &p.TeamID, &p.NetScore, &p.FinishPosition, &p.PointsEarned, &p.IsTied, &tied); err != nil {
			return nil, fmt.Errorf("failed to scan round points: %w", err)
		}
		if err := json.Unmarshal([]byte(tied), &p.TiedWithTeams); err != nil {
			return nil, fmt.Errorf("failed to decode tied teams: %w", err)
		}
		p.TiedWithTeams = nonNilStrings(p.TiedWithTeams)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) ListRoundPoints(ctx context.Context, roundID string) ([]scores.RoundPoints, error) {
	rows, err := r.query(ctx,
		`SELECT `+pointsColumns+` FROM round_points p WHERE p.round_id = ? ORDER BY p.finish_position, p.team_id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list round points: %w", err)
	}
	return r.scanPoints(rows)
}

func (r *repo) ListSeasonPoints(ctx context.Context, season int) ([]scores.RoundPoints, error) {
	rows, err := r.query(ctx,
		`SELECT `+pointsColumns+` FROM round_points p
		 JOIN rounds r ON r.id = p.round_id
		 WHERE r.season = ? AND r.status = ?
		 ORDER BY p.round_id, p.finish_position, p.team_id`, season, string(rounds.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to list season points: %w", err)
	}
	return r.scanPoints(rows)
}

func (r *repo) GetHandicap(ctx context.Context, golferID string) (handicaps.Handicap, error) {
	var h handicaps.Handicap
	err := r.queryRow(ctx,
		`SELECT golfer_id, current_handicap, rounds_played, last_calculated_at, is_manual_override
		 FROM handicaps WHERE golfer_id = ?`, golferID).
		Scan(&h.GolferID, &h.Current, &h.RoundsPlayed, &h.LastCalculatedAt, &h.IsManualOverride)
	if errors.Is(err, sql.ErrNoRows) {
		return handicaps.Handicap{}, domain.NotFound("handicap", golferID)
	}
	if err != nil {
		return handicaps.Handicap{}, fmt.Errorf("failed to get handicap: %w", err)
	}
	h.LastCalculatedAt = h.LastCalculatedAt.UTC()
	return h, nil
}

func (r *repo) SaveHandicap(ctx context.Context, h handicaps.Handicap) error {
	_, err := r.exec(ctx,
		`INSERT INTO handicaps (golfer_id, current_handicap, rounds_played, last_calculated_at, is_manual_override)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (golfer_id) DO UPDATE SET
		   current_handicap = excluded.current_handicap, rounds_played = excluded.rounds_played,
		   last_calculated_at = excluded.last_calculated_at, is_manual_override = excluded.is_manual_override`,
		h.GolferID, h.Current, h.RoundsPlayed, h.LastCalculatedAt.UTC(), h.IsManualOverride)
	if err != nil {
		return fmt.Errorf("failed to save handicap: %w", err)
	}
	return nil
}

func (r *repo) AddHandicapHistory(ctx context.Context, h handicaps.History) error {
	used, err := json.Marshal(nonNilInts(h.ScoresUsed))
	if err != nil {
		return fmt.Errorf("failed to encode scores used: %w", err)
	}
	return r.atomic(ctx, func(tx *repo) error {
		var seq int
		if err := tx.queryRow(ctx,
			`SELECT COALESCE(MAX(seq), 0) + 1 FROM handicap_history WHERE golfer_id = ?`, h.GolferID).Scan(&seq); err != nil {
			return fmt.Errorf("failed to allocate history sequence: %w", err)
		}
		_, err := tx.exec(ctx,
			`INSERT INTO handicap_history
			 (id, golfer_id, seq, handicap_value, calculation_method, scores_used, changed_by, reason, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.GolferID, seq, h.Value, string(h.Method), string(used), h.ChangedBy, h.Reason, h.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert handicap history: %w", err)
		}
		return nil
	})
}

func (r *repo) ListHandicapHistory(ctx context.Context, golferID string) ([]handicaps.History, error) {
	rows, err := r.query(ctx,
		`SELECT id, golfer_id, handicap_value, calculation_method, scores_used, changed_by, reason, created_at
		 FROM handicap_history WHERE golfer_id = ? ORDER BY seq DESC`, golferID)
	if err != nil {
		return nil, fmt.Errorf("failed to list handicap history: %w", err)
	}
	defer rows.Close()

	var out []handicaps.History
	for rows.Next() {
		var h handicaps.History
		var method, used string
		if err := rows.Scan(&h.ID, &h.GolferID, &h.Value, &method, &used, &h.ChangedBy, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan handicap history: %w", err)
		}
		h.Method = handicaps.Method(method)
		if err := json.Unmarshal([]byte(used), &h.ScoresUsed); err != nil {
			return nil, fmt.Errorf("failed to decode scores used: %w", err)
		}
		h.ScoresUsed = nonNilInts(h.ScoresUsed)
		h.CreatedAt = h.CreatedAt.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
