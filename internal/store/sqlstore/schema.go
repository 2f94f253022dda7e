package sqlstore

// schema is portable between SQLite and PostgreSQL. Slices (hole scores,
// tied teams, scores used) are stored as JSON text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		season INTEGER NOT NULL,
		number INTEGER NOT NULL,
		round_date TEXT NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS round_availability (
		round_id TEXT NOT NULL,
		golfer_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		PRIMARY KEY (round_id, golfer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS round_subs (
		round_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		substitute_id TEXT NOT NULL,
		golfer_id TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		PRIMARY KEY (round_id, team_id)
	)`,
	`CREATE TABLE IF NOT EXISTS foursomes (
		id TEXT PRIMARY KEY,
		round_id TEXT NOT NULL,
		tee_time_slot INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS foursome_members (
		foursome_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		player_kind TEXT NOT NULL,
		golfer_id TEXT NOT NULL DEFAULT '',
		substitute_id TEXT NOT NULL DEFAULT '',
		team_id TEXT NOT NULL,
		cart_number INTEGER NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (foursome_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		round_id TEXT NOT NULL,
		player_key TEXT NOT NULL,
		player_kind TEXT NOT NULL,
		golfer_id TEXT NOT NULL DEFAULT '',
		substitute_id TEXT NOT NULL DEFAULT '',
		team_id TEXT NOT NULL,
		hole_scores TEXT NOT NULL,
		handicap_at_time DOUBLE PRECISION NOT NULL,
		gross_score INTEGER NOT NULL,
		net_score DOUBLE PRECISION,
		is_locked BOOLEAN NOT NULL,
		is_substitute BOOLEAN NOT NULL,
		submitted_by TEXT NOT NULL DEFAULT '',
		submitted_at TIMESTAMP NOT NULL,
		UNIQUE (round_id, player_key)
	)`,
	`CREATE TABLE IF NOT EXISTS round_points (
		round_id TEXT NOT NULL,
		team_id TEXT NOT NULL,
		net_score DOUBLE PRECISION NOT NULL,
		finish_position INTEGER NOT NULL,
		points_earned DOUBLE PRECISION NOT NULL,
		is_tied BOOLEAN NOT NULL,
		tied_with_teams TEXT NOT NULL,
		PRIMARY KEY (round_id, team_id)
	)`,
	`CREATE TABLE IF NOT EXISTS handicaps (
		golfer_id TEXT PRIMARY KEY,
		current_handicap DOUBLE PRECISION NOT NULL,
		rounds_played INTEGER NOT NULL,
		last_calculated_at TIMESTAMP NOT NULL,
		is_manual_override BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS handicap_history (
		id TEXT PRIMARY KEY,
		golfer_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		handicap_value DOUBLE PRECISION NOT NULL,
		calculation_method TEXT NOT NULL,
		scores_used TEXT NOT NULL,
		changed_by TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_foursomes_round ON foursomes (round_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_golfer ON scores (golfer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_history_golfer ON handicap_history (golfer_id, seq)`,
}
