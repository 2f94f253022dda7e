package server

import (
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/snapshots"
)

type snapshotComponents struct {
	store  snapshots.Store
	writer *snapshots.Writer
}

// buildSnapshots roots the finalized-round archive at SNAPSHOT_DIR.
func buildSnapshots(cfg config.SnapshotConfig, clock clockwork.Clock) snapshotComponents {
	return snapshotComponents{
		store:  snapshots.NewFSStore(cfg.Dir),
		writer: snapshots.NewWriter(cfg.Dir, cfg.RetentionSeasons, clock),
	}
}
