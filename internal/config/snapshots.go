package config

// SnapshotConfig controls where finalized round archives are written.
type SnapshotConfig struct {
	Dir string // archive root; rounds live under Dir/rounds
	// RetentionSeasons keeps the most recent N seasons; 0 keeps everything.
	RetentionSeasons int
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Dir:              envOrDefault(envSnapshotDir, defaultSnapshotDir),
		RetentionSeasons: intEnvOrDefault(envRetention, 0),
	}
}
