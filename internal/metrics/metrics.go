package metrics

import (
	"sync"
	"time"
)

// Operation names used as stats keys and metric attributes.
const (
	OpGenerate        = "generate_foursomes"
	OpPatch           = "patch_foursomes"
	OpUpdateFoursomes = "update_foursomes"
	OpSubmitScore     = "submit_score"
	OpLockScore       = "lock_score"
	OpFinalize        = "finalize_round"
	OpRecalculatePts  = "recalculate_points"
	OpHandicapRecalc  = "recalculate_handicap"
	OpHandicapManual  = "set_handicap"
	OpArchiveRound    = "archive_round"
	OpPublishEvent    = "publish_event"
)

type opStats struct {
	calls       int
	errors      int
	retries     int
	lastLatency time.Duration
	lastDelay   time.Duration
}

// Recorder captures lightweight, in-memory metrics about league operations and
// collaborator calls, mirroring them to OpenTelemetry when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*opStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*opStats),
		otel:  otel,
	}
}

// RecordOperation counts one run of a league operation and its latency.
func (r *Recorder) RecordOperation(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(op, func(s *opStats) {
		s.calls++
		s.lastLatency = duration
		if err != nil {
			s.errors++
		}
	})
	if r.otel != nil {
		r.otel.recordOperation(op, duration, err)
	}
}

// RecordCollaboratorAttempt counts one call to an external collaborator.
func (r *Recorder) RecordCollaboratorAttempt(name string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(collaboratorKey(name), func(s *opStats) {
		s.calls++
		s.lastLatency = duration
		if err != nil {
			s.errors++
		}
	})
	if r.otel != nil {
		r.otel.recordCollaborator(name, duration, err)
	}
}

// RecordRetry tracks a retry scheduled against a collaborator after delay.
func (r *Recorder) RecordRetry(name string, delay time.Duration) {
	if r == nil {
		return
	}

	r.update(collaboratorKey(name), func(s *opStats) {
		s.retries++
		if delay > 0 {
			s.lastDelay = delay
		}
	})
	if r.otel != nil {
		r.otel.recordRetry(name, delay)
	}
}

// RecordPairingScore observes the repeat-pairing score of a generated assignment.
func (r *Recorder) RecordPairingScore(score int) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPairingScore(score)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current stats for one key.
type Snapshot struct {
	Calls       int
	Errors      int
	Retries     int
	LastLatency time.Duration
	LastDelay   time.Duration
}

// Snapshot returns the stats for an operation.
func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(op)
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		Retries:     stats.retries,
		LastLatency: stats.lastLatency,
		LastDelay:   stats.lastDelay,
	}
}

// CollaboratorSnapshot returns the stats for a named collaborator.
func (r *Recorder) CollaboratorSnapshot(name string) Snapshot {
	return r.Snapshot(collaboratorKey(name))
}

func collaboratorKey(name string) string {
	return "collaborator:" + name
}

func (r *Recorder) update(key string, fn func(*opStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[key]
	if !ok {
		stats = &opStats{}
		r.stats[key] = stats
	}
	fn(stats)
}

func (r *Recorder) snapshot(key string) opStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[key]; ok && stats != nil {
		return *stats
	}
	return opStats{}
}
