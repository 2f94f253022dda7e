package testutil

import (
	"testing"

	"github.com/preston-bernstein/golf-league-service/internal/metrics"
)

// AssertOperation checks how many times op ran and how many of those runs failed.
func AssertOperation(t *testing.T, rec *metrics.Recorder, op string, calls, errs int) {
	t.Helper()
	snap := rec.Snapshot(op)
	if snap.Calls != calls || snap.Errors != errs {
		t.Fatalf("expected %s calls=%d errors=%d, got calls=%d errors=%d", op, calls, errs, snap.Calls, snap.Errors)
	}
}
