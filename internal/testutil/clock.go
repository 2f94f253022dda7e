package testutil

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// FixtureTime is the instant fake clocks start at.
var FixtureTime = time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

// NewFakeClock returns a clockwork fake clock set to FixtureTime.
func NewFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(FixtureTime)
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}
