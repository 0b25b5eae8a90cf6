// Package clock isolates "now" behind a small interface so that the sweep and
// the engine can be driven by a fixed time in tests.
package clock

import (
	"fmt"
	"time"
)

type Clock interface {
	Now() time.Time
}

// System is the production clock. It reports UTC; callers shift into a user's
// zone with NowIn.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// NowIn resolves the clock's current instant in the named IANA zone.
func NowIn(c Clock, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}

	return c.Now().In(loc), nil
}

// Today truncates an instant to its calendar date, keeping the location.
// Scheduling works in whole days, so all stored dates pass through here.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
