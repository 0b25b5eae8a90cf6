// Package scheduler implements the spaced-repetition schedule: a fixed table
// of day intervals indexed by review stage and the date arithmetic on top of
// it. It is pure computation; persistence and sweeps live elsewhere.
package scheduler

import "time"

// ReviewIntervals[s] is the number of days between completing stage s-1 and
// the review that enters stage s. Stage 0 reviews on the day the problem is
// added.
var ReviewIntervals = [...]int{0, 1, 2, 7, 15, 30}

// MaxStage is the last stage that still schedules a review. A problem whose
// stage moves past MaxStage has exhausted all cycles and is retired.
const MaxStage = len(ReviewIntervals) - 1

// NextReviewDate returns base shifted by the interval for the given stage.
// The second return value is false when the stage is out of range, which
// signals that no further review exists and the problem should be retired.
func NextReviewDate(stage int, base time.Time) (time.Time, bool) {
	if stage < 0 || stage > MaxStage {
		return time.Time{}, false
	}

	return base.AddDate(0, 0, ReviewIntervals[stage]), true
}
