package domain

import (
	"fmt"
	"time"
)

// Difficulty is the LeetCode difficulty rating of a problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty maps the metadata gateway's difficulty string onto the
// Difficulty enum, accepting any capitalization.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "Easy", "easy", "EASY":
		return DifficultyEasy, nil
	case "Medium", "medium", "MEDIUM":
		return DifficultyMedium, nil
	case "Hard", "hard", "HARD":
		return DifficultyHard, nil
	}

	return "", fmt.Errorf("unknown difficulty %q", s)
}

type User struct {
	ID               int64     `db:"user_id"`
	Email            string    `db:"email"`
	NotificationTime time.Time `db:"notification_time"`
	Timezone         string    `db:"timezone"`
	IsActive         bool      `db:"is_active"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Problem is a single LeetCode problem tracked for spaced repetition.
// Stage counts completed review cycles; a problem is retired (IsActive false)
// once its stage moves past the last review interval.
type Problem struct {
	ID             int64      `db:"problem_id"`
	LeetcodeNumber int        `db:"leetcode_number"`
	Title          string     `db:"title"`
	Difficulty     Difficulty `db:"difficulty"`
	FirstStudyDate time.Time  `db:"first_study_date"`
	NextReviewDate time.Time  `db:"next_review_date"`
	Stage          int        `db:"stage"`
	IsActive       bool       `db:"is_active"`
	UserID         int64      `db:"user_id"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// ReviewLog records one completed review. Rows are append-only: the stage
// stored is the problem's stage at the moment the review was completed.
type ReviewLog struct {
	ID         int64     `db:"review_id"`
	ProblemID  int64     `db:"problem_id"`
	UserID     int64     `db:"user_id"`
	ReviewDate time.Time `db:"review_date"`
	Stage      int       `db:"stage"`
	Completed  bool      `db:"completed"`
	CreatedAt  time.Time `db:"created_at"`
}

// ProblemMetadata is what the external metadata gateway resolves for a
// LeetCode problem number before a Problem is created.
type ProblemMetadata struct {
	Number     int
	Title      string
	Difficulty Difficulty
}

// ParseNotificationTime parses an "HH:MM" wall-clock string into the time-of-day
// value stored on a User. The date part is the zero date; only hour and minute
// are meaningful.
func ParseNotificationTime(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid notification time %q: %w", s, err)
	}

	return t, nil
}

// FormatNotificationTime renders a stored time-of-day back to "HH:MM".
func FormatNotificationTime(t time.Time) string {
	return t.Format("15:04")
}

// ProblemStats aggregates a user's problem list for the dashboard.
type ProblemStats struct {
	TotalProblems     int
	ActiveProblems    int
	CompletedProblems int
	ByDifficulty      map[Difficulty]int
}
