// Package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// scheduling engine and the sweeps.
package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

// UserRepository defines the contract for user data operations.
type UserRepository interface {
	// CreateUser inserts a new user.
	// It returns apperrors.ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetUserByID retrieves a user by primary key.
	// It returns apperrors.ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// UpdateSettings changes a user's timezone and notification time.
	// It returns apperrors.ErrNotFound if the user does not exist.
	UpdateSettings(ctx context.Context, userID int64, timezone string, notificationTime time.Time) (*domain.User, error)

	// SetIsActive updates the active status of a user. Deactivated users are
	// excluded from the notification sweep but keep their problems.
	SetIsActive(ctx context.Context, userID int64, isActive bool) (*domain.User, error)

	// GetActiveUsers lists every user the notification sweep must consider.
	GetActiveUsers(ctx context.Context) ([]domain.User, error)
}

// ProblemFilter narrows ListProblems. Nil pointer fields are not applied.
type ProblemFilter struct {
	Difficulty *domain.Difficulty
	IsActive   *bool
	Limit      int
	Offset     int
}

// ProblemQueryRepository defines read-only problem operations.
type ProblemQueryRepository interface {
	// GetDueProblems returns the user's active problems with
	// next_review_date on or before asOf and a stage that still schedules
	// reviews. asOf is compared by calendar date.
	GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error)

	// ListProblems returns a page of the user's problems plus the total count
	// matching the filter.
	ListProblems(ctx context.Context, userID int64, filter ProblemFilter) ([]domain.Problem, int, error)

	// GetStats aggregates problem counts for a user.
	GetStats(ctx context.Context, userID int64) (*domain.ProblemStats, error)
}

// ProblemCommandRepository defines write and locking operations on problems.
// Methods taking a *sqlx.Tx are expected to run inside the caller's
// transaction.
type ProblemCommandRepository interface {
	// CreateProblem inserts a problem at stage 0.
	// It returns apperrors.ErrAlreadyExists if the user already tracks the
	// LeetCode number, and apperrors.ErrNotFound if the user is missing.
	CreateProblem(ctx context.Context, problem *domain.Problem) (*domain.Problem, error)

	// GetProblemByIDWithLock retrieves a problem scoped to its owner and
	// acquires a row-level lock ("FOR UPDATE") so concurrent completions and
	// postponements of the same problem serialize.
	// It returns apperrors.ErrNotFound when the problem does not exist or
	// belongs to another user.
	GetProblemByIDWithLock(ctx context.Context, tx *sqlx.Tx, problemID, userID int64) (*domain.Problem, error)

	// UpdateSchedule rewrites a problem's scheduling state after a completion
	// or postponement.
	UpdateSchedule(ctx context.Context, tx *sqlx.Tx, problemID int64, stage int, nextReviewDate time.Time, isActive bool) error

	// RetireExhausted deactivates every active problem whose stage has moved
	// past the final review stage and returns the affected ids. Used by the
	// daily retirement sweep as a safety net against data drift.
	RetireExhausted(ctx context.Context) ([]int64, error)
}

// ReviewLogRepository defines the append-only audit trail of completions.
type ReviewLogRepository interface {
	// InsertLog appends one completion record inside the caller's transaction.
	InsertLog(ctx context.Context, tx *sqlx.Tx, log *domain.ReviewLog) error

	// ListLogsForProblem returns the completion history of one problem,
	// oldest first, scoped to its owner.
	ListLogsForProblem(ctx context.Context, userID, problemID int64) ([]domain.ReviewLog, error)
}
