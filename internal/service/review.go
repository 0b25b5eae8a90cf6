package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/apperrors"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/clock"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/scheduler"
)

// MetadataGateway resolves a LeetCode problem number to its title and
// difficulty. Implemented outside the core by the leetcode gateway.
type MetadataGateway interface {
	// Lookup returns apperrors.ErrNotFound when the number does not exist
	// and apperrors.ErrExternal on transport failures.
	Lookup(ctx context.Context, problemNumber int) (*domain.ProblemMetadata, error)
}

// ReviewService is the scheduling engine: every operation is scoped to the
// owning user, and cross-user access surfaces as NotFound.
type ReviewService interface {
	AddProblem(ctx context.Context, userID int64, problemNumber int) (*domain.Problem, error)
	ListProblems(ctx context.Context, userID int64, filter repository.ProblemFilter) ([]domain.Problem, int, error)
	GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error)
	GetStats(ctx context.Context, userID int64) (*domain.ProblemStats, error)
	GetReviewHistory(ctx context.Context, userID, problemID int64) ([]domain.ReviewLog, error)
	CompleteReview(ctx context.Context, problemID, userID int64) (*domain.Problem, error)
	PostponeReview(ctx context.Context, problemID, userID int64, days int) (*domain.Problem, error)
}

type ReviewServiceImpl struct {
	BaseService
	problemCmd   repository.ProblemCommandRepository
	problemQuery repository.ProblemQueryRepository
	logs         repository.ReviewLogRepository
	metadata     MetadataGateway
	clk          clock.Clock
}

func NewReviewService(
	db Transactor,
	log *slog.Logger,
	problemCmd repository.ProblemCommandRepository,
	problemQuery repository.ProblemQueryRepository,
	logs repository.ReviewLogRepository,
	metadata MetadataGateway,
	clk clock.Clock,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		BaseService:  NewBaseService(db, log),
		problemCmd:   problemCmd,
		problemQuery: problemQuery,
		logs:         logs,
		metadata:     metadata,
		clk:          clk,
	}
}

func (s *ReviewServiceImpl) AddProblem(ctx context.Context, userID int64, problemNumber int) (*domain.Problem, error) {
	const op = "internal.service.review.AddProblem"
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", userID), slog.Int("problem_number", problemNumber))

	meta, err := s.metadata.Lookup(ctx, problemNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: problem #%d not found on LeetCode", apperrors.ErrNotFound, problemNumber)
		}

		return nil, fmt.Errorf("%s: failed to look up problem metadata: %w", op, err)
	}

	today := clock.Today(s.clk.Now())

	problem := &domain.Problem{
		LeetcodeNumber: meta.Number,
		Title:          meta.Title,
		Difficulty:     meta.Difficulty,
		FirstStudyDate: today,
		NextReviewDate: today,
		Stage:          0,
		IsActive:       true,
		UserID:         userID,
	}

	created, err := s.problemCmd.CreateProblem(ctx, problem)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create problem: %w", op, err)
	}

	log.Info("problem added", slog.Int64("problem_id", created.ID), slog.String("title", created.Title))

	return created, nil
}

func (s *ReviewServiceImpl) ListProblems(ctx context.Context, userID int64, filter repository.ProblemFilter) ([]domain.Problem, int, error) {
	const op = "internal.service.review.ListProblems"

	problems, total, err := s.problemQuery.ListProblems(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to list problems: %w", op, err)
	}

	return problems, total, nil
}

// GetDueProblems returns the user's problems due on or before asOf. A zero
// asOf defaults to the current date.
func (s *ReviewServiceImpl) GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error) {
	const op = "internal.service.review.GetDueProblems"

	if asOf.IsZero() {
		asOf = s.clk.Now()
	}

	problems, err := s.problemQuery.GetDueProblems(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get due problems: %w", op, err)
	}

	return problems, nil
}

func (s *ReviewServiceImpl) GetStats(ctx context.Context, userID int64) (*domain.ProblemStats, error) {
	const op = "internal.service.review.GetStats"

	stats, err := s.problemQuery.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get stats: %w", op, err)
	}

	return stats, nil
}

func (s *ReviewServiceImpl) GetReviewHistory(ctx context.Context, userID, problemID int64) ([]domain.ReviewLog, error) {
	const op = "internal.service.review.GetReviewHistory"

	logs, err := s.logs.ListLogsForProblem(ctx, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list review logs: %w", op, err)
	}

	return logs, nil
}

// CompleteReview logs the review at the problem's current stage, advances the
// stage and recomputes the due date from the review date. Past the final stage
// the problem is retired and its due date stays frozen. The review log insert
// and the problem update commit atomically.
//
// Completion is deliberately not idempotent by id: calling it twice advances
// the stage twice. The due-problem filter stops matching after the first call,
// which is what protects well-behaved callers from double submission.
func (s *ReviewServiceImpl) CompleteReview(ctx context.Context, problemID, userID int64) (*domain.Problem, error) {
	const op = "internal.service.review.CompleteReview"
	log := s.log.With(slog.String("op", op), slog.Int64("problem_id", problemID), slog.Int64("user_id", userID))

	reviewDate := clock.Today(s.clk.Now())

	var updated *domain.Problem

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		problem, err := s.problemCmd.GetProblemByIDWithLock(ctx, tx, problemID, userID)
		if err != nil {
			return fmt.Errorf("%s: failed to get problem with lock: %w", op, err)
		}

		entry := &domain.ReviewLog{
			ProblemID:  problem.ID,
			UserID:     userID,
			ReviewDate: reviewDate,
			Stage:      problem.Stage,
			Completed:  true,
		}
		if err := s.logs.InsertLog(ctx, tx, entry); err != nil {
			return fmt.Errorf("%s: failed to insert review log: %w", op, err)
		}

		problem.Stage++

		if next, ok := scheduler.NextReviewDate(problem.Stage, reviewDate); ok {
			problem.NextReviewDate = clock.Today(next)
		} else {
			problem.IsActive = false
		}

		if err := s.problemCmd.UpdateSchedule(ctx, tx, problem.ID, problem.Stage, problem.NextReviewDate, problem.IsActive); err != nil {
			return fmt.Errorf("%s: failed to update schedule: %w", op, err)
		}

		updated = problem

		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.IsActive {
		log.Info("review completed",
			slog.Int("stage", updated.Stage),
			slog.Time("next_review_date", updated.NextReviewDate))
	} else {
		log.Info("review completed, all stages exhausted, problem retired")
	}

	return updated, nil
}

// PostponeReview shifts the due date forward by days from its current value,
// not from today, so an overdue problem keeps its original cadence. Stage is
// untouched and no review log is written.
func (s *ReviewServiceImpl) PostponeReview(ctx context.Context, problemID, userID int64, days int) (*domain.Problem, error) {
	const op = "internal.service.review.PostponeReview"
	log := s.log.With(slog.String("op", op), slog.Int64("problem_id", problemID), slog.Int64("user_id", userID))

	if days < 1 {
		return nil, fmt.Errorf("%w: postpone days must be at least 1, got %d", apperrors.ErrInvalidArgument, days)
	}

	var updated *domain.Problem

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		problem, err := s.problemCmd.GetProblemByIDWithLock(ctx, tx, problemID, userID)
		if err != nil {
			return fmt.Errorf("%s: failed to get problem with lock: %w", op, err)
		}

		problem.NextReviewDate = problem.NextReviewDate.AddDate(0, 0, days)

		if err := s.problemCmd.UpdateSchedule(ctx, tx, problem.ID, problem.Stage, problem.NextReviewDate, problem.IsActive); err != nil {
			return fmt.Errorf("%s: failed to update schedule: %w", op, err)
		}

		updated = problem

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("review postponed",
		slog.Int("days", days),
		slog.Time("next_review_date", updated.NextReviewDate))

	return updated, nil
}
