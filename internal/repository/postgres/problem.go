package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/apperrors"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/clock"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/scheduler"
)

// ProblemRepository implements both repository.ProblemQueryRepository and
// repository.ProblemCommandRepository over the problems table.
type ProblemRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewProblemRepository(db *sqlx.DB, log *slog.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const problemColumns = "problem_id, leetcode_number, title, difficulty, first_study_date, next_review_date, stage, is_active, user_id, created_at, updated_at"

func (r *ProblemRepository) GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error) {
	const op = "internal.repository.postgres.GetDueProblems"

	query, args, err := r.sq.Select(problemColumns).
		From("problems").
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		Where(sq.LtOrEq{"next_review_date": clock.Today(asOf)}).
		Where(sq.LtOrEq{"stage": scheduler.MaxStage}).
		OrderBy("next_review_date", "problem_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var problems []domain.Problem
	if err := r.db.SelectContext(ctx, &problems, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return problems, nil
}

func (r *ProblemRepository) ListProblems(ctx context.Context, userID int64, filter repository.ProblemFilter) ([]domain.Problem, int, error) {
	const op = "internal.repository.postgres.ListProblems"

	where := sq.And{sq.Eq{"user_id": userID}}
	if filter.Difficulty != nil {
		where = append(where, sq.Eq{"difficulty": *filter.Difficulty})
	}
	if filter.IsActive != nil {
		where = append(where, sq.Eq{"is_active": *filter.IsActive})
	}

	countQuery, countArgs, err := r.sq.Select("count(*)").
		From("problems").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build count query: %w", op, err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count problems: %w", op, err)
	}

	listBuilder := r.sq.Select(problemColumns).
		From("problems").
		Where(where).
		OrderBy("problem_id")

	if filter.Limit > 0 {
		listBuilder = listBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		listBuilder = listBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var problems []domain.Problem
	if err := r.db.SelectContext(ctx, &problems, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return problems, total, nil
}

type difficultyCount struct {
	Difficulty domain.Difficulty `db:"difficulty"`
	Count      int               `db:"count"`
}

func (r *ProblemRepository) GetStats(ctx context.Context, userID int64) (*domain.ProblemStats, error) {
	const op = "internal.repository.postgres.GetStats"

	query, args, err := r.sq.Select("difficulty", "count(*) as count").
		From("problems").
		Where(sq.Eq{"user_id": userID}).
		GroupBy("difficulty").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var counts []difficultyCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	activeQuery, activeArgs, err := r.sq.Select("count(*)").
		From("problems").
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build active count query: %w", op, err)
	}

	var active int
	if err := r.db.GetContext(ctx, &active, activeQuery, activeArgs...); err != nil {
		return nil, fmt.Errorf("%s: failed to count active problems: %w", op, err)
	}

	stats := &domain.ProblemStats{
		ActiveProblems: active,
		ByDifficulty:   make(map[domain.Difficulty]int, len(counts)),
	}
	for _, c := range counts {
		stats.ByDifficulty[c.Difficulty] = c.Count
		stats.TotalProblems += c.Count
	}
	stats.CompletedProblems = stats.TotalProblems - stats.ActiveProblems

	return stats, nil
}

func (r *ProblemRepository) CreateProblem(ctx context.Context, problem *domain.Problem) (*domain.Problem, error) {
	const op = "internal.repository.postgres.CreateProblem"

	query, args, err := r.sq.Insert("problems").
		Columns("leetcode_number", "title", "difficulty", "first_study_date", "next_review_date", "stage", "is_active", "user_id").
		Values(
			problem.LeetcodeNumber,
			problem.Title,
			problem.Difficulty,
			problem.FirstStudyDate,
			problem.NextReviewDate,
			problem.Stage,
			problem.IsActive,
			problem.UserID,
		).
		Suffix("RETURNING " + problemColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Problem
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return nil, &apperrors.ProblemAlreadyExistsError{LeetcodeNumber: problem.LeetcodeNumber}
			}

			if pqErr.Code == "23503" {
				return nil, fmt.Errorf("%s: %w: user with id '%d'", op, apperrors.ErrNotFound, problem.UserID)
			}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (r *ProblemRepository) GetProblemByIDWithLock(ctx context.Context, tx *sqlx.Tx, problemID, userID int64) (*domain.Problem, error) {
	const op = "internal.repository.postgres.GetProblemByIDWithLock"

	query, args, err := r.sq.Select(problemColumns).
		From("problems").
		Where(sq.Eq{"problem_id": problemID, "user_id": userID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var problem domain.Problem
	if err := tx.GetContext(ctx, &problem, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: problem with id '%d'", op, apperrors.ErrNotFound, problemID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &problem, nil
}

func (r *ProblemRepository) UpdateSchedule(ctx context.Context, tx *sqlx.Tx, problemID int64, stage int, nextReviewDate time.Time, isActive bool) error {
	const op = "internal.repository.postgres.UpdateSchedule"

	query, args, err := r.sq.Update("problems").
		Set("stage", stage).
		Set("next_review_date", clock.Today(nextReviewDate)).
		Set("is_active", isActive).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"problem_id": problemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w: problem with id '%d'", op, apperrors.ErrNotFound, problemID)
	}

	return nil
}

func (r *ProblemRepository) RetireExhausted(ctx context.Context) ([]int64, error) {
	const op = "internal.repository.postgres.RetireExhausted"

	query, args, err := r.sq.Update("problems").
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Gt{"stage": scheduler.MaxStage}).
		Where(sq.Eq{"is_active": true}).
		Suffix("RETURNING problem_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var retired []int64
	if err := r.db.SelectContext(ctx, &retired, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if len(retired) > 0 {
		r.log.Warn("retired problems stranded past the final stage",
			slog.String("op", op), slog.Int("count", len(retired)))
	}

	return retired, nil
}
