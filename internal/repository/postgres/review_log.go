package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/clock"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

type ReviewLogRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewReviewLogRepository(db *sqlx.DB, log *slog.Logger) *ReviewLogRepository {
	return &ReviewLogRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ReviewLogRepository) InsertLog(ctx context.Context, tx *sqlx.Tx, log *domain.ReviewLog) error {
	const op = "internal.repository.postgres.InsertLog"

	query, args, err := r.sq.Insert("review_logs").
		Columns("problem_id", "user_id", "review_date", "stage", "completed").
		Values(log.ProblemID, log.UserID, clock.Today(log.ReviewDate), log.Stage, log.Completed).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *ReviewLogRepository) ListLogsForProblem(ctx context.Context, userID, problemID int64) ([]domain.ReviewLog, error) {
	const op = "internal.repository.postgres.ListLogsForProblem"

	query, args, err := r.sq.Select("review_id, problem_id, user_id, review_date, stage, completed, created_at").
		From("review_logs").
		Where(sq.Eq{"user_id": userID, "problem_id": problemID}).
		OrderBy("review_date", "review_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var logs []domain.ReviewLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return logs, nil
}
