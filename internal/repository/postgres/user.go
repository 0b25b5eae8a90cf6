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
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const userColumns = "user_id, email, notification_time, timezone, is_active, created_at, updated_at"

func (ur *UserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	const op = "internal.repository.postgres.CreateUser"

	query, args, err := ur.sq.Insert("users").
		Columns("email", "notification_time", "timezone", "is_active").
		Values(user.Email, user.NotificationTime, user.Timezone, user.IsActive).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.User
	if err := ur.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, &apperrors.UserAlreadyExistsError{Email: user.Email}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (ur *UserRepository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByID"

	query, args, err := ur.sq.Select(userColumns).
		From("users").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%d'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) UpdateSettings(ctx context.Context, userID int64, timezone string, notificationTime time.Time) (*domain.User, error) {
	const op = "internal.repository.postgres.UpdateSettings"

	query, args, err := ur.sq.Update("users").
		Set("timezone", timezone).
		Set("notification_time", notificationTime).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.User
	if err := ur.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%d'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func (ur *UserRepository) SetIsActive(ctx context.Context, userID int64, isActive bool) (*domain.User, error) {
	const op = "internal.repository.postgres.SetIsActive"

	ur.log.Info("setting user active status",
		slog.String("op", op), slog.Int64("user_id", userID), slog.Bool("is_active", isActive))

	query, args, err := ur.sq.Update("users").
		Set("is_active", isActive).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.User
	if err := ur.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%d'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func (ur *UserRepository) GetActiveUsers(ctx context.Context) ([]domain.User, error) {
	const op = "internal.repository.postgres.GetActiveUsers"

	query, args, err := ur.sq.Select(userColumns).
		From("users").
		Where(sq.Eq{"is_active": true}).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var users []domain.User
	if err := ur.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return users, nil
}
