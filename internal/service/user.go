package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
)

type UserService interface {
	CreateUser(ctx context.Context, email, timezone string, notificationTime time.Time) (*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	UpdateSettings(ctx context.Context, userID int64, timezone string, notificationTime time.Time) (*domain.User, error)
	SetIsActive(ctx context.Context, userID int64, isActive bool) (*domain.User, error)
}

type UserServiceImpl struct {
	repo repository.UserRepository
	log  *slog.Logger
}

func NewUserService(repo repository.UserRepository, log *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, log: log}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, email, timezone string, notificationTime time.Time) (*domain.User, error) {
	const op = "internal.service.user.CreateUser"

	user := &domain.User{
		Email:            email,
		Timezone:         timezone,
		NotificationTime: notificationTime,
		IsActive:         true,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	s.log.Info("user created",
		slog.String("op", op), slog.Int64("user_id", created.ID), slog.String("timezone", created.Timezone))

	return created, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	const op = "internal.service.user.GetUser"

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return user, nil
}

// UpdateSettings changes the user's timezone and notification time. An empty
// timezone or zero notification time keeps the current value, so partial
// updates work.
func (s *UserServiceImpl) UpdateSettings(ctx context.Context, userID int64, timezone string, notificationTime time.Time) (*domain.User, error) {
	const op = "internal.service.user.UpdateSettings"

	current, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if timezone == "" {
		timezone = current.Timezone
	}
	if notificationTime.IsZero() {
		notificationTime = current.NotificationTime
	}

	updated, err := s.repo.UpdateSettings(ctx, userID, timezone, notificationTime)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update settings: %w", op, err)
	}

	return updated, nil
}

func (s *UserServiceImpl) SetIsActive(ctx context.Context, userID int64, isActive bool) (*domain.User, error) {
	const op = "internal.service.user.SetIsActive"

	user, err := s.repo.SetIsActive(ctx, userID, isActive)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to set user active status: %w", op, err)
	}

	return user, nil
}
