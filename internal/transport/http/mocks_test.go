package http

import (
	"context"
	"time"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/service"
	"github.com/stretchr/testify/mock"
)

type ReviewServiceMock struct {
	mock.Mock
}

var _ service.ReviewService = (*ReviewServiceMock)(nil)

func (m *ReviewServiceMock) AddProblem(ctx context.Context, userID int64, problemNumber int) (*domain.Problem, error) {
	args := m.Called(ctx, userID, problemNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Problem), args.Error(1)
}

func (m *ReviewServiceMock) ListProblems(ctx context.Context, userID int64, filter repository.ProblemFilter) ([]domain.Problem, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.Problem), args.Int(1), args.Error(2)
}

func (m *ReviewServiceMock) GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Problem), args.Error(1)
}

func (m *ReviewServiceMock) GetStats(ctx context.Context, userID int64) (*domain.ProblemStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ProblemStats), args.Error(1)
}

func (m *ReviewServiceMock) GetReviewHistory(ctx context.Context, userID, problemID int64) ([]domain.ReviewLog, error) {
	args := m.Called(ctx, userID, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ReviewLog), args.Error(1)
}

func (m *ReviewServiceMock) CompleteReview(ctx context.Context, problemID, userID int64) (*domain.Problem, error) {
	args := m.Called(ctx, problemID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Problem), args.Error(1)
}

func (m *ReviewServiceMock) PostponeReview(ctx context.Context, problemID, userID int64, days int) (*domain.Problem, error) {
	args := m.Called(ctx, problemID, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Problem), args.Error(1)
}

type UserServiceMock struct {
	mock.Mock
}

var _ service.UserService = (*UserServiceMock)(nil)

func (m *UserServiceMock) CreateUser(ctx context.Context, email, timezone string, notificationTime time.Time) (*domain.User, error) {
	args := m.Called(ctx, email, timezone, notificationTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) UpdateSettings(ctx context.Context, userID int64, timezone string, notificationTime time.Time) (*domain.User, error) {
	args := m.Called(ctx, userID, timezone, notificationTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) SetIsActive(ctx context.Context, userID int64, isActive bool) (*domain.User, error) {
	args := m.Called(ctx, userID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}
