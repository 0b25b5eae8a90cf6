package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
	"github.com/stretchr/testify/mock"
)

type TransactorMock struct {
	mock.Mock
}

var _ Transactor = (*TransactorMock)(nil)

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sqlx.Tx), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) UpdateSettings(ctx context.Context, userID int64, timezone string, notificationTime time.Time) (*domain.User, error) {
	args := m.Called(ctx, userID, timezone, notificationTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) SetIsActive(ctx context.Context, userID int64, isActive bool) (*domain.User, error) {
	args := m.Called(ctx, userID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetActiveUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.User), args.Error(1)
}

type ProblemQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.ProblemQueryRepository = (*ProblemQueryRepositoryMock)(nil)

func (m *ProblemQueryRepositoryMock) GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Problem), args.Error(1)
}

func (m *ProblemQueryRepositoryMock) ListProblems(ctx context.Context, userID int64, filter repository.ProblemFilter) ([]domain.Problem, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]domain.Problem), args.Int(1), args.Error(2)
}

func (m *ProblemQueryRepositoryMock) GetStats(ctx context.Context, userID int64) (*domain.ProblemStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ProblemStats), args.Error(1)
}

type ProblemCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.ProblemCommandRepository = (*ProblemCommandRepositoryMock)(nil)

func (m *ProblemCommandRepositoryMock) CreateProblem(ctx context.Context, problem *domain.Problem) (*domain.Problem, error) {
	args := m.Called(ctx, problem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Problem), args.Error(1)
}

func (m *ProblemCommandRepositoryMock) GetProblemByIDWithLock(ctx context.Context, tx *sqlx.Tx, problemID, userID int64) (*domain.Problem, error) {
	args := m.Called(ctx, tx, problemID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Problem), args.Error(1)
}

func (m *ProblemCommandRepositoryMock) UpdateSchedule(ctx context.Context, tx *sqlx.Tx, problemID int64, stage int, nextReviewDate time.Time, isActive bool) error {
	args := m.Called(ctx, tx, problemID, stage, nextReviewDate, isActive)
	return args.Error(0)
}

func (m *ProblemCommandRepositoryMock) RetireExhausted(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]int64), args.Error(1)
}

type ReviewLogRepositoryMock struct {
	mock.Mock
}

var _ repository.ReviewLogRepository = (*ReviewLogRepositoryMock)(nil)

func (m *ReviewLogRepositoryMock) InsertLog(ctx context.Context, tx *sqlx.Tx, log *domain.ReviewLog) error {
	args := m.Called(ctx, tx, log)
	return args.Error(0)
}

func (m *ReviewLogRepositoryMock) ListLogsForProblem(ctx context.Context, userID, problemID int64) ([]domain.ReviewLog, error) {
	args := m.Called(ctx, userID, problemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ReviewLog), args.Error(1)
}

type MetadataGatewayMock struct {
	mock.Mock
}

var _ MetadataGateway = (*MetadataGatewayMock)(nil)

func (m *MetadataGatewayMock) Lookup(ctx context.Context, problemNumber int) (*domain.ProblemMetadata, error) {
	args := m.Called(ctx, problemNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ProblemMetadata), args.Error(1)
}
