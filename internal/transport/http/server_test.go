package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/apperrors"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testDate = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

func sampleProblem() *domain.Problem {
	return &domain.Problem{
		ID:             100,
		LeetcodeNumber: 1,
		Title:          "Two Sum",
		Difficulty:     domain.DifficultyEasy,
		FirstStudyDate: testDate,
		NextReviewDate: testDate.AddDate(0, 0, 1),
		Stage:          1,
		IsActive:       true,
		UserID:         42,
	}
}

const sampleProblemJSON = `{
	"id": 100,
	"leetcode_number": 1,
	"title": "Two Sum",
	"difficulty": "Easy",
	"first_study_date": "2026-08-28",
	"next_review_date": "2026-08-29",
	"stage": 1,
	"is_active": true
}`

func serveRequest(t *testing.T, reviewMock *ReviewServiceMock, userMock *UserServiceMock, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	server := NewServer(slog.New(slog.NewJSONHandler(os.Stdout, nil)), reviewMock, userMock)

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	return rr
}

func TestServer_AddProblem(t *testing.T) {
	testCases := []struct {
		name                 string
		requestBody          string
		userIDHeader         string
		setupMocks           func(*ReviewServiceMock)
		expectedStatusCode   int
		expectedResponseBody string
	}{
		{
			name:         "Success",
			requestBody:  `{"problem_number": 1}`,
			userIDHeader: "42",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("AddProblem", mock.Anything, int64(42), 1).Return(sampleProblem(), nil).Once()
			},
			expectedStatusCode:   http.StatusCreated,
			expectedResponseBody: `{"problem":` + sampleProblemJSON + `}`,
		},
		{
			name:                 "Missing user header",
			requestBody:          `{"problem_number": 1}`,
			userIDHeader:         "",
			setupMocks:           func(rsm *ReviewServiceMock) {},
			expectedStatusCode:   http.StatusUnauthorized,
			expectedResponseBody: `{"error": "missing X-User-ID header"}`,
		},
		{
			name:                 "Validation failure: missing problem number",
			requestBody:          `{}`,
			userIDHeader:         "42",
			setupMocks:           func(rsm *ReviewServiceMock) {},
			expectedStatusCode:   http.StatusBadRequest,
			expectedResponseBody: `{"error": "field 'ProblemNumber' failed on the 'required' tag"}`,
		},
		{
			name:                 "Invalid JSON body",
			requestBody:          `{invalid json}`,
			userIDHeader:         "42",
			setupMocks:           func(rsm *ReviewServiceMock) {},
			expectedStatusCode:   http.StatusBadRequest,
			expectedResponseBody: `{"error": "invalid request body"}`,
		},
		{
			name:         "Service error: unknown LeetCode problem",
			requestBody:  `{"problem_number": 99999}`,
			userIDHeader: "42",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("AddProblem", mock.Anything, int64(42), 99999).Return(nil, apperrors.ErrNotFound).Once()
			},
			expectedStatusCode:   http.StatusNotFound,
			expectedResponseBody: `{"error": "resource not found"}`,
		},
		{
			name:         "Service error: duplicate problem",
			requestBody:  `{"problem_number": 1}`,
			userIDHeader: "42",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("AddProblem", mock.Anything, int64(42), 1).
					Return(nil, &apperrors.ProblemAlreadyExistsError{LeetcodeNumber: 1}).Once()
			},
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:         "Service error: LeetCode API unavailable",
			requestBody:  `{"problem_number": 1}`,
			userIDHeader: "42",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("AddProblem", mock.Anything, int64(42), 1).Return(nil, apperrors.ErrExternal).Once()
			},
			expectedStatusCode:   http.StatusBadGateway,
			expectedResponseBody: `{"error": "external service failure"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reviewMock := new(ReviewServiceMock)
			tc.setupMocks(reviewMock)

			req := httptest.NewRequest(http.MethodPost, "/api/problems/", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			if tc.userIDHeader != "" {
				req.Header.Set("X-User-ID", tc.userIDHeader)
			}

			rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectedResponseBody != "" {
				assert.JSONEq(t, tc.expectedResponseBody, rr.Body.String())
			}
			reviewMock.AssertExpectations(t)
		})
	}
}

func TestServer_CompleteReview(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		setupMocks         func(*ReviewServiceMock)
		expectedStatusCode int
	}{
		{
			name: "Success",
			url:  "/api/problems/100/complete",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("CompleteReview", mock.Anything, int64(100), int64(42)).Return(sampleProblem(), nil).Once()
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Invalid problem id",
			url:                "/api/problems/abc/complete",
			setupMocks:         func(rsm *ReviewServiceMock) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "Problem of another user looks missing",
			url:  "/api/problems/100/complete",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("CompleteReview", mock.Anything, int64(100), int64(42)).Return(nil, apperrors.ErrNotFound).Once()
			},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reviewMock := new(ReviewServiceMock)
			tc.setupMocks(reviewMock)

			req := httptest.NewRequest(http.MethodPost, tc.url, nil)
			req.Header.Set("X-User-ID", "42")

			rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			reviewMock.AssertExpectations(t)
		})
	}
}

func TestServer_PostponeReview(t *testing.T) {
	testCases := []struct {
		name               string
		url                string
		setupMocks         func(*ReviewServiceMock)
		expectedStatusCode int
	}{
		{
			name: "Success with explicit days",
			url:  "/api/problems/100/postpone?days=3",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("PostponeReview", mock.Anything, int64(100), int64(42), 3).Return(sampleProblem(), nil).Once()
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name: "Days defaults to 1",
			url:  "/api/problems/100/postpone",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("PostponeReview", mock.Anything, int64(100), int64(42), 1).Return(sampleProblem(), nil).Once()
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Non-numeric days",
			url:                "/api/problems/100/postpone?days=soon",
			setupMocks:         func(rsm *ReviewServiceMock) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "Non-positive days rejected by the service",
			url:  "/api/problems/100/postpone?days=0",
			setupMocks: func(rsm *ReviewServiceMock) {
				rsm.On("PostponeReview", mock.Anything, int64(100), int64(42), 0).
					Return(nil, apperrors.ErrInvalidArgument).Once()
			},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reviewMock := new(ReviewServiceMock)
			tc.setupMocks(reviewMock)

			req := httptest.NewRequest(http.MethodPost, tc.url, nil)
			req.Header.Set("X-User-ID", "42")

			rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			reviewMock.AssertExpectations(t)
		})
	}
}

func TestServer_ListProblems(t *testing.T) {
	t.Run("Filters are parsed from the query string", func(t *testing.T) {
		medium := domain.DifficultyMedium
		active := true

		reviewMock := new(ReviewServiceMock)
		reviewMock.On("ListProblems", mock.Anything, int64(42), repository.ProblemFilter{
			Difficulty: &medium,
			IsActive:   &active,
			Limit:      20,
			Offset:     40,
		}).Return([]domain.Problem{*sampleProblem()}, 1, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/problems/?difficulty=Medium&status=active&limit=20&skip=40", nil)
		req.Header.Set("X-User-ID", "42")

		rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"total": 1, "problems": [`+sampleProblemJSON+`]}`, rr.Body.String())
		reviewMock.AssertExpectations(t)
	})

	t.Run("Unknown difficulty is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/problems/?difficulty=Impossible", nil)
		req.Header.Set("X-User-ID", "42")

		rr := serveRequest(t, new(ReviewServiceMock), new(UserServiceMock), req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Limit above the cap is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/problems/?limit=500", nil)
		req.Header.Set("X-User-ID", "42")

		rr := serveRequest(t, new(ReviewServiceMock), new(UserServiceMock), req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestServer_GetStats(t *testing.T) {
	reviewMock := new(ReviewServiceMock)
	reviewMock.On("GetStats", mock.Anything, int64(42)).Return(&domain.ProblemStats{
		TotalProblems:     10,
		ActiveProblems:    7,
		CompletedProblems: 3,
		ByDifficulty: map[domain.Difficulty]int{
			domain.DifficultyEasy:   5,
			domain.DifficultyMedium: 4,
			domain.DifficultyHard:   1,
		},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/problems/stats", nil)
	req.Header.Set("X-User-ID", "42")

	rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"total_problems": 10,
		"active_problems": 7,
		"completed_problems": 3,
		"difficulty_distribution": {"Easy": 5, "Medium": 4, "Hard": 1}
	}`, rr.Body.String())
	reviewMock.AssertExpectations(t)
}

func TestServer_CreateUser(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		setupMocks         func(*UserServiceMock)
		expectedStatusCode int
	}{
		{
			name:        "Success",
			requestBody: `{"email": "dev@example.com", "timezone": "Asia/Shanghai", "notification_time": "09:00"}`,
			setupMocks: func(usm *UserServiceMock) {
				usm.On("CreateUser", mock.Anything, "dev@example.com", "Asia/Shanghai", mock.MatchedBy(func(at time.Time) bool {
					return at.Hour() == 9 && at.Minute() == 0
				})).Return(&domain.User{
					ID:               1,
					Email:            "dev@example.com",
					Timezone:         "Asia/Shanghai",
					NotificationTime: time.Date(0, time.January, 1, 9, 0, 0, 0, time.UTC),
					IsActive:         true,
					CreatedAt:        testDate,
				}, nil).Once()
			},
			expectedStatusCode: http.StatusCreated,
		},
		{
			name:               "Invalid notification time",
			requestBody:        `{"email": "dev@example.com", "timezone": "UTC", "notification_time": "25:99"}`,
			setupMocks:         func(usm *UserServiceMock) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Invalid timezone",
			requestBody:        `{"email": "dev@example.com", "timezone": "Nowhere", "notification_time": "09:00"}`,
			setupMocks:         func(usm *UserServiceMock) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:        "Duplicate email",
			requestBody: `{"email": "dev@example.com", "timezone": "UTC", "notification_time": "09:00"}`,
			setupMocks: func(usm *UserServiceMock) {
				usm.On("CreateUser", mock.Anything, "dev@example.com", "UTC", mock.Anything).
					Return(nil, &apperrors.UserAlreadyExistsError{Email: "dev@example.com"}).Once()
			},
			expectedStatusCode: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			userMock := new(UserServiceMock)
			tc.setupMocks(userMock)

			req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")

			rr := serveRequest(t, new(ReviewServiceMock), userMock, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			userMock.AssertExpectations(t)
		})
	}
}

func TestServer_GetDueProblems(t *testing.T) {
	reviewMock := new(ReviewServiceMock)
	reviewMock.On("GetDueProblems", mock.Anything, int64(42), time.Time{}).
		Return([]domain.Problem{*sampleProblem()}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/problems/review", nil)
	req.Header.Set("X-User-ID", "42")

	rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"problems": [`+sampleProblemJSON+`]}`, rr.Body.String())
	reviewMock.AssertExpectations(t)
}

func TestServer_Health(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	rr := serveRequest(t, new(ReviewServiceMock), new(UserServiceMock), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())
}

func TestServer_InternalError(t *testing.T) {
	reviewMock := new(ReviewServiceMock)
	reviewMock.On("GetStats", mock.Anything, int64(42)).Return(nil, errors.New("db exploded")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/problems/stats", nil)
	req.Header.Set("X-User-ID", "42")

	rr := serveRequest(t, reviewMock, new(UserServiceMock), req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rr.Body.String())
}
