// Package http implements the HTTP transport layer for the review service.
// It decodes requests, resolves the authenticated user id supplied by the
// fronting auth layer, calls the services and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/apperrors"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/service"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/validation"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/pkg/logger/sl"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	log           *slog.Logger
	reviewService service.ReviewService
	userService   service.UserService
}

func NewServer(log *slog.Logger, rs service.ReviewService, us service.UserService) *Server {
	return &Server{
		log:           log,
		reviewService: rs,
		userService:   us,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Get("/health", s.Health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Post("/users", s.CreateUser)

		r.Group(func(r chi.Router) {
			r.Use(s.userContext)

			r.Get("/users/me", s.GetCurrentUser)
			r.Put("/users/me/settings", s.UpdateSettings)
			r.Post("/users/set-is-active", s.SetIsActive)

			r.Route("/problems", func(r chi.Router) {
				r.Get("/", s.ListProblems)
				r.Post("/", s.AddProblem)
				r.Get("/stats", s.GetStats)
				r.Get("/review", s.GetDueProblems)
				r.Get("/{problemID}/logs", s.GetReviewHistory)
				r.Post("/{problemID}/complete", s.CompleteReview)
				r.Post("/{problemID}/postpone", s.PostponeReview)
			})
		})
	})

	return mux
}

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.CreateUser"

	var req createUserRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	notifyAt, err := domain.ParseNotificationTime(req.NotificationTime)
	if err != nil {
		s.handleServiceError(w, op, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	user, err := s.userService.CreateUser(r.Context(), req.Email, req.Timezone, notifyAt)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCurrentUser"

	user, err := s.userService.GetUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.UpdateSettings"

	var req updateSettingsRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var notifyAt time.Time
	if req.NotificationTime != "" {
		parsed, err := domain.ParseNotificationTime(req.NotificationTime)
		if err != nil {
			s.handleServiceError(w, op, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
			return
		}
		notifyAt = parsed
	}

	user, err := s.userService.UpdateSettings(r.Context(), userIDFromContext(r.Context()), req.Timezone, notifyAt)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) SetIsActive(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.SetIsActive"

	var req setIsActiveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	user, err := s.userService.SetIsActive(r.Context(), userIDFromContext(r.Context()), req.IsActive)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) AddProblem(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.AddProblem"

	var req addProblemRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	problem, err := s.reviewService.AddProblem(r.Context(), userIDFromContext(r.Context()), req.ProblemNumber)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]problemResponse{"problem": toProblemResponse(problem)})
}

func (s *Server) ListProblems(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListProblems"

	filter, err := problemFilterFromQuery(r)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	problems, total, err := s.reviewService.ListProblems(r.Context(), userIDFromContext(r.Context()), filter)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, listProblemsResponse{
		Total:    total,
		Problems: toProblemResponses(problems),
	})
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetStats"

	stats, err := s.reviewService.GetStats(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	byDifficulty := make(map[string]int, len(stats.ByDifficulty))
	for d, n := range stats.ByDifficulty {
		byDifficulty[string(d)] = n
	}

	s.respond(w, http.StatusOK, statsResponse{
		TotalProblems:          stats.TotalProblems,
		ActiveProblems:         stats.ActiveProblems,
		CompletedProblems:      stats.CompletedProblems,
		DifficultyDistribution: byDifficulty,
	})
}

func (s *Server) GetDueProblems(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetDueProblems"

	problems, err := s.reviewService.GetDueProblems(r.Context(), userIDFromContext(r.Context()), time.Time{})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]problemResponse{"problems": toProblemResponses(problems)})
}

func (s *Server) GetReviewHistory(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetReviewHistory"

	problemID, err := problemIDFromURL(r)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	logs, err := s.reviewService.GetReviewHistory(r.Context(), userIDFromContext(r.Context()), problemID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]reviewLogResponse{"logs": toReviewLogResponses(logs)})
}

func (s *Server) CompleteReview(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.CompleteReview"

	problemID, err := problemIDFromURL(r)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	problem, err := s.reviewService.CompleteReview(r.Context(), problemID, userIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]problemResponse{"problem": toProblemResponse(problem)})
}

func (s *Server) PostponeReview(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostponeReview"

	problemID, err := problemIDFromURL(r)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	days := 1
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.handleServiceError(w, op, fmt.Errorf("%w: days must be an integer", apperrors.ErrInvalidArgument))
			return
		}
		days = parsed
	}

	problem, err := s.reviewService.PostponeReview(r.Context(), problemID, userIDFromContext(r.Context()), days)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]problemResponse{"problem": toProblemResponse(problem)})
}

func problemIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "problemID")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid problem id %q", apperrors.ErrInvalidArgument, raw)
	}

	return id, nil
}

func problemFilterFromQuery(r *http.Request) (repository.ProblemFilter, error) {
	q := r.URL.Query()

	filter := repository.ProblemFilter{Limit: 10}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return filter, fmt.Errorf("%w: limit must be between 1 and 100", apperrors.ErrInvalidArgument)
		}
		filter.Limit = limit
	}

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return filter, fmt.Errorf("%w: skip must be non-negative", apperrors.ErrInvalidArgument)
		}
		filter.Offset = skip
	}

	if raw := q.Get("difficulty"); raw != "" {
		difficulty, err := domain.ParseDifficulty(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
		}
		filter.Difficulty = &difficulty
	}

	switch q.Get("status") {
	case "":
	case "active":
		active := true
		filter.IsActive = &active
	case "completed":
		active := false
		filter.IsActive = &active
	default:
		return filter, fmt.Errorf("%w: status must be 'active' or 'completed'", apperrors.ErrInvalidArgument)
	}

	return filter, nil
}

// respond is a helper to encode data to JSON and write it to the response.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate deserializes a JSON request body and runs validation.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all handlers.
func (s *Server) handleServiceError(w http.ResponseWriter, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrInvalidArgument):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrAlreadyExists):
		s.respondError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, apperrors.ErrExternal):
		s.respondError(w, http.StatusBadGateway, "external service failure")
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
