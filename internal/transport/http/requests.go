package http

import (
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

const dateLayout = "2006-01-02"

type createUserRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Timezone         string `json:"timezone" validate:"required,timezone"`
	NotificationTime string `json:"notification_time" validate:"required,notify_time"`
}

type updateSettingsRequest struct {
	Timezone         string `json:"timezone" validate:"omitempty,timezone"`
	NotificationTime string `json:"notification_time" validate:"omitempty,notify_time"`
}

type setIsActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type addProblemRequest struct {
	ProblemNumber int `json:"problem_number" validate:"required,min=1"`
}

type userResponse struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	Timezone         string `json:"timezone"`
	NotificationTime string `json:"notification_time"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Email:            u.Email,
		Timezone:         u.Timezone,
		NotificationTime: domain.FormatNotificationTime(u.NotificationTime),
		IsActive:         u.IsActive,
		CreatedAt:        u.CreatedAt.Format(dateLayout),
	}
}

type problemResponse struct {
	ID             int64  `json:"id"`
	LeetcodeNumber int    `json:"leetcode_number"`
	Title          string `json:"title"`
	Difficulty     string `json:"difficulty"`
	FirstStudyDate string `json:"first_study_date"`
	NextReviewDate string `json:"next_review_date"`
	Stage          int    `json:"stage"`
	IsActive       bool   `json:"is_active"`
}

func toProblemResponse(p *domain.Problem) problemResponse {
	return problemResponse{
		ID:             p.ID,
		LeetcodeNumber: p.LeetcodeNumber,
		Title:          p.Title,
		Difficulty:     string(p.Difficulty),
		FirstStudyDate: p.FirstStudyDate.Format(dateLayout),
		NextReviewDate: p.NextReviewDate.Format(dateLayout),
		Stage:          p.Stage,
		IsActive:       p.IsActive,
	}
}

func toProblemResponses(problems []domain.Problem) []problemResponse {
	out := make([]problemResponse, 0, len(problems))
	for i := range problems {
		out = append(out, toProblemResponse(&problems[i]))
	}

	return out
}

type listProblemsResponse struct {
	Total    int               `json:"total"`
	Problems []problemResponse `json:"problems"`
}

type statsResponse struct {
	TotalProblems          int            `json:"total_problems"`
	ActiveProblems         int            `json:"active_problems"`
	CompletedProblems      int            `json:"completed_problems"`
	DifficultyDistribution map[string]int `json:"difficulty_distribution"`
}

type reviewLogResponse struct {
	ID         int64  `json:"id"`
	ProblemID  int64  `json:"problem_id"`
	ReviewDate string `json:"review_date"`
	Stage      int    `json:"stage"`
}

func toReviewLogResponses(logs []domain.ReviewLog) []reviewLogResponse {
	out := make([]reviewLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, reviewLogResponse{
			ID:         l.ID,
			ProblemID:  l.ProblemID,
			ReviewDate: l.ReviewDate.Format(dateLayout),
			Stage:      l.Stage,
		})
	}

	return out
}
