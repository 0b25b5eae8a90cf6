// Package leetcode implements the problem-metadata gateway against the public
// LeetCode REST and GraphQL endpoints. It is consulted once, at
// problem-creation time.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/apperrors"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/config"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	graphqlURL string
	log        *slog.Logger
}

func NewClient(cfg config.LeetCode, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		graphqlURL: cfg.GraphQLURL,
		log:        log,
	}
}

type problemsListResponse struct {
	StatStatusPairs []struct {
		Stat struct {
			FrontendQuestionID int    `json:"frontend_question_id"`
			QuestionTitleSlug  string `json:"question__title_slug"`
		} `json:"stat"`
	} `json:"stat_status_pairs"`
}

type questionDetailResponse struct {
	Data struct {
		Question *struct {
			Title      string `json:"title"`
			Difficulty string `json:"difficulty"`
		} `json:"question"`
	} `json:"data"`
}

const questionDetailQuery = `
query getQuestionDetail($titleSlug: String!) {
    question(titleSlug: $titleSlug) {
        title
        difficulty
    }
}`

// Lookup resolves a problem number to its title and difficulty. It returns
// apperrors.ErrNotFound when the number is unknown and apperrors.ErrExternal
// when either endpoint misbehaves.
func (c *Client) Lookup(ctx context.Context, problemNumber int) (*domain.ProblemMetadata, error) {
	const op = "internal.gateway.leetcode.Lookup"

	slug, err := c.findTitleSlug(ctx, problemNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	title, difficultyStr, err := c.fetchQuestionDetail(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	difficulty, err := domain.ParseDifficulty(difficultyStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperrors.ErrExternal, err)
	}

	return &domain.ProblemMetadata{
		Number:     problemNumber,
		Title:      title,
		Difficulty: difficulty,
	}, nil
}

func (c *Client) findTitleSlug(ctx context.Context, problemNumber int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/problems/all/", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build problems request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: problems list request failed: %v", apperrors.ErrExternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: problems list returned status %d", apperrors.ErrExternal, resp.StatusCode)
	}

	var list problemsListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("%w: failed to decode problems list: %v", apperrors.ErrExternal, err)
	}

	for _, pair := range list.StatStatusPairs {
		if pair.Stat.FrontendQuestionID == problemNumber {
			return pair.Stat.QuestionTitleSlug, nil
		}
	}

	return "", fmt.Errorf("%w: problem #%d", apperrors.ErrNotFound, problemNumber)
}

func (c *Client) fetchQuestionDetail(ctx context.Context, titleSlug string) (title, difficulty string, err error) {
	body, err := json.Marshal(map[string]any{
		"query":     questionDetailQuery,
		"variables": map[string]string{"titleSlug": titleSlug},
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal graphql query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: graphql request failed: %v", apperrors.ErrExternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: graphql returned status %d", apperrors.ErrExternal, resp.StatusCode)
	}

	var detail questionDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return "", "", fmt.Errorf("%w: failed to decode graphql response: %v", apperrors.ErrExternal, err)
	}

	if detail.Data.Question == nil {
		return "", "", fmt.Errorf("%w: question %q", apperrors.ErrNotFound, titleSlug)
	}

	return detail.Data.Question.Title, detail.Data.Question.Difficulty, nil
}
