// Package worker implements the two recurring sweeps: the per-minute
// notification pass that matches each active user's local wall-clock time
// against their configured reminder time, and the daily retirement pass that
// deactivates problems stranded past the final review stage.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/clock"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/pkg/logger/sl"
)

// UserSource lists the users the notification pass must consider.
type UserSource interface {
	GetActiveUsers(ctx context.Context) ([]domain.User, error)
}

// DueProblemSource selects a user's problems due as of a point in time.
// Satisfied by service.ReviewService.
type DueProblemSource interface {
	GetDueProblems(ctx context.Context, userID int64, asOf time.Time) ([]domain.Problem, error)
}

// ProblemRetirer deactivates problems whose stage moved past the last review
// stage. Satisfied by the problem repository.
type ProblemRetirer interface {
	RetireExhausted(ctx context.Context) ([]int64, error)
}

// Notifier delivers a due-review reminder. Failures are per-user and
// non-fatal; the next tick retries naturally because the problems stay due.
type Notifier interface {
	Notify(ctx context.Context, user domain.User, problems []domain.Problem) error
}

type Sweeper struct {
	log            *slog.Logger
	users          UserSource
	due            DueProblemSource
	retirer        ProblemRetirer
	notifier       Notifier
	clk            clock.Clock
	perUserTimeout time.Duration
}

func NewSweeper(
	log *slog.Logger,
	users UserSource,
	due DueProblemSource,
	retirer ProblemRetirer,
	notifier Notifier,
	clk clock.Clock,
	perUserTimeout time.Duration,
) *Sweeper {
	return &Sweeper{
		log:            log,
		users:          users,
		due:            due,
		retirer:        retirer,
		notifier:       notifier,
		clk:            clk,
		perUserTimeout: perUserTimeout,
	}
}

// NotificationPass is one tick of the reminder sweep. For every active user it
// resolves "now" in the user's timezone and, when the local hour and minute
// equal the user's notification time, sends a reminder for the problems due
// that local day. A failure for one user never aborts the pass for the rest.
func (s *Sweeper) NotificationPass(ctx context.Context) error {
	const op = "internal.worker.NotificationPass"
	log := s.log.With(slog.String("op", op))

	users, err := s.users.GetActiveUsers(ctx)
	if err != nil {
		log.Error("failed to load active users", sl.Err(err))
		return err
	}

	for _, user := range users {
		s.notifyUser(ctx, log, user)
	}

	return nil
}

func (s *Sweeper) notifyUser(ctx context.Context, log *slog.Logger, user domain.User) {
	log = log.With(slog.Int64("user_id", user.ID))

	localNow, err := clock.NowIn(s.clk, user.Timezone)
	if err != nil {
		log.Warn("skipping user with unresolvable timezone",
			slog.String("timezone", user.Timezone), sl.Err(err))
		return
	}

	// Seconds are ignored: the sweep fires once a minute, so an exact
	// hour-and-minute match selects each user at most once per day.
	if localNow.Hour() != user.NotificationTime.Hour() || localNow.Minute() != user.NotificationTime.Minute() {
		return
	}

	userCtx, cancel := context.WithTimeout(ctx, s.perUserTimeout)
	defer cancel()

	problems, err := s.due.GetDueProblems(userCtx, user.ID, localNow)
	if err != nil {
		log.Error("failed to get due problems", sl.Err(err))
		return
	}

	if len(problems) == 0 {
		return
	}

	if err := s.notifier.Notify(userCtx, user, problems); err != nil {
		log.Error("failed to send review reminder", sl.Err(err))
		return
	}

	log.Info("review reminder sent", slog.Int("due_problems", len(problems)))
}

// RetirementPass deactivates active problems whose stage exceeds the final
// review stage. CompleteReview already retires problems at that boundary, so
// under correct operation this finds nothing; it exists to self-heal drift.
func (s *Sweeper) RetirementPass(ctx context.Context) error {
	const op = "internal.worker.RetirementPass"
	log := s.log.With(slog.String("op", op))

	retired, err := s.retirer.RetireExhausted(ctx)
	if err != nil {
		log.Error("retirement pass failed", sl.Err(err))
		return err
	}

	if len(retired) > 0 {
		log.Info("retirement pass deactivated stranded problems", slog.Int("count", len(retired)))
	}

	return nil
}
