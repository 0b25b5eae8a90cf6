package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

// ReminderNotifier implements worker.Notifier by enqueueing an email task
// instead of sending inline, so a slow SMTP server never stalls a sweep tick.
type ReminderNotifier struct {
	client *asynq.Client
	log    *slog.Logger
}

func NewReminderNotifier(m *Manager, log *slog.Logger) *ReminderNotifier {
	return &ReminderNotifier{client: m.client, log: log}
}

func (n *ReminderNotifier) Notify(ctx context.Context, user domain.User, problems []domain.Problem) error {
	const op = "internal.jobs.Notify"

	payload, err := json.Marshal(ReminderPayload{User: user, Problems: problems})
	if err != nil {
		return fmt.Errorf("%s: failed to marshal reminder payload: %w", op, err)
	}

	task := asynq.NewTask(TaskSendReminder, payload, asynq.MaxRetry(3))

	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("%s: failed to enqueue reminder: %w", op, err)
	}

	n.log.Debug("reminder enqueued",
		slog.String("op", op), slog.Int64("user_id", user.ID), slog.String("task_id", info.ID))

	return nil
}
