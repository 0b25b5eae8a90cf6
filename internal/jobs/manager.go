// Package jobs wires the recurring sweeps and outbound reminder emails onto
// an asynq task queue over Redis. The scheduler enqueues the sweep tasks on a
// cron cadence; the server consumes them along with the email tasks the
// notification pass produces.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/config"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/worker"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/pkg/logger/sl"
)

const (
	// TaskNotificationSweep fires every minute and runs the reminder pass.
	TaskNotificationSweep = "sweep:notifications"

	// TaskRetirementSweep fires at midnight UTC and runs the data-drift
	// retirement pass.
	TaskRetirementSweep = "sweep:retire"

	// TaskSendReminder carries one user's due-review email.
	TaskSendReminder = "email:reminder"
)

// ReminderPayload is the body of a TaskSendReminder task. The sweep captures
// everything the email needs so the handler does not re-query the store.
type ReminderPayload struct {
	User     domain.User      `json:"user"`
	Problems []domain.Problem `json:"problems"`
}

// EmailSender is the delivery edge consumed by the reminder handler.
// Satisfied by the email gateway.
type EmailSender interface {
	Send(ctx context.Context, user domain.User, problems []domain.Problem) error
}

type Manager struct {
	client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	log       *slog.Logger
}

func NewManager(cfg config.Redis, log *slog.Logger) *Manager {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Addr}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("task failed", slog.String("type", task.Type()), sl.Err(err))
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	return &Manager{
		client:    asynq.NewClient(redisOpt),
		server:    server,
		scheduler: scheduler,
		mux:       asynq.NewServeMux(),
		log:       log,
	}
}

// RegisterHandlers binds the sweep and email tasks to their implementations.
func (m *Manager) RegisterHandlers(sweeper *worker.Sweeper, sender EmailSender) {
	m.mux.HandleFunc(TaskNotificationSweep, func(ctx context.Context, _ *asynq.Task) error {
		return sweeper.NotificationPass(ctx)
	})

	m.mux.HandleFunc(TaskRetirementSweep, func(ctx context.Context, _ *asynq.Task) error {
		return sweeper.RetirementPass(ctx)
	})

	m.mux.HandleFunc(TaskSendReminder, func(ctx context.Context, task *asynq.Task) error {
		var payload ReminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal reminder payload: %w", err)
		}

		return sender.Send(ctx, payload.User, payload.Problems)
	})
}

// RegisterPeriodic puts the two sweeps on the schedule: the notification pass
// every minute, the retirement pass at each midnight UTC day boundary.
func (m *Manager) RegisterPeriodic() error {
	if _, err := m.scheduler.Register("* * * * *", asynq.NewTask(TaskNotificationSweep, nil)); err != nil {
		return fmt.Errorf("failed to register notification sweep: %w", err)
	}

	if _, err := m.scheduler.Register("0 0 * * *", asynq.NewTask(TaskRetirementSweep, nil)); err != nil {
		return fmt.Errorf("failed to register retirement sweep: %w", err)
	}

	return nil
}

// Start runs the task server and the periodic scheduler. It blocks until
// Stop is called.
func (m *Manager) Start() error {
	m.log.Info("starting job queue worker")

	if err := m.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	return m.server.Run(m.mux)
}

func (m *Manager) Stop() {
	m.log.Info("stopping job queue")
	m.scheduler.Shutdown()
	m.server.Stop()
	m.server.Shutdown()

	if err := m.client.Close(); err != nil {
		m.log.Error("failed to close asynq client", sl.Err(err))
	}
}
