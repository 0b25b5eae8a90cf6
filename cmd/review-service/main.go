package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/clock"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/config"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/gateway/email"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/gateway/leetcode"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/jobs"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/repository/postgres"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/service"
	myhttp "github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/transport/http"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/worker"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/pkg/logger/sl"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional, real deployments pass the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting review service", slog.String("env", cfg.Env))

	errChan := make(chan error, 2)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if err := db.DB().Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	userRepo := postgres.NewUserRepository(db.DB(), log)
	problemRepo := postgres.NewProblemRepository(db.DB(), log)
	logRepo := postgres.NewReviewLogRepository(db.DB(), log)

	clk := clock.System{}
	metadata := leetcode.NewClient(cfg.LeetCode, log)

	userService := service.NewUserService(userRepo, log)
	reviewService := service.NewReviewService(db.DB(), log, problemRepo, problemRepo, logRepo, metadata, clk)

	manager := jobs.NewManager(cfg.Redis, log)
	notifier := jobs.NewReminderNotifier(manager, log)
	sweeper := worker.NewSweeper(log, userRepo, problemRepo, problemRepo, notifier, clk, cfg.Worker.PerUserTimeout)
	sender := email.NewSender(cfg.SMTP, log)

	manager.RegisterHandlers(sweeper, sender)
	if err := manager.RegisterPeriodic(); err != nil {
		return fmt.Errorf("failed to register periodic tasks: %w", err)
	}

	go func() {
		if err := manager.Start(); err != nil {
			errChan <- fmt.Errorf("job queue error: %w", err)
		}
	}()

	srv := myhttp.NewServer(log, reviewService, userService)
	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		manager.Stop()
		return err

	case <-ctx.Done():
		log.Info("stopping service...")
	}

	manager.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %w", err)
	}
}
