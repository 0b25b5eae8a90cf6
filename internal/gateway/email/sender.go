// Package email delivers review reminders over SMTP. It is the notifier
// implementation behind the sweep; failures are reported to the caller and
// never retried here.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/apperrors"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/config"
	"github.com/liuxuanzhang718/Leetcode-Ebbinghaus/internal/domain"
)

type Sender struct {
	cfg config.SMTP
	log *slog.Logger
}

func NewSender(cfg config.SMTP, log *slog.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Send delivers a due-review reminder to the user. When SMTP credentials are
// not configured the message is logged instead, which keeps local development
// working without a mail server.
func (s *Sender) Send(ctx context.Context, user domain.User, problems []domain.Problem) error {
	const op = "internal.gateway.email.Send"
	log := s.log.With(slog.String("op", op), slog.String("to", user.Email))

	subject := fmt.Sprintf("LeetCode Review Reminder - %d problem(s) due", len(problems))
	body := BuildReminderHTML(user, problems)

	if s.cfg.Username == "" || s.cfg.Password == "" {
		log.Info("smtp not configured, logging reminder instead",
			slog.String("subject", subject), slog.Int("due_problems", len(problems)))
		return nil
	}

	if err := s.send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrExternal, err)
	}

	return nil
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	dialer := &net.Dialer{Timeout: s.cfg.Timeout}

	var (
		conn net.Conn
		err  error
	)

	// Port 465 is implicit TLS; anything else starts plain and upgrades via
	// STARTTLS when the server offers it.
	if s.cfg.Port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Quit()

	if s.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return fmt.Errorf("starttls failed: %w", err)
			}
		}
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(s.cfg.FromAddress); err != nil {
		return fmt.Errorf("mail from failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data command failed: %w", err)
	}

	msg := fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", s.cfg.FromName, s.cfg.FromAddress, to, subject, body)

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return nil
}
