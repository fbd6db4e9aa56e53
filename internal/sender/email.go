// Package sender implements the one-shot email and SMS notification senders.
package sender

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const implicitTLSPort = 465

// EmailConfig carries the SMTP endpoint and message defaults.
type EmailConfig struct {
	Host     string
	Port     int
	UseTLS   bool
	Username string
	Password string
	From     string
	CC       []string
}

// EmailSender sends one plain-text message per call over a fresh SMTP
// session: connect, authenticate, send, disconnect. Port 465 uses implicit
// TLS; other ports upgrade with STARTTLS when enabled. One attempt, no retry.
type EmailSender struct {
	cfg    EmailConfig
	logger *zap.Logger
}

func NewEmailSender(cfg EmailConfig, logger *zap.Logger) (*EmailSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid smtp port %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("from address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EmailSender{cfg: cfg, logger: logger}, nil
}

func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s == nil {
		return fmt.Errorf("email sender is not initialized")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("destination email address is required")
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid destination address: %w", err)
	}
	if len(s.cfg.CC) > 0 {
		if err := msg.Cc(s.cfg.CC...); err != nil {
			return fmt.Errorf("invalid cc address: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("failed to build smtp client: %w", err)
	}
	defer client.Close() //nolint:errcheck // session already torn down by DialAndSend on success

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	s.logger.Debug("email sent", zap.String("to", to))
	return nil
}

func (s *EmailSender) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}

	switch {
	case s.cfg.Port == implicitTLSPort:
		opts = append(opts, mail.WithSSL())
	case s.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	return mail.NewClient(s.cfg.Host, opts...)
}
