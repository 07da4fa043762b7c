// Package notify delivers password-reset links. Delivery is fire and
// forget: a failure is reported to the caller as a soft error and never
// rolls back the already-committed token.
package notify

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/config"
)

type Notifier interface {
	SendResetLink(toEmail, resetURL string) error
}

// New picks the SMTP notifier when a host is configured, otherwise a
// log-only notifier for development.
func New(cfg config.SMTP, lg *zap.SugaredLogger) Notifier {
	if cfg.Host == "" {
		return &LogNotifier{lg: lg}
	}
	return &SMTPNotifier{cfg: cfg, lg: lg}
}

type SMTPNotifier struct {
	cfg config.SMTP
	lg  *zap.SugaredLogger
}

func (n *SMTPNotifier) SendResetLink(toEmail, resetURL string) error {
	body := fmt.Sprintf("Subject: Password reset\r\nFrom: %s\r\nTo: %s\r\n\r\n"+
		"An administrator initiated a reset of your password. Follow the link to set a new one:\r\n%s\r\n\r\n"+
		"The link is valid for 1 hour. If you did not request a reset, contact your administrator.\r\n",
		n.cfg.From, toEmail, resetURL)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{toEmail}, []byte(body)); err != nil {
		n.lg.Errorw("reset email delivery failed", "to", toEmail, "error", err)
		return apperrors.Wrap(apperrors.CodeDeliveryFailed, "reset link created but not delivered", err)
	}
	return nil
}

// LogNotifier writes the link to the log instead of sending mail.
type LogNotifier struct {
	lg *zap.SugaredLogger
}

func (n *LogNotifier) SendResetLink(toEmail, resetURL string) error {
	n.lg.Infow("reset link issued", "to", toEmail, "url", resetURL)
	return nil
}
