package notification

import (
	"fmt"
	"log/slog"

	"github.com/ardanpr/expense-report-portal/internal"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers credential notifications to report submitters.
type Sender interface {
	SendCredentials(to, gpn, tempPassword string) error
}

// SMTPMailer sends credential mail through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

func NewSMTPMailer(cfg internal.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
		logger: logger,
	}
}

func (m *SMTPMailer) SendCredentials(to, gpn, tempPassword string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your expense report portal access")
	msg.SetBody("text/plain", credentialBody(gpn, tempPassword))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send credential mail to %s: %w", to, err)
	}

	m.logger.Info("credential mail sent", "recipient", to, "gpn", gpn)
	return nil
}

func credentialBody(gpn, tempPassword string) string {
	return fmt.Sprintf(
		"Hello,\n\n"+
			"An account has been provisioned for GPN %s on the expense report portal.\n\n"+
			"Temporary password: %s\n\n"+
			"Please sign in and change it as soon as possible.\n",
		gpn, tempPassword)
}

// LogMailer is the fallback used when SMTP is not configured. The password
// still has to reach somebody, so it goes to the log; without a relay that
// log line is the only copy.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendCredentials(to, gpn, tempPassword string) error {
	m.logger.Info("smtp not configured, credential mail not sent",
		"recipient", to, "gpn", gpn, "temp_password", tempPassword)
	return nil
}
