package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardanpr/expense-report-portal/internal/core/events"
)

// Subscriber forwards credential events from the bus to a mail sender.
// Delivery runs on the bus goroutine, so a slow or failing relay never
// blocks report submission.
type Subscriber struct {
	sender Sender
	logger *slog.Logger
}

func NewSubscriber(sender Sender, logger *slog.Logger) *Subscriber {
	return &Subscriber{sender: sender, logger: logger}
}

// Register subscribes the credential mail handler on the bus.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.CredentialProvisionedEventType, s.handleCredentialProvisioned)
}

func (s *Subscriber) handleCredentialProvisioned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload type %T for event %s", event.Payload(), event.EventID())
	}

	email, _ := payload["email"].(string)
	gpn, _ := payload["gpn"].(string)
	tempPassword, _ := payload["temp_password"].(string)

	if email == "" {
		s.logger.Warn("credential event without email, nothing to send", "gpn", gpn)
		return nil
	}

	return s.sender.SendCredentials(email, gpn, tempPassword)
}
