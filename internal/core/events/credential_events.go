package events

import (
	"time"

	"github.com/google/uuid"
)

const CredentialProvisionedEventType = "credential.provisioned"

// NewCredentialProvisionedEvent is published after a submitter credential
// has been stored. The payload carries the plaintext temporary password so
// the mail subscriber can deliver it out of band; it is never persisted.
func NewCredentialProvisionedEvent(gpn, email, tempPassword string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      CredentialProvisionedEventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"gpn":           gpn,
			"email":         email,
			"temp_password": tempPassword,
		},
	}
}
