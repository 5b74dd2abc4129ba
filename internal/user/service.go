package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ardanpr/expense-report-portal/internal/core/events"
	"golang.org/x/crypto/bcrypt"
)

// Repository persists portal credentials.
type Repository interface {
	UpsertByGPN(ctx context.Context, u *User) error
}

const (
	tempPasswordLength  = 12
	tempPasswordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
)

// Service provisions submitter credentials. Storing the hash is synchronous;
// delivering the plaintext password happens through the event bus so the
// caller never waits on the mail relay.
type Service struct {
	repo       Repository
	bus        *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bus:        bus,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// ProvisionCredential generates a fresh temporary password for gpn, stores
// its bcrypt hash (insert, or overwrite email/hash on an existing row) and
// publishes the notification event. There is no password-reuse check: a new
// qualifying batch always rotates the credential.
func (s *Service) ProvisionCredential(ctx context.Context, gpn, email string) error {
	password, err := GenerateTempPassword()
	if err != nil {
		return fmt.Errorf("generate temp password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash temp password: %w", err)
	}

	u := &User{
		GPN:          gpn,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.UpsertByGPN(ctx, u); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	s.logger.Info("credential provisioned", "gpn", gpn, "email", email)

	s.bus.Publish(ctx, events.NewCredentialProvisionedEvent(gpn, email, password))

	return nil
}

// GenerateTempPassword draws a fixed-length password from the alphanumeric
// plus symbol alphabet using crypto/rand.
func GenerateTempPassword() (string, error) {
	out := make([]byte, tempPasswordLength)
	charsetLen := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordCharset[n.Int64()]
	}
	return string(out), nil
}
