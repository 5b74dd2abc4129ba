package report

import (
	"context"
	"log/slog"

	"github.com/ardanpr/expense-report-portal/internal"
)

// RepositoryAPI is the storage surface the submission service needs.
type RepositoryAPI interface {
	UpsertBatch(ctx context.Context, reports []*Report) error
}

// CredentialProvisioner issues a portal credential for a submitting GPN.
// Implemented by the user service; failures are the side-effect's problem,
// never the submission's.
type CredentialProvisioner interface {
	ProvisionCredential(ctx context.Context, gpn, email string) error
}

// Service implements the bulk upsert operation.
type Service struct {
	repo        RepositoryAPI
	credentials CredentialProvisioner
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, credentials CredentialProvisioner, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		credentials: credentials,
		logger:      logger,
	}
}

// SubmitBatch validates and upserts a submission batch in one transaction.
// The returned slice preserves input order and length. An empty batch is a
// no-op, not an error. After the batch commits, the first element's
// user_email (if any) triggers credential provisioning.
func (s *Service) SubmitBatch(ctx context.Context, inputs []SubmitInput) ([]*Report, error) {
	if len(inputs) == 0 {
		return []*Report{}, nil
	}

	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			s.logger.Warn("report batch rejected", "index", i, "error", err)
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
		}
	}

	reports := make([]*Report, len(inputs))
	for i, in := range inputs {
		reports[i] = in.ToReport()
	}

	if err := s.repo.UpsertBatch(ctx, reports); err != nil {
		s.logger.Error("failed to upsert report batch", "size", len(reports), "error", err)
		return nil, internal.NewInternalError("failed to store report batch", err)
	}

	s.logger.Info("report batch stored", "size", len(reports), "gpn", inputs[0].GPN)

	s.maybeProvisionCredential(ctx, inputs[0])

	return reports, nil
}

// maybeProvisionCredential runs the credential side-effect for the batch.
// Only the first element's email counts; a failure is logged as a warning
// and never rolls back or fails the submission.
func (s *Service) maybeProvisionCredential(ctx context.Context, first SubmitInput) {
	if first.UserEmail == "" {
		return
	}

	if err := s.credentials.ProvisionCredential(ctx, first.GPN, first.UserEmail); err != nil {
		s.logger.Warn("credential provisioning failed, submission unaffected",
			"gpn", first.GPN,
			"email", first.UserEmail,
			"error", err)
	}
}
