package report_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ardanpr/expense-report-portal/internal"
	"github.com/ardanpr/expense-report-portal/internal/report"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ReportService Suite")
}

type mockReportRepository struct {
	batches     [][]*report.Report
	upsertError error
}

func (m *mockReportRepository) UpsertBatch(ctx context.Context, reports []*report.Report) error {
	if m.upsertError != nil {
		return m.upsertError
	}
	for i, rep := range reports {
		rep.ID = int64(i + 1)
		rep.CreatedAt = time.Now()
	}
	m.batches = append(m.batches, reports)
	return nil
}

type mockProvisioner struct {
	calls []struct{ GPN, Email string }
	err   error
}

func (m *mockProvisioner) ProvisionCredential(ctx context.Context, gpn, email string) error {
	m.calls = append(m.calls, struct{ GPN, Email string }{gpn, email})
	return m.err
}

var _ = Describe("ReportService", func() {
	var (
		repo        *mockReportRepository
		provisioner *mockProvisioner
		service     *report.Service
		ctx         context.Context
	)

	validInput := func() report.SubmitInput {
		return report.SubmitInput{
			GPN:           "1023004",
			InvoiceNumber: "INV-001",
			Item:          "Taxi",
			Amount:        42.50,
			ReportDate:    report.NewDateOnly(2025, time.November, 3),
		}
	}

	BeforeEach(func() {
		repo = &mockReportRepository{}
		provisioner = &mockProvisioner{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(repo, provisioner, logger)
		ctx = context.Background()
	})

	Describe("SubmitBatch", func() {
		It("should return an empty slice for an empty batch without touching storage", func() {
			out, err := service.SubmitBatch(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeNil())
			Expect(out).To(BeEmpty())
			Expect(repo.batches).To(BeEmpty())
		})

		It("should store a valid batch and preserve order", func() {
			second := validInput()
			second.Item = "Hotel"
			second.Amount = 380

			out, err := service.SubmitBatch(ctx, []report.SubmitInput{validInput(), second})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(2))
			Expect(out[0].Item).To(Equal("Taxi"))
			Expect(out[1].Item).To(Equal("Hotel"))
			Expect(out[0].ID).To(BeNumerically(">", 0))
			Expect(repo.batches).To(HaveLen(1))
		})

		It("should reject the whole batch when any element is invalid", func() {
			bad := validInput()
			bad.GPN = "12ab"

			_, err := service.SubmitBatch(ctx, []report.SubmitInput{validInput(), bad})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(repo.batches).To(BeEmpty())
		})

		It("should wrap storage failures as internal errors", func() {
			repo.upsertError = errors.New("connection reset")

			_, err := service.SubmitBatch(ctx, []report.SubmitInput{validInput()})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})

		Context("credential provisioning", func() {
			It("should provision for the first element when it carries an email", func() {
				first := validInput()
				first.UserEmail = "someone@example.com"
				second := validInput()
				second.Item = "Hotel"
				second.UserEmail = "ignored@example.com"

				_, err := service.SubmitBatch(ctx, []report.SubmitInput{first, second})
				Expect(err).NotTo(HaveOccurred())

				Expect(provisioner.calls).To(HaveLen(1))
				Expect(provisioner.calls[0].GPN).To(Equal("1023004"))
				Expect(provisioner.calls[0].Email).To(Equal("someone@example.com"))
			})

			It("should skip provisioning when the first element has no email", func() {
				first := validInput()
				second := validInput()
				second.Item = "Hotel"
				second.UserEmail = "later@example.com"

				_, err := service.SubmitBatch(ctx, []report.SubmitInput{first, second})
				Expect(err).NotTo(HaveOccurred())
				Expect(provisioner.calls).To(BeEmpty())
			})

			It("should not fail the submission when provisioning fails", func() {
				provisioner.err = errors.New("smtp relay down")
				first := validInput()
				first.UserEmail = "someone@example.com"

				out, err := service.SubmitBatch(ctx, []report.SubmitInput{first})
				Expect(err).NotTo(HaveOccurred())
				Expect(out).To(HaveLen(1))
				Expect(repo.batches).To(HaveLen(1))
			})
		})
	})

	Describe("SubmitInput validation", func() {
		It("should accept 7 and 8 digit gpns", func() {
			in := validInput()
			in.GPN = "1234567"
			Expect(in.Validate()).To(Succeed())
			in.GPN = "12345678"
			Expect(in.Validate()).To(Succeed())
		})

		It("should reject malformed gpns", func() {
			for _, gpn := range []string{"", "123456", "123456789", "12a4567"} {
				in := validInput()
				in.GPN = gpn
				Expect(in.Validate()).NotTo(Succeed())
			}
		})

		It("should reject missing required fields", func() {
			in := validInput()
			in.InvoiceNumber = ""
			Expect(in.Validate()).NotTo(Succeed())

			in = validInput()
			in.Item = ""
			Expect(in.Validate()).NotTo(Succeed())

			in = validInput()
			in.ReportDate = report.DateOnly{}
			Expect(in.Validate()).NotTo(Succeed())
		})

		It("should reject negative amounts but allow zero", func() {
			in := validInput()
			in.Amount = -1
			Expect(in.Validate()).NotTo(Succeed())

			in.Amount = 0
			Expect(in.Validate()).To(Succeed())
		})
	})
})
