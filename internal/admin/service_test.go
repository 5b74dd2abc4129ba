package admin_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ardanpr/expense-report-portal/internal/admin"
	"github.com/ardanpr/expense-report-portal/internal/report"
)

type capturingRepository struct {
	lastListQuery report.ListQuery
}

func (r *capturingRepository) List(ctx context.Context, q report.ListQuery) ([]*report.Report, error) {
	r.lastListQuery = q
	return []*report.Report{}, nil
}

func (r *capturingRepository) GetByID(ctx context.Context, id int64) (*report.Report, error) {
	return nil, report.ErrNotFound
}

func (r *capturingRepository) Delete(ctx context.Context, id int64) error {
	return report.ErrNotFound
}

func (r *capturingRepository) Stats(ctx context.Context, q report.StatsQuery) (*report.Stats, error) {
	return &report.Stats{ItemBreakdown: []report.ItemStat{}}, nil
}

func (r *capturingRepository) DistinctGPNs(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (r *capturingRepository) DistinctItems(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

var _ = Describe("AdminService", func() {
	var (
		repo    *capturingRepository
		service *admin.Service
	)

	BeforeEach(func() {
		repo = &capturingRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = admin.NewService(repo, logger)
	})

	Describe("ListReports", func() {
		It("should apply the default limit when none is set", func() {
			_, err := service.ListReports(context.Background(), report.ListQuery{})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastListQuery.Limit).To(Equal(report.DefaultListLimit))
			Expect(repo.lastListQuery.Offset).To(Equal(0))
		})

		It("should keep an explicit limit", func() {
			_, err := service.ListReports(context.Background(), report.ListQuery{Limit: 25, Offset: 50})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastListQuery.Limit).To(Equal(25))
			Expect(repo.lastListQuery.Offset).To(Equal(50))
		})

		It("should clamp a negative offset to zero", func() {
			_, err := service.ListReports(context.Background(), report.ListQuery{Offset: -10})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastListQuery.Offset).To(Equal(0))
		})
	})

	Describe("GetReport", func() {
		It("should pass ErrNotFound through untouched", func() {
			_, err := service.GetReport(context.Background(), 404)
			Expect(err).To(Equal(report.ErrNotFound))
		})
	})
})
