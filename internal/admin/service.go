package admin

import (
	"context"
	"log/slog"

	"github.com/ardanpr/expense-report-portal/internal/report"
)

// Repository is the read/delete surface the admin endpoints work against.
// Implemented by the report postgres repository.
type Repository interface {
	List(ctx context.Context, q report.ListQuery) ([]*report.Report, error)
	GetByID(ctx context.Context, id int64) (*report.Report, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, q report.StatsQuery) (*report.Stats, error)
	DistinctGPNs(ctx context.Context) ([]string, error)
	DistinctItems(ctx context.Context) ([]string, error)
}

// Service is the admin-facing orchestration over report storage. All of it
// sits behind the auth middleware.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListReports applies the pagination defaults and runs the filtered query.
func (s *Service) ListReports(ctx context.Context, q report.ListQuery) ([]*report.Report, error) {
	reports, err := s.repo.List(ctx, q.Normalized())
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		return nil, err
	}
	return reports, nil
}

func (s *Service) GetReport(ctx context.Context, id int64) (*report.Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err != report.ErrNotFound {
			s.logger.Error("failed to get report", "report_id", id, "error", err)
		}
		return nil, err
	}
	return rep, nil
}

func (s *Service) DeleteReport(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err != report.ErrNotFound {
			s.logger.Error("failed to delete report", "report_id", id, "error", err)
		}
		return err
	}

	s.logger.Info("report deleted", "report_id", id)
	return nil
}

func (s *Service) GetStats(ctx context.Context, q report.StatsQuery) (*report.Stats, error) {
	stats, err := s.repo.Stats(ctx, q)
	if err != nil {
		s.logger.Error("failed to aggregate stats", "error", err)
		return nil, err
	}
	return stats, nil
}

func (s *Service) ListGPNs(ctx context.Context) ([]string, error) {
	return s.repo.DistinctGPNs(ctx)
}

func (s *Service) ListItems(ctx context.Context) ([]string, error) {
	return s.repo.DistinctItems(ctx)
}
