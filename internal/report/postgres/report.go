package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ardanpr/expense-report-portal/internal/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepository implements the report storage surface using GORM. It
// backs both the submission service (UpsertBatch) and the admin query
// builder (List/Stats/Distinct*).
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// UpsertBatch inserts or updates every element inside a single transaction:
// either the whole batch commits or none of it does. Elements are processed
// in order, so a batch carrying the same natural key twice ends with the
// later element's values. Each *Report is updated in place with its stored
// id and created_at.
func (r *ReportRepository) UpsertBatch(ctx context.Context, reports []*report.Report) error {
	if len(reports) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rep := range reports {
			if err := upsertOne(tx, rep); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertOne(tx *gorm.DB, rep *report.Report) error {
	var existing report.Report
	err := tx.Where(naturalKey(rep)).First(&existing).Error

	switch {
	case err == nil:
		return applyUpdate(tx, existing.ID, rep)

	case errors.Is(err, gorm.ErrRecordNotFound):
		rep.CreatedAt = time.Now()
		if err := tx.Create(rep).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost an insert race on the natural-key unique index; the
				// row exists now, so fold this element into an update
				if ferr := tx.Where(naturalKey(rep)).First(&existing).Error; ferr != nil {
					return ferr
				}
				return applyUpdate(tx, existing.ID, rep)
			}
			return err
		}
		return nil

	default:
		return err
	}
}

// naturalKey is the equality condition on the business key tuple.
func naturalKey(rep *report.Report) map[string]interface{} {
	return map[string]interface{}{
		"gpn":            rep.GPN,
		"invoice_number": rep.InvoiceNumber,
		"item":           rep.Item,
		"report_date":    rep.ReportDate,
	}
}

func applyUpdate(tx *gorm.DB, id int64, rep *report.Report) error {
	now := time.Now()
	err := tx.Model(&report.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"report_title": rep.ReportTitle,
			"details":      rep.Details,
			"amount":       rep.Amount,
			"attachment":   rep.Attachment,
			"created_at":   now,
		}).Error
	if err != nil {
		return err
	}

	rep.ID = id
	rep.CreatedAt = now
	return nil
}

// GetByID retrieves a report by its surrogate id.
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// Delete removes a report by id, reporting ErrNotFound for unknown ids.
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&report.Report{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrNotFound
	}
	return nil
}

// List runs the admin listing query. Filters are appended conditionally and
// every value is bound as a parameter; the ORDER BY identifier comes from
// the SortColumn enum, never from client input.
func (r *ReportRepository) List(ctx context.Context, q report.ListQuery) ([]*report.Report, error) {
	db := r.db.WithContext(ctx).Model(&report.Report{})

	if q.GPN != "" {
		db = db.Where("gpn = ?", q.GPN)
	}
	if q.Item != "" {
		db = db.Where("LOWER(item) LIKE ?", "%"+strings.ToLower(q.Item)+"%")
	}
	if q.StartDate != nil {
		db = db.Where("report_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		db = db.Where("report_date <= ?", *q.EndDate)
	}
	if q.MinAmount != nil {
		db = db.Where("amount >= ?", *q.MinAmount)
	}
	if q.MaxAmount != nil {
		db = db.Where("amount <= ?", *q.MaxAmount)
	}

	var out []*report.Report
	err := db.
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.SortBy.Column()},
			Desc:   q.SortOrder.Desc(),
		}).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*report.Report{}
	}
	return out, nil
}

// Stats aggregates the filtered set: overall count/sum/average plus a
// per-item breakdown ordered by descending total. An empty set yields zero
// totals and an empty breakdown, never an error.
func (r *ReportRepository) Stats(ctx context.Context, q report.StatsQuery) (*report.Stats, error) {
	var totals struct {
		TotalCount  int64
		TotalAmount float64
		AvgAmount   float64
	}
	err := r.statsScope(ctx, q).
		Select("COUNT(*) AS total_count, COALESCE(SUM(amount), 0) AS total_amount, COALESCE(AVG(amount), 0) AS avg_amount").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var breakdown []report.ItemStat
	err = r.statsScope(ctx, q).
		Select("item, COUNT(*) AS count, SUM(amount) AS total, AVG(amount) AS average").
		Group("item").
		Order("total DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}
	if breakdown == nil {
		breakdown = []report.ItemStat{}
	}

	return &report.Stats{
		TotalCount:    totals.TotalCount,
		TotalAmount:   totals.TotalAmount,
		AvgAmount:     totals.AvgAmount,
		ItemBreakdown: breakdown,
	}, nil
}

func (r *ReportRepository) statsScope(ctx context.Context, q report.StatsQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&report.Report{})
	if q.StartDate != nil {
		db = db.Where("report_date >= ?", *q.StartDate)
	}
	if q.EndDate != nil {
		db = db.Where("report_date <= ?", *q.EndDate)
	}
	return db
}

// DistinctGPNs lists every distinct submitter GPN, sorted.
func (r *ReportRepository) DistinctGPNs(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "gpn")
}

// DistinctItems lists every distinct item category, sorted.
func (r *ReportRepository) DistinctItems(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "item")
}

func (r *ReportRepository) distinctColumn(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
