package report

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Report is one submitted line-item expense. Rows are deduplicated by the
// natural key (gpn, invoice_number, item, report_date): a resubmission of
// the same key replaces the mutable fields and refreshes created_at while
// keeping the surrogate id.
type Report struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	GPN           string    `json:"gpn" gorm:"column:gpn;not null"`
	ReportTitle   *string   `json:"report_title" gorm:"column:report_title"`
	InvoiceNumber string    `json:"invoice_number" gorm:"column:invoice_number;not null"`
	Item          string    `json:"item" gorm:"column:item;not null"`
	Details       *string   `json:"details" gorm:"column:details"`
	Amount        float64   `json:"amount" gorm:"column:amount;not null"`
	Attachment    *string   `json:"attachment" gorm:"column:attachment"`
	ReportDate    DateOnly  `json:"report_date" gorm:"column:report_date;type:date;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for GORM
func (Report) TableName() string {
	return "expense_report"
}

var ErrNotFound = errors.New("report not found")

// DateOnly is a calendar date without a time component, serialized as
// YYYY-MM-DD in JSON and stored in a DATE column.
type DateOnly struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDateOnly(year int, month time.Month, day int) DateOnly {
	return DateOnly{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOnly{Time: t}, nil
}

func (d DateOnly) String() string {
	return d.Format(dateLayout)
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = DateOnly{}
		return nil
	}
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so the date binds as a query parameter.
func (d DateOnly) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner; drivers hand back time.Time or a string
// depending on the dialect.
func (d *DateOnly) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = DateOnly{}
		return nil
	case time.Time:
		*d = DateOnly{Time: time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
		return nil
	case string:
		parsed, err := ParseDateOnly(v[:min(len(v), len(dateLayout))])
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", src)
	}
}
