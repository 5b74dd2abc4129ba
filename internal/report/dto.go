package report

import (
	"errors"
	"fmt"
	"regexp"
)

// SubmitInput is one element of a bulk submission batch. user_email is only
// honored on the first element of a batch; it triggers credential
// provisioning for the submitting GPN.
type SubmitInput struct {
	GPN           string   `json:"gpn"`
	ReportTitle   *string  `json:"report_title,omitempty"`
	InvoiceNumber string   `json:"invoice_number"`
	Item          string   `json:"item"`
	Details       *string  `json:"details,omitempty"`
	Amount        float64  `json:"amount"`
	Attachment    *string  `json:"attachment,omitempty"`
	ReportDate    DateOnly `json:"report_date"`
	UserEmail     string   `json:"user_email,omitempty"`
}

var gpnPattern = regexp.MustCompile(`^\d{7,8}$`)

// Validate checks the submission invariants before anything touches storage.
func (d SubmitInput) Validate() error {
	if d.GPN == "" {
		return errors.New("gpn is required")
	}
	if !gpnPattern.MatchString(d.GPN) {
		return fmt.Errorf("gpn %q must be 7 or 8 digits", d.GPN)
	}
	if d.InvoiceNumber == "" {
		return errors.New("invoice_number is required")
	}
	if d.Item == "" {
		return errors.New("item is required")
	}
	if d.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	if d.ReportDate.IsZero() {
		return errors.New("report_date is required")
	}
	return nil
}

// ToReport maps the input onto a fresh domain row. ID and CreatedAt are
// filled by storage during the upsert.
func (d SubmitInput) ToReport() *Report {
	return &Report{
		GPN:           d.GPN,
		ReportTitle:   d.ReportTitle,
		InvoiceNumber: d.InvoiceNumber,
		Item:          d.Item,
		Details:       d.Details,
		Amount:        d.Amount,
		Attachment:    d.Attachment,
		ReportDate:    d.ReportDate,
	}
}
