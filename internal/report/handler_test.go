package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ardanpr/expense-report-portal/internal"
	"github.com/ardanpr/expense-report-portal/internal/report"
)

type mockSubmitService struct {
	inputs []report.SubmitInput
	out    []*report.Report
	err    error
}

func (m *mockSubmitService) SubmitBatch(ctx context.Context, inputs []report.SubmitInput) ([]*report.Report, error) {
	m.inputs = inputs
	if m.err != nil {
		return nil, m.err
	}
	return m.out, nil
}

var _ = Describe("ReportHandler", func() {
	var (
		service *mockSubmitService
		handler *report.Handler
	)

	BeforeEach(func() {
		service = &mockSubmitService{out: []*report.Report{}}
		handler = report.NewHandler(service)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/bulk", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.BulkSubmit(rec, req)
		return rec
	}

	It("should return 400 for a malformed body", func() {
		rec := post(`{"not": "an array"`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should pass the decoded batch to the service and return 200", func() {
		service.out = []*report.Report{
			{ID: 1, GPN: "1023004", InvoiceNumber: "INV-001", Item: "Taxi", Amount: 42.5,
				ReportDate: report.NewDateOnly(2025, time.November, 3), CreatedAt: time.Now()},
		}

		rec := post(`[{"gpn":"1023004","invoice_number":"INV-001","item":"Taxi","amount":42.5,"report_date":"2025-11-03"}]`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(service.inputs).To(HaveLen(1))
		Expect(service.inputs[0].ReportDate.String()).To(Equal("2025-11-03"))

		var out []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
		Expect(out).To(HaveLen(1))
		Expect(out[0]["report_date"]).To(Equal("2025-11-03"))
	})

	It("should map validation errors to their status code", func() {
		service.err = internal.NewValidationError("gpn is required", internal.ErrCodeValidationFailed)

		rec := post(`[{"item":"Taxi"}]`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["message"]).To(Equal("gpn is required"))
	})

	It("should return 500 for unclassified service errors", func() {
		service.err = context.DeadlineExceeded

		rec := post(`[]`)
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})
})
