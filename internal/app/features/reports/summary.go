// internal/app/features/reports/summary.go
package reports

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	metricsstore "github.com/dalemusser/libraryhub/internal/app/store/metrics"
	"github.com/dalemusser/libraryhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func (h *Handler) fetch(r *http.Request) metricsstore.Report {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()
	return metricsstore.FetchLibraryReport(ctx, h.Store)
}

// ServeSummary handles GET /reports/summary.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	report := h.fetch(r)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.Log.Warn("summary report: encode failed", zap.Error(err))
	}
}

// ServeSummaryCSV handles GET /reports/summary.csv and streams the report
// as section,metric,value rows.
func (h *Handler) ServeSummaryCSV(w http.ResponseWriter, r *http.Request) {
	report := h.fetch(r)

	filename := fmt.Sprintf("library_summary_%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"section", "metric", "value"})

	n := func(v int64) string { return strconv.FormatInt(v, 10) }
	rows := [][]string{
		{"books", "total", n(report.Books.Total)},
		{"books", "available", n(report.Books.Available)},
		{"books", "borrowed", n(report.Books.Borrowed)},
		{"books", "maintenance", n(report.Books.Maintenance)},
		{"members", "total", n(report.Members.Total)},
		{"members", "student", n(report.Members.Student)},
		{"members", "teacher", n(report.Members.Teacher)},
		{"members", "public", n(report.Members.Public)},
		{"borrowings", "active", n(report.Borrowings.Active)},
		{"borrowings", "overdue", n(report.Borrowings.Overdue)},
		{"borrowings", "returned", n(report.Borrowings.Returned)},
		{"borrowings", "total", n(report.Borrowings.Total)},
		{"fines", "unpaid_count", n(report.Fines.UnpaidCount)},
		{"fines", "unpaid_amount", report.Fines.UnpaidAmount.StringFixed(2)},
		{"fines", "paid_amount", report.Fines.PaidAmount.StringFixed(2)},
	}
	for _, row := range rows {
		_ = cw.Write(row)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("summary csv: write failed", zap.Error(err))
	}
}
