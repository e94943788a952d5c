package reports_test

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/libraryhub/internal/app/features/reports"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBook(ctx, "Dune", models.BookAvailable, 1)
	fx.CreateBook(ctx, "Torn", models.BookMaintenance, 1)
	fx.CreateFine(ctx, 12.50, models.FineUnpaid)
	fx.CreateFine(ctx, 7.25, models.FineUnpaid)

	return reports.Routes(reports.NewHandler(mem, zap.NewNop()))
}

func TestServeSummary(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Books struct {
			Total       int64 `json:"total"`
			Maintenance int64 `json:"maintenance"`
		} `json:"books"`
		Fines struct {
			UnpaidCount  int64  `json:"unpaid_count"`
			UnpaidAmount string `json:"unpaid_amount"`
		} `json:"fines"`
	}
	testutil.DecodeJSON(t, rec, &body)

	if body.Books.Total != 2 || body.Books.Maintenance != 1 {
		t.Errorf("books: got %+v", body.Books)
	}
	if body.Fines.UnpaidCount != 2 || body.Fines.UnpaidAmount != "19.75" {
		t.Errorf("fines: got %+v", body.Fines)
	}
}

func TestServeSummaryCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/summary.csv", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type: got %q", ct)
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 16 {
		t.Fatalf("rows: got %d, want 16", len(rows))
	}
	last := rows[len(rows)-1]
	if last[0] != "fines" || last[1] != "paid_amount" || last[2] != "0.00" {
		t.Errorf("last row: got %v", last)
	}
	found := false
	for _, row := range rows {
		if row[1] == "unpaid_amount" && row[2] == "19.75" {
			found = true
		}
	}
	if !found {
		t.Error("unpaid_amount row missing or wrong")
	}
}
