package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/features/dashboard"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.uber.org/zap"
)

func seedStore(t *testing.T) *records.Memory {
	t.Helper()
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateBook(ctx, "Dune", models.BookAvailable, 2)
	fx.CreateBook(ctx, "Emma", models.BookBorrowed, 0)
	fx.CreateFine(ctx, 12.50, models.FineUnpaid)
	fx.CreateFine(ctx, 7.25, models.FineUnpaid)
	return mem
}

func setDashFlags(t *testing.T, locale, open string) {
	t.Helper()
	prevLocale, prevGlyph, prevOpen := dashLocale, dashGlyph, dashOpen
	dashLocale, dashGlyph, dashOpen = locale, dashboard.DefaultCurrencyGlyph, open
	t.Cleanup(func() { dashLocale, dashGlyph, dashOpen = prevLocale, prevGlyph, prevOpen })
}

func TestPrintDashboard(t *testing.T) {
	setDashFlags(t, "en", "")
	mem := seedStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var out, errOut bytes.Buffer
	if err := printDashboard(ctx, mem, zap.NewNop(), &out, &errOut); err != nil {
		t.Fatalf("printDashboard failed: %v", err)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr: got %q, want empty", errOut.String())
	}

	var view struct {
		Locale          string `json:"locale"`
		TotalFineAmount string `json:"total_fine_amount"`
		Tiles           []struct {
			Name  string `json:"name"`
			Count int64  `json:"count"`
		} `json:"tiles"`
	}
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if view.Locale != "en" {
		t.Errorf("locale: got %q, want en", view.Locale)
	}
	if view.TotalFineAmount != "৳19.75" {
		t.Errorf("total fine: got %q, want ৳19.75", view.TotalFineAmount)
	}
	if len(view.Tiles) == 0 || view.Tiles[0].Count != 2 {
		t.Errorf("books tile: got %+v", view.Tiles)
	}
}

func TestPrintDashboard_ReportsFailedSlices(t *testing.T) {
	setDashFlags(t, "en", "")
	mem := seedStore(t)
	mem.FailOn(records.OpRead, records.Fines, errors.New("fines offline"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var out, errOut bytes.Buffer
	if err := printDashboard(ctx, mem, zap.NewNop(), &out, &errOut); err != nil {
		t.Fatalf("printDashboard failed: %v", err)
	}
	if !strings.Contains(errOut.String(), "fines offline") {
		t.Errorf("stderr: got %q, want the slice error", errOut.String())
	}
	if out.Len() == 0 {
		t.Error("expected the partial dashboard on stdout")
	}
}

func TestPrintDashboard_Open(t *testing.T) {
	setDashFlags(t, "en", dashboard.TileBooks)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var out, errOut bytes.Buffer
	if err := printDashboard(ctx, records.NewMemory(), zap.NewNop(), &out, &errOut); err != nil {
		t.Fatalf("printDashboard failed: %v", err)
	}
	got := strings.TrimSpace(out.String())
	if !strings.HasPrefix(got, "/records/books?") {
		t.Errorf("open url: got %q", got)
	}
}

func TestPrintDashboard_UnknownLocale(t *testing.T) {
	setDashFlags(t, "xx", "")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var out, errOut bytes.Buffer
	if err := printDashboard(ctx, records.NewMemory(), zap.NewNop(), &out, &errOut); err == nil {
		t.Error("expected an error for an unsupported locale")
	}
}

type fakeOverdueStore struct {
	pending []models.Borrowing
	marked  int64
	today   time.Time
	wrote   bool
}

func (f *fakeOverdueStore) MarkOverdue(_ context.Context, today time.Time) (int64, error) {
	f.today = today
	f.wrote = true
	return f.marked, nil
}

func (f *fakeOverdueStore) PendingOverdue(_ context.Context, today time.Time, _ int64) ([]models.Borrowing, error) {
	f.today = today
	return f.pending, nil
}

func TestSweepOverdue(t *testing.T) {
	today := testutil.Day(2026, 10, 19)
	store := &fakeOverdueStore{marked: 4}

	var out bytes.Buffer
	if err := sweepOverdue(context.Background(), store, today, false, &out); err != nil {
		t.Fatalf("sweepOverdue failed: %v", err)
	}
	if !store.wrote {
		t.Error("expected MarkOverdue to be called")
	}
	if !store.today.Equal(today) {
		t.Errorf("today: got %v, want %v", store.today, today)
	}
	if got := out.String(); got != "4 borrowing(s) marked overdue\n" {
		t.Errorf("output: got %q", got)
	}
}

func TestSweepOverdue_DryRun(t *testing.T) {
	today := testutil.Day(2026, 10, 19)
	store := &fakeOverdueStore{pending: []models.Borrowing{
		{Name: "BRW/7", DueDate: testutil.Day(2026, 10, 12)},
	}}

	var out bytes.Buffer
	if err := sweepOverdue(context.Background(), store, today, true, &out); err != nil {
		t.Fatalf("sweepOverdue failed: %v", err)
	}
	if store.wrote {
		t.Error("dry run must not call MarkOverdue")
	}
	want := "BRW/7\tdue 2026-10-12\n1 borrowing(s) would be marked overdue\n"
	if got := out.String(); got != want {
		t.Errorf("output: got %q, want %q", got, want)
	}
}
