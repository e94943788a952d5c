package metricsstore_test

import (
	"errors"
	"testing"

	metricsstore "github.com/dalemusser/libraryhub/internal/app/store/metrics"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetchLibraryReport_Empty(t *testing.T) {
	mem := records.NewMemory()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := metricsstore.FetchLibraryReport(ctx, mem)

	if r.Books.Total != 0 {
		t.Errorf("Books.Total: got %d, want 0", r.Books.Total)
	}
	if r.Members.Total != 0 {
		t.Errorf("Members.Total: got %d, want 0", r.Members.Total)
	}
	if r.Borrowings.Total != 0 {
		t.Errorf("Borrowings.Total: got %d, want 0", r.Borrowings.Total)
	}
	if !r.Fines.UnpaidAmount.IsZero() || !r.Fines.PaidAmount.IsZero() {
		t.Errorf("Fines: got %s/%s, want 0/0", r.Fines.UnpaidAmount, r.Fines.PaidAmount)
	}
}

func seed(t *testing.T, fx *testutil.Fixtures) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b1 := fx.CreateBook(ctx, "Dune", models.BookAvailable, 2)
	b2 := fx.CreateBook(ctx, "Emma", models.BookBorrowed, 0)
	fx.CreateBook(ctx, "Torn", models.BookMaintenance, 1)

	s := fx.CreateMember(ctx, "Ada", models.MembershipStudent, 1, true)
	fx.CreateMember(ctx, "Bea", models.MembershipStudent, 0, true)
	fx.CreateMember(ctx, "Cal", models.MembershipTeacher, 0, true)
	fx.CreateMember(ctx, "Dee", models.MembershipPublic, 0, false)

	d := testutil.Day(2026, 9, 1)
	fx.CreateBorrowing(ctx, "BRW/1", s.ID, b1.ID, models.BorrowingBorrowed, d, d)
	fx.CreateBorrowing(ctx, "BRW/2", s.ID, b2.ID, models.BorrowingOverdue, d, d)
	fx.CreateBorrowing(ctx, "BRW/3", s.ID, b2.ID, models.BorrowingReturned, d, d)
	fx.CreateBorrowing(ctx, "BRW/4", s.ID, primitive.NewObjectID(), models.BorrowingDraft, d, d)

	fx.CreateFine(ctx, 12.50, models.FineUnpaid)
	fx.CreateFine(ctx, 7.25, models.FineUnpaid)
	fx.CreateFine(ctx, 4.10, models.FinePaid)
}

func checkReport(t *testing.T, r metricsstore.Report) {
	t.Helper()
	want := metricsstore.Report{
		Books:      metricsstore.BookCounts{Total: 3, Available: 2, Borrowed: 1, Maintenance: 1},
		Members:    metricsstore.MemberCounts{Total: 4, Student: 2, Teacher: 1, Public: 1},
		Borrowings: metricsstore.BorrowingCounts{Active: 1, Overdue: 1, Returned: 1, Total: 4},
	}
	if r.Books != want.Books {
		t.Errorf("Books: got %+v, want %+v", r.Books, want.Books)
	}
	if r.Members != want.Members {
		t.Errorf("Members: got %+v, want %+v", r.Members, want.Members)
	}
	if r.Borrowings != want.Borrowings {
		t.Errorf("Borrowings: got %+v, want %+v", r.Borrowings, want.Borrowings)
	}
	if r.Fines.UnpaidCount != 2 {
		t.Errorf("Fines.UnpaidCount: got %d, want 2", r.Fines.UnpaidCount)
	}
	if r.Fines.UnpaidAmount.String() != "19.75" {
		t.Errorf("Fines.UnpaidAmount: got %s, want 19.75", r.Fines.UnpaidAmount)
	}
	if r.Fines.PaidAmount.String() != "4.1" {
		t.Errorf("Fines.PaidAmount: got %s, want 4.1", r.Fines.PaidAmount)
	}
}

func TestFetchLibraryReport_WithData(t *testing.T) {
	mem := records.NewMemory()
	seed(t, testutil.NewMemoryFixtures(t, mem))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	checkReport(t, metricsstore.FetchLibraryReport(ctx, mem))
}

func TestFetchLibraryReport_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seed(t, testutil.NewFixtures(t, db))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	checkReport(t, metricsstore.FetchLibraryReport(ctx, records.NewMongo(db)))
}

func TestFetchLibraryReport_ToleratesFailures(t *testing.T) {
	mem := records.NewMemory()
	seed(t, testutil.NewMemoryFixtures(t, mem))
	mem.FailOn(records.OpCount, records.Members, errors.New("down"))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := metricsstore.FetchLibraryReport(ctx, mem)

	if r.Members.Total != 0 {
		t.Errorf("Members.Total: got %d, want 0", r.Members.Total)
	}
	if r.Books.Total != 3 {
		t.Errorf("Books.Total: got %d, want 3", r.Books.Total)
	}
}
