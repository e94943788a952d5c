package dashboardqueries_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/dalemusser/libraryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	got := dashboardqueries.Today(now)
	want := testutil.Day(2026, 10, 20)
	if !got.Equal(want) {
		t.Errorf("Today: got %v, want %v", got, want)
	}
}

func TestMetrics_KeysAndOrder(t *testing.T) {
	want := []string{
		dashboardqueries.TotalBooks, dashboardqueries.AvailableBooks, dashboardqueries.BorrowedBooks,
		dashboardqueries.TotalMembers, dashboardqueries.ActiveMembers, dashboardqueries.OverdueBooks,
		dashboardqueries.UnpaidFinesCount, dashboardqueries.TotalFineAmount,
		dashboardqueries.TodayBorrowings, dashboardqueries.DueTodayBooks,
	}
	got := dashboardqueries.Metrics(testutil.Day(2026, 10, 19))
	if len(got) != len(want) {
		t.Fatalf("metrics: got %d, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Key != want[i] {
			t.Errorf("metric %d: got %s, want %s", i, m.Key, want[i])
		}
	}
	if _, ok := dashboardqueries.MetricByKey(testutil.Day(2026, 10, 19), "nope"); ok {
		t.Error("MetricByKey: unknown key should not be found")
	}
}

func TestMetricLoad_FineSum(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateFine(ctx, 12.50, models.FineUnpaid)
	fx.CreateFine(ctx, 7.25, models.FineUnpaid)
	fx.CreateFine(ctx, 100, models.FinePaid)

	today := testutil.Day(2026, 10, 19)
	count, _ := dashboardqueries.MetricByKey(today, dashboardqueries.UnpaidFinesCount)
	sum, _ := dashboardqueries.MetricByKey(today, dashboardqueries.TotalFineAmount)

	v, err := count.Load(ctx, mem)
	if err != nil {
		t.Fatalf("Load count: %v", err)
	}
	if v.Count != 2 {
		t.Errorf("unpaidFinesCount: got %d, want 2", v.Count)
	}

	v, err = sum.Load(ctx, mem)
	if err != nil {
		t.Fatalf("Load sum: %v", err)
	}
	if v.Amount.String() != "19.75" {
		t.Errorf("totalFineAmount: got %s, want 19.75", v.Amount)
	}
}

func TestMetricLoad_NoUnpaidFinesIsZero(t *testing.T) {
	mem := records.NewMemory()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, _ := dashboardqueries.MetricByKey(testutil.Day(2026, 10, 19), dashboardqueries.TotalFineAmount)
	v, err := m.Load(ctx, mem)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !v.Amount.IsZero() {
		t.Errorf("totalFineAmount: got %s, want 0", v.Amount)
	}
}

func TestSummary_SetGet(t *testing.T) {
	var s dashboardqueries.Summary
	s.Set(dashboardqueries.OverdueBooks, dashboardqueries.Value{Count: 4})
	if n, ok := s.Get(dashboardqueries.OverdueBooks); !ok || n != 4 {
		t.Errorf("OverdueBooks: got %d/%v, want 4/true", n, ok)
	}
	if _, ok := s.Get(dashboardqueries.TotalFineAmount); ok {
		t.Error("TotalFineAmount is not a count")
	}
}

func TestTopBooks(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "Ada", models.MembershipStudent, 0, true)
	d := testutil.Day(2026, 9, 1)

	// Seven books with 7..1 loans each; the top five must come back.
	var books []models.Book
	for i := 0; i < 7; i++ {
		b := fx.CreateBook(ctx, fmt.Sprintf("Book %d", i), models.BookAvailable, 1)
		books = append(books, b)
		for j := 0; j < 7-i; j++ {
			status := models.BorrowingReturned
			if j == 0 {
				status = models.BorrowingBorrowed
			}
			fx.CreateBorrowing(ctx, "BRW", m.ID, b.ID, status, d, d)
		}
	}
	// Drafts and overdue loans do not count.
	for i := 0; i < 10; i++ {
		fx.CreateBorrowing(ctx, "BRW", m.ID, books[6].ID, models.BorrowingDraft, d, d)
	}
	// A loan of a book that no longer exists.
	ghost := primitive.NewObjectID()
	for i := 0; i < 9; i++ {
		fx.CreateBorrowing(ctx, "BRW", m.ID, ghost, models.BorrowingReturned, d, d)
	}

	got, err := dashboardqueries.TopBooks(ctx, mem, dashboardqueries.DefaultTopBooks)
	if err != nil {
		t.Fatalf("TopBooks: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len: got %d, want 5", len(got))
	}
	if got[0].Label != dashboardqueries.UnknownLabel || got[0].Count != 9 {
		t.Errorf("first: got %+v, want Unknown/9", got[0])
	}
	if got[1].Label != "Book 0" || got[1].Count != 7 {
		t.Errorf("second: got %+v, want Book 0/7", got[1])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Errorf("not non-increasing at %d: %d > %d", i, got[i].Count, got[i-1].Count)
		}
	}
}

func TestRecentBorrowings(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "Grace", models.MembershipTeacher, 1, true)
	b := fx.CreateBook(ctx, "Dune", models.BookBorrowed, 0)
	for i := 1; i <= 7; i++ {
		fx.CreateBorrowing(ctx, fmt.Sprintf("BRW/%d", i), m.ID, b.ID, models.BorrowingBorrowed,
			testutil.Day(2026, 10, i), testutil.Day(2026, 10, i+14))
	}

	got, err := dashboardqueries.RecentBorrowings(ctx, mem, dashboardqueries.DefaultRecent)
	if err != nil {
		t.Fatalf("RecentBorrowings: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len: got %d, want 5", len(got))
	}
	if got[0].Name != "BRW/7" || got[4].Name != "BRW/3" {
		t.Errorf("order: got %s..%s, want BRW/7..BRW/3", got[0].Name, got[4].Name)
	}
	if got[0].Member.Name != "Grace" || got[0].Book.Name != "Dune" {
		t.Errorf("refs: got %+v / %+v", got[0].Member, got[0].Book)
	}
	if !got[0].BorrowDate.Equal(testutil.Day(2026, 10, 7)) {
		t.Errorf("borrow date: got %v", got[0].BorrowDate)
	}
}

func TestCategoryDistribution(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fx.CreateCategory(ctx, "A")
	b := fx.CreateCategory(ctx, "B")
	fx.CreateBook(ctx, "Both", models.BookAvailable, 1, a.ID, b.ID)
	fx.CreateBook(ctx, "Only A", models.BookAvailable, 1, a.ID)
	fx.CreateBook(ctx, "None", models.BookAvailable, 1)

	got, err := dashboardqueries.CategoryDistribution(ctx, mem, dashboardqueries.DefaultCategories)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len: got %d, want 2", len(got))
	}
	if got[0].Label != "A" || got[0].Count != 2 {
		t.Errorf("first: got %+v, want A/2", got[0])
	}
	if got[1].Label != "B" || got[1].Count != 1 {
		t.Errorf("second: got %+v, want B/1", got[1])
	}
}

func TestCategoryDistribution_TopSix(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 9; i++ {
		c := fx.CreateCategory(ctx, fmt.Sprintf("Cat %d", i))
		for j := 0; j <= i; j++ {
			fx.CreateBook(ctx, "Book", models.BookAvailable, 1, c.ID)
		}
	}
	// A tag pointing at a deleted category still counts.
	fx.CreateBook(ctx, "Orphan", models.BookAvailable, 1, primitive.NewObjectID())

	got, err := dashboardqueries.CategoryDistribution(ctx, mem, dashboardqueries.DefaultCategories)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len: got %d, want 6", len(got))
	}
	if got[0].Label != "Cat 8" || got[0].Count != 9 {
		t.Errorf("first: got %+v, want Cat 8/9", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Errorf("not non-increasing at %d", i)
		}
	}
}

func TestMembershipDistribution(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMember(ctx, "S1", models.MembershipStudent, 0, true)
	fx.CreateMember(ctx, "S2", models.MembershipStudent, 0, true)
	fx.CreateMember(ctx, "T1", models.MembershipTeacher, 0, true)
	fx.CreateMember(ctx, "P1", models.MembershipPublic, 0, false)

	got, err := dashboardqueries.MembershipDistribution(ctx, mem)
	if err != nil {
		t.Fatalf("MembershipDistribution: %v", err)
	}
	want := []dashboardqueries.RankedItem{
		{ID: "student", Label: "Student", Count: 2},
		{ID: "teacher", Label: "Teacher", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMonthlyTrends(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := primitive.NewObjectID()
	b := primitive.NewObjectID()
	for month := time.January; month <= time.August; month++ {
		for i := 0; i < int(month); i++ {
			d := testutil.Day(2026, month, 10)
			fx.CreateBorrowing(ctx, "BRW", m, b, models.BorrowingReturned, d, d)
		}
	}

	got, err := dashboardqueries.MonthlyTrends(ctx, mem, dashboardqueries.DefaultTrendMonths)
	if err != nil {
		t.Fatalf("MonthlyTrends: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len: got %d, want 6", len(got))
	}
	if got[0].Period != "2026-03" || got[0].Count != 3 {
		t.Errorf("first: got %+v, want 2026-03/3", got[0])
	}
	if got[5].Period != "2026-08" || got[5].Count != 8 {
		t.Errorf("last: got %+v, want 2026-08/8", got[5])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Period < got[i-1].Period {
			t.Errorf("not chronological at %d: %s < %s", i, got[i].Period, got[i-1].Period)
		}
	}
}

func TestSliceErrorsPropagate(t *testing.T) {
	mem := records.NewMemory()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boom := errors.New("store down")
	mem.FailOn(records.OpGroup, records.Borrowings, boom)

	if _, err := dashboardqueries.TopBooks(ctx, mem, 5); !errors.Is(err, boom) {
		t.Errorf("TopBooks: got %v, want wrapped boom", err)
	}
	if _, err := dashboardqueries.MonthlyTrends(ctx, mem, 6); !errors.Is(err, boom) {
		t.Errorf("MonthlyTrends: got %v, want wrapped boom", err)
	}
}

func TestNonPositiveLimitsUseDefaults(t *testing.T) {
	mem := records.NewMemory()
	fx := testutil.NewMemoryFixtures(t, mem)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := fx.CreateMember(ctx, "Ada", models.MembershipStudent, 0, true)
	for i := 1; i <= 8; i++ {
		c := fx.CreateCategory(ctx, fmt.Sprintf("Cat %d", i))
		b := fx.CreateBook(ctx, fmt.Sprintf("Book %d", i), models.BookAvailable, 1, c.ID)
		d := testutil.Day(2026, time.Month(i), 10)
		fx.CreateBorrowing(ctx, "BRW", m.ID, b.ID, models.BorrowingReturned, d, d)
	}

	for _, limit := range []int{0, -1} {
		top, err := dashboardqueries.TopBooks(ctx, mem, limit)
		if err != nil {
			t.Fatalf("TopBooks(%d): %v", limit, err)
		}
		if len(top) != dashboardqueries.DefaultTopBooks {
			t.Errorf("TopBooks(%d): got %d items, want %d", limit, len(top), dashboardqueries.DefaultTopBooks)
		}

		recent, err := dashboardqueries.RecentBorrowings(ctx, mem, limit)
		if err != nil {
			t.Fatalf("RecentBorrowings(%d): %v", limit, err)
		}
		if len(recent) != dashboardqueries.DefaultRecent {
			t.Errorf("RecentBorrowings(%d): got %d rows, want %d", limit, len(recent), dashboardqueries.DefaultRecent)
		}

		cats, err := dashboardqueries.CategoryDistribution(ctx, mem, limit)
		if err != nil {
			t.Fatalf("CategoryDistribution(%d): %v", limit, err)
		}
		if len(cats) != dashboardqueries.DefaultCategories {
			t.Errorf("CategoryDistribution(%d): got %d items, want %d", limit, len(cats), dashboardqueries.DefaultCategories)
		}

		trends, err := dashboardqueries.MonthlyTrends(ctx, mem, limit)
		if err != nil {
			t.Fatalf("MonthlyTrends(%d): %v", limit, err)
		}
		if len(trends) != dashboardqueries.DefaultTrendMonths {
			t.Errorf("MonthlyTrends(%d): got %d points, want %d", limit, len(trends), dashboardqueries.DefaultTrendMonths)
		}
	}
}

func TestLabelsAreSanitized(t *testing.T) {
	mem := records.NewMemory()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tagged := primitive.NewObjectID()
	escaped := primitive.NewObjectID()
	if err := mem.Insert(records.Categories, bson.M{"_id": tagged, "name": "<i>Poetry</i>"}); err != nil {
		t.Fatal(err)
	}
	if err := mem.Insert(records.Categories, bson.M{"_id": escaped, "name": "&lt;script&gt;alert(1)&lt;/script&gt;Drama"}); err != nil {
		t.Fatal(err)
	}
	if err := mem.Insert(records.Books, bson.M{"title": "x", "category_ids": bson.A{tagged, escaped}}); err != nil {
		t.Fatal(err)
	}
	got, err := dashboardqueries.CategoryDistribution(ctx, mem, 6)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	want := []string{"Drama", "Poetry"}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want labels %v", got, want)
	}
	for i, w := range want {
		if got[i].Label != w {
			t.Errorf("label %d: got %q, want %q", i, got[i].Label, w)
		}
	}
}
