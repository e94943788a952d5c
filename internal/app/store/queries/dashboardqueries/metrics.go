// Package dashboardqueries holds the read-only queries behind the library
// dashboard: the summary statistics and the ranked, distribution and trend
// slices. Every query goes through records.Store so it runs unchanged
// against MongoDB or the in-memory store.
package dashboardqueries

import (
	"context"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Metric keys.
const (
	TotalBooks       = "totalBooks"
	AvailableBooks   = "availableBooks"
	BorrowedBooks    = "borrowedBooks"
	TotalMembers     = "totalMembers"
	ActiveMembers    = "activeMembers"
	OverdueBooks     = "overdueBooks"
	UnpaidFinesCount = "unpaidFinesCount"
	TotalFineAmount  = "totalFineAmount"
	TodayBorrowings  = "todayBorrowings"
	DueTodayBooks    = "dueTodayBooks"
)

// Metric is one summary statistic: a count of the records in Collection
// matching Domain, or, when SumField is set, the sum of that field over them.
type Metric struct {
	Key        string
	Collection string
	Domain     filter.Domain
	SumField   string
}

// Today returns the calendar day of now as UTC midnight, the form stored
// dates use.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Metrics returns the summary statistics for the given day, in display order.
func Metrics(today time.Time) []Metric {
	unpaid := filter.Domain{filter.Where("payment_status", filter.Eq, models.FineUnpaid)}
	return []Metric{
		{Key: TotalBooks, Collection: records.Books},
		{Key: AvailableBooks, Collection: records.Books, Domain: filter.Domain{
			filter.Where("available_copies", filter.Gt, 0),
			filter.Where("state", filter.Eq, models.BookAvailable),
		}},
		{Key: BorrowedBooks, Collection: records.Borrowings, Domain: filter.Domain{
			filter.Where("status", filter.Eq, models.BorrowingBorrowed),
		}},
		{Key: TotalMembers, Collection: records.Members, Domain: filter.Domain{
			filter.Where("active", filter.Eq, true),
		}},
		{Key: ActiveMembers, Collection: records.Members, Domain: filter.Domain{
			filter.Where("active_borrowings", filter.Gt, 0),
		}},
		{Key: OverdueBooks, Collection: records.Borrowings, Domain: filter.Domain{
			filter.Where("status", filter.Eq, models.BorrowingOverdue),
		}},
		{Key: UnpaidFinesCount, Collection: records.Fines, Domain: unpaid},
		{Key: TotalFineAmount, Collection: records.Fines, Domain: unpaid, SumField: "fine_amount"},
		{Key: TodayBorrowings, Collection: records.Borrowings, Domain: filter.Domain{
			filter.Where("borrow_date", filter.Eq, today),
		}},
		{Key: DueTodayBooks, Collection: records.Borrowings, Domain: filter.Domain{
			filter.Where("due_date", filter.Eq, today),
			filter.Where("status", filter.Eq, models.BorrowingBorrowed),
		}},
	}
}

// MetricByKey returns the metric with the given key for the given day.
func MetricByKey(today time.Time, key string) (Metric, bool) {
	for _, m := range Metrics(today) {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Value is a loaded metric. Count is set for counting metrics and Amount
// for summing ones.
type Value struct {
	Count  int64
	Amount decimal.Decimal
}

// Load runs the metric against store.
func (m Metric) Load(ctx context.Context, store records.Store) (Value, error) {
	if m.SumField == "" {
		n, err := store.Count(ctx, m.Collection, m.Domain)
		if err != nil {
			return Value{}, err
		}
		return Value{Count: n}, nil
	}

	docs, err := store.ReadMany(ctx, m.Collection, m.Domain, records.ReadOptions{Fields: []string{m.SumField}})
	if err != nil {
		return Value{}, err
	}
	sum := decimal.Zero
	for _, doc := range docs {
		if f, ok := filter.Normalize(doc[m.SumField]).(float64); ok {
			sum = sum.Add(decimal.NewFromFloat(f))
		}
	}
	return Value{Count: int64(len(docs)), Amount: sum}, nil
}

// Summary holds the loaded summary statistics.
type Summary struct {
	TotalBooks       int64           `json:"totalBooks"`
	AvailableBooks   int64           `json:"availableBooks"`
	BorrowedBooks    int64           `json:"borrowedBooks"`
	TotalMembers     int64           `json:"totalMembers"`
	ActiveMembers    int64           `json:"activeMembers"`
	OverdueBooks     int64           `json:"overdueBooks"`
	UnpaidFinesCount int64           `json:"unpaidFinesCount"`
	TotalFineAmount  decimal.Decimal `json:"totalFineAmount"`
	TodayBorrowings  int64           `json:"todayBorrowings"`
	DueTodayBooks    int64           `json:"dueTodayBooks"`
}

// Set stores v under the metric key. Unknown keys are ignored.
func (s *Summary) Set(key string, v Value) {
	switch key {
	case TotalBooks:
		s.TotalBooks = v.Count
	case AvailableBooks:
		s.AvailableBooks = v.Count
	case BorrowedBooks:
		s.BorrowedBooks = v.Count
	case TotalMembers:
		s.TotalMembers = v.Count
	case ActiveMembers:
		s.ActiveMembers = v.Count
	case OverdueBooks:
		s.OverdueBooks = v.Count
	case UnpaidFinesCount:
		s.UnpaidFinesCount = v.Count
	case TotalFineAmount:
		s.TotalFineAmount = v.Amount
	case TodayBorrowings:
		s.TodayBorrowings = v.Count
	case DueTodayBooks:
		s.DueTodayBooks = v.Count
	}
}

// Get returns the count held for a counting metric key.
func (s Summary) Get(key string) (int64, bool) {
	switch key {
	case TotalBooks:
		return s.TotalBooks, true
	case AvailableBooks:
		return s.AvailableBooks, true
	case BorrowedBooks:
		return s.BorrowedBooks, true
	case TotalMembers:
		return s.TotalMembers, true
	case ActiveMembers:
		return s.ActiveMembers, true
	case OverdueBooks:
		return s.OverdueBooks, true
	case UnpaidFinesCount:
		return s.UnpaidFinesCount, true
	case TodayBorrowings:
		return s.TodayBorrowings, true
	case DueTodayBooks:
		return s.DueTodayBooks, true
	}
	return 0, false
}
