package metricsstore

import (
	"context"

	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"github.com/shopspring/decimal"
)

// BookCounts breaks the catalog down by state.
type BookCounts struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Borrowed    int64 `json:"borrowed"`
	Maintenance int64 `json:"maintenance"`
}

// MemberCounts breaks members down by membership type.
type MemberCounts struct {
	Total   int64 `json:"total"`
	Student int64 `json:"student"`
	Teacher int64 `json:"teacher"`
	Public  int64 `json:"public"`
}

// BorrowingCounts breaks borrowings down by status.
type BorrowingCounts struct {
	Active   int64 `json:"active"`
	Overdue  int64 `json:"overdue"`
	Returned int64 `json:"returned"`
	Total    int64 `json:"total"`
}

// FineTotals summarizes fines.
type FineTotals struct {
	UnpaidCount  int64           `json:"unpaid_count"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
}

// Report is the set of totals behind the library summary report.
type Report struct {
	Books      BookCounts      `json:"books"`
	Members    MemberCounts    `json:"members"`
	Borrowings BorrowingCounts `json:"borrowings"`
	Fines      FineTotals      `json:"fines"`
}

func eq(field string, v any) filter.Domain {
	return filter.Domain{filter.Where(field, filter.Eq, v)}
}

// FetchLibraryReport returns the high-level totals used by the summary report.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchLibraryReport(ctx context.Context, store records.Store) Report {
	var out Report

	count := func(dst *int64, collection string, d filter.Domain) {
		if n, err := store.Count(ctx, collection, d); err == nil {
			*dst = n
		}
	}
	sum := func(dst *decimal.Decimal, collection string, d filter.Domain, field string) {
		m := dashboardqueries.Metric{Collection: collection, Domain: d, SumField: field}
		if v, err := m.Load(ctx, store); err == nil {
			*dst = v.Amount
		}
	}

	// books
	count(&out.Books.Total, records.Books, nil)
	count(&out.Books.Available, records.Books, filter.Domain{filter.Where("available_copies", filter.Gt, 0)})
	count(&out.Books.Borrowed, records.Books, eq("state", models.BookBorrowed))
	count(&out.Books.Maintenance, records.Books, eq("state", models.BookMaintenance))

	// members
	count(&out.Members.Total, records.Members, nil)
	count(&out.Members.Student, records.Members, eq("membership_type", models.MembershipStudent))
	count(&out.Members.Teacher, records.Members, eq("membership_type", models.MembershipTeacher))
	count(&out.Members.Public, records.Members, eq("membership_type", models.MembershipPublic))

	// borrowings
	count(&out.Borrowings.Active, records.Borrowings, eq("status", models.BorrowingBorrowed))
	count(&out.Borrowings.Overdue, records.Borrowings, eq("status", models.BorrowingOverdue))
	count(&out.Borrowings.Returned, records.Borrowings, eq("status", models.BorrowingReturned))
	count(&out.Borrowings.Total, records.Borrowings, nil)

	// fines
	count(&out.Fines.UnpaidCount, records.Fines, eq("payment_status", models.FineUnpaid))
	sum(&out.Fines.UnpaidAmount, records.Fines, eq("payment_status", models.FineUnpaid), "fine_amount")
	sum(&out.Fines.PaidAmount, records.Fines, eq("payment_status", models.FinePaid), "fine_amount")

	return out
}
