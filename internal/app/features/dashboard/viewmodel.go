package dashboard

import (
	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
)

type tileVM struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int64  `json:"count"`
	Open  string `json:"open"`
}

type recentRowVM struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Member     string `json:"member"`
	Book       string `json:"book"`
	BookOpen   string `json:"book_open,omitempty"`
	BorrowDate string `json:"borrow_date"`
	DueDate    string `json:"due_date"`
	Status     string `json:"status"`
	BadgeClass string `json:"badge_class"`
	Open       string `json:"open"`
}

// View is the rendered dashboard: counts plus display-formatted strings
// and the links each tile or row opens.
type View struct {
	SessionID string `json:"session_id"`
	Locale    string `json:"locale"`
	Today     string `json:"today"`
	Ready     bool   `json:"ready"`
	Loading   bool   `json:"loading"`

	Tiles           []tileVM `json:"tiles"`
	TotalFineAmount string   `json:"total_fine_amount"`

	TopBooks               []dashboardqueries.RankedItem `json:"top_books"`
	RecentBorrowings       []recentRowVM                 `json:"recent_borrowings"`
	CategoryDistribution   []dashboardqueries.RankedItem `json:"category_distribution"`
	MembershipDistribution []dashboardqueries.RankedItem `json:"membership_distribution"`
	MonthlyTrends          []dashboardqueries.TrendPoint `json:"monthly_trends"`
}

// View renders the current model for display. Links are prefixed with base,
// the path the dashboard routes are mounted under. Slices are never null in
// the JSON.
func (s *Session) View(f Formatter, base string) View {
	m, ready := s.Snapshot()
	vm := View{
		SessionID:              s.ID,
		Locale:                 f.Locale(),
		Today:                  f.Date(m.Today),
		Ready:                  ready,
		Loading:                s.Loading(),
		TotalFineAmount:        f.Currency(m.Summary.TotalFineAmount),
		TopBooks:               nonNil(m.TopBooks),
		CategoryDistribution:   nonNil(m.CategoryDistribution),
		MembershipDistribution: nonNil(m.MembershipDistribution),
		MonthlyTrends:          nonNil(m.MonthlyTrends),
		RecentBorrowings:       []recentRowVM{},
	}

	for _, t := range Tiles {
		count, _ := m.Summary.Get(t.Metric)
		vm.Tiles = append(vm.Tiles, tileVM{
			Name:  t.Name,
			Label: t.Label,
			Count: count,
			Open:  base + "/open/" + t.Name,
		})
	}

	for _, row := range m.RecentBorrowings {
		r := recentRowVM{
			ID:         row.ID,
			Name:       row.Name,
			Member:     row.Member.Name,
			Book:       row.Book.Name,
			BorrowDate: f.Date(row.BorrowDate),
			DueDate:    f.Date(row.DueDate),
			Status:     row.Status,
			BadgeClass: StatusBadgeClass(row.Status),
			Open:       base + "/borrowings/" + row.ID,
		}
		if row.Book.ID != "" {
			r.BookOpen = base + "/books/" + row.Book.ID
		}
		vm.RecentBorrowings = append(vm.RecentBorrowings, r)
	}
	return vm
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// actionURL is used by handlers that answer with a link instead of a
// redirect.
func actionURL(a navigation.Action) string {
	u, err := a.URL()
	if err != nil {
		return ""
	}
	return u
}
