package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/libraryhub/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/navigation"
)

// Tile names.
const (
	TileBooks           = "books"
	TileAvailableBooks  = "available_books"
	TileBorrowedBooks   = "borrowed_books"
	TileMembers         = "members"
	TileActiveMembers   = "active_members"
	TileOverdueBooks    = "overdue_books"
	TileUnpaidFines     = "unpaid_fines"
	TileTodayBorrowings = "today_borrowings"
	TileDueToday        = "due_today"
)

// ErrUnknownTile is returned for a tile name not in Tiles.
var ErrUnknownTile = errors.New("dashboard: unknown tile")

// ErrNoNavigator is returned when a session without a navigator is asked to
// open a view.
var ErrNoNavigator = errors.New("dashboard: session has no navigator")

// Tile is a clickable summary tile. Clicking it opens the records counted by
// Metric, so its filter is always the metric's own filter.
type Tile struct {
	Name   string
	Label  string
	Metric string
	Views  []navigation.ViewMode
}

var (
	browseViews = []navigation.ViewMode{navigation.Kanban, navigation.List, navigation.Form}
	listViews   = []navigation.ViewMode{navigation.List, navigation.Form}
)

// Tiles lists the dashboard tiles in display order.
var Tiles = []Tile{
	{Name: TileBooks, Label: "Total Books", Metric: dashboardqueries.TotalBooks, Views: browseViews},
	{Name: TileAvailableBooks, Label: "Available Books", Metric: dashboardqueries.AvailableBooks, Views: browseViews},
	{Name: TileBorrowedBooks, Label: "Borrowed Books", Metric: dashboardqueries.BorrowedBooks, Views: browseViews},
	{Name: TileMembers, Label: "Total Members", Metric: dashboardqueries.TotalMembers, Views: browseViews},
	{Name: TileActiveMembers, Label: "Active Members", Metric: dashboardqueries.ActiveMembers, Views: browseViews},
	{Name: TileOverdueBooks, Label: "Overdue Books", Metric: dashboardqueries.OverdueBooks, Views: listViews},
	{Name: TileUnpaidFines, Label: "Unpaid Fines", Metric: dashboardqueries.UnpaidFinesCount, Views: listViews},
	{Name: TileTodayBorrowings, Label: "Today's Borrowings", Metric: dashboardqueries.TodayBorrowings, Views: listViews},
	{Name: TileDueToday, Label: "Due Today", Metric: dashboardqueries.DueTodayBooks, Views: listViews},
}

// TileByName looks up a tile.
func TileByName(name string) (Tile, bool) {
	for _, t := range Tiles {
		if t.Name == name {
			return t, true
		}
	}
	return Tile{}, false
}

// Action returns the navigation action for the named tile as of the
// session's current day.
func (s *Session) Action(name string) (navigation.Action, error) {
	tile, ok := TileByName(name)
	if !ok {
		return navigation.Action{}, fmt.Errorf("%w: %q", ErrUnknownTile, name)
	}
	metric, ok := dashboardqueries.MetricByKey(dashboardqueries.Today(s.now()), tile.Metric)
	if !ok {
		return navigation.Action{}, fmt.Errorf("%w: %q has no metric", ErrUnknownTile, name)
	}
	return navigation.Action{
		Collection: metric.Collection,
		Views:      tile.Views,
		Domain:     metric.Domain,
	}, nil
}

func (s *Session) open(ctx context.Context, a navigation.Action) error {
	if s.nav == nil {
		return ErrNoNavigator
	}
	return s.nav.Open(ctx, a)
}

// OpenTile opens the view behind the named tile.
func (s *Session) OpenTile(ctx context.Context, name string) error {
	a, err := s.Action(name)
	if err != nil {
		return err
	}
	return s.open(ctx, a)
}

func (s *Session) OpenBooks(ctx context.Context) error { return s.OpenTile(ctx, TileBooks) }

func (s *Session) OpenAvailableBooks(ctx context.Context) error {
	return s.OpenTile(ctx, TileAvailableBooks)
}

func (s *Session) OpenBorrowedBooks(ctx context.Context) error {
	return s.OpenTile(ctx, TileBorrowedBooks)
}

func (s *Session) OpenMembers(ctx context.Context) error { return s.OpenTile(ctx, TileMembers) }

func (s *Session) OpenActiveMembers(ctx context.Context) error {
	return s.OpenTile(ctx, TileActiveMembers)
}

func (s *Session) OpenOverdueBooks(ctx context.Context) error {
	return s.OpenTile(ctx, TileOverdueBooks)
}

func (s *Session) OpenUnpaidFines(ctx context.Context) error {
	return s.OpenTile(ctx, TileUnpaidFines)
}

func (s *Session) OpenTodayBorrowings(ctx context.Context) error {
	return s.OpenTile(ctx, TileTodayBorrowings)
}

func (s *Session) OpenDueTodayBooks(ctx context.Context) error {
	return s.OpenTile(ctx, TileDueToday)
}

// BookAction opens one book's form.
func BookAction(id string) navigation.Action {
	return navigation.Action{Collection: records.Books, Views: []navigation.ViewMode{navigation.Form}, RecordID: id}
}

// BorrowingAction opens one borrowing's form.
func BorrowingAction(id string) navigation.Action {
	return navigation.Action{Collection: records.Borrowings, Views: []navigation.ViewMode{navigation.Form}, RecordID: id}
}

// OpenBook opens the form of the book with the given id.
func (s *Session) OpenBook(ctx context.Context, id string) error {
	return s.open(ctx, BookAction(id))
}

// OpenBorrowing opens the form of the borrowing with the given id.
func (s *Session) OpenBorrowing(ctx context.Context, id string) error {
	return s.open(ctx, BorrowingAction(id))
}
