package dashboardqueries

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"github.com/dalemusser/libraryhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownLabel replaces a name that cannot be resolved.
const UnknownLabel = "Unknown"

// Default slice sizes.
const (
	DefaultTopBooks    = 5
	DefaultRecent      = 5
	DefaultCategories  = 6
	DefaultTrendMonths = 6
)

// RankedItem is one entry of a top-N list or distribution.
type RankedItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TrendPoint is one calendar month of borrowing activity. Period is YYYY-MM.
type TrendPoint struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// Ref is a resolved reference to another record.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecentActivityRow is a shallow projection of a borrowing.
type RecentActivityRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Member     Ref       `json:"member"`
	Book       Ref       `json:"book"`
	BorrowDate time.Time `json:"borrow_date"`
	DueDate    time.Time `json:"due_date"`
	Status     string    `json:"status"`
}

// TopBooks returns the most borrowed books (active or returned loans),
// largest count first. A non-positive limit means DefaultTopBooks.
func TopBooks(ctx context.Context, store records.Store, limit int) ([]RankedItem, error) {
	if limit <= 0 {
		limit = DefaultTopBooks
	}
	groups, err := store.GroupBy(ctx, records.Borrowings, filter.Domain{
		filter.Where("status", filter.In, []string{models.BorrowingBorrowed, models.BorrowingReturned}),
	}, records.GroupOptions{Field: "book_id", Order: records.CountDesc, Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("top books: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(groups))
	for _, g := range groups {
		if id, ok := g.Key.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	titles, err := lookupNames(ctx, store, records.Books, "title", ids)
	if err != nil {
		return nil, fmt.Errorf("top books: resolve titles: %w", err)
	}

	out := make([]RankedItem, 0, len(groups))
	for _, g := range groups {
		item := RankedItem{ID: keyString(g.Key), Label: UnknownLabel, Count: g.Count}
		if id, ok := g.Key.(primitive.ObjectID); ok {
			if title, found := titles[id]; found {
				item.Label = title
			}
		}
		out = append(out, item)
	}
	return out, nil
}

var recentFields = []string{"name", "member_id", "book_id", "borrow_date", "due_date", "status"}

// RecentBorrowings returns the latest borrowings by borrow date.
func RecentBorrowings(ctx context.Context, store records.Store, limit int) ([]RecentActivityRow, error) {
	if limit <= 0 {
		limit = DefaultRecent
	}
	docs, err := store.ReadMany(ctx, records.Borrowings, nil, records.ReadOptions{
		Fields: recentFields,
		Sort:   []records.SortField{{Field: "borrow_date", Desc: true}},
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("recent borrowings: %w", err)
	}
	rows, err := records.DecodeAll[models.Borrowing](docs)
	if err != nil {
		return nil, fmt.Errorf("recent borrowings: decode: %w", err)
	}

	memberIDs := make([]primitive.ObjectID, 0, len(rows))
	bookIDs := make([]primitive.ObjectID, 0, len(rows))
	for _, b := range rows {
		memberIDs = append(memberIDs, b.MemberID)
		bookIDs = append(bookIDs, b.BookID)
	}
	members, err := lookupNames(ctx, store, records.Members, "name", memberIDs)
	if err != nil {
		return nil, fmt.Errorf("recent borrowings: resolve members: %w", err)
	}
	books, err := lookupNames(ctx, store, records.Books, "title", bookIDs)
	if err != nil {
		return nil, fmt.Errorf("recent borrowings: resolve books: %w", err)
	}

	out := make([]RecentActivityRow, 0, len(rows))
	for _, b := range rows {
		out = append(out, RecentActivityRow{
			ID:         b.ID.Hex(),
			Name:       htmlsanitize.PlainText(b.Name),
			Member:     ref(b.MemberID, members),
			Book:       ref(b.BookID, books),
			BorrowDate: b.BorrowDate,
			DueDate:    b.DueDate,
			Status:     b.Status,
		})
	}
	return out, nil
}

// CategoryDistribution counts books per category tag. A book carrying
// several tags counts once toward each of them.
func CategoryDistribution(ctx context.Context, store records.Store, topN int) ([]RankedItem, error) {
	if topN <= 0 {
		topN = DefaultCategories
	}
	docs, err := store.ReadMany(ctx, records.Books, filter.Domain{
		filter.Where("category_ids", filter.Set, nil),
	}, records.ReadOptions{Fields: []string{"category_ids"}})
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	books, err := records.DecodeAll[models.Book](docs)
	if err != nil {
		return nil, fmt.Errorf("category distribution: decode: %w", err)
	}

	counts := make(map[primitive.ObjectID]int64)
	var ids []primitive.ObjectID
	for _, b := range books {
		for _, id := range b.CategoryIDs {
			if _, seen := counts[id]; !seen {
				ids = append(ids, id)
			}
			counts[id]++
		}
	}

	names, err := lookupNames(ctx, store, records.Categories, "name", ids)
	if err != nil {
		return nil, fmt.Errorf("category distribution: resolve names: %w", err)
	}

	out := make([]RankedItem, 0, len(ids))
	for _, id := range ids {
		label, ok := names[id]
		if !ok {
			label = UnknownLabel
		}
		out = append(out, RankedItem{ID: id.Hex(), Label: label, Count: counts[id]})
	}
	sortRanked(out)
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

var titleCase = cases.Title(language.English)

// MembershipDistribution counts active members per membership type, in the
// order the store groups them.
func MembershipDistribution(ctx context.Context, store records.Store) ([]RankedItem, error) {
	groups, err := store.GroupBy(ctx, records.Members, filter.Domain{
		filter.Where("active", filter.Eq, true),
	}, records.GroupOptions{Field: "membership_type", Order: records.KeyAsc})
	if err != nil {
		return nil, fmt.Errorf("membership distribution: %w", err)
	}
	out := make([]RankedItem, 0, len(groups))
	for _, g := range groups {
		key := keyString(g.Key)
		out = append(out, RankedItem{ID: key, Label: titleCase.String(key), Count: g.Count})
	}
	return out, nil
}

// MonthlyTrends returns borrowing counts for the most recent months that
// have activity, oldest first. A non-positive months means DefaultTrendMonths.
func MonthlyTrends(ctx context.Context, store records.Store, months int) ([]TrendPoint, error) {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	groups, err := store.GroupBy(ctx, records.Borrowings, nil, records.GroupOptions{
		Field: "borrow_date",
		By:    records.ByMonth,
		Order: records.KeyDesc,
		Limit: int64(months),
	})
	if err != nil {
		return nil, fmt.Errorf("monthly trends: %w", err)
	}
	out := make([]TrendPoint, len(groups))
	for i, g := range groups {
		out[len(groups)-1-i] = TrendPoint{Period: keyString(g.Key), Count: g.Count}
	}
	return out, nil
}

// lookupNames batch-reads the display field of the given records. Records
// that do not exist are absent from the map.
func lookupNames(ctx context.Context, store records.Store, collection, field string, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	docs, err := store.ReadMany(ctx, collection, filter.Domain{
		filter.Where("_id", filter.In, dedupe(ids)),
	}, records.ReadOptions{Fields: []string{field}})
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		id, ok := doc["_id"].(primitive.ObjectID)
		if !ok {
			continue
		}
		name, _ := doc[field].(string)
		if name = htmlsanitize.PlainText(name); name != "" {
			out[id] = name
		}
	}
	return out, nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id.IsZero() {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func ref(id primitive.ObjectID, names map[primitive.ObjectID]string) Ref {
	r := Ref{Name: UnknownLabel}
	if !id.IsZero() {
		r.ID = id.Hex()
	}
	if name, ok := names[id]; ok {
		r.Name = name
	}
	return r
}

// sortRanked orders by count descending, then label, then id.
func sortRanked(items []RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		if items[i].Label != items[j].Label {
			return items[i].Label < items[j].Label
		}
		return items[i].ID < items[j].ID
	})
}

func keyString(k any) string {
	switch v := k.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	}
	return fmt.Sprint(k)
}
