package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Day returns midnight UTC of the given date, the form used for stored
// calendar dates.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixtures provides helper methods for creating test data, either in a
// MongoDB test database or in a records.Memory store.
type Fixtures struct {
	t      *testing.T
	insert func(ctx context.Context, collection string, doc any) error
}

// NewFixtures creates a Fixtures instance writing to the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, insert: func(ctx context.Context, collection string, doc any) error {
		_, err := db.Collection(collection).InsertOne(ctx, doc)
		return err
	}}
}

// NewMemoryFixtures creates a Fixtures instance writing to mem.
func NewMemoryFixtures(t *testing.T, mem *records.Memory) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, insert: func(_ context.Context, collection string, doc any) error {
		return mem.Insert(collection, doc)
	}}
}

func (f *Fixtures) put(ctx context.Context, collection string, doc any) {
	f.t.Helper()
	if err := f.insert(ctx, collection, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", collection, err)
	}
}

// CreateCategory creates an active category.
func (f *Fixtures) CreateCategory(ctx context.Context, name string) models.Category {
	f.t.Helper()
	c := models.Category{ID: primitive.NewObjectID(), Name: name, Active: true}
	f.put(ctx, records.Categories, c)
	return c
}

// CreateBook creates an active book in the given state with the given
// number of available copies.
func (f *Fixtures) CreateBook(ctx context.Context, title, state string, available int, categories ...primitive.ObjectID) models.Book {
	f.t.Helper()
	now := time.Now().UTC()
	total := available
	if total == 0 {
		total = 1
	}
	b := models.Book{
		ID:              primitive.NewObjectID(),
		Title:           title,
		ISBN:            "978-0-00-000000-0",
		CategoryIDs:     categories,
		TotalCopies:     total,
		AvailableCopies: available,
		State:           state,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.put(ctx, records.Books, b)
	return b
}

// CreateMember creates a member.
func (f *Fixtures) CreateMember(ctx context.Context, name, membershipType string, activeBorrowings int, active bool) models.Member {
	f.t.Helper()
	now := time.Now().UTC()
	m := models.Member{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Email:            "member@example.com",
		MembershipType:   membershipType,
		ActiveBorrowings: activeBorrowings,
		Active:           active,
		MembershipDate:   now.Truncate(24 * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.put(ctx, records.Members, m)
	return m
}

// CreateBorrowing creates a borrowing of book by member.
func (f *Fixtures) CreateBorrowing(ctx context.Context, name string, memberID, bookID primitive.ObjectID, status string, borrowDate, dueDate time.Time) models.Borrowing {
	f.t.Helper()
	now := time.Now().UTC()
	b := models.Borrowing{
		ID:         primitive.NewObjectID(),
		Name:       name,
		MemberID:   memberID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == models.BorrowingReturned {
		rd := dueDate
		b.ReturnDate = &rd
	}
	f.put(ctx, records.Borrowings, b)
	return b
}

// CreateFine creates a fine with the given amount and payment status.
func (f *Fixtures) CreateFine(ctx context.Context, amount float64, paymentStatus string) models.Fine {
	f.t.Helper()
	fine := models.Fine{
		ID:            primitive.NewObjectID(),
		Name:          "FINE",
		BorrowingID:   primitive.NewObjectID(),
		MemberID:      primitive.NewObjectID(),
		FineAmount:    amount,
		Reason:        "late",
		PaymentStatus: paymentStatus,
		CreatedDate:   time.Now().UTC().Truncate(24 * time.Hour),
	}
	f.put(ctx, records.Fines, fine)
	return fine
}
