// internal/domain/models/borrowing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Borrowing statuses.
const (
	BorrowingDraft    = "draft"
	BorrowingBorrowed = "borrowed"
	BorrowingReturned = "returned"
	BorrowingOverdue  = "overdue"
)

// Borrowing records one loan of a book to a member.
//
// BorrowDate and DueDate are calendar dates stored as UTC midnight, so an
// equality match against a day's midnight selects that day.
type Borrowing struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"` // reference, e.g. BRW/2026/0042
	MemberID primitive.ObjectID `bson:"member_id" json:"member_id"`
	BookID   primitive.ObjectID `bson:"book_id" json:"book_id"`

	BorrowDate time.Time  `bson:"borrow_date" json:"borrow_date"`
	DueDate    time.Time  `bson:"due_date" json:"due_date"`
	ReturnDate *time.Time `bson:"return_date,omitempty" json:"return_date,omitempty"`

	Status     string  `bson:"status" json:"status"`
	FineAmount float64 `bson:"fine_amount" json:"fine_amount"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
