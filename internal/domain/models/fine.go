// internal/domain/models/fine.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fine payment statuses.
const (
	FineUnpaid = "unpaid"
	FinePaid   = "paid"
)

// Fine is a late-return charge raised against a borrowing.
type Fine struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	BorrowingID primitive.ObjectID `bson:"borrowing_id" json:"borrowing_id"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"member_id"`

	FineAmount    float64    `bson:"fine_amount" json:"fine_amount"`
	Reason        string     `bson:"fine_reason" json:"fine_reason"`
	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	PaymentDate   *time.Time `bson:"payment_date,omitempty" json:"payment_date,omitempty"`

	CreatedDate time.Time `bson:"created_date" json:"created_date"`
}
