// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership types.
const (
	MembershipStudent = "student"
	MembershipTeacher = "teacher"
	MembershipPublic  = "public"
)

// Member is a library patron.
type Member struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	MembershipType string             `bson:"membership_type" json:"membership_type"`

	// ActiveBorrowings counts the member's borrowings in status "borrowed".
	ActiveBorrowings int  `bson:"active_borrowings" json:"active_borrowings"`
	Active           bool `bson:"active" json:"active"`

	MembershipDate time.Time `bson:"membership_date" json:"membership_date"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
