// internal/domain/models/book.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book states.
const (
	BookAvailable   = "available"
	BookBorrowed    = "borrowed"
	BookMaintenance = "maintenance"
)

// Book is a catalog entry. AvailableCopies is maintained by the circulation
// side (total copies minus active borrowings); the dashboard only reads it.
type Book struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Title       string               `bson:"title" json:"title"`
	ISBN        string               `bson:"isbn" json:"isbn"`
	CategoryIDs []primitive.ObjectID `bson:"category_ids,omitempty" json:"category_ids,omitempty"`

	TotalCopies     int `bson:"total_copies" json:"total_copies"`
	AvailableCopies int `bson:"available_copies" json:"available_copies"`

	State  string `bson:"state" json:"state"`
	Active bool   `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
