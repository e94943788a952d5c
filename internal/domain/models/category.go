// internal/domain/models/category.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a (possibly nested) subject tag for books.
type Category struct {
	ID       primitive.ObjectID  `bson:"_id" json:"id"`
	Name     string              `bson:"name" json:"name"`
	ParentID *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Active   bool                `bson:"active" json:"active"`
}
