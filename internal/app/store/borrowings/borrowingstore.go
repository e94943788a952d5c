// internal/app/store/borrowings/borrowingstore.go
package borrowings

import (
	"context"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"github.com/dalemusser/libraryhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages borrowing status transitions.
type Store struct {
	c *mongo.Collection
}

// New creates a new borrowings Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(records.Borrowings)}
}

func overdueFilter(today time.Time) bson.M {
	return bson.M{
		"status":   models.BorrowingBorrowed,
		"due_date": bson.M{"$lt": today},
	}
}

// MarkOverdue moves every borrowed record whose due date is before today
// to overdue. today must be a UTC midnight. Returns the number of records
// updated.
func (s *Store) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx, overdueFilter(today), bson.M{
		"$set": bson.M{
			"status":     models.BorrowingOverdue,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PendingOverdue returns the borrowed records that MarkOverdue would
// update, oldest due date first.
func (s *Store) PendingOverdue(ctx context.Context, today time.Time, limit int64) ([]models.Borrowing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, overdueFilter(today), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Borrowing
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkReturned sets a borrowing to returned with the given return date.
// Returns mongo.ErrNoDocuments if id does not exist.
func (s *Store) MarkReturned(ctx context.Context, id primitive.ObjectID, returned time.Time) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":      models.BorrowingReturned,
			"return_date": returned,
			"updated_at":  time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
