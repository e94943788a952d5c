// Package records is the generic read side of the library collections:
// count, read and group-by over a named collection with a filter.Domain.
//
// Two implementations are provided. Mongo runs against a live database and
// is what the server uses. Memory keeps documents in process and is used by
// tests and by anything that needs a store without a database.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names.
const (
	Books      = "books"
	Borrowings = "borrowings"
	Members    = "members"
	Fines      = "fines"
	Categories = "categories"
)

// Known lists every collection the store will serve.
var Known = []string{Books, Borrowings, Members, Fines, Categories}

// ErrUnknownCollection is returned for a collection name not in Known.
var ErrUnknownCollection = errors.New("records: unknown collection")

// IsKnown reports whether name is a served collection.
func IsKnown(name string) bool {
	for _, k := range Known {
		if k == name {
			return true
		}
	}
	return false
}

func checkCollection(name string) error {
	if !IsKnown(name) {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return nil
}

// SortField orders ReadMany results.
type SortField struct {
	Field string
	Desc  bool
}

// ReadOptions controls projection and paging for ReadMany.
// A zero Limit means no limit. An empty Fields returns whole documents;
// _id is always included.
type ReadOptions struct {
	Fields []string
	Sort   []SortField
	Limit  int64
	Skip   int64
}

// Bucket selects how a group key is derived from the group field.
type Bucket int

const (
	// ByValue groups on the raw field value.
	ByValue Bucket = iota
	// ByMonth groups a date field by calendar month; keys are "YYYY-MM".
	ByMonth
)

// GroupOrder orders GroupBy results.
type GroupOrder int

const (
	// KeyAsc orders by group key ascending.
	KeyAsc GroupOrder = iota
	// KeyDesc orders by group key descending.
	KeyDesc
	// CountDesc orders by group size descending, ties broken by key ascending.
	CountDesc
)

// GroupOptions describes a single-field group-by with a count aggregate.
// A zero Limit means no limit. Records whose group value is missing or null
// are left out.
type GroupOptions struct {
	Field string
	By    Bucket
	Order GroupOrder
	Limit int64
}

// Group is one partition produced by GroupBy.
type Group struct {
	Key   any
	Count int64
}

// Store is the query surface the dashboard and record views consume.
type Store interface {
	Count(ctx context.Context, collection string, d filter.Domain) (int64, error)
	ReadMany(ctx context.Context, collection string, d filter.Domain, opts ReadOptions) ([]bson.M, error)
	GroupBy(ctx context.Context, collection string, d filter.Domain, opts GroupOptions) ([]Group, error)
}

// DecodeAll converts raw documents into typed values using their bson tags.
func DecodeAll[T any](docs []bson.M) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

const monthLayout = "2006-01"
