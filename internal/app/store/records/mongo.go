package records

import (
	"context"
	"fmt"

	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo serves the Store interface from a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

var _ Store = (*Mongo)(nil)

func (m *Mongo) prepare(collection string, d filter.Domain) (*mongo.Collection, bson.M, error) {
	if err := checkCollection(collection); err != nil {
		return nil, nil, err
	}
	f, err := d.BSON()
	if err != nil {
		return nil, nil, err
	}
	return m.db.Collection(collection), f, nil
}

// Count returns the number of documents in collection matching d.
func (m *Mongo) Count(ctx context.Context, collection string, d filter.Domain) (int64, error) {
	coll, f, err := m.prepare(collection, d)
	if err != nil {
		return 0, err
	}
	return coll.CountDocuments(ctx, f)
}

// ReadMany returns the matching documents, projected and paged per opts.
func (m *Mongo) ReadMany(ctx context.Context, collection string, d filter.Domain, opts ReadOptions) ([]bson.M, error) {
	coll, f, err := m.prepare(collection, d)
	if err != nil {
		return nil, err
	}

	find := options.Find()
	if len(opts.Fields) > 0 {
		proj := bson.D{}
		for _, field := range opts.Fields {
			proj = append(proj, bson.E{Key: field, Value: 1})
		}
		find.SetProjection(proj)
	}
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for _, s := range opts.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		find.SetSort(sort)
	}
	if opts.Limit > 0 {
		find.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		find.SetSkip(opts.Skip)
	}

	cur, err := coll.Find(ctx, f, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []bson.M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupBy partitions matching documents on opts.Field and counts each
// partition.
func (m *Mongo) GroupBy(ctx context.Context, collection string, d filter.Domain, opts GroupOptions) ([]Group, error) {
	coll, f, err := m.prepare(collection, d)
	if err != nil {
		return nil, err
	}
	if opts.Field == "" {
		return nil, fmt.Errorf("records: group by %s: empty field", collection)
	}

	var key any = "$" + opts.Field
	if opts.By == ByMonth {
		key = bson.D{{Key: "$dateToString", Value: bson.D{
			{Key: "format", Value: "%Y-%m"},
			{Key: "date", Value: "$" + opts.Field},
		}}}
	}

	var sort bson.D
	switch opts.Order {
	case KeyDesc:
		sort = bson.D{{Key: "_id", Value: -1}}
	case CountDesc:
		sort = bson.D{{Key: "n", Value: -1}, {Key: "_id", Value: 1}}
	default:
		sort = bson.D{{Key: "_id", Value: 1}}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: f}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: key},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: bson.D{{Key: "$ne", Value: nil}}}}}},
		bson.D{{Key: "$sort", Value: sort}},
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.Limit}})
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Group{}
	for cur.Next(ctx) {
		var row struct {
			Key any   `bson:"_id"`
			N   int64 `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, Group{Key: row.Key, Count: row.N})
	}
	return out, cur.Err()
}
