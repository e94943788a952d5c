// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/store/records"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each index set is reconciled independently
and the problems are combined so every failing collection is reported.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var err error
	for _, set := range indexSets() {
		if e := ensureIndexSet(ctx, db.Collection(set.collection), set.models); e != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", set.collection, e))
		}
	}
	return err
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func indexSets() []indexSet {
	return []indexSet{
		{records.Books, []mongo.IndexModel{
			// tiles: state counts, available = copies > 0 and state
			{
				Keys:    bson.D{{Key: "state", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_books_state__id"),
			},
			{
				Keys:    bson.D{{Key: "available_copies", Value: 1}, {Key: "state", Value: 1}},
				Options: options.Index().SetName("idx_books_available_state"),
			},
			// category distribution groups on the multikey array
			{
				Keys:    bson.D{{Key: "category_ids", Value: 1}},
				Options: options.Index().SetName("idx_books_categories"),
			},
		}},
		{records.Borrowings, []mongo.IndexModel{
			// overdue sweep and status tiles
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}},
				Options: options.Index().SetName("idx_borrowings_status_due"),
			},
			// today tile, recent list, monthly trends
			{
				Keys:    bson.D{{Key: "borrow_date", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_borrowings_borrowdate"),
			},
			{
				Keys:    bson.D{{Key: "due_date", Value: 1}},
				Options: options.Index().SetName("idx_borrowings_due"),
			},
			// top books
			{
				Keys:    bson.D{{Key: "book_id", Value: 1}},
				Options: options.Index().SetName("idx_borrowings_book"),
			},
			{
				Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "borrow_date", Value: -1}},
				Options: options.Index().SetName("idx_borrowings_member_borrowdate"),
			},
		}},
		{records.Members, []mongo.IndexModel{
			// email is optional; uniqueness only among non-empty addresses
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_members_email").
					SetPartialFilterExpression(bson.M{"email": bson.M{"$gt": ""}}),
			},
			{
				Keys:    bson.D{{Key: "membership_type", Value: 1}},
				Options: options.Index().SetName("idx_members_type"),
			},
			{
				Keys:    bson.D{{Key: "active", Value: 1}, {Key: "active_borrowings", Value: 1}},
				Options: options.Index().SetName("idx_members_active_borrowings"),
			},
		}},
		{records.Fines, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "payment_status", Value: 1}},
				Options: options.Index().SetName("idx_fines_payment_status"),
			},
			{
				Keys:    bson.D{{Key: "member_id", Value: 1}},
				Options: options.Index().SetName("idx_fines_member"),
			},
		}},
		{records.Categories, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetName("idx_categories_parent_name"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs error
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		ex, found := existing[sig]
		switch {
		case found && isTrue(unique) == isTrue(ex.Unique) && (name == "" || ex.Name == name):
			zap.L().Debug("reusing existing index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
			continue
		case found:
			// Same keys under another name or with different uniqueness.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: drop %s: %w", name, ex.Name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && isTrue(unique) {
				err = fmt.Errorf("cannot create unique index (duplicates present): %w", err)
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", isTrue(unique)),
			zap.Bool("replaced", found),
			zap.String("took", time.Since(start).String()))
	}
	return errs
}

func isDuplicateKeyErr(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}
