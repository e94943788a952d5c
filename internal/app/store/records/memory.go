package records

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/system/filter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operation names accepted by Memory.FailOn.
const (
	OpCount = "count"
	OpRead  = "read"
	OpGroup = "group"
)

// Memory is an in-process Store. Documents are round-tripped through BSON on
// insert so they have the same shapes a Mongo cursor would produce.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]bson.M
	fail map[string]error
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string][]bson.M),
		fail: make(map[string]error),
	}
}

var _ Store = (*Memory)(nil)

// Insert adds documents to collection. Each value may be a bson.M or any
// bson-tagged struct. A missing or zero _id is replaced with a new ObjectID.
func (m *Memory) Insert(collection string, docs ...any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	converted := make([]bson.M, 0, len(docs))
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return fmt.Errorf("records: insert into %s: %w", collection, err)
		}
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("records: insert into %s: %w", collection, err)
		}
		switch id := doc["_id"].(type) {
		case nil:
			doc["_id"] = primitive.NewObjectID()
		case primitive.ObjectID:
			if id.IsZero() {
				doc["_id"] = primitive.NewObjectID()
			}
		}
		converted = append(converted, doc)
	}

	m.mu.Lock()
	m.docs[collection] = append(m.docs[collection], converted...)
	m.mu.Unlock()
	return nil
}

// FailOn makes every subsequent op ("count", "read" or "group") against
// collection return err. A nil err clears the failure.
func (m *Memory) FailOn(op, collection string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := op + "/" + collection
	if err == nil {
		delete(m.fail, key)
		return
	}
	m.fail[key] = err
}

// matching returns the documents in collection matching d. Caller holds mu.
func (m *Memory) matching(op, collection string, d filter.Domain) ([]bson.M, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if err := m.fail[op+"/"+collection]; err != nil {
		return nil, err
	}
	// Validate operators the same way the Mongo path does.
	if _, err := d.BSON(); err != nil {
		return nil, err
	}
	var out []bson.M
	for _, doc := range m.docs[collection] {
		if d.Match(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *Memory) Count(ctx context.Context, collection string, d filter.Domain) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs, err := m.matching(OpCount, collection, d)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (m *Memory) ReadMany(ctx context.Context, collection string, d filter.Domain, opts ReadOptions) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	docs, err := m.matching(OpRead, collection, d)
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sorted := make([]bson.M, len(docs))
	copy(sorted, docs)
	if len(opts.Sort) > 0 {
		sort.SliceStable(sorted, func(i, j int) bool {
			for _, s := range opts.Sort {
				c := compareKeys(sorted[i][s.Field], sorted[j][s.Field])
				if c == 0 {
					continue
				}
				if s.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(sorted)) {
			sorted = nil
		} else {
			sorted = sorted[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(sorted)) > opts.Limit {
		sorted = sorted[:opts.Limit]
	}

	out := make([]bson.M, 0, len(sorted))
	for _, doc := range sorted {
		out = append(out, project(doc, opts.Fields))
	}
	return out, nil
}

func (m *Memory) GroupBy(ctx context.Context, collection string, d filter.Domain, opts GroupOptions) ([]Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Field == "" {
		return nil, fmt.Errorf("records: group by %s: empty field", collection)
	}
	m.mu.RLock()
	docs, err := m.matching(OpGroup, collection, d)
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups []Group
	for _, doc := range docs {
		key := groupKey(doc[opts.Field], opts.By)
		if key == nil {
			continue
		}
		sig := fmt.Sprintf("%T:%v", key, key)
		if i, ok := index[sig]; ok {
			groups[i].Count++
			continue
		}
		index[sig] = len(groups)
		groups = append(groups, Group{Key: key, Count: 1})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		switch opts.Order {
		case KeyDesc:
			return compareKeys(groups[i].Key, groups[j].Key) > 0
		case CountDesc:
			if groups[i].Count != groups[j].Count {
				return groups[i].Count > groups[j].Count
			}
		}
		return compareKeys(groups[i].Key, groups[j].Key) < 0
	})

	if opts.Limit > 0 && int64(len(groups)) > opts.Limit {
		groups = groups[:opts.Limit]
	}
	if groups == nil {
		groups = []Group{}
	}
	return groups, nil
}

func groupKey(v any, by Bucket) any {
	if v == nil {
		return nil
	}
	if by == ByMonth {
		t, ok := filter.Normalize(v).(time.Time)
		if !ok {
			return nil
		}
		return t.Format(monthLayout)
	}
	return v
}

// compareKeys orders values the way a sort on mixed BSON values would for the
// shapes this package stores: missing/null first, then by value.
func compareKeys(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if n, ok := filter.Compare(a, b); ok {
		return n
	}
	sa, sb := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func project(doc bson.M, fields []string) bson.M {
	out := bson.M{}
	if len(fields) == 0 {
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	out["_id"] = doc["_id"]
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
