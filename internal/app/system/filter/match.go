package filter

import (
	"bytes"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match reports whether doc satisfies every condition in the domain.
// List-valued fields match when any element matches, as in MongoDB.
// Unknown operators never match.
func (d Domain) Match(doc bson.M) bool {
	for _, c := range d {
		if !c.match(doc) {
			return false
		}
	}
	return true
}

func (c Cond) match(doc bson.M) bool {
	v, present := doc[c.Field]
	switch c.Op {
	case Set:
		if !present || v == nil {
			return false
		}
		if list, ok := asList(v); ok {
			return len(list) > 0
		}
		return true
	case Ne:
		return !Cond{Field: c.Field, Op: Eq, Value: c.Value}.match(doc)
	case In:
		wants, ok := asList(c.Value)
		if !ok {
			return false
		}
		for _, w := range wants {
			if anyElem(v, func(x any) bool { return Equal(x, w) }) {
				return true
			}
		}
		return false
	case Eq:
		if !present || v == nil {
			return c.Value == nil
		}
		return anyElem(v, func(x any) bool { return Equal(x, c.Value) })
	case Gt, Gte, Lt, Lte:
		if !present || v == nil {
			return false
		}
		return anyElem(v, func(x any) bool {
			n, ok := Compare(x, c.Value)
			if !ok {
				return false
			}
			switch c.Op {
			case Gt:
				return n > 0
			case Gte:
				return n >= 0
			case Lt:
				return n < 0
			default:
				return n <= 0
			}
		})
	}
	return false
}

// anyElem applies fn to v, or to each element when v is a list.
func anyElem(v any, fn func(any) bool) bool {
	if list, ok := asList(v); ok {
		for _, x := range list {
			if fn(x) {
				return true
			}
		}
		return false
	}
	return fn(v)
}

// asList flattens any slice (except []byte) into []any.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case bson.A:
		return t, true
	case []any:
		return t, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if _, isID := v.(primitive.ObjectID); isID {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Normalize maps the value shapes produced by BSON decoding and by Go callers
// onto a small comparable set: numbers become float64 and timestamps become
// UTC time.Time.
func Normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC()
	}
	return v
}

// Compare orders two values of the same normalized kind. ok is false when the
// values are not comparable.
func Compare(a, b any) (n int, ok bool) {
	a, b = Normalize(a), Normalize(b)
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case primitive.ObjectID:
		y, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(x[:], y[:]), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// Equal reports whether two values are equal after normalization.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if n, ok := Compare(a, b); ok {
		return n == 0
	}
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}
