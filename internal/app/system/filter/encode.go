package filter

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Value kinds used by the text encoding.
const (
	kindNull    = "null"
	kindString  = "string"
	kindNumber  = "number"
	kindBool    = "bool"
	kindDate    = "date"
	kindTime    = "time"
	kindID      = "id"
	kindIDs     = "ids"
	kindStrings = "strings"
)

const dateLayout = "2006-01-02"

type wireCond struct {
	Field string          `json:"field"`
	Op    Op              `json:"op"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Encode renders the domain as compact JSON suitable for a query parameter.
// Calendar dates (UTC midnight) are written as YYYY-MM-DD.
func (d Domain) Encode() (string, error) {
	out := make([]wireCond, 0, len(d))
	for _, c := range d {
		kind, v, err := encodeValue(c.Value)
		if err != nil {
			return "", fmt.Errorf("filter: encode %q: %w", c.Field, err)
		}
		w := wireCond{Field: c.Field, Op: c.Op, Kind: kind}
		if v != nil {
			raw, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			w.Value = raw
		}
		out = append(out, w)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeValue(v any) (string, any, error) {
	switch t := v.(type) {
	case nil:
		return kindNull, nil, nil
	case string:
		return kindString, t, nil
	case bool:
		return kindBool, t, nil
	case int, int32, int64, float32, float64:
		return kindNumber, Normalize(t), nil
	case time.Time:
		u := t.UTC()
		if u.Equal(u.Truncate(24 * time.Hour)) {
			return kindDate, u.Format(dateLayout), nil
		}
		return kindTime, u.Format(time.RFC3339Nano), nil
	case primitive.ObjectID:
		return kindID, t.Hex(), nil
	case []primitive.ObjectID:
		hexes := make([]string, len(t))
		for i, id := range t {
			hexes[i] = id.Hex()
		}
		return kindIDs, hexes, nil
	case []string:
		return kindStrings, t, nil
	}
	return "", nil, fmt.Errorf("unsupported value type %T", v)
}

// ParseDomain decodes the output of Encode. An empty string is the empty
// domain.
func ParseDomain(s string) (Domain, error) {
	if s == "" {
		return Domain{}, nil
	}
	var in []wireCond
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, fmt.Errorf("filter: parse domain: %w", err)
	}
	out := make(Domain, 0, len(in))
	for _, w := range in {
		if !knownOp(w.Op) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedOp, w.Op)
		}
		v, err := decodeValue(w.Kind, w.Value)
		if err != nil {
			return nil, fmt.Errorf("filter: parse %q: %w", w.Field, err)
		}
		out = append(out, Cond{Field: w.Field, Op: w.Op, Value: v})
	}
	return out, nil
}

func knownOp(op Op) bool {
	switch op {
	case Eq, Ne, Gt, Gte, Lt, Lte, In, Set:
		return true
	}
	return false
}

func decodeValue(kind string, raw json.RawMessage) (any, error) {
	switch kind {
	case kindNull, "":
		return nil, nil
	case kindString:
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case kindNumber:
		var f float64
		err := json.Unmarshal(raw, &f)
		return f, err
	case kindBool:
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	case kindDate, kindTime:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		layout := dateLayout
		if kind == kindTime {
			layout = time.RFC3339Nano
		}
		return time.Parse(layout, s)
	case kindID:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return primitive.ObjectIDFromHex(s)
	case kindIDs:
		var hexes []string
		if err := json.Unmarshal(raw, &hexes); err != nil {
			return nil, err
		}
		ids := make([]primitive.ObjectID, 0, len(hexes))
		for _, h := range hexes {
			id, err := primitive.ObjectIDFromHex(h)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	case kindStrings:
		var ss []string
		err := json.Unmarshal(raw, &ss)
		return ss, err
	}
	return nil, fmt.Errorf("unknown value kind %q", kind)
}
