// Package filter describes record selections as a list of field conditions
// that are ANDed together. A Domain can be rendered as a MongoDB filter,
// evaluated in memory against a decoded document, and carried through a URL.
package filter

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Op is a comparison operator.
type Op string

const (
	Eq  Op = "="
	Ne  Op = "!="
	Gt  Op = ">"
	Gte Op = ">="
	Lt  Op = "<"
	Lte Op = "<="
	In  Op = "in"
	// Set matches when the field is present, non-null and not an empty list.
	Set Op = "set"
)

// ErrUnsupportedOp is returned for an operator this package does not know.
var ErrUnsupportedOp = errors.New("filter: unsupported operator")

// Cond is one field condition.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Domain is a conjunction of conditions. The empty domain selects everything.
type Domain []Cond

// Where builds a single condition.
func Where(field string, op Op, value any) Cond {
	return Cond{Field: field, Op: op, Value: value}
}

// And returns a new domain with the given conditions appended.
func (d Domain) And(conds ...Cond) Domain {
	out := make(Domain, 0, len(d)+len(conds))
	out = append(out, d...)
	return append(out, conds...)
}

func (d Domain) String() string {
	s, err := d.Encode()
	if err != nil {
		return fmt.Sprintf("%v", []Cond(d))
	}
	return s
}

// BSON renders the domain as a MongoDB query filter. A field that appears
// more than once is moved into an $and clause so no condition is lost.
func (d Domain) BSON() (bson.M, error) {
	out := bson.M{}
	var and bson.A
	for _, c := range d {
		expr, err := c.bsonExpr()
		if err != nil {
			return nil, err
		}
		if _, dup := out[c.Field]; dup {
			and = append(and, bson.M{c.Field: expr})
			continue
		}
		out[c.Field] = expr
	}
	if len(and) > 0 {
		out["$and"] = and
	}
	return out, nil
}

func (c Cond) bsonExpr() (bson.M, error) {
	switch c.Op {
	case Eq:
		return bson.M{"$eq": c.Value}, nil
	case Ne:
		return bson.M{"$ne": c.Value}, nil
	case Gt:
		return bson.M{"$gt": c.Value}, nil
	case Gte:
		return bson.M{"$gte": c.Value}, nil
	case Lt:
		return bson.M{"$lt": c.Value}, nil
	case Lte:
		return bson.M{"$lte": c.Value}, nil
	case In:
		vals, ok := asList(c.Value)
		if !ok {
			return nil, fmt.Errorf("filter: %q in: value must be a list, got %T", c.Field, c.Value)
		}
		return bson.M{"$in": bson.A(vals)}, nil
	case Set:
		return bson.M{"$exists": true, "$nin": bson.A{nil, bson.A{}}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOp, c.Op)
	}
}
