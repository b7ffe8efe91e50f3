package book

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Operator is a filter operator, spelled the way document stores spell it.
type Operator string

const (
	OpEq  Operator = "$eq"
	OpNe  Operator = "$ne"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
	OpIn  Operator = "$in"
	OpAnd Operator = "$and"
	OpOr  Operator = "$or"
)

// Logical reports whether op combines child filters.
func (op Operator) Logical() bool {
	return op == OpAnd || op == OpOr
}

func (op Operator) ordering() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Filter is a tagged predicate over book records. A Filter is either a field
// comparison or a logical combination of child filters. The zero value matches
// every record.
type Filter struct {
	op       Operator
	field    Field
	value    any
	values   []any
	children []Filter
}

// All returns a filter matching every record.
func All() Filter {
	return Filter{op: OpAnd}
}

func Eq(f Field, v any) Filter { return Filter{op: OpEq, field: f, value: v} }
func Ne(f Field, v any) Filter { return Filter{op: OpNe, field: f, value: v} }
func Gt(f Field, v any) Filter { return Filter{op: OpGt, field: f, value: v} }
func Gte(f Field, v any) Filter { return Filter{op: OpGte, field: f, value: v} }
func Lt(f Field, v any) Filter { return Filter{op: OpLt, field: f, value: v} }
func Lte(f Field, v any) Filter { return Filter{op: OpLte, field: f, value: v} }

// In matches records whose field equals any of the given values.
func In(f Field, values ...any) Filter {
	return Filter{op: OpIn, field: f, values: values}
}

// Between matches lo <= field <= hi.
func Between(f Field, lo, hi any) Filter {
	return And(Gte(f, lo), Lte(f, hi))
}

// And matches records satisfying every child filter.
func And(filters ...Filter) Filter {
	return Filter{op: OpAnd, children: filters}
}

// Or matches records satisfying at least one child filter.
func Or(filters ...Filter) Filter {
	return Filter{op: OpOr, children: filters}
}

func (f Filter) Op() Operator {
	if f.op == "" {
		return OpAnd
	}
	return f.op
}

func (f Filter) Field() Field { return f.field }
func (f Filter) Value() any { return f.value }
func (f Filter) Values() []any { return f.values }
func (f Filter) Children() []Filter { return f.children }
func (f Filter) MatchesAll() bool { return f.Op() == OpAnd && len(f.children) == 0 }

// Matches evaluates the filter against b.
func (f Filter) Matches(b Book) bool {
	switch f.Op() {
	case OpAnd:
		for _, child := range f.children {
			if !child.Matches(b) {
				return false
			}
		}
		return true
	case OpOr:
		for _, child := range f.children {
			if child.Matches(b) {
				return true
			}
		}
		return false
	case OpIn:
		actual, ok := b.Value(f.field)
		if !ok {
			return false
		}
		for _, v := range f.values {
			if compare(actual, v) == 0 {
				return true
			}
		}
		return false
	}

	actual, ok := b.Value(f.field)
	if !ok {
		return false
	}
	if f.field.Kind() == KindBool && f.op.ordering() {
		return false
	}
	c := compare(actual, f.value)
	switch f.op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	}
	return false
}

// compare returns -1, 0 or 1. Values of different kinds never compare equal.
func compare(a, b any) int {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return -1
		}
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return -1
		}
		return strings.Compare(x, y)
	case bool:
		y, ok := b.(bool)
		if !ok || x != y {
			return -1
		}
		return 0
	}
	return -1
}

// Validate checks that every comparison names a known field and carries values of the field's kind.
func (f Filter) Validate() error {
	switch f.Op() {
	case OpAnd, OpOr:
		if f.op == OpOr && len(f.children) == 0 {
			return fmt.Errorf("%w: $or needs at least one branch", ErrInvalidFilter)
		}
		for _, child := range f.children {
			if err := child.Validate(); err != nil {
				return err
			}
		}
		return nil
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn:
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.op)
	}

	if !f.field.Valid() {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.field)
	}
	if f.op.ordering() && f.field.Kind() == KindBool {
		return fmt.Errorf("%w: %s cannot be applied to bool field %s", ErrInvalidFilter, f.op, f.field)
	}
	if f.op == OpIn {
		if len(f.values) == 0 {
			return fmt.Errorf("%w: $in on %s needs at least one value", ErrInvalidFilter, f.field)
		}
		for _, v := range f.values {
			if err := checkValue(f.field, v); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
			}
		}
		return nil
	}
	if err := checkValue(f.field, f.value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return nil
}

// Document renders the filter as a query document, e.g.
// {"$and":[{"category":{"$eq":"Technology"}},{"price":{"$lt":40}}]}.
func (f Filter) Document() map[string]any {
	switch f.Op() {
	case OpAnd, OpOr:
		if f.MatchesAll() {
			return map[string]any{}
		}
		docs := make([]map[string]any, 0, len(f.children))
		for _, child := range f.children {
			docs = append(docs, child.Document())
		}
		return map[string]any{string(f.Op()): docs}
	case OpIn:
		return map[string]any{string(f.field): map[string]any{string(OpIn): f.values}}
	}
	return map[string]any{string(f.field): map[string]any{string(f.op): f.value}}
}

func (f Filter) String() string {
	s, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(f.Document())
	if err != nil {
		return fmt.Sprintf("%v", f.Document())
	}
	return s
}
