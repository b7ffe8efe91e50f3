package book

import (
	"fmt"
	"strings"
)

// AssignKind tells how an assignment derives the new field value.
type AssignKind int

const (
	// AssignSet stores a literal value.
	AssignSet AssignKind = iota
	// AssignMultiply multiplies the record's current value by a factor.
	AssignMultiply
)

// Assignment is one field change inside an Update.
type Assignment struct {
	Field Field
	Kind  AssignKind
	Value any
}

// Update is an ordered list of field assignments applied to every matched record.
// Computed assignments read the record as it was before the update started.
type Update struct {
	assignments []Assignment
}

// Set starts an update assigning the literal v to field f.
func Set(f Field, v any) Update {
	return Update{}.Set(f, v)
}

// Multiply starts an update scaling the numeric field f by factor.
func Multiply(f Field, factor float64) Update {
	return Update{}.Multiply(f, factor)
}

func (u Update) Set(f Field, v any) Update {
	return u.with(Assignment{Field: f, Kind: AssignSet, Value: v})
}

func (u Update) Multiply(f Field, factor float64) Update {
	return u.with(Assignment{Field: f, Kind: AssignMultiply, Value: factor})
}

func (u Update) with(a Assignment) Update {
	assignments := make([]Assignment, 0, len(u.assignments)+1)
	assignments = append(assignments, u.assignments...)
	return Update{assignments: append(assignments, a)}
}

func (u Update) Assignments() []Assignment {
	return u.assignments
}

func (u Update) IsZero() bool {
	return len(u.assignments) == 0
}

// Validate rejects updates that would break the record invariants.
func (u Update) Validate() error {
	if u.IsZero() {
		return fmt.Errorf("%w: no assignments", ErrInvalidUpdate)
	}
	for _, a := range u.assignments {
		if !a.Field.Valid() {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidUpdate, a.Field)
		}
		switch a.Kind {
		case AssignSet:
			if err := checkValue(a.Field, a.Value); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
			}
			if a.Field == FieldPrice {
				if p, _ := toFloat(a.Value); p < 0 {
					return fmt.Errorf("%w: negative price %v", ErrInvalidUpdate, a.Value)
				}
			}
		case AssignMultiply:
			if a.Field.Kind() != KindNumber {
				return fmt.Errorf("%w: cannot multiply %s field %s", ErrInvalidUpdate, a.Field.Kind(), a.Field)
			}
			factor, ok := toFloat(a.Value)
			if !ok {
				return fmt.Errorf("%w: factor for %s must be a number", ErrInvalidUpdate, a.Field)
			}
			if factor < 0 {
				return fmt.Errorf("%w: negative factor %v for %s", ErrInvalidUpdate, factor, a.Field)
			}
		default:
			return fmt.Errorf("%w: unknown assignment kind %d", ErrInvalidUpdate, a.Kind)
		}
	}
	return nil
}

// Apply returns b with every assignment applied. Callers validate the update first.
func (u Update) Apply(b Book) Book {
	before := b
	for _, a := range u.assignments {
		switch a.Kind {
		case AssignSet:
			b = assign(b, a.Field, a.Value)
		case AssignMultiply:
			current, _ := before.Value(a.Field)
			x, _ := toFloat(current)
			factor, _ := toFloat(a.Value)
			b = assign(b, a.Field, x*factor)
		}
	}
	return b
}

func assign(b Book, f Field, v any) Book {
	switch f {
	case FieldBookID:
		b.BookID, _ = v.(string)
	case FieldTitle:
		b.Title, _ = v.(string)
	case FieldAuthor:
		b.Author, _ = v.(string)
	case FieldCategory:
		b.Category, _ = v.(string)
	case FieldPrice:
		b.Price, _ = toFloat(v)
	case FieldInStock:
		b.InStock, _ = v.(bool)
	}
	return b
}

// Document renders the update as a $set stage, with computed values written as $multiply expressions.
func (u Update) Document() map[string]any {
	set := make(map[string]any, len(u.assignments))
	for _, a := range u.assignments {
		switch a.Kind {
		case AssignSet:
			set[string(a.Field)] = a.Value
		case AssignMultiply:
			set[string(a.Field)] = map[string]any{"$multiply": []any{"$" + string(a.Field), a.Value}}
		}
	}
	return map[string]any{"$set": set}
}

func (u Update) String() string {
	parts := make([]string, 0, len(u.assignments))
	for _, a := range u.assignments {
		switch a.Kind {
		case AssignMultiply:
			parts = append(parts, fmt.Sprintf("%s=%s*%v", a.Field, a.Field, a.Value))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", a.Field, a.Value))
		}
	}
	return strings.Join(parts, ", ")
}
