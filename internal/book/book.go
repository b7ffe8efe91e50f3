package book

import (
	"errors"
	"fmt"
)

// CollectionName is the fixed name of the book record collection.
const CollectionName = "books"

var (
	// ErrInvalidFilter is returned when a filter references an unknown field or carries a value of the wrong kind.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidUpdate is returned when an update cannot be applied to a book record.
	ErrInvalidUpdate = errors.New("invalid update")
	// ErrInvalidBook is returned when a record violates the book invariants.
	ErrInvalidBook = errors.New("invalid book")
)

// Book represents a single book record.
type Book struct {
	BookID   string  `json:"book_id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	InStock  bool    `json:"in_stock"`
}

// Validate checks the record invariants.
func (b Book) Validate() error {
	if b.BookID == "" {
		return fmt.Errorf("%w: empty book_id", ErrInvalidBook)
	}
	if b.Price < 0 {
		return fmt.Errorf("%w: %s has negative price %v", ErrInvalidBook, b.BookID, b.Price)
	}
	return nil
}

// Value returns the value stored in field f.
func (b Book) Value(f Field) (any, bool) {
	switch f {
	case FieldBookID:
		return b.BookID, true
	case FieldTitle:
		return b.Title, true
	case FieldAuthor:
		return b.Author, true
	case FieldCategory:
		return b.Category, true
	case FieldPrice:
		return b.Price, true
	case FieldInStock:
		return b.InStock, true
	}
	return nil, false
}

// Kind describes the value type held by a Field.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Field names a book attribute. The names double as column names in the Postgres store.
type Field string

const (
	FieldBookID   Field = "book_id"
	FieldTitle    Field = "title"
	FieldAuthor   Field = "author"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
	FieldInStock  Field = "in_stock"
)

// Fields lists every book attribute in display order.
var Fields = []Field{FieldBookID, FieldTitle, FieldAuthor, FieldCategory, FieldPrice, FieldInStock}

// Kind returns the value kind of the field.
func (f Field) Kind() Kind {
	switch f {
	case FieldBookID, FieldTitle, FieldAuthor, FieldCategory:
		return KindString
	case FieldPrice:
		return KindNumber
	case FieldInStock:
		return KindBool
	}
	return KindUnknown
}

// Valid reports whether f is a known book attribute.
func (f Field) Valid() bool {
	return f.Kind() != KindUnknown
}

// checkValue verifies that v fits the kind of field f.
func checkValue(f Field, v any) error {
	switch f.Kind() {
	case KindString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("field %s expects a string, got %T", f, v)
		}
	case KindNumber:
		if _, ok := toFloat(v); !ok {
			return fmt.Errorf("field %s expects a number, got %T", f, v)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("field %s expects a bool, got %T", f, v)
		}
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
