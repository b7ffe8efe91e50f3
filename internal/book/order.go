package book

import (
	"fmt"
	"sort"
)

// Order is one sort key for Find.
type Order struct {
	Field Field
	Desc  bool
}

func Asc(f Field) Order  { return Order{Field: f} }
func Desc(f Field) Order { return Order{Field: f, Desc: true} }

func (o Order) Validate() error {
	if !o.Field.Valid() {
		return fmt.Errorf("%w: cannot sort by unknown field %q", ErrInvalidFilter, o.Field)
	}
	return nil
}

// SortBooks sorts books by the given keys. Ties keep their current relative order.
func SortBooks(books []Book, order ...Order) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(books, func(i, j int) bool {
		for _, o := range order {
			a, _ := books[i].Value(o.Field)
			b, _ := books[j].Value(o.Field)
			c := compareForSort(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareForSort orders false before true, unlike compare which only tests bool equality.
func compareForSort(a, b any) int {
	x, okA := a.(bool)
	y, okB := b.(bool)
	if okA && okB {
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return compare(a, b)
}
