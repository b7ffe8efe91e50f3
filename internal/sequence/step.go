package sequence

import (
	"errors"
	"fmt"

	"bookops/internal/book"
)

var (
	// ErrStepFailed wraps any error that aborts a run.
	ErrStepFailed = errors.New("sequence step failed")
	// ErrInvalidStep is returned when a step is malformed. No step runs when any step is invalid.
	ErrInvalidStep = errors.New("invalid sequence step")
)

// Kind selects the store operation a step performs.
type Kind string

const (
	KindReset      Kind = "reset"
	KindUpdateMany Kind = "update_many"
	KindUpdateOne  Kind = "update_one"
	KindDeleteOne  Kind = "delete_one"
	KindDeleteMany Kind = "delete_many"
	KindFind       Kind = "find"
)

// Step is one operation of a sequence, expressed as data.
type Step struct {
	Name   string
	Kind   Kind
	Filter book.Filter
	Update book.Update
	Order  []book.Order
	Seed   []book.Book
	// Report is the title under which a find step's records are reported. Empty means silent.
	Report string
}

func Reset(name string, seed []book.Book) Step {
	return Step{Name: name, Kind: KindReset, Seed: seed}
}

func UpdateMany(name string, f book.Filter, u book.Update) Step {
	return Step{Name: name, Kind: KindUpdateMany, Filter: f, Update: u}
}

func UpdateOne(name string, f book.Filter, u book.Update) Step {
	return Step{Name: name, Kind: KindUpdateOne, Filter: f, Update: u}
}

func DeleteOne(name string, f book.Filter) Step {
	return Step{Name: name, Kind: KindDeleteOne, Filter: f}
}

func DeleteMany(name string, f book.Filter) Step {
	return Step{Name: name, Kind: KindDeleteMany, Filter: f}
}

func Find(name string, f book.Filter, order ...book.Order) Step {
	return Step{Name: name, Kind: KindFind, Filter: f, Order: order}
}

// Reported returns a copy of s whose result is reported under title.
func (s Step) Reported(title string) Step {
	s.Report = title
	return s
}

func (s Step) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidStep)
	}
	if s.Report != "" && s.Kind != KindFind {
		return fmt.Errorf("%w: %s: only find steps can be reported", ErrInvalidStep, s.Name)
	}

	var err error
	switch s.Kind {
	case KindReset:
		for _, b := range s.Seed {
			if err = b.Validate(); err != nil {
				break
			}
		}
	case KindUpdateMany, KindUpdateOne:
		if err = s.Filter.Validate(); err == nil {
			err = s.Update.Validate()
		}
	case KindDeleteOne, KindDeleteMany:
		err = s.Filter.Validate()
	case KindFind:
		if err = s.Filter.Validate(); err == nil {
			for _, o := range s.Order {
				if err = o.Validate(); err != nil {
					break
				}
			}
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidStep, s.Name, s.Kind)
	}
	if err != nil {
		return errors.Join(fmt.Errorf("%w: %s", ErrInvalidStep, s.Name), err)
	}
	return nil
}

func (s Step) String() string {
	switch s.Kind {
	case KindReset:
		return fmt.Sprintf("%s %s (%d records)", s.Kind, s.Name, len(s.Seed))
	case KindUpdateMany, KindUpdateOne:
		return fmt.Sprintf("%s %s %s set %s", s.Kind, s.Name, s.Filter, s.Update)
	}
	return fmt.Sprintf("%s %s %s", s.Kind, s.Name, s.Filter)
}
