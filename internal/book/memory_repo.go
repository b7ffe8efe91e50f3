package book

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepo is an in-memory Repository. Records keep their insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	books []Book
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Reset(ctx context.Context, seed []Book) error {
	if err := validateBooks(seed); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.books = append(make([]Book, 0, len(seed)), seed...)
	return nil
}

func (r *MemoryRepo) InsertMany(ctx context.Context, books []Book) error {
	if err := validateBooks(books); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.books = append(r.books, books...)
	return nil
}

func (r *MemoryRepo) UpdateMany(ctx context.Context, f Filter, u Update) (int64, error) {
	return r.update(f, u, -1)
}

func (r *MemoryRepo) UpdateOne(ctx context.Context, f Filter, u Update) (int64, error) {
	return r.update(f, u, 1)
}

func (r *MemoryRepo) update(f Filter, u Update, limit int) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if err := u.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := append(make([]Book, 0, len(r.books)), r.books...)
	var n int64
	for i, b := range next {
		if limit >= 0 && n >= int64(limit) {
			break
		}
		if !f.Matches(b) {
			continue
		}
		updated := u.Apply(b)
		if updated.Price < 0 {
			return 0, fmt.Errorf("%w: %s would get negative price %v", ErrInvalidUpdate, b.BookID, updated.Price)
		}
		next[i] = updated
		n++
	}
	r.books = next
	return n, nil
}

func (r *MemoryRepo) DeleteOne(ctx context.Context, f Filter) (int64, error) {
	return r.delete(f, 1)
}

func (r *MemoryRepo) DeleteMany(ctx context.Context, f Filter) (int64, error) {
	return r.delete(f, -1)
}

// delete evaluates f against the records as they were before the call.
func (r *MemoryRepo) delete(f Filter, limit int) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]Book, 0, len(r.books))
	var n int64
	for _, b := range r.books {
		if (limit < 0 || n < int64(limit)) && f.Matches(b) {
			n++
			continue
		}
		kept = append(kept, b)
	}
	r.books = kept
	return n, nil
}

func (r *MemoryRepo) Find(ctx context.Context, f Filter, order ...Order) ([]Book, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	for _, o := range order {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	SortBooks(out, order...)
	return out, nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func validateBooks(books []Book) error {
	for _, b := range books {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}
