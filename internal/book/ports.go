package book

import (
	"context"
	"errors"
)

var (
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("book store unavailable")
	// ErrBuildingQueryFailed is returned when a filter or update cannot be compiled for the store.
	ErrBuildingQueryFailed = errors.New("building query failed")
	// ErrQueryFailed is returned when the store rejects or fails a statement.
	ErrQueryFailed = errors.New("query failed")
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book record storage. Every call is atomic over
// the collection. Matching no records is a valid outcome and reported as a zero count.
type Repository interface {
	// Reset discards every record and inserts seed.
	Reset(ctx context.Context, seed []Book) error
	InsertMany(ctx context.Context, books []Book) error
	UpdateMany(ctx context.Context, f Filter, u Update) (int64, error)
	// UpdateOne updates the first matching record in insertion order.
	UpdateOne(ctx context.Context, f Filter, u Update) (int64, error)
	// DeleteOne removes the first matching record in insertion order.
	DeleteOne(ctx context.Context, f Filter) (int64, error)
	DeleteMany(ctx context.Context, f Filter) (int64, error)
	// Find returns matching records sorted by order, then insertion order.
	Find(ctx context.Context, f Filter, order ...Order) ([]Book, error)
	Ping(ctx context.Context) error
}

// Logger is the logging surface the stores need. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
