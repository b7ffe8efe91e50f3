package book

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	logMsgSQLExecuted   = "executed sql for: "
	logMsgQueryFailed   = "database statement failed"
	logMsgBuildFailed   = "failed to build statement"
	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	logger  Logger
	sql     statementBuilder
}

// PostgresOption configures a PostgresRepo.
type PostgresOption func(*PostgresRepo)

// WithLogger makes the repo log every statement at debug level and failures at error level.
func WithLogger(logger Logger) PostgresOption {
	return func(r *PostgresRepo) {
		r.logger = logger
	}
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration, opts ...PostgresOption) *PostgresRepo {
	r := &PostgresRepo{db: db, timeout: timeout, sql: newStatementBuilder(CollectionName)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.Ping(timeoutCtx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Reset truncates the table and inserts seed inside one transaction.
func (r *PostgresRepo) Reset(ctx context.Context, seed []Book) error {
	if err := validateBooks(seed); err != nil {
		return err
	}
	truncateSQL, err := r.sql.truncate()
	if err != nil {
		return r.buildFailed(err)
	}
	var insertSQL string
	var insertArgs []any
	if len(seed) > 0 {
		if insertSQL, insertArgs, err = r.sql.insert(seed); err != nil {
			return r.buildFailed(err)
		}
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err = pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(timeoutCtx, truncateSQL); err != nil {
			return err
		}
		if insertSQL == "" {
			return nil
		}
		_, err := tx.Exec(timeoutCtx, insertSQL, insertArgs...)
		return err
	})
	r.logQuery("reset", truncateSQL+"; "+insertSQL, time.Since(start), int64(len(seed)))
	if err != nil {
		return r.queryFailed(err, truncateSQL)
	}
	return nil
}

func (r *PostgresRepo) InsertMany(ctx context.Context, books []Book) error {
	if len(books) == 0 {
		return nil
	}
	if err := validateBooks(books); err != nil {
		return err
	}
	query, args, err := r.sql.insert(books)
	if err != nil {
		return r.buildFailed(err)
	}
	_, err = r.exec(ctx, "insert", query, args)
	return err
}

func (r *PostgresRepo) UpdateMany(ctx context.Context, f Filter, u Update) (int64, error) {
	query, args, err := r.sql.update(f, u, false)
	if err != nil {
		return 0, r.buildFailed(err)
	}
	return r.exec(ctx, "update many", query, args)
}

func (r *PostgresRepo) UpdateOne(ctx context.Context, f Filter, u Update) (int64, error) {
	query, args, err := r.sql.update(f, u, true)
	if err != nil {
		return 0, r.buildFailed(err)
	}
	return r.exec(ctx, "update one", query, args)
}

func (r *PostgresRepo) DeleteOne(ctx context.Context, f Filter) (int64, error) {
	query, args, err := r.sql.delete(f, true)
	if err != nil {
		return 0, r.buildFailed(err)
	}
	return r.exec(ctx, "delete one", query, args)
}

func (r *PostgresRepo) DeleteMany(ctx context.Context, f Filter) (int64, error) {
	query, args, err := r.sql.delete(f, false)
	if err != nil {
		return 0, r.buildFailed(err)
	}
	return r.exec(ctx, "delete many", query, args)
}

func (r *PostgresRepo) Find(ctx context.Context, f Filter, order ...Order) ([]Book, error) {
	query, args, err := r.sql.selectBooks(f, order...)
	if err != nil {
		return nil, r.buildFailed(err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		r.logQuery("find", query, time.Since(start), 0)
		return nil, r.queryFailed(err, query)
	}
	defer rows.Close()

	out := make([]Book, 0)
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.BookID, &b.Title, &b.Author, &b.Category, &b.Price, &b.InStock); err != nil {
			return nil, r.queryFailed(err, query)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, r.queryFailed(err, query)
	}
	r.logQuery("find", query, time.Since(start), int64(len(out)))
	return out, nil
}

func (r *PostgresRepo) exec(ctx context.Context, action, query string, args []any) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		r.logQuery(action, query, time.Since(start), 0)
		return 0, r.queryFailed(err, query)
	}
	r.logQuery(action, query, time.Since(start), tag.RowsAffected())
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) buildFailed(err error) error {
	if r.logger != nil {
		r.logger.Error(logMsgBuildFailed, logAttrError, err.Error())
	}
	if errors.Is(err, ErrInvalidFilter) || errors.Is(err, ErrInvalidUpdate) || errors.Is(err, ErrBuildingQueryFailed) {
		return err
	}
	return errors.Join(ErrBuildingQueryFailed, err)
}

func (r *PostgresRepo) queryFailed(err error, query string) error {
	if r.logger != nil {
		r.logger.Error(logMsgQueryFailed, logAttrError, err.Error(), logAttrQuery, query)
	}
	return errors.Join(ErrQueryFailed, err)
}

func (r *PostgresRepo) logQuery(action, query string, d time.Duration, rowsAffected int64) {
	if r.logger != nil {
		r.logger.Debug(logMsgSQLExecuted+action,
			logAttrDurationMS, durationToMilliseconds(d),
			logAttrRowsAffected, rowsAffected,
			logAttrQuery, query)
	}
}

// durationToMilliseconds converts d to milliseconds rounded to three decimals.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
