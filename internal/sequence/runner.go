package sequence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"bookops/internal/book"
)

const (
	logMsgRunStarted    = "sequence started"
	logMsgRunCompleted  = "sequence completed"
	logMsgRunAborted    = "sequence aborted"
	logMsgStepCompleted = "step completed"
	logMsgStepNoMatch   = "step matched no records"
	logAttrRunID        = "run_id"
	logAttrStep         = "step"
	logAttrIndex        = "index"
	logAttrKind         = "kind"
	logAttrFilter       = "filter"
	logAttrAffected     = "affected"
	logAttrSteps        = "steps"
	logAttrDurationMS   = "duration_ms"
	logAttrError        = "error"
)

// Reporter receives the records of reported find steps.
type Reporter interface {
	Report(title string, books []book.Book) error
}

// Metrics records the outcome of each executed step.
type Metrics interface {
	ObserveStep(kind string, affected int64, d time.Duration, err error)
}

// StepResult is the outcome of one executed step.
type StepResult struct {
	Step Step
	// Affected counts the records inserted, updated or deleted; for finds, the records returned.
	Affected int64
	Books    []book.Book
	Duration time.Duration
}

type Result struct {
	RunID string
	Steps []StepResult
}

// Lookup returns the result of the named step.
func (r Result) Lookup(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Runner executes steps against a book.Repository strictly in order.
type Runner struct {
	repo     book.Repository
	logger   book.Logger
	reporter Reporter
	metrics  Metrics
}

type Option func(*Runner)

func WithLogger(logger book.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithReporter(reporter Reporter) Option {
	return func(r *Runner) {
		r.reporter = reporter
	}
}

func WithMetrics(metrics Metrics) Option {
	return func(r *Runner) {
		r.metrics = metrics
	}
}

func NewRunner(repo book.Repository, opts ...Option) *Runner {
	r := &Runner{repo: repo}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates every step, then executes them one after another. The first failing
// step aborts the run; the returned Result holds the steps that completed.
func (r *Runner) Run(ctx context.Context, steps []Step) (Result, error) {
	res := Result{RunID: uuid.NewString(), Steps: make([]StepResult, 0, len(steps))}

	for _, s := range steps {
		if err := s.Validate(); err != nil {
			return res, err
		}
	}

	r.logInfo(logMsgRunStarted, logAttrRunID, res.RunID, logAttrSteps, len(steps))
	start := time.Now()

	for i, s := range steps {
		sr, err := r.runStep(ctx, s)
		if r.metrics != nil {
			r.metrics.ObserveStep(string(s.Kind), sr.Affected, sr.Duration, err)
		}
		if err == nil && s.Report != "" && r.reporter != nil {
			err = r.reporter.Report(s.Report, sr.Books)
		}
		if err != nil {
			r.logError(logMsgRunAborted,
				logAttrRunID, res.RunID,
				logAttrIndex, i+1,
				logAttrStep, s.Name,
				logAttrError, err.Error())
			return res, fmt.Errorf("%w: step %d (%s): %w", ErrStepFailed, i+1, s.Name, err)
		}

		res.Steps = append(res.Steps, sr)
		r.logStep(res.RunID, i+1, sr)
	}

	r.logInfo(logMsgRunCompleted, logAttrRunID, res.RunID, logAttrDurationMS, durationToMilliseconds(time.Since(start)))
	return res, nil
}

func (r *Runner) runStep(ctx context.Context, s Step) (StepResult, error) {
	sr := StepResult{Step: s}
	if err := ctx.Err(); err != nil {
		return sr, err
	}

	start := time.Now()
	var err error
	switch s.Kind {
	case KindReset:
		err = r.repo.Reset(ctx, s.Seed)
		sr.Affected = int64(len(s.Seed))
	case KindUpdateMany:
		sr.Affected, err = r.repo.UpdateMany(ctx, s.Filter, s.Update)
	case KindUpdateOne:
		sr.Affected, err = r.repo.UpdateOne(ctx, s.Filter, s.Update)
	case KindDeleteOne:
		sr.Affected, err = r.repo.DeleteOne(ctx, s.Filter)
	case KindDeleteMany:
		sr.Affected, err = r.repo.DeleteMany(ctx, s.Filter)
	case KindFind:
		sr.Books, err = r.repo.Find(ctx, s.Filter, s.Order...)
		sr.Affected = int64(len(sr.Books))
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, s.Kind)
	}
	sr.Duration = time.Since(start)
	if err != nil {
		sr.Affected = 0
	}
	return sr, err
}

func (r *Runner) logStep(runID string, index int, sr StepResult) {
	msg := logMsgStepCompleted
	if sr.Affected == 0 && sr.Step.Kind != KindReset {
		msg = logMsgStepNoMatch
	}
	r.logInfo(msg,
		logAttrRunID, runID,
		logAttrIndex, index,
		logAttrStep, sr.Step.Name,
		logAttrKind, string(sr.Step.Kind),
		logAttrFilter, sr.Step.Filter.String(),
		logAttrAffected, sr.Affected,
		logAttrDurationMS, durationToMilliseconds(sr.Duration))
}

func (r *Runner) logInfo(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *Runner) logError(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}

// IsStoreFailure reports whether err came from the store rather than from a malformed step.
func IsStoreFailure(err error) bool {
	return errors.Is(err, book.ErrStoreUnavailable) || errors.Is(err, book.ErrQueryFailed) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
