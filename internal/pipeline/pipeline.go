package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/google/uuid"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
	"github.com/couchcryptid/berlin-dashboard/internal/observability"
	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

const maxBackoff = 5 * time.Second

// FeedFetcher retrieves the raw per-district case table.
type FeedFetcher interface {
	Fetch(ctx context.Context) (domain.RawTable, error)
	Source() string
}

// Options tunes fetch retries.
type Options struct {
	Retries        int
	InitialBackoff time.Duration
}

// Pipeline runs one fetch-normalize-compute-present pass per call.
type Pipeline struct {
	fetcher FeedFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
	ready   atomic.Bool
}

// New creates a Pipeline with the given feed source and observability.
func New(f FeedFetcher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &Pipeline{
		fetcher: f,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once a run has fetched and normalized the feed,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("feed has not been loaded yet")
	}
	return nil
}

// Run resolves the selection and produces the dashboard for it.
func (p *Pipeline) Run(ctx context.Context, sel domain.Selection) (presentation.Dashboard, error) {
	start := time.Now()
	logger := p.logger.With("run_id", uuid.NewString())

	resolved, err := sel.Resolve()
	if err != nil {
		p.finish(logger, start, err)
		return presentation.Dashboard{}, err
	}

	derived, _, err := p.derive(ctx, logger, resolved.Entities)
	if err != nil {
		p.finish(logger, start, err)
		return presentation.Dashboard{}, err
	}

	d := presentation.Build(derived, resolved, domain.Now())
	p.finish(logger, start, nil,
		"entities", resolved.Entities,
		"window_days", resolved.WindowDays,
		"data_through", d.DataThrough.Format(time.DateOnly),
	)
	return d, nil
}

// Derive fetches and normalizes the feed and computes series for entities.
// The normalized records are returned alongside.
func (p *Pipeline) Derive(ctx context.Context, entities []string) (map[string]domain.DerivedSeries, []domain.DailyRecord, error) {
	return p.derive(ctx, p.logger.With("run_id", uuid.NewString()), entities)
}

// Latest returns the most recent figures for every catalog entity, in catalog order.
func (p *Pipeline) Latest(ctx context.Context) ([]domain.Snapshot, error) {
	names := domain.EntityNames()
	derived, _, err := p.Derive(ctx, names)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Snapshot, 0, len(names))
	for _, name := range names {
		if snap, ok := domain.Latest(derived[name]); ok {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (p *Pipeline) derive(ctx context.Context, logger *slog.Logger, entities []string) (map[string]domain.DerivedSeries, []domain.DailyRecord, error) {
	raw, err := p.fetch(ctx, logger)
	if err != nil {
		return nil, nil, err
	}

	records, err := domain.Normalize(raw)
	if err != nil {
		logger.Error("normalize feed failed", "error", err)
		return nil, nil, err
	}
	p.metrics.FeedRows.Set(float64(len(records)))
	p.ready.Store(true)

	derived, err := domain.Compute(records, entities)
	if err != nil {
		return nil, nil, err
	}
	return derived, records, nil
}

// fetch retries the feed with exponential backoff. The last error is wrapped
// in a FetchError carrying the attempt count.
func (p *Pipeline) fetch(ctx context.Context, logger *slog.Logger) (domain.RawTable, error) {
	attempts := 1 + p.opts.Retries
	backoff := p.opts.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		raw, err := p.fetcher.Fetch(ctx)
		p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		if err == nil {
			p.metrics.FetchAttempts.WithLabelValues("success").Inc()
			logger.Debug("feed fetched", "attempt", attempt, "rows", len(raw.Rows))
			return raw, nil
		}
		p.metrics.FetchAttempts.WithLabelValues("error").Inc()
		lastErr = err

		if ctx.Err() != nil {
			return domain.RawTable{}, &domain.FetchError{URL: p.fetcher.Source(), Attempts: attempt, Err: err}
		}
		if attempt == attempts {
			break
		}

		logger.Warn("feed fetch failed, retrying", "error", err, "attempt", attempt, "backoff", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return domain.RawTable{}, &domain.FetchError{URL: p.fetcher.Source(), Attempts: attempt, Err: ctx.Err()}
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	logger.Error("feed fetch failed", "error", lastErr, "attempts", attempts)
	return domain.RawTable{}, &domain.FetchError{URL: p.fetcher.Source(), Attempts: attempts, Err: lastErr}
}

func (p *Pipeline) finish(logger *slog.Logger, start time.Time, err error, attrs ...any) {
	elapsed := time.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	outcome := Outcome(err)
	p.metrics.Runs.WithLabelValues(outcome).Inc()

	if err != nil {
		logger.Warn("dashboard run failed", "outcome", outcome, "error", err, "duration", elapsed)
		return
	}
	logger.Info("dashboard run complete", append(attrs, "duration", elapsed)...)
}

// Outcome classifies a run error for metrics and status mapping.
func Outcome(err error) string {
	var (
		fetchErr  *domain.FetchError
		parseErr  *domain.ParseError
		entityErr *domain.UnknownEntityError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &entityErr), errors.Is(err, domain.ErrInvalidWindow):
		return "selection_error"
	case errors.As(err, &fetchErr):
		return "fetch_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "error"
	}
}

// Describe formats a run error for display.
func Describe(err error) string {
	switch Outcome(err) {
	case "selection_error":
		return fmt.Sprintf("invalid selection: %v", err)
	case "fetch_error":
		return fmt.Sprintf("could not load case data: %v", err)
	case "parse_error":
		return fmt.Sprintf("case data is malformed: %v", err)
	default:
		return err.Error()
	}
}
