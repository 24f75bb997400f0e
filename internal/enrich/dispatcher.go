package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/headcount/internal/lookup"
	"github.com/sells-group/headcount/internal/model"
)

const (
	// DefaultConcurrency bounds in-flight lookups per job. Kept small to
	// respect external service rate limits.
	DefaultConcurrency = 4

	// DefaultLookupTimeout bounds one lookup including its retries.
	DefaultLookupTimeout = 45 * time.Second
)

// Dispatcher fans lookups out over a bounded worker pool. Each job gets
// its own pool sized at Run time; nothing is shared across jobs. The
// dispatcher is the sole writer of record status.
type Dispatcher struct {
	client      lookup.Client
	concurrency int
	timeout     time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithConcurrency sets the worker pool ceiling.
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLookupTimeout sets the per-lookup deadline.
func WithLookupTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// NewDispatcher creates a dispatcher that resolves rows via client.
func NewDispatcher(client lookup.Client, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		client:      client,
		concurrency: DefaultConcurrency,
		timeout:     DefaultLookupTimeout,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Run resolves every pending record in the job and applies the results in
// ordinal order. Individual lookup failures mark their row failed and
// never abort the job; the only error Run returns is caller cancellation.
// Progress is reported per completed lookup; reporter may be nil.
func (d *Dispatcher) Run(ctx context.Context, job *Job, reporter *Reporter) error {
	log := zap.L().With(zap.String("job_id", job.ID))
	log.Info("dispatching lookups",
		zap.Int("records", job.Total),
		zap.String("country", job.Country),
		zap.Int("concurrency", d.concurrency),
	)

	// Ordinal-indexed arena: worker i writes only results[i], so the
	// slice needs no lock.
	results := make([]model.LookupResult, len(job.Records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i := range job.Records {
		rec := job.Records[i]
		g.Go(func() error {
			results[i] = model.LookupResult{
				Ordinal: rec.Ordinal,
				Outcome: d.lookupOne(gctx, rec),
			}
			if reporter != nil {
				reporter.Complete()
			}
			return nil
		})
	}

	// Workers never return errors; Wait is for draining only.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "enrich: job canceled")
	}

	Aggregate(job, results)
	if reporter != nil {
		reporter.Finish()
	}

	resolved, notFound, failed := job.Counts()
	log.Info("job complete",
		zap.Int("total", job.Total),
		zap.Int("resolved", resolved),
		zap.Int("not_found", notFound),
		zap.Int("failed", failed),
	)

	return nil
}

// lookupOne performs a single lookup under the per-request timeout. A
// lookup that exceeds the deadline is a row-level transient failure, not a
// job failure.
func (d *Dispatcher) lookupOne(ctx context.Context, rec model.CompanyRecord) model.Outcome {
	if err := ctx.Err(); err != nil {
		return model.Failed(err.Error())
	}

	lctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return d.client.Lookup(lctx, rec.Name, rec.Country)
}
