package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rohmanhakim/askpdf/internal/guard"
	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"golang.org/x/sync/errgroup"
)

/*
 The batch coordinator runs one operation over a list of items and reports
 every outcome.

 Guarantees:
 - Every item is processed exactly once, behind its own boundary.
 - A failing item never aborts, cancels or reorders its siblings.
 - Processed holds one outcome per input item, in input order, whatever
   order the workers finished in.
 - Counts are derived from Processed after every item finished.
 - One BatchStats summary is recorded per run, after all items.

 The coordinator does not retry. Retry belongs to the caller.
*/

// Item is one unit of work. ID identifies the item in outcomes and in the
// error log (usually the file name).
type Item[I any] struct {
	ID    string
	Input I
}

type Outcome[T any] struct {
	ID    string
	Value T
	Err   *failure.Error
}

func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

type Result[T any] struct {
	RunID     string
	Processed []Outcome[T]
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Errors returns the failed outcomes' errors in input order.
func (r Result[T]) Errors() []*failure.Error {
	var errs []*failure.Error
	for _, o := range r.Processed {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

type options struct {
	concurrency int
	fallback    failure.Kind
	rules       []guard.Rule
	finalizer   metadata.BatchFinalizer
	newRunID    func() string
}

type Option func(*options)

// WithConcurrency bounds the number of items in flight. Values below 1
// mean sequential processing.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.concurrency = n
	}
}

// WithFallback overrides the kind assigned to unclassified item failures.
func WithFallback(kind failure.Kind) Option {
	return func(o *options) {
		o.fallback = kind
	}
}

func WithRules(rules ...guard.Rule) Option {
	return func(o *options) {
		o.rules = append(o.rules, rules...)
	}
}

// WithFinalizer sets where the run summary goes. By default the sink is
// used when it also implements metadata.BatchFinalizer.
func WithFinalizer(f metadata.BatchFinalizer) Option {
	return func(o *options) {
		o.finalizer = f
	}
}

func withRunID(fn func() string) Option {
	return func(o *options) {
		o.newRunID = fn
	}
}

// Run processes items with op and returns the per-item outcomes.
func Run[I, T any](
	ctx context.Context,
	sink metadata.Sink,
	items []Item[I],
	op func(context.Context, I) (T, error),
	opts ...Option,
) Result[T] {
	o := options{
		concurrency: 1,
		fallback:    failure.KindFile,
		newRunID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.finalizer == nil {
		if f, ok := sink.(metadata.BatchFinalizer); ok {
			o.finalizer = f
		}
	}

	runID := o.newRunID()
	start := time.Now()
	boundary := guard.NewBoundary(sink, o.fallback, o.rules...)

	// each worker writes only its own slot
	processed := make([]Outcome[T], len(items))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, item := range items {
		g.Go(func() error {
			value, err := guard.RunBoundary(ctx, boundary, func(ctx context.Context) (T, error) {
				return op(ctx, item.Input)
			}, failure.Details{
				metadata.AttrIdentifier: item.ID,
				metadata.AttrBatchID:    runID,
			})
			processed[i] = Outcome[T]{ID: item.ID, Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := Result[T]{
		RunID:     runID,
		Processed: processed,
		Duration:  time.Since(start),
	}
	for _, p := range processed {
		if p.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	if o.finalizer != nil {
		o.finalizer.RecordBatch(metadata.NewBatchStats(
			runID,
			len(processed),
			result.Succeeded,
			result.Failed,
			result.Duration,
		))
	}

	return result
}
