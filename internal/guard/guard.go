package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
)

/*
A boundary is any point where the outcome of an underlying operation must be
classified before it is handed back to the caller.

Classification is two-tier:
  - failures already classified close to the fault are authoritative and
    are returned unchanged
  - anything else is reclassified here using the boundary's fallback kind
    (optionally refined by Rules) and that kind's default code

Exactly one error record is emitted per call that ends in a failure; a
successful call emits nothing. Envelope building is the caller's job.
*/

// Rule refines the classification of an unclassified error before the
// fallback kind applies. ok=false means the rule does not match.
type Rule func(err error) (kind failure.Kind, code failure.Code, ok bool)

type Boundary struct {
	sink     metadata.Sink
	fallback failure.Kind
	rules    []Rule
}

// NewBoundary creates a boundary reporting to sink. A nil sink discards
// records.
func NewBoundary(sink metadata.Sink, fallback failure.Kind, rules ...Rule) Boundary {
	if sink == nil {
		sink = &metadata.NoopSink{}
	}
	return Boundary{
		sink:     sink,
		fallback: fallback,
		rules:    rules,
	}
}

func (b Boundary) Fallback() failure.Kind {
	return b.fallback
}

// Run executes op behind a rule-less boundary with the given fallback kind.
func Run[T any](
	ctx context.Context,
	sink metadata.Sink,
	op func(context.Context) (T, error),
	fallback failure.Kind,
	details failure.Details,
) (T, *failure.Error) {
	return RunBoundary(ctx, NewBoundary(sink, fallback), op, details)
}

// RunBoundary executes op and guarantees the caller receives either its
// value or a classified error. Panics raised by op are recovered and
// classified like any other unclassified failure.
func RunBoundary[T any](
	ctx context.Context,
	b Boundary,
	op func(context.Context) (T, error),
	details failure.Details,
) (T, *failure.Error) {
	value, err := invoke(ctx, op)
	if err == nil {
		return value, nil
	}

	classified := b.classify(err, details)
	b.sink.RecordError(metadata.RecordFromError(classified, details))

	var zero T
	return zero, classified
}

// Do is RunBoundary for operations without a result value.
func Do(
	ctx context.Context,
	b Boundary,
	op func(context.Context) error,
	details failure.Details,
) *failure.Error {
	_, err := RunBoundary(ctx, b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, details)
	return err
}

func invoke[T any](ctx context.Context, op func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = &panicError{value: r}
		}
	}()
	return op(ctx)
}

func (b Boundary) classify(err error, details failure.Details) *failure.Error {
	if classified, ok := failure.As(err); ok {
		return classified
	}

	message := describe(err)

	var p *panicError
	if errors.As(err, &p) {
		details = failure.Details{metadata.AttrPanic: true}.Merge(details)
	}

	var foreign failure.ClassifiedError
	if errors.As(err, &foreign) {
		return failure.Wrap(foreign.Kind(), foreign.Code(), message, err, details)
	}

	for _, rule := range b.rules {
		if kind, code, ok := rule(err); ok {
			return failure.Wrap(kind, code, message, err, details)
		}
	}

	return failure.Wrap(b.fallback, failure.DefaultCode(b.fallback), message, err, details)
}

// describe never returns an empty string, so classification cannot trip
// the non-empty message assertion.
func describe(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("unclassified failure (%T)", err)
}

type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
