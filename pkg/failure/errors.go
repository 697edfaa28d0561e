package failure

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

// ClassifiedError is implemented by every error that already knows its
// place in the taxonomy. Boundaries trust it and never reclassify it.
type ClassifiedError interface {
	error
	Kind() Kind
	Code() Code
}

// Details holds free-form scalar context attached to an error.
type Details map[string]any

// Merge returns a new Details holding d overlaid by other.
// Keys already present in d win.
func (d Details) Merge(other Details) Details {
	merged := make(Details, len(d)+len(other))
	maps.Copy(merged, other)
	maps.Copy(merged, d)
	return merged
}

func (d Details) clone() Details {
	if len(d) == 0 {
		return nil
	}
	return maps.Clone(d)
}

// Compile-time interface check
var _ ClassifiedError = (*Error)(nil)

// Error is the single structured error value of the service.
// It is immutable once constructed.
type Error struct {
	kind       Kind
	code       Code
	message    string
	details    Details
	occurredAt time.Time
	cause      error
}

// New builds a classified error. An empty code, or a code foreign to kind,
// is replaced by DefaultCode(kind). An empty message is a programming
// defect and panics.
func New(kind Kind, code Code, message string, details Details) *Error {
	return Wrap(kind, code, message, nil, details)
}

// Wrap is New with an underlying cause kept for errors.Is / errors.As.
func Wrap(kind Kind, code Code, message string, cause error, details Details) *Error {
	if message == "" {
		panic("failure: structured error requires a non-empty message")
	}
	kind, code = normalize(kind, code)
	return &Error{
		kind:       kind,
		code:       code,
		message:    message,
		details:    details.clone(),
		occurredAt: time.Now(),
		cause:      cause,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.kind, e.code, e.message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Message() string {
	return e.message
}

// Details returns a copy; the error itself is never mutated.
func (e *Error) Details() Details {
	return e.details.clone()
}

func (e *Error) OccurredAt() time.Time {
	return e.occurredAt
}

// Is matches another *Error with the same kind and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.code == e.code
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsKind reports whether err carries a classification of the given kind.
func IsKind(err error, kind Kind) bool {
	var classified ClassifiedError
	if !errors.As(err, &classified) {
		return false
	}
	return classified.Kind() == kind
}
