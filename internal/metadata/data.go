package metadata

import (
	"time"

	"github.com/rohmanhakim/askpdf/pkg/failure"
)

// Well-known context keys attached to error records.
const (
	AttrIdentifier = "identifier"
	AttrBatchID    = "batch_id"
	AttrPath       = "path"
	AttrFilename   = "filename"
	AttrExtension  = "extension"
	AttrMissing    = "missing"
	AttrOperation  = "operation"
	AttrDocumentID = "document_id"
	AttrPanic      = "panic"
)

/*
ErrorRecord is one line of the audit trail.

  - Records are append-only and never read back by the service.
  - A record is derived from a classified error plus the context known at
    the boundary that observed it.
*/
type ErrorRecord struct {
	observedAt time.Time
	kind       failure.Kind
	code       failure.Code
	message    string
	context    failure.Details
}

func NewErrorRecord(
	observedAt time.Time,
	kind failure.Kind,
	code failure.Code,
	message string,
	context failure.Details,
) ErrorRecord {
	return ErrorRecord{
		observedAt: observedAt,
		kind:       kind,
		code:       code,
		message:    message,
		context:    context,
	}
}

// RecordFromError builds a record from err, with context filling keys the
// error's own details do not already set.
func RecordFromError(err *failure.Error, context failure.Details) ErrorRecord {
	return NewErrorRecord(
		err.OccurredAt(),
		err.Kind(),
		err.Code(),
		err.Message(),
		err.Details().Merge(context),
	)
}

func (r ErrorRecord) ObservedAt() time.Time {
	return r.observedAt
}

func (r ErrorRecord) Kind() failure.Kind {
	return r.kind
}

func (r ErrorRecord) Code() failure.Code {
	return r.code
}

func (r ErrorRecord) Message() string {
	return r.message
}

func (r ErrorRecord) Context() failure.Details {
	return r.context
}

/*
BatchStats is a terminal, derived summary of one batch run.
  - Computed by the batch coordinator after every item finished
  - Recorded exactly once per batch
  - Never influences item processing
*/
type BatchStats struct {
	batchID   string
	total     int
	succeeded int
	failed    int
	duration  time.Duration
}

func NewBatchStats(
	batchID string,
	total int,
	succeeded int,
	failed int,
	duration time.Duration,
) BatchStats {
	return BatchStats{
		batchID:   batchID,
		total:     total,
		succeeded: succeeded,
		failed:    failed,
		duration:  duration,
	}
}

func (s BatchStats) BatchID() string {
	return s.batchID
}

func (s BatchStats) Total() int {
	return s.total
}

func (s BatchStats) Succeeded() int {
	return s.succeeded
}

func (s BatchStats) Failed() int {
	return s.failed
}

func (s BatchStats) Duration() time.Duration {
	return s.duration
}
