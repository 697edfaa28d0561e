package batch_test

import (
	"sync"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/stretchr/testify/mock"
)

// recordingSink collects error records and batch summaries.
type recordingSink struct {
	mu      sync.Mutex
	records []metadata.ErrorRecord
	batches []metadata.BatchStats
}

func (r *recordingSink) RecordError(record metadata.ErrorRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func (r *recordingSink) RecordBatch(stats metadata.BatchStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, stats)
}

func (r *recordingSink) Records() []metadata.ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]metadata.ErrorRecord(nil), r.records...)
}

func (r *recordingSink) Batches() []metadata.BatchStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]metadata.BatchStats(nil), r.batches...)
}

// errorOnlySink does not implement metadata.BatchFinalizer.
type errorOnlySink struct {
	mock.Mock
}

func (e *errorOnlySink) RecordError(record metadata.ErrorRecord) {
	e.Called(record)
}

type finalizerMock struct {
	mock.Mock
}

func (f *finalizerMock) RecordBatch(stats metadata.BatchStats) {
	f.Called(stats)
}
