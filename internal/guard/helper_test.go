package guard_test

import (
	"sync"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/stretchr/testify/mock"
)

type sinkMock struct {
	mock.Mock
}

func (s *sinkMock) RecordError(record metadata.ErrorRecord) {
	s.Called(record)
}

// collectingSink keeps every record; safe for concurrent use.
type collectingSink struct {
	mu      sync.Mutex
	records []metadata.ErrorRecord
}

func (c *collectingSink) RecordError(record metadata.ErrorRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
}

func (c *collectingSink) Records() []metadata.ErrorRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]metadata.ErrorRecord, len(c.records))
	copy(out, c.records)
	return out
}
