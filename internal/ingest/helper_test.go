package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/internal/store"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/stretchr/testify/mock"
)

type writerMock struct {
	mock.Mock
}

func (w *writerMock) AddChunks(ctx context.Context, chunks []store.Chunk) *failure.Error {
	args := w.Called(ctx, chunks)
	if err := args.Get(0); err != nil {
		return err.(*failure.Error)
	}
	return nil
}

// memoryWriter keeps chunks in memory; safe for concurrent use.
type memoryWriter struct {
	mu     sync.Mutex
	chunks []store.Chunk
}

func (m *memoryWriter) AddChunks(_ context.Context, chunks []store.Chunk) *failure.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *memoryWriter) IDs() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := map[string]bool{}
	for _, c := range m.chunks {
		ids[c.ID] = true
	}
	return ids
}

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

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
