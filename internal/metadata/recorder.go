package metadata

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rohmanhakim/askpdf/pkg/fileutil"
)

/*
Logging goals
- Post-run auditability of every classified failure
- One record per line, never interleaved
- Logging is never the cause of a user-visible failure

The durable file receives JSON lines; the console mirror receives the same
record as text. If the durable file cannot be written the recorder degrades
to console-only and keeps going.

Metadata is write-only.
No component may read it back to influence control flow.
*/

// DefaultLogPath is the fixed location of the durable audit log.
const DefaultLogPath = "askpdf_errors.log"

// Sink receives classified failure records.
type Sink interface {
	RecordError(record ErrorRecord)
}

// BatchFinalizer receives the summary of a finished batch.
type BatchFinalizer interface {
	RecordBatch(stats BatchStats)
}

var (
	_ Sink           = (*Recorder)(nil)
	_ BatchFinalizer = (*Recorder)(nil)
)

// Recorder is a lifecycle-scoped logging handle:
// NewRecorder -> Initialize (idempotent) -> RecordError... -> Shutdown.
// All methods are safe for concurrent use.
type Recorder struct {
	path string

	mu          sync.Mutex
	initialized bool
	closed      bool
	degraded    bool
	file        *os.File
	fileHandler slog.Handler
	console     slog.Handler
}

func NewRecorder(path string, console io.Writer) *Recorder {
	if console == nil {
		console = os.Stderr
	}
	return &Recorder{
		path:    path,
		console: slog.NewTextHandler(console, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
}

// Initialize opens (or creates) the durable append-only log. The first
// successful call wins; later calls are no-ops. On error the recorder stays
// usable in console-only mode and the caller decides whether that is fatal.
func (r *Recorder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized || r.closed {
		return nil
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := fileutil.EnsureDir(dir); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	r.file = file
	r.fileHandler = slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	r.initialized = true
	r.degraded = false
	return nil
}

// Shutdown flushes and closes the durable log. Subsequent records go to the
// console only.
func (r *Recorder) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.file == nil {
		return nil
	}

	// fsync is not supported on every target (e.g. character devices)
	_ = r.file.Sync()
	err := r.file.Close()
	r.file = nil
	r.fileHandler = nil
	return err
}

// Degraded reports whether a durable write failed and the recorder fell
// back to console-only output.
func (r *Recorder) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded
}

func (r *Recorder) RecordError(record ErrorRecord) {
	rec := slog.NewRecord(record.ObservedAt(), slog.LevelError, "askpdf error", 0)
	rec.AddAttrs(
		slog.String("kind", record.Kind().String()),
		slog.String("code", string(record.Code())),
		slog.String("message", record.Message()),
		contextGroup(record.Context()),
	)
	r.emit(rec)
}

/*
RecordBatch records the terminal summary of a batch.

Contract:
  - MUST be called exactly once per batch, after every item finished.
  - The stats MUST be derived from the batch result, not accumulated here.
*/
func (r *Recorder) RecordBatch(stats BatchStats) {
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "batch finished", 0)
	rec.AddAttrs(
		slog.String(AttrBatchID, stats.BatchID()),
		slog.Int("total", stats.Total()),
		slog.Int("succeeded", stats.Succeeded()),
		slog.Int("failed", stats.Failed()),
		slog.Int64("duration_ms", stats.Duration().Milliseconds()),
	)
	r.emit(rec)
}

func (r *Recorder) emit(rec slog.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := context.Background()
	if r.fileHandler != nil {
		if err := r.fileHandler.Handle(ctx, rec.Clone()); err != nil {
			r.degradeLocked(ctx, err)
		}
	}
	// console failures have nowhere left to go
	_ = r.console.Handle(ctx, rec)
}

func (r *Recorder) degradeLocked(ctx context.Context, cause error) {
	if r.file != nil {
		_ = r.file.Close()
	}
	r.file = nil
	r.fileHandler = nil
	r.degraded = true

	warn := slog.NewRecord(time.Now(), slog.LevelWarn, "durable log unavailable, continuing console-only", 0)
	warn.AddAttrs(
		slog.String(AttrPath, r.path),
		slog.String("error", cause.Error()),
	)
	_ = r.console.Handle(ctx, warn)
}

// contextGroup renders details with sorted keys so lines are stable.
func contextGroup(details map[string]any) slog.Attr {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, details[k]))
	}
	return slog.Group("context", attrs...)
}
