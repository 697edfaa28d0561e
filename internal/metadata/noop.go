package metadata

// NoopSink implements Sink and BatchFinalizer but does nothing.
// Callers (or tests) decide whether to inject a Recorder or a NoopSink,
// which keeps logging orthogonal to the code being exercised.
type NoopSink struct{}

var (
	_ Sink           = (*NoopSink)(nil)
	_ BatchFinalizer = (*NoopSink)(nil)
)

func (n *NoopSink) RecordError(record ErrorRecord) {}

func (n *NoopSink) RecordBatch(stats BatchStats) {}
