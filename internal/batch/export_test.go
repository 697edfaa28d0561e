package batch

// WithRunID pins the run identifier in tests.
func WithRunID(fn func() string) Option {
	return withRunID(fn)
}
