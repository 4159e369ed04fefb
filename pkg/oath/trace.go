package oath

// TraceSink receives diagnostic events describing each step of a code
// computation. A nil sink means tracing is off; implementations must be
// safe for concurrent use.
type TraceSink interface {
	Tracef(format string, args ...any)
}

// TraceFunc adapts a function to the TraceSink interface.
type TraceFunc func(format string, args ...any)

// Tracef executes the underlying function.
func (f TraceFunc) Tracef(format string, args ...any) {
	f(format, args...)
}
