package log

// MultiLogger fans one trace event out to several sinks, the way
// wham-device fans its trace log out to both the console (SlogAdapter) and
// the on-disk CBOR log (FileLogger) when --log-file is set. Nil loggers
// passed to NewMultiLogger are skipped rather than panicking on Log.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a MultiLogger sending every event to each of
// loggers in order.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	filtered := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			filtered = append(filtered, l)
		}
	}
	return &MultiLogger{loggers: filtered}
}

// Log sends event to every configured logger in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
