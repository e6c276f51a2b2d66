package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-pagetree/pkg/interfaces"
)

// LogEntry is one call captured by RecordingLogger.
type LogEntry struct {
	Level  string
	Msg    string
	Args   []any
	Fields map[string]any
}

// RecordingLogger captures log calls for assertions. Loggers derived through
// WithFields share the parent's entry list.
type RecordingLogger struct {
	sink   *logSink
	fields map[string]any
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &logSink{}}
}

// GetLogger implements interfaces.LoggerProvider; every name shares the sink.
func (l *RecordingLogger) GetLogger(name string) interfaces.Logger {
	return l.WithFields(map[string]any{"logger": name})
}

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingLogger{sink: l.sink, fields: merged}
}

// Entries returns a snapshot of everything recorded so far.
func (l *RecordingLogger) Entries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return append([]LogEntry(nil), l.sink.entries...)
}

// Messages returns the recorded messages at level.
func (l *RecordingLogger) Messages(level string) []string {
	var out []string
	for _, entry := range l.Entries() {
		if entry.Level == level {
			out = append(out, entry.Msg)
		}
	}
	return out
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:  level,
		Msg:    msg,
		Args:   append([]any(nil), args...),
		Fields: l.fields,
	})
}
