// Package testutil provides shared fixtures and test doubles: molecule
// graphs for matching scenarios and a recording logger.
package testutil

import (
	"sync"

	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
)

// LogMessage is one entry captured by RecordingLogger.
type LogMessage struct {
	Level   string
	Name    string
	Message string
	Fields  []logging.Field
}

// RecordingLogger implements logging.Logger and keeps every entry in memory.
// Children created by With and Named share the parent's record.
type RecordingLogger struct {
	store  *logStore
	name   string
	fields []logging.Field
}

type logStore struct {
	mu       sync.Mutex
	messages []LogMessage
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{store: &logStore{}}
}

func (r *RecordingLogger) log(level, msg string, fields []logging.Field) {
	all := append(append([]logging.Field(nil), r.fields...), fields...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.messages = append(r.store.messages, LogMessage{Level: level, Name: r.name, Message: msg, Fields: all})
}

func (r *RecordingLogger) Debug(msg string, fields ...logging.Field) { r.log("debug", msg, fields) }
func (r *RecordingLogger) Info(msg string, fields ...logging.Field)  { r.log("info", msg, fields) }
func (r *RecordingLogger) Warn(msg string, fields ...logging.Field)  { r.log("warn", msg, fields) }
func (r *RecordingLogger) Error(msg string, fields ...logging.Field) { r.log("error", msg, fields) }
func (r *RecordingLogger) Fatal(msg string, fields ...logging.Field) { r.log("fatal", msg, fields) }
func (r *RecordingLogger) Sync() error                               { return nil }

func (r *RecordingLogger) With(fields ...logging.Field) logging.Logger {
	return &RecordingLogger{store: r.store, name: r.name, fields: append(append([]logging.Field(nil), r.fields...), fields...)}
}

func (r *RecordingLogger) Named(name string) logging.Logger {
	n := name
	if r.name != "" {
		n = r.name + "." + name
	}
	return &RecordingLogger{store: r.store, name: n, fields: r.fields}
}

// Messages returns a copy of the captured entries.
func (r *RecordingLogger) Messages() []LogMessage {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]LogMessage(nil), r.store.messages...)
}

// HasMessage reports whether an entry with level and msg was captured.
func (r *RecordingLogger) HasMessage(level, msg string) bool {
	for _, m := range r.Messages() {
		if m.Level == level && m.Message == msg {
			return true
		}
	}
	return false
}

// FieldValue returns the value of key on the first entry with msg.
func (r *RecordingLogger) FieldValue(msg, key string) (interface{}, bool) {
	for _, m := range r.Messages() {
		if m.Message != msg {
			continue
		}
		for _, f := range m.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	}
	return nil, false
}

//Personal.AI order the ending
