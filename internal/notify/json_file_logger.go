package notify

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// AuditRecord is one line of the JSON audit trail. Every record carries its
// own unique id so downstream consumers can deduplicate replayed lines.
type AuditRecord struct {
	ID         string `json:"id"`
	OccurredAt string `json:"occurred_at"`
	Message    string `json:"message"`
}

// JSONFileLogger appends one JSON object per circulation event to an audit
// file, serialized with jsoniter and stamped with a fresh uuid per record.
// It complements the plain text log when a machine-readable trail is wanted.
type JSONFileLogger struct {
	path  string
	clock func() time.Time
}

// NewJSONFileLogger creates a JSONFileLogger appending to the given path.
func NewJSONFileLogger(path string) *JSONFileLogger {
	return NewJSONFileLoggerWithClock(path, time.Now)
}

// NewJSONFileLoggerWithClock creates a JSONFileLogger with an injected time
// source, so tests get stable timestamps.
func NewJSONFileLoggerWithClock(path string, clock func() time.Time) *JSONFileLogger {
	return &JSONFileLogger{
		path:  path,
		clock: clock,
	}
}

// Notify appends the message as a single JSON line to the audit file.
func (l *JSONFileLogger) Notify(message string) error {
	record := AuditRecord{
		ID:         uuid.New().String(),
		OccurredAt: l.clock().Format(time.RFC3339Nano),
		Message:    message,
	}

	recordJSON, marshalErr := jsoniter.ConfigFastest.Marshal(record)
	if marshalErr != nil {
		return errors.Join(ErrWritingAuditRecordFailed, marshalErr)
	}

	return appendToFile(l.path, append(recordJSON, '\n'))
}
