package notify

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// DefaultTextLogPath is where circulation events are appended when no
	// other path is configured.
	DefaultTextLogPath = "library_log.txt"

	textLogTimestampLayout = "2006-01-02 15:04:05.000000"
	auditFilePermissions   = 0o644
)

// TextFileLogger is the production subscriber: it appends one line per
// circulation event to a plain text log file, formatted as
// "<timestamp>: <message>". The file is created on first use and only ever
// appended to.
type TextFileLogger struct {
	path  string
	clock func() time.Time
}

// NewTextFileLogger creates a TextFileLogger appending to the given path.
func NewTextFileLogger(path string) *TextFileLogger {
	return NewTextFileLoggerWithClock(path, time.Now)
}

// NewTextFileLoggerWithClock creates a TextFileLogger with an injected time
// source, so tests get stable timestamps.
func NewTextFileLoggerWithClock(path string, clock func() time.Time) *TextFileLogger {
	return &TextFileLogger{
		path:  path,
		clock: clock,
	}
}

// Notify appends the timestamped message to the log file.
func (l *TextFileLogger) Notify(message string) error {
	line := fmt.Sprintf("%s: %s\n", l.clock().Format(textLogTimestampLayout), message)

	return appendToFile(l.path, []byte(line))
}

// appendToFile writes data to the end of the file at path, creating the
// file if it does not exist yet.
func appendToFile(path string, data []byte) error {
	auditFile, openErr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, auditFilePermissions)
	if openErr != nil {
		return errors.Join(ErrWritingAuditRecordFailed, openErr)
	}

	if _, writeErr := auditFile.Write(data); writeErr != nil {
		_ = auditFile.Close() // the write error is the one that matters

		return errors.Join(ErrWritingAuditRecordFailed, writeErr)
	}

	if closeErr := auditFile.Close(); closeErr != nil {
		return errors.Join(ErrWritingAuditRecordFailed, closeErr)
	}

	return nil
}
