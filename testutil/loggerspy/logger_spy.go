package loggerspy

import (
	"strings"
	"sync"
)

// Spy is a Logger implementation that records every log call so tests can
// assert what the circulation gateway reported and at which level.
type Spy struct {
	records []Record
	mu      sync.Mutex
}

// Record represents one captured log call.
type Record struct {
	Level   string
	Message string
	Args    []any
}

// New creates a new Spy.
func New() *Spy {
	return &Spy{
		records: make([]Record, 0),
	}
}

// Debug implements the Logger interface for testing.
func (s *Spy) Debug(msg string, args ...any) {
	s.record("debug", msg, args)
}

// Info implements the Logger interface for testing.
func (s *Spy) Info(msg string, args ...any) {
	s.record("info", msg, args)
}

// Warn implements the Logger interface for testing.
func (s *Spy) Warn(msg string, args ...any) {
	s.record("warn", msg, args)
}

// Error implements the Logger interface for testing.
func (s *Spy) Error(msg string, args ...any) {
	s.record("error", msg, args)
}

// GetRecordCount returns the number of captured log records.
func (s *Spy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// GetRecords returns a copy of all captured log records.
func (s *Spy) GetRecords() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]Record, len(s.records))
	copy(records, s.records)

	return records
}

// Reset clears all captured log records.
func (s *Spy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// HasDebugLogContaining checks if a debug-level record contains the fragment.
func (s *Spy) HasDebugLogContaining(fragment string) bool {
	return s.hasLogContaining("debug", fragment)
}

// HasInfoLogContaining checks if an info-level record contains the fragment.
func (s *Spy) HasInfoLogContaining(fragment string) bool {
	return s.hasLogContaining("info", fragment)
}

// HasWarnLogContaining checks if a warn-level record contains the fragment.
func (s *Spy) HasWarnLogContaining(fragment string) bool {
	return s.hasLogContaining("warn", fragment)
}

// HasErrorLogContaining checks if an error-level record contains the fragment.
func (s *Spy) HasErrorLogContaining(fragment string) bool {
	return s.hasLogContaining("error", fragment)
}

func (s *Spy) record(level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, Record{
		Level:   level,
		Message: msg,
		Args:    args,
	})
}

func (s *Spy) hasLogContaining(level string, fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == level && strings.Contains(record.Message, fragment) {
			return true
		}
	}

	return false
}
