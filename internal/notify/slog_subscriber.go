package notify

const (
	logMsgCirculationEvent = "circulation event"
	logAttrMessage         = "message"
)

// InfoLogger is the part of a structured logger the slog subscriber needs.
// *slog.Logger satisfies it directly.
type InfoLogger interface {
	Info(msg string, args ...any)
}

// SlogSubscriber mirrors circulation events into the process logger at info
// level, so the audit trail also shows up in operational logs.
type SlogSubscriber struct {
	logger InfoLogger
}

// NewSlogSubscriber creates a SlogSubscriber writing to the given logger.
func NewSlogSubscriber(logger InfoLogger) *SlogSubscriber {
	return &SlogSubscriber{
		logger: logger,
	}
}

// Notify logs the message; it never fails.
func (s *SlogSubscriber) Notify(message string) error {
	s.logger.Info(logMsgCirculationEvent, logAttrMessage, message)

	return nil
}
