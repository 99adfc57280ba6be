// Package notify fans out text notifications about successful circulation
// actions to an ordered list of subscribers.
//
// The session controller publishes one message per successful borrow or
// return through a Hub. Subscribers implement a single capability, receiving
// a text message, and are dispatched in registration order. A failing
// subscriber stops the dispatch and surfaces its error to the caller: the
// audit trail is not allowed to break silently.
//
// Three subscriber variants ship with the circulation desk:
//   - TextFileLogger, the production audit log (one timestamped line per event)
//   - JSONFileLogger, an optional structured audit trail with per-record ids
//   - SlogSubscriber, mirroring events into the process logger
package notify
