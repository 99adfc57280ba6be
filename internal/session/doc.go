// Package session drives one interactive circulation session at the desk.
//
// The Controller walks a user through the states Unauthenticated ->
// Authenticated(role) -> menu loop -> Terminated. A failed login terminates
// the session immediately; an authenticated user gets a numeric menu whose
// options depend on the role held in the session value. Every successful
// borrow or return is published to the notification hub.
//
// The controller owns no policy of its own: role permissions live on
// core.Role, persistence behind the Gateway interface, and audit fan-out
// behind the Notifier interface.
package session
