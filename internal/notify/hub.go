package notify

import (
	"errors"
)

// Subscriber is the capability to receive a text notification about a
// circulation event. Implementations decide where the message ends up.
type Subscriber interface {
	Notify(message string) error
}

// Hub holds the ordered list of subscribers interested in circulation
// events. The zero value is not usable, construct it with NewHub.
type Hub struct {
	subscribers []Subscriber
}

// NewHub creates a Hub with no subscribers registered yet.
func NewHub() *Hub {
	return &Hub{
		subscribers: make([]Subscriber, 0),
	}
}

// Register appends a subscriber to the notification list.
func (h *Hub) Register(subscriber Subscriber) {
	h.subscribers = append(h.subscribers, subscriber)
}

// Publish delivers the message to every subscriber in registration order.
// Dispatch stops at the first failing subscriber and returns its error,
// so an unwritable audit target surfaces instead of being swallowed.
func (h *Hub) Publish(message string) error {
	for _, subscriber := range h.subscribers {
		if notifyErr := subscriber.Notify(message); notifyErr != nil {
			return errors.Join(ErrNotifyingSubscriberFailed, notifyErr)
		}
	}

	return nil
}
