package notify_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circdesk/circdesk/internal/notify"
)

func Test_Hub_Publish_DispatchesInRegistrationOrder(t *testing.T) {
	// arrange
	journal := make([]string, 0)
	hub := notify.NewHub()
	hub.Register(&subscriberSpy{name: "first", journal: &journal})
	hub.Register(&subscriberSpy{name: "second", journal: &journal})
	hub.Register(&subscriberSpy{name: "third", journal: &journal})

	// act
	err := hub.Publish("Book ID 5 borrowed by alice.")

	// assert
	assert.NoError(t, err)
	assert.Equal(
		t,
		[]string{
			"first: Book ID 5 borrowed by alice.",
			"second: Book ID 5 borrowed by alice.",
			"third: Book ID 5 borrowed by alice.",
		},
		journal,
	)
}

func Test_Hub_Publish_StopsAtFirstFailingSubscriber(t *testing.T) {
	// arrange
	journal := make([]string, 0)
	brokenSubscriberErr := errors.New("log target is unwritable")

	hub := notify.NewHub()
	hub.Register(&subscriberSpy{name: "first", journal: &journal})
	hub.Register(&subscriberSpy{name: "second", journal: &journal, failWith: brokenSubscriberErr})
	hub.Register(&subscriberSpy{name: "third", journal: &journal})

	// act
	err := hub.Publish("Book ID 5 returned to the library.")

	// assert
	assert.Error(t, err)
	assert.ErrorIs(t, err, notify.ErrNotifyingSubscriberFailed)
	assert.ErrorIs(t, err, brokenSubscriberErr)
	assert.Equal(t, []string{"first: Book ID 5 returned to the library."}, journal,
		"subscribers after the failing one must not be notified")
}

func Test_Hub_Publish_Succeeds_WithNoSubscribers(t *testing.T) {
	// arrange
	hub := notify.NewHub()

	// act
	err := hub.Publish("Book ID 5 borrowed by alice.")

	// assert
	assert.NoError(t, err)
}

// subscriberSpy records the messages it receives in a shared journal, so
// tests can assert the dispatch order across multiple subscribers.
type subscriberSpy struct {
	name     string
	journal  *[]string
	failWith error
}

func (s *subscriberSpy) Notify(message string) error {
	if s.failWith != nil {
		return s.failWith
	}

	*s.journal = append(*s.journal, s.name+": "+message)

	return nil
}
