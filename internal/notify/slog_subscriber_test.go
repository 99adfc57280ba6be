package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circdesk/circdesk/internal/notify"
	"github.com/circdesk/circdesk/testutil/loggerspy"
)

func Test_SlogSubscriber_Notify_MirrorsTheMessageAtInfoLevel(t *testing.T) {
	// arrange
	spy := loggerspy.New()
	subscriber := notify.NewSlogSubscriber(spy)

	// act
	err := subscriber.Notify("Book ID 5 borrowed by alice.")

	// assert
	assert.NoError(t, err)
	assert.True(t, spy.HasInfoLogContaining("circulation event"))

	records := spy.GetRecords()
	assert.Len(t, records, 1)
	assert.Equal(t, []any{"message", "Book ID 5 borrowed by alice."}, records[0].Args)
}
