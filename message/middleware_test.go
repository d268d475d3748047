package message

import (
	"errors"
	"fmt"
	"testing"

	"attendees/entities"
	"attendees/message/event"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPermanent(t *testing.T) {
	assert.True(t, isPermanent(event.MalformedEventError{Err: errors.New("boom")}))
	assert.True(t, isPermanent(fmt.Errorf("wrapped: %w", entities.ValidationFailure{})))
	assert.False(t, isPermanent(errors.New("connection refused")))
	assert.False(t, isPermanent(nil))
}

func TestCorrelationIDMiddleware(t *testing.T) {
	handler := func(msg *message.Message) ([]*message.Message, error) {
		return nil, errors.New(log.CorrelationIDFromContext(msg.Context()))
	}

	t.Run("propagated from metadata", func(t *testing.T) {
		msg := message.NewMessage(watermill.NewUUID(), nil)
		msg.Metadata.Set("correlation_id", "abc")

		_, err := correlationIDMiddleware(handler)(msg)
		require.Error(t, err)
		assert.Equal(t, "abc", err.Error())
	})

	t.Run("generated when missing", func(t *testing.T) {
		msg := message.NewMessage(watermill.NewUUID(), nil)

		_, err := correlationIDMiddleware(handler)(msg)
		require.Error(t, err)
		assert.NotEmpty(t, err.Error())
	})
}
