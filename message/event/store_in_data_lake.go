package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
)

type storedEventHeader struct {
	Header entities.EventHeader `json:"header"`
}

// StoreInDataLake keeps a raw copy of every published event.
func (h Handler) StoreInDataLake(msg *message.Message) error {
	var event storedEventHeader
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return MalformedEventError{Err: fmt.Errorf("could not unmarshal event header: %w", err)}
	}
	if event.Header.ID == "" {
		return MalformedEventError{Err: errors.New("event without id")}
	}

	name := Marshaler.NameFromMessage(msg)
	log.FromContext(msg.Context()).WithField("event_name", name).Debug("Storing event in data lake")

	return h.dataLake.Create(msg.Context(), entities.StoredEvent{
		EventID:     event.Header.ID,
		PublishedAt: event.Header.PublishedAt,
		EventName:   name,
		Payload:     msg.Payload,
	})
}
