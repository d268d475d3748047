package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

const attendeesRegisteredEventName = "AttendeesRegistered"

type EventSource interface {
	ByName(ctx context.Context, eventName string) ([]entities.StoredEvent, error)
}

type OrderAttendeesReadModel interface {
	OnAttendeesRegistered(ctx context.Context, event *entities.AttendeesRegistered) error
}

// RebuildOrderAttendeesReadModel replays every AttendeesRegistered stored in
// the data lake into the read model. Replaying is idempotent.
func RebuildOrderAttendeesReadModel(ctx context.Context, dataLake EventSource, readModel OrderAttendeesReadModel) error {
	logger := log.FromContext(ctx)
	logger.Info("Rebuilding order attendees read model")

	events, err := dataLake.ByName(ctx, attendeesRegisteredEventName)
	if err != nil {
		return fmt.Errorf("could not get events from data lake: %w", err)
	}

	logger.WithField("events_count", len(events)).Info("Has events to replay")

	for _, stored := range events {
		start := time.Now()

		var event entities.AttendeesRegistered
		if err := json.Unmarshal(stored.Payload, &event); err != nil {
			return fmt.Errorf("could not unmarshal event %s: %w", stored.EventID, err)
		}

		if err := readModel.OnAttendeesRegistered(ctx, &event); err != nil {
			return fmt.Errorf("could not replay event %s: %w", stored.EventID, err)
		}

		logger.WithFields(logrus.Fields{
			"event_id": stored.EventID,
			"order_id": event.OrderID,
			"duration": time.Since(start),
		}).Debug("Event replayed")
	}

	return nil
}
