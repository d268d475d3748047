package event

import (
	"fmt"

	"attendees/entities"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	externalTopicPrefix = "events."
	internalTopicPrefix = "internal-events.svc-attendees."
)

// Topic is where events named eventName are published and consumed.
func Topic(event entities.IEvent, eventName string) string {
	if event.IsInternal() {
		return internalTopicPrefix + eventName
	}
	return externalTopicPrefix + eventName
}

func NewBus(pub message.Publisher, logger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				event, ok := params.Event.(entities.IEvent)
				if !ok {
					return "", fmt.Errorf("invalid event type: %T doesn't implement entities.IEvent", params.Event)
				}

				return Topic(event, params.EventName), nil
			},
			Marshaler: Marshaler,
			Logger:    logger,
		},
	)
}
