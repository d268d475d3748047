package message

import (
	"fmt"

	"attendees/entities"
	"attendees/message/event"
	"attendees/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

const dataLakeHandlerName = "StoreAttendeesRegisteredInDataLake"

// DataLakeTopics are the topics copied verbatim into the data lake.
var DataLakeTopics = []string{
	event.Topic(entities.AttendeesRegistered{}, "AttendeesRegistered"),
}

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	dataLakeSubscriber message.Subscriber,
	publisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}

	if err := useMiddlewares(router, publisher, watermillLogger); err != nil {
		return nil, fmt.Errorf("could not set up middlewares: %w", err)
	}

	_, err = outbox.NewForwarder(pgSubscriber, publisher, watermillLogger, router)
	if err != nil {
		return nil, fmt.Errorf("could not create outbox forwarder: %w", err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, fmt.Errorf("could not create event processor: %w", err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"ProjectOrderAttendees",
			eventHandler.ProjectOrderAttendees,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("could not add event handlers: %w", err)
	}

	for _, topic := range DataLakeTopics {
		router.AddNoPublisherHandler(
			dataLakeHandlerName+"_"+topic,
			topic,
			dataLakeSubscriber,
			eventHandler.StoreInDataLake,
		)
	}

	return router, nil
}
