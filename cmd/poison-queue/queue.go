package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
)

var ErrMessageNotFound = errors.New("message not found")

type PoisonedMessage struct {
	StreamID      string
	ID            string
	Reason        string
	OriginalTopic string
	Handler       string
}

// Queue reads the poison queue stream directly, so previewing it doesn't
// consume anything.
type Queue struct {
	client    redis.Cmdable
	topic     string
	publisher message.Publisher

	unmarshaller redisstream.DefaultMarshallerUnmarshaller
}

func NewQueue(client redis.Cmdable, topic string, publisher message.Publisher) *Queue {
	return &Queue{
		client:    client,
		topic:     topic,
		publisher: publisher,
	}
}

func (q *Queue) Preview(ctx context.Context) ([]PoisonedMessage, error) {
	entries, err := q.client.XRange(ctx, q.topic, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", q.topic, err)
	}

	messages := make([]PoisonedMessage, 0, len(entries))
	for _, entry := range entries {
		msg, err := q.unmarshaller.Unmarshal(entry.Values)
		if err != nil {
			return nil, fmt.Errorf("could not unmarshal entry %s: %w", entry.ID, err)
		}

		messages = append(messages, poisonedMessage(entry.ID, msg))
	}

	return messages, nil
}

func (q *Queue) Remove(ctx context.Context, messageID string) error {
	poisoned, _, err := q.find(ctx, messageID)
	if err != nil {
		return err
	}

	return q.delete(ctx, poisoned)
}

// Requeue publishes the message back to the topic it failed on and drops it
// from the poison queue.
func (q *Queue) Requeue(ctx context.Context, messageID string) error {
	poisoned, msg, err := q.find(ctx, messageID)
	if err != nil {
		return err
	}
	if poisoned.OriginalTopic == "" {
		return fmt.Errorf("message %s has no original topic", messageID)
	}

	requeued := message.NewMessage(msg.UUID, msg.Payload)
	for key, value := range msg.Metadata {
		switch key {
		case middleware.ReasonForPoisonedKey, middleware.PoisonedTopicKey, middleware.PoisonedHandlerKey, middleware.PoisonedSubscriberKey:
			continue
		}
		requeued.Metadata.Set(key, value)
	}

	if err := q.publisher.Publish(poisoned.OriginalTopic, requeued); err != nil {
		return fmt.Errorf("could not requeue message %s: %w", messageID, err)
	}

	return q.delete(ctx, poisoned)
}

func (q *Queue) find(ctx context.Context, messageID string) (PoisonedMessage, *message.Message, error) {
	entries, err := q.client.XRange(ctx, q.topic, "-", "+").Result()
	if err != nil {
		return PoisonedMessage{}, nil, fmt.Errorf("could not read %s: %w", q.topic, err)
	}

	for _, entry := range entries {
		msg, err := q.unmarshaller.Unmarshal(entry.Values)
		if err != nil || msg.UUID != messageID {
			continue
		}

		return poisonedMessage(entry.ID, msg), msg, nil
	}

	return PoisonedMessage{}, nil, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
}

func (q *Queue) delete(ctx context.Context, poisoned PoisonedMessage) error {
	if err := q.client.XDel(ctx, q.topic, poisoned.StreamID).Err(); err != nil {
		return fmt.Errorf("could not remove message %s: %w", poisoned.ID, err)
	}
	return nil
}

func poisonedMessage(streamID string, msg *message.Message) PoisonedMessage {
	return PoisonedMessage{
		StreamID:      streamID,
		ID:            msg.UUID,
		Reason:        msg.Metadata.Get(middleware.ReasonForPoisonedKey),
		OriginalTopic: msg.Metadata.Get(middleware.PoisonedTopicKey),
		Handler:       msg.Metadata.Get(middleware.PoisonedHandlerKey),
	}
}
