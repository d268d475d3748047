package cache

import (
	"context"
	"errors"
	"fmt"

	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/redis/go-redis/v9"
)

// RedisStore caches the fields of one checkout session.
type RedisStore struct {
	client    redis.Cmdable
	sessionID string
}

func NewRedisStore(client redis.Cmdable, sessionID string) RedisStore {
	if client == nil {
		panic("redis client is nil")
	}
	return RedisStore{
		client:    client,
		sessionID: sessionID,
	}
}

func (s RedisStore) redisKey(key entities.FieldKey) string {
	return fmt.Sprintf("ticket_fields:%s:%s", s.sessionID, key.ID())
}

func (s RedisStore) Get(ctx context.Context, key entities.FieldKey) (string, bool) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.FromContext(ctx).WithError(err).WithField("field_id", key.ID()).Warn("Could not read cached ticket field")
		return "", false
	}
	return value, true
}

func (s RedisStore) Set(ctx context.Context, key entities.FieldKey, value string, ttlDays int) error {
	err := s.client.Set(ctx, s.redisKey(key), value, ttl(ttlDays)).Err()
	if err != nil {
		return fmt.Errorf("could not cache field %s: %w", key.ID(), err)
	}
	return nil
}
