// Package cache keeps ticket field values between page loads so a checkout
// can be resumed with the attendee data already typed.
package cache

import (
	"context"
	"time"

	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

const DefaultTTLDays = 7

// ValueStore caches one value per field. Entries are independent: there is
// no guarantee that a set of fields written together is read back together.
type ValueStore interface {
	// Get returns the cached value, or false when nothing usable is cached.
	Get(ctx context.Context, key entities.FieldKey) (string, bool)
	// Set overwrites the value; ttlDays <= 0 means DefaultTTLDays.
	Set(ctx context.Context, key entities.FieldKey, value string, ttlDays int) error
}

func ttl(days int) time.Duration {
	if days <= 0 {
		days = DefaultTTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Restore returns the cached values of keys that have one.
func Restore(ctx context.Context, store ValueStore, keys []entities.FieldKey) map[entities.FieldKey]string {
	restored := make(map[entities.FieldKey]string, len(keys))
	for _, key := range keys {
		value, ok := store.Get(ctx, key)
		if !ok || value == "" {
			continue
		}
		restored[key] = value
	}
	return restored
}

// CacheAll writes every value, continuing past failures. A value that
// could not be cached is only restored later as absent, so failures are
// logged and not returned.
func CacheAll(ctx context.Context, store ValueStore, values map[entities.FieldKey]string, ttlDays int) {
	for key, value := range values {
		if err := store.Set(ctx, key, value, ttlDays); err != nil {
			log.FromContext(ctx).WithError(err).WithField("field_id", key.ID()).Warn("Could not cache ticket field")
		}
	}
}
