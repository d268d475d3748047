package cache

import (
	"context"
	"errors"

	"attendees/entities"
)

// Layered reads from the first store that has a value and writes to all of them.
type Layered []ValueStore

func (l Layered) Get(ctx context.Context, key entities.FieldKey) (string, bool) {
	for _, store := range l {
		if value, ok := store.Get(ctx, key); ok {
			return value, true
		}
	}
	return "", false
}

func (l Layered) Set(ctx context.Context, key entities.FieldKey, value string, ttlDays int) error {
	var errs []error
	for _, store := range l {
		if err := store.Set(ctx, key, value, ttlDays); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
