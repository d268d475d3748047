package db

import (
	"context"
	"fmt"

	"attendees/entities"
)

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

func (e EventRepository) Create(ctx context.Context, event entities.StoredEvent) error {
	_, err := e.db.Conn.NamedExecContext(ctx, `
		INSERT INTO
			events (event_id, published_at, event_name, event_payload)
		VALUES
			(:event_id, :published_at, :event_name, :event_payload)
		ON CONFLICT (event_id) DO NOTHING;
	`, event)
	if err != nil {
		return fmt.Errorf("could not store event %s: %w", event.EventID, err)
	}

	return nil
}

// ByName returns stored events of one kind ordered by publication.
func (e EventRepository) ByName(ctx context.Context, eventName string) ([]entities.StoredEvent, error) {
	var events []entities.StoredEvent
	err := e.db.Conn.SelectContext(ctx, &events, `
		SELECT
			event_id, published_at, event_name, event_payload
		FROM
			events
		WHERE
			event_name = $1
		ORDER BY
			published_at ASC
	`, eventName)
	if err != nil {
		return nil, fmt.Errorf("could not get events: %w", err)
	}

	return events, nil
}
