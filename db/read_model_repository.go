package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"attendees/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
)

// OrderAttendeesReadModel is the admin view of an order's attendees, built
// from AttendeesRegistered.
type OrderAttendeesReadModel struct {
	db *DB
}

func NewOrderAttendeesReadModel(db *DB) OrderAttendeesReadModel {
	if db == nil {
		panic("db is nil")
	}

	return OrderAttendeesReadModel{db: db}
}

func (r OrderAttendeesReadModel) OnAttendeesRegistered(ctx context.Context, event *entities.AttendeesRegistered) error {
	return updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			existing, err := r.findByOrderID(ctx, tx, event.OrderID)
			switch {
			case errors.Is(err, entities.ErrOrderAttendeesNotFound):
			case err != nil:
				return err
			case !existing.RegisteredAt.Before(event.Header.PublishedAt):
				// redelivered or older event
				log.FromContext(ctx).WithField("order_id", event.OrderID).Debug("Read model already up to date")
				return nil
			}

			payload, err := json.Marshal(entities.OrderAttendees{
				OrderID:      event.OrderID,
				TicketCount:  event.TicketCount,
				Attendees:    event.Attendees,
				RegisteredAt: event.Header.PublishedAt,
			})
			if err != nil {
				return fmt.Errorf("could not marshal read model: %w", err)
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO
					read_model_order_attendees (order_id, payload)
				VALUES
					($1, $2)
				ON CONFLICT (order_id) DO UPDATE SET payload = excluded.payload;
			`, event.OrderID, payload)
			if err != nil {
				return fmt.Errorf("could not update read model: %w", err)
			}

			return nil
		},
	)
}

func (r OrderAttendeesReadModel) GetByOrderID(ctx context.Context, orderID string) (entities.OrderAttendees, error) {
	return r.findByOrderID(ctx, r.db.Conn, orderID)
}

func (r OrderAttendeesReadModel) findByOrderID(ctx context.Context, q sqlx.QueryerContext, orderID string) (entities.OrderAttendees, error) {
	var payload []byte
	err := q.QueryRowxContext(
		ctx,
		"SELECT payload FROM read_model_order_attendees WHERE order_id = $1",
		orderID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OrderAttendees{}, entities.ErrOrderAttendeesNotFound
	}
	if err != nil {
		return entities.OrderAttendees{}, fmt.Errorf("could not get read model: %w", err)
	}

	var model entities.OrderAttendees
	if err := json.Unmarshal(payload, &model); err != nil {
		return entities.OrderAttendees{}, fmt.Errorf("could not unmarshal read model: %w", err)
	}
	if model.Attendees == nil {
		model.Attendees = []entities.Attendee{}
	}

	return model, nil
}
