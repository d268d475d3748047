package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"attendees/clock"
	"attendees/entities"
	"attendees/message/event"
	"attendees/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
)

type AttendeeRepository struct {
	db    *DB
	clock clock.Clock
}

func NewAttendeeRepository(db *DB, clk clock.Clock) AttendeeRepository {
	if db == nil {
		panic("db is nil")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}

	return AttendeeRepository{
		db:    db,
		clock: clk,
	}
}

type fieldRow struct {
	OrderID string `db:"order_id"`
	FieldID string `db:"field_id"`
	Value   string `db:"value"`
}

type orderRow struct {
	OrderID      string    `db:"order_id"`
	TicketCount  int       `db:"ticket_count"`
	RegisteredAt time.Time `db:"registered_at"`
}

// Register stores the attendees of an order and emits AttendeesRegistered
// through the outbox in the same transaction. An order is registered once.
func (r AttendeeRepository) Register(ctx context.Context, registration entities.AttendeeRegistration) (entities.OrderAttendees, error) {
	registered := entities.OrderAttendees{
		OrderID:      registration.OrderID,
		TicketCount:  registration.TicketCount,
		Attendees:    registration.Attendees(),
		RegisteredAt: r.clock.Now(),
	}

	err := updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO
					order_attendees (order_id, ticket_count, registered_at)
				VALUES
					(:order_id, :ticket_count, :registered_at)
			`, orderRow{
				OrderID:      registered.OrderID,
				TicketCount:  registered.TicketCount,
				RegisteredAt: registered.RegisteredAt,
			})
			if isErrorUniqueViolation(err) {
				return entities.ErrAttendeesAlreadyRegistered
			}
			if err != nil {
				return fmt.Errorf("could not insert order attendees: %w", err)
			}

			rows := fieldRows(registration)
			if len(rows) > 0 {
				_, err = tx.NamedExecContext(ctx, `
					INSERT INTO
						order_ticket_fields (order_id, field_id, value)
					VALUES
						(:order_id, :field_id, :value)
				`, rows)
				if err != nil {
					return fmt.Errorf("could not insert ticket fields: %w", err)
				}
			}

			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create event bus: %w", err)
			}

			bus, err := event.NewBus(outboxPublisher, log.NewWatermill(log.FromContext(ctx)))
			if err != nil {
				return fmt.Errorf("could not create event bus: %w", err)
			}

			header := entities.NewEventHeaderWithIdempotencyKey("attendees-registered-" + registered.OrderID)
			header.PublishedAt = registered.RegisteredAt

			err = bus.Publish(ctx, entities.AttendeesRegistered{
				Header:      header,
				OrderID:     registered.OrderID,
				TicketCount: registered.TicketCount,
				Attendees:   registered.Attendees,
			})
			if err != nil {
				return fmt.Errorf("could not publish attendees registered: %w", err)
			}

			return nil
		},
	)
	if err != nil {
		return entities.OrderAttendees{}, err
	}

	return registered, nil
}

// fieldRows skips empty values, so an order never stores blank meta.
func fieldRows(registration entities.AttendeeRegistration) []fieldRow {
	var rows []fieldRow
	for key, value := range registration.Values {
		if value == "" || key.Ticket > registration.TicketCount {
			continue
		}
		rows = append(rows, fieldRow{OrderID: registration.OrderID, FieldID: key.ID(), Value: value})
	}
	for key, value := range registration.InternationalPhones {
		if value == "" || key.Ticket > registration.TicketCount {
			continue
		}
		rows = append(rows, fieldRow{OrderID: registration.OrderID, FieldID: key.InternationalPhoneID(), Value: value})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].FieldID < rows[j].FieldID
	})

	return rows
}

func (r AttendeeRepository) Get(ctx context.Context, orderID string) (entities.OrderAttendees, error) {
	var order orderRow
	err := r.db.Conn.GetContext(ctx, &order, `
		SELECT
			order_id, ticket_count, registered_at
		FROM
			order_attendees
		WHERE
			order_id = $1
	`, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OrderAttendees{}, entities.ErrOrderAttendeesNotFound
	}
	if err != nil {
		return entities.OrderAttendees{}, fmt.Errorf("could not get order attendees: %w", err)
	}

	var rows []fieldRow
	err = r.db.Conn.SelectContext(ctx, &rows, `
		SELECT
			order_id, field_id, value
		FROM
			order_ticket_fields
		WHERE
			order_id = $1
	`, orderID)
	if err != nil {
		return entities.OrderAttendees{}, fmt.Errorf("could not get ticket fields: %w", err)
	}

	values := map[entities.FieldKey]string{}
	internationalPhones := map[entities.FieldKey]string{}
	for _, row := range rows {
		if key, ok := entities.ParseInternationalPhoneID(row.FieldID); ok {
			internationalPhones[key] = row.Value
			continue
		}

		key, err := entities.ParseFieldKey(row.FieldID)
		if err != nil {
			log.FromContext(ctx).WithField("field_id", row.FieldID).Warn("Skipping unknown stored ticket field")
			continue
		}
		values[key] = row.Value
	}

	return entities.OrderAttendees{
		OrderID:      order.OrderID,
		TicketCount:  order.TicketCount,
		Attendees:    entities.AttendeesFromValues(order.TicketCount, values, internationalPhones),
		RegisteredAt: order.RegisteredAt.UTC(),
	}, nil
}
