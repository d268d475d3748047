package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"attendees/checkout"
	"attendees/entities"
	"attendees/fields"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// PostOrderAttendees validates the submitted ticket data once more and
// stores it on the order.
func (h Handler) PostOrderAttendees(c echo.Context) error {
	var req TicketValuesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	values, internationalPhones, err := parseValues(req.Values)
	if err != nil {
		return err
	}

	values = fields.SanitizeValues(values)
	internationalPhones = fields.SanitizeValues(internationalPhones)

	ticketCount := entities.TicketCount(req.LineItems)

	result := h.validator.Validate(ticketCount, fields.MapReader(values))
	recordValidation(result, result.IsValid)
	if !result.IsValid {
		return c.JSON(http.StatusUnprocessableEntity, TicketStepResponse{
			State:  checkout.StepBlocked.String(),
			Result: result,
		})
	}

	orderID := c.Param("order_id")
	ctx := c.Request().Context()

	registered, err := h.attendeeRepo.Register(ctx, entities.AttendeeRegistration{
		OrderID:             orderID,
		TicketCount:         ticketCount,
		Values:              values,
		InternationalPhones: internationalPhones,
	})
	if errors.Is(err, entities.ErrAttendeesAlreadyRegistered) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return fmt.Errorf("could not register attendees of order %s: %w", orderID, err)
	}

	log.FromContext(ctx).WithField("order_id", orderID).WithField("ticket_count", ticketCount).Info("Attendees registered")

	return c.JSON(http.StatusCreated, registered)
}

// GetOrderAttendees is the admin view. The read model may lag behind the
// registration, so the stored fields are used until it catches up.
func (h Handler) GetOrderAttendees(c echo.Context) error {
	orderID := c.Param("order_id")
	ctx := c.Request().Context()

	order, err := h.readModel.GetByOrderID(ctx, orderID)
	if errors.Is(err, entities.ErrOrderAttendeesNotFound) {
		order, err = h.attendeeRepo.Get(ctx, orderID)
	}
	if errors.Is(err, entities.ErrOrderAttendeesNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return fmt.Errorf("could not get attendees of order %s: %w", orderID, err)
	}

	if order.TicketCount == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "order has no tickets")
	}

	messages := h.validator.Messages()

	return c.JSON(http.StatusOK, AdminOrderAttendeesResponse{
		OrderID:      order.OrderID,
		TicketCount:  order.TicketCount,
		RegisteredAt: order.RegisteredAt.UTC().Format(time.RFC3339),
		Attendees: lo.Map(order.Attendees, func(attendee entities.Attendee, _ int) AdminAttendee {
			return AdminAttendee{
				Ticket:   attendee.Ticket,
				Title:    messages.Ticket(attendee.Ticket),
				Name:     strings.TrimSpace(attendee.FirstName + " " + attendee.LastName),
				Document: attendee.Document,
				Phone:    attendee.DisplayPhone(),
				Email:    attendee.Email,
			}
		}),
	})
}
