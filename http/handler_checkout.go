package http

import (
	"net/http"

	"attendees/cache"
	"attendees/checkout"
	"attendees/entities"
	"attendees/fields"
	"attendees/metrics"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

func (h Handler) PostCheckoutSteps(c echo.Context) error {
	var req StepsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StepsResponse{
		Steps: checkout.WithTicketStep(req.Steps, entities.TicketCount(req.LineItems)),
	})
}

func (h Handler) PostTicketFields(c echo.Context) error {
	var req TicketFieldsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	ticketCount := entities.TicketCount(req.LineItems)
	keys := fields.Resolve(ticketCount)

	restored := cache.Restore(ctx, h.sessionStore(c, c.Param("session_id")), keys)
	messages := h.validator.Messages()

	return c.JSON(http.StatusOK, TicketFieldsResponse{
		TicketCount: ticketCount,
		Fields: lo.Map(keys, func(key entities.FieldKey, _ int) TicketField {
			return TicketField{
				ID:     key.ID(),
				Kind:   key.Kind,
				Ticket: key.Ticket,
				Label:  messages.Label(key.Kind),
				Title:  messages.Ticket(key.Ticket),
				Value:  restored[key],
			}
		}),
	})
}

func (h Handler) PutTicketField(c echo.Context) error {
	var req PutTicketFieldRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	fieldID := c.Param("field_id")
	key, err := entities.ParseFieldKey(fieldID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	err = h.sessionStore(c, c.Param("session_id")).Set(ctx, key, req.Value, h.cacheTTLDays)
	if err != nil {
		// the value is still submitted with the step, a lost cache entry only
		// costs a restore
		log.FromContext(ctx).WithError(err).WithField("field_id", fieldID).Warn("Could not cache ticket field")
	}

	return c.NoContent(http.StatusNoContent)
}

// PostTicketStep is the attempt to leave the ticket step.
func (h Handler) PostTicketStep(c echo.Context) error {
	var req TicketValuesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	values, _, err := parseValues(req.Values)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	ticketCount := entities.TicketCount(req.LineItems)
	store := h.sessionStore(c, c.Param("session_id"))

	cache.CacheAll(ctx, store, values, h.cacheTTLDays)

	missing := lo.Filter(fields.Resolve(ticketCount), func(key entities.FieldKey, _ int) bool {
		_, ok := values[key]
		return !ok
	})
	for key, value := range cache.Restore(ctx, store, missing) {
		values[key] = value
	}

	// validated as it will be on submission
	gate := checkout.NewStepGate(h.validator)
	result, passed := gate.Attempt(ticketCount, fields.MapReader(fields.SanitizeValues(values)))
	recordValidation(result, passed)

	log.FromContext(ctx).
		WithField("ticket_count", ticketCount).
		WithField("state", gate.State().String()).
		Debug("Ticket step attempted")

	status := http.StatusOK
	if !passed {
		status = http.StatusUnprocessableEntity
	}

	return c.JSON(status, TicketStepResponse{
		State:  gate.State().String(),
		Result: result,
	})
}

func recordValidation(result entities.ValidationResult, passed bool) {
	metrics.TicketStepAttempts.WithLabelValues(metrics.Outcome(passed)).Inc()

	for key, messages := range result.FieldMessages {
		metrics.FieldMessages.WithLabelValues(string(key.Kind)).Add(float64(len(messages)))
	}
}
